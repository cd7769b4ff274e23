package adapter

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	m "routegen.dev/pkg/routegen/internal/model"
)

// DefaultParseCacheSize bounds the number of parsed files kept in memory.
const DefaultParseCacheSize = 1024

// CachedRustFileAdapter memoizes parse results by content hash. Only
// successful parses are cached.
type CachedRustFileAdapter struct {
	next  RustFileAdapter
	cache *lru.Cache[string, []m.Item]
}

// NewCachedRustFileAdapter wraps next with an LRU of the given size.
func NewCachedRustFileAdapter(next RustFileAdapter, size int) (*CachedRustFileAdapter, error) {
	if size <= 0 {
		size = DefaultParseCacheSize
	}

	cache, err := lru.New[string, []m.Item](size)
	if err != nil {
		return nil, fmt.Errorf("creating parse cache: %w", err)
	}

	return &CachedRustFileAdapter{next: next, cache: cache}, nil
}

// Parse returns the cached items for src when available.
func (a *CachedRustFileAdapter) Parse(ctx context.Context, path m.Path, src []byte) ([]m.Item, error) {
	sum := sha256.Sum256(src)
	key := hex.EncodeToString(sum[:])

	if items, ok := a.cache.Get(key); ok {
		return items, nil
	}

	items, err := a.next.Parse(ctx, path, src)
	if err != nil {
		return nil, err
	}

	a.cache.Add(key, items)

	return items, nil
}

// Len reports the number of cached entries.
func (a *CachedRustFileAdapter) Len() int {
	return a.cache.Len()
}

// Purge drops every cached entry.
func (a *CachedRustFileAdapter) Purge() {
	a.cache.Purge()
}
