package adapter

import (
	"context"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	m "routegen.dev/pkg/routegen/internal/model"
)

// ManifestFileName is the Cargo manifest looked up in every project root.
const ManifestFileName = "Cargo.toml"

// Manifest is the subset of Cargo.toml the generator reads.
type Manifest struct {
	Package   ManifestPackage   `toml:"package"`
	Workspace ManifestWorkspace `toml:"workspace"`
}

// ManifestPackage holds the [package] table.
type ManifestPackage struct {
	Name string `toml:"name"`
}

// ManifestWorkspace holds the [workspace] table.
type ManifestWorkspace struct {
	Members []string `toml:"members"`
}

// ManifestAdapter loads Cargo manifests.
type ManifestAdapter interface {
	ReadManifest(ctx context.Context, path m.Path) (*Manifest, error)
}

// TOMLManifestAdapter decodes manifests with go-toml.
type TOMLManifestAdapter struct {
	fs SourceFSAdapter
}

// NewTOMLManifestAdapter constructs a TOMLManifestAdapter reading through fs.
func NewTOMLManifestAdapter(fs SourceFSAdapter) *TOMLManifestAdapter {
	return &TOMLManifestAdapter{fs: fs}
}

// ReadManifest reads and decodes the manifest at path. Unknown tables and
// keys are ignored.
func (a *TOMLManifestAdapter) ReadManifest(ctx context.Context, path m.Path) (*Manifest, error) {
	data, err := a.fs.ReadFile(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var manifest Manifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &manifest, nil
}
