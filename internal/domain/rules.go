package domain

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Scan rule defaults.
const (
	NegationMarker        = "!"
	DefaultIncludePattern = "src/**/*.rs"
	DefaultGeneratorCrate = "route_codegen"
	DefaultMaxFileSize    = 10 << 20
)

// RuleOptions tunes the built-in exclusions.
type RuleOptions struct {
	// GeneratorCrate is excluded from every scan as **/<name>/**.
	GeneratorCrate string
	// MaxFileSize is the size ceiling in bytes. Zero selects the default.
	MaxFileSize int64
}

// ScanRules decides which project-relative paths are scanned. It is
// immutable once built and safe for concurrent use.
type ScanRules struct {
	Include     []string
	Exclude     []string
	MaxFileSize int64
}

// BuildScanRules splits patterns into includes and "!"-prefixed excludes,
// applies the default include and appends the built-in exclusions.
func BuildScanRules(patterns []string, opts RuleOptions) (*ScanRules, error) {
	rules := &ScanRules{MaxFileSize: opts.MaxFileSize}
	if rules.MaxFileSize <= 0 {
		rules.MaxFileSize = DefaultMaxFileSize
	}

	for _, raw := range patterns {
		pattern := strings.TrimSpace(raw)
		if pattern == "" {
			continue
		}

		if excluded, ok := strings.CutPrefix(pattern, NegationMarker); ok {
			rules.Exclude = append(rules.Exclude, normalizePattern(excluded))
			continue
		}

		rules.Include = append(rules.Include, normalizePattern(pattern))
	}

	if len(rules.Include) == 0 {
		rules.Include = []string{DefaultIncludePattern}
	}

	generator := opts.GeneratorCrate
	if generator == "" {
		generator = DefaultGeneratorCrate
	}

	rules.Exclude = append(rules.Exclude, "**/"+generator+"/**", SourceDirName+"/"+MainFileName)

	for _, pattern := range append(append([]string{}, rules.Include...), rules.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, &PatternError{Pattern: pattern, Err: doublestar.ErrBadPattern}
		}
	}

	return rules, nil
}

// TooLarge reports whether a file of size bytes exceeds the ceiling.
func (r *ScanRules) TooLarge(size int64) bool {
	return size > r.MaxFileSize
}

// ShouldInclude reports whether rel, a path relative to the project root,
// matches an include pattern and no exclude pattern.
func (r *ScanRules) ShouldInclude(rel string) bool {
	rel = filepath.ToSlash(rel)

	return matchesAny(r.Include, rel) && !matchesAny(r.Exclude, rel)
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}

	return false
}

func normalizePattern(pattern string) string {
	pattern = filepath.ToSlash(pattern)

	return strings.TrimPrefix(pattern, "./")
}
