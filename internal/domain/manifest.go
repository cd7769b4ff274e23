package domain

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"routegen.dev/pkg/routegen/internal/adapter"
	m "routegen.dev/pkg/routegen/internal/model"
)

// Conventional Cargo layout.
const (
	SourceDirName = "src"
	MainFileName  = "main.rs"
	LibFileName   = "lib.rs"
)

// ManifestReader resolves the invoking project and its workspace members.
type ManifestReader interface {
	Read(ctx context.Context, root m.Path) ([]m.ProjectDescriptor, error)
}

type manifestReader struct {
	adapter.SourceFSAdapter
	adapter.ManifestAdapter
}

// NewManifestReader constructs a ManifestReader backed by the given adapters.
func NewManifestReader(fs adapter.SourceFSAdapter, manifests adapter.ManifestAdapter) ManifestReader {
	return &manifestReader{
		SourceFSAdapter: fs,
		ManifestAdapter: manifests,
	}
}

// CrateName normalises a Cargo package name into a Rust identifier.
func CrateName(packageName string) string {
	return strings.ReplaceAll(packageName, "-", "_")
}

func (r *manifestReader) Read(ctx context.Context, root m.Path) ([]m.ProjectDescriptor, error) {
	manifestPath := r.JoinPath(string(root), adapter.ManifestFileName)

	manifest, err := r.ReadManifest(ctx, manifestPath)
	if err != nil {
		return nil, &ManifestError{Path: manifestPath, Err: err}
	}

	projects := []m.ProjectDescriptor{r.describe(ctx, root, manifest.Package.Name, true)}

	for _, member := range r.expandMembers(ctx, root, manifest.Workspace.Members) {
		project, ok := r.readMember(ctx, root, member)
		if !ok {
			continue
		}

		projects = append(projects, project)
	}

	return projects, nil
}

// expandMembers resolves glob members such as "crates/*" relative to root.
func (r *manifestReader) expandMembers(ctx context.Context, root m.Path, members []string) []string {
	var expanded []string

	seen := make(map[string]struct{}, len(members))

	for _, member := range members {
		candidates := []string{member}

		if strings.ContainsAny(member, "*?[{") {
			matches, err := r.Glob(ctx, root, filepath.ToSlash(member))
			if err != nil {
				slog.Debug("skipping workspace member pattern", "pattern", member, "error", err)
				continue
			}

			candidates = matches
		}

		for _, candidate := range candidates {
			if _, dup := seen[candidate]; dup {
				continue
			}

			seen[candidate] = struct{}{}
			expanded = append(expanded, candidate)
		}
	}

	return expanded
}

func (r *manifestReader) readMember(ctx context.Context, root m.Path, member string) (m.ProjectDescriptor, bool) {
	memberRoot := r.JoinPath(string(root), filepath.FromSlash(member))

	info, err := r.FileInfo(ctx, memberRoot)
	if err != nil || !info.IsDir() {
		slog.Debug("skipping workspace member", "member", member, "reason", "not a directory")
		return m.ProjectDescriptor{}, false
	}

	manifest, err := r.ReadManifest(ctx, r.JoinPath(string(memberRoot), adapter.ManifestFileName))
	if err != nil {
		slog.Debug("skipping workspace member", "member", member, "error", err)
		return m.ProjectDescriptor{}, false
	}

	if manifest.Package.Name == "" {
		slog.Debug("skipping workspace member", "member", member, "reason", "no package name")
		return m.ProjectDescriptor{}, false
	}

	return r.describe(ctx, memberRoot, manifest.Package.Name, false), true
}

func (r *manifestReader) describe(ctx context.Context, root m.Path, packageName string, isRoot bool) m.ProjectDescriptor {
	sourceRoot := r.JoinPath(string(root), SourceDirName)

	project := m.ProjectDescriptor{
		RootPath:    root,
		PackageName: packageName,
		CrateName:   CrateName(packageName),
		SourceRoot:  sourceRoot,
		IsRoot:      isRoot,
	}

	for _, name := range []string{MainFileName, LibFileName} {
		candidate := r.JoinPath(string(sourceRoot), name)
		if info, err := r.FileInfo(ctx, candidate); err == nil && !info.IsDir() {
			project.EntryFile = candidate
			break
		}
	}

	return project
}
