package model

// Path represents a file system path.
type Path string

// ProjectDescriptor describes one scanned Cargo project: the invoking root
// project or one of its workspace members.
type ProjectDescriptor struct {
	RootPath    Path
	PackageName string
	// CrateName is PackageName normalised to a Rust identifier ("-" -> "_").
	CrateName  string
	SourceRoot Path
	// EntryFile is src/main.rs or src/lib.rs. Empty means nothing to scan.
	EntryFile Path
	IsRoot    bool
}

// Qualifier returns the first module-path segment for declarations found in
// this project: the root marker for the invoking crate, the crate name for
// workspace members.
func (p ProjectDescriptor) Qualifier() string {
	if p.IsRoot {
		return RootMarker
	}

	return p.CrateName
}

// SourceFile is a candidate file produced by the tree scanner.
type SourceFile struct {
	Path Path
	// RelPath is relative to the project root, always with forward slashes.
	RelPath string
	Size    int64
	IsEntry bool
}
