package domain

import (
	"context"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"routegen.dev/pkg/routegen/internal/adapter"
	m "routegen.dev/pkg/routegen/internal/model"
)

// SourceExtension is the extension of scanned source files.
const SourceExtension = ".rs"

// ScanResult holds the candidate files of one project and the per-file
// conditions met while walking it.
type ScanResult struct {
	// Files is in no particular order.
	Files  []m.SourceFile
	Issues []error
}

// TreeScanner walks a project's source directory.
type TreeScanner interface {
	Scan(ctx context.Context, project m.ProjectDescriptor, rules *ScanRules) (ScanResult, error)
}

type treeScanner struct {
	adapter.SourceFSAdapter
	// workers caps the goroutines listing subdirectories during one Scan.
	workers int
}

// NewTreeScanner constructs a TreeScanner backed by fs.
func NewTreeScanner(fs adapter.SourceFSAdapter) TreeScanner {
	return newTreeScanner(fs, runtime.GOMAXPROCS(0))
}

func newTreeScanner(fs adapter.SourceFSAdapter, workers int) *treeScanner {
	if workers < 1 {
		workers = 1
	}

	return &treeScanner{SourceFSAdapter: fs, workers: workers}
}

type scanAccumulator struct {
	mu     sync.Mutex
	result ScanResult
}

func (a *scanAccumulator) merge(files []m.SourceFile, issues []error) {
	if len(files) == 0 && len(issues) == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.result.Files = append(a.result.Files, files...)
	a.result.Issues = append(a.result.Issues, issues...)
}

// Scan walks the directory containing the project's entry file. A project
// without an entry file yields an empty result.
func (s *treeScanner) Scan(ctx context.Context, project m.ProjectDescriptor, rules *ScanRules) (ScanResult, error) {
	if project.EntryFile == "" {
		return ScanResult{}, nil
	}

	w := &scanWalk{
		treeScanner: s,
		project:     project,
		rules:       rules,
		slots:       make(chan struct{}, s.workers),
		acc:         &scanAccumulator{},
	}

	if err := w.walk(ctx, m.Path(filepath.Dir(string(project.EntryFile)))); err != nil {
		return ScanResult{}, err
	}

	return w.acc.result, nil
}

// scanWalk is the state of one Scan.
type scanWalk struct {
	*treeScanner
	project m.ProjectDescriptor
	rules   *ScanRules
	// slots holds one token per running subdirectory goroutine.
	slots chan struct{}
	acc   *scanAccumulator
}

// walk lists dir and hands each subdirectory to a new goroutine while a slot
// is free, walking it inline otherwise. Only context cancellation aborts the
// walk; everything else is recorded as an issue.
func (w *scanWalk) walk(ctx context.Context, dir m.Path) error {
	project, rules, acc := w.project, w.rules, w.acc

	entries, err := w.ReadDir(ctx, dir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		acc.merge(nil, []error{&FileError{Path: dir, Kind: ErrRead, Err: err}})

		return nil
	}

	group, groupCtx := errgroup.WithContext(ctx)

	var (
		files  []m.SourceFile
		issues []error
	)

	for _, entry := range entries {
		path := w.JoinPath(string(dir), entry.Name())

		if entry.IsDir() {
			select {
			case w.slots <- struct{}{}:
				group.Go(func() error {
					defer func() { <-w.slots }()
					return w.walk(groupCtx, path)
				})
			default:
				if err := w.walk(groupCtx, path); err != nil {
					_ = group.Wait()
					return err
				}
			}

			continue
		}

		if filepath.Ext(entry.Name()) != SourceExtension {
			continue
		}

		rel, err := w.RelPath(project.RootPath, path)
		if err != nil {
			issues = append(issues, &FileError{Path: path, Kind: ErrRead, Err: err})
			continue
		}

		relSlash := filepath.ToSlash(string(rel))
		if !rules.ShouldInclude(relSlash) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			issues = append(issues, &FileError{Path: path, Kind: ErrRead, Err: err})
			continue
		}

		if rules.TooLarge(info.Size()) {
			issues = append(issues, &FileError{Path: path, Kind: ErrFileTooLarge})
			continue
		}

		files = append(files, m.SourceFile{
			Path:    path,
			RelPath: relSlash,
			Size:    info.Size(),
			IsEntry: path == project.EntryFile,
		})
	}

	acc.merge(files, issues)

	return group.Wait()
}
