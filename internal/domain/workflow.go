// Package domain implements route discovery and registration-code generation.
package domain

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"sync"

	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"

	"routegen.dev/pkg/routegen/internal/adapter"
	"routegen.dev/pkg/routegen/internal/controller"
	m "routegen.dev/pkg/routegen/internal/model"
)

// GenerateArgs contains the arguments of one generation run.
type GenerateArgs struct {
	ManifestDir m.Path
	Patterns    []string
	Threads     uint
	// Strict makes every per-file issue and duplicate handler fatal.
	Strict         bool
	Debug          bool
	MaxFileSize    int64
	GeneratorCrate string
	Extract        ExtractOptions
	Emit           EmitOptions
	// Output, when set, receives the generated code.
	Output m.Path
	// Watch reports each run as one step of a watch session.
	Watch bool
}

// GenerateResult is the outcome of a successful run.
type GenerateResult struct {
	Code     string
	Routes   []m.RouteSummary
	Groups   []m.ModuleGroup
	Warnings []error
	// Written is false when Output already held identical content.
	Written bool
}

// Workflow drives the generator end to end.
type Workflow interface {
	Generate(ctx context.Context, args GenerateArgs) (*GenerateResult, error)
	Routes(ctx context.Context, args GenerateArgs) ([]m.RouteSummary, error)
	Check(ctx context.Context, args GenerateArgs, existing m.Path) (string, error)
}

type workflow struct {
	adapter.SourceFSAdapter
	controller.UI
	ManifestReader
	TreeScanner
	DeclarationExtractor
	CodeEmitter
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	ui controller.UI,
	manifestReader ManifestReader,
	scanner TreeScanner,
	extractor DeclarationExtractor,
	emitter CodeEmitter,
) Workflow {
	return &workflow{
		SourceFSAdapter:      fsAdapter,
		UI:                   ui,
		ManifestReader:       manifestReader,
		TreeScanner:          scanner,
		DeclarationExtractor: extractor,
		CodeEmitter:          emitter,
	}
}

type discovery struct {
	groups   []m.ModuleGroup
	routes   []m.RouteSummary
	warnings []error
}

func (w *workflow) Generate(ctx context.Context, args GenerateArgs) (*GenerateResult, error) {
	mode := controller.WithGenerateMode()
	switch {
	case args.Watch:
		mode = controller.WithWatchMode()
	case args.Output != "":
		mode = controller.WithFileOutputMode()
	}

	if err := w.Start(ctx, mode); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return nil, err
	}
	defer w.Close(ctx)

	result, err := w.generate(ctx, args)
	if err != nil {
		return nil, err
	}

	if err := w.DisplayRoutes(ctx, result.Routes); err != nil {
		return nil, fmt.Errorf("display: %w", err)
	}

	if args.Debug {
		w.DisplayGeneratedCode(ctx, result.Code)
	}

	if args.Output != "" {
		written, err := w.writeIfChanged(ctx, args.Output, result.Code)
		if err != nil {
			return nil, fmt.Errorf("write %s: %w", args.Output, err)
		}

		result.Written = written
	}

	w.Wait(ctx)

	return result, nil
}

// Routes discovers the route manifest without emitting code. Rendering is
// left to the caller so the manifest can be printed in several formats.
func (w *workflow) Routes(ctx context.Context, args GenerateArgs) ([]m.RouteSummary, error) {
	if err := w.Start(ctx, controller.WithListMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return nil, err
	}
	defer w.Close(ctx)

	found, err := w.discover(ctx, args)
	if err != nil {
		return nil, err
	}

	return found.routes, nil
}

// Check regenerates in memory and returns a unified diff against existing.
// The diff is empty when existing is up to date.
func (w *workflow) Check(ctx context.Context, args GenerateArgs, existing m.Path) (string, error) {
	if err := w.Start(ctx, controller.WithGenerateMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return "", err
	}
	defer w.Close(ctx)

	result, err := w.generate(ctx, args)
	if err != nil {
		return "", err
	}

	current, err := w.ReadFile(ctx, existing)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("read %s: %w", existing, err)
	}

	if string(current) == result.Code {
		return "", nil
	}

	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(result.Code),
		FromFile: string(existing),
		ToFile:   "generated",
		Context:  3,
	})
	if err != nil {
		return "", fmt.Errorf("diff: %w", err)
	}

	w.DisplayDiff(ctx, existing, diff)

	return diff, nil
}

func (w *workflow) generate(ctx context.Context, args GenerateArgs) (*GenerateResult, error) {
	found, err := w.discover(ctx, args)
	if err != nil {
		return nil, err
	}

	code, err := w.Emit(found.groups, found.routes, args.Emit)
	if err != nil {
		slog.Error("Failed to emit routes", "error", err)
		return nil, fmt.Errorf("emit: %w", err)
	}

	return &GenerateResult{
		Code:     code,
		Routes:   found.routes,
		Groups:   found.groups,
		Warnings: found.warnings,
	}, nil
}

// discover runs manifests, rules, scan, extraction and grouping, applying
// the error policy: issues on a project's entry file are fatal, other file
// issues are warnings unless Strict.
func (w *workflow) discover(ctx context.Context, args GenerateArgs) (*discovery, error) {
	if args.ManifestDir == "" {
		return nil, ErrNoManifestDir
	}

	rules, err := BuildScanRules(args.Patterns, RuleOptions{
		GeneratorCrate: args.GeneratorCrate,
		MaxFileSize:    args.MaxFileSize,
	})
	if err != nil {
		slog.Error("Invalid scan pattern", "error", err)
		return nil, err
	}

	projects, err := w.Read(ctx, args.ManifestDir)
	if err != nil {
		slog.Error("Failed to read manifest", "error", err)
		return nil, err
	}

	policy := &issuePolicy{strict: args.Strict}

	generator := CrateName(args.GeneratorCrate)
	if generator == "" {
		generator = DefaultGeneratorCrate
	}

	var decls []m.RouteDeclaration

	for _, project := range projects {
		if !project.IsRoot && project.CrateName == generator {
			slog.Debug("Skipping generator crate", "crate", project.CrateName)
			continue
		}

		projectDecls, err := w.discoverProject(ctx, project, rules, args, policy)
		if err != nil {
			return nil, err
		}

		decls = append(decls, projectDecls...)
	}

	groups, routes := GroupDeclarations(decls)

	for _, dup := range DuplicateHandlers(groups) {
		policy.record(ctx, w.UI, dup, false)
	}

	if err := policy.err(); err != nil {
		return nil, err
	}

	return &discovery{groups: groups, routes: routes, warnings: policy.warnings}, nil
}

func (w *workflow) discoverProject(
	ctx context.Context,
	project m.ProjectDescriptor,
	rules *ScanRules,
	args GenerateArgs,
	policy *issuePolicy,
) ([]m.RouteDeclaration, error) {
	if project.EntryFile == "" {
		slog.Debug("No entry file, nothing to scan", "project", project.PackageName)
		return nil, nil
	}

	scan, err := w.Scan(ctx, project, rules)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", project.RootPath, err)
	}

	for _, issue := range scan.Issues {
		policy.record(ctx, w.UI, issue, isEntryIssue(project, issue))
	}

	files := slices.Clone(scan.Files)
	slices.SortFunc(files, func(a, b m.SourceFile) int {
		return cmp.Compare(a.Path, b.Path)
	})

	for _, file := range files {
		w.DisplayScannedFile(ctx, file)
	}

	var (
		decls   []m.RouteDeclaration
		declsMu sync.Mutex
	)

	group, groupCtx := errgroup.WithContext(ctx)
	if args.Threads > 0 {
		group.SetLimit(int(args.Threads))
	}

	opts := args.Extract
	for _, file := range files {
		group.Go(func() error {
			fileDecls, err := w.Extract(groupCtx, project, file, opts)
			if err != nil {
				if ctxErr := groupCtx.Err(); ctxErr != nil {
					return ctxErr
				}

				policy.record(groupCtx, w.UI, err, file.IsEntry)

				return nil
			}

			declsMu.Lock()
			decls = append(decls, fileDecls...)
			declsMu.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return decls, nil
}

func isEntryIssue(project m.ProjectDescriptor, issue error) bool {
	var fileErr *FileError
	if !errors.As(issue, &fileErr) {
		return false
	}

	return fileErr.Path == project.EntryFile
}

// issuePolicy sorts per-file issues into warnings and fatal errors. It is
// safe for concurrent use.
type issuePolicy struct {
	strict   bool
	mu       sync.Mutex
	warnings []error
	fatal    []error
}

func (p *issuePolicy) record(ctx context.Context, ui controller.UI, issue error, entry bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if entry || p.strict {
		slog.Error("Fatal generation issue", "error", issue)
		p.fatal = append(p.fatal, issue)

		return
	}

	slog.Warn("Generation warning", "error", issue)
	p.warnings = append(p.warnings, issue)
	ui.DisplayWarning(ctx, issue)
}

func (p *issuePolicy) err() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return errors.Join(p.fatal...)
}

func (w *workflow) writeIfChanged(ctx context.Context, path m.Path, code string) (bool, error) {
	if current, err := w.ReadFile(ctx, path); err == nil && string(current) == code {
		slog.Debug("Generated routes unchanged", "path", path)
		return false, nil
	}

	if err := w.WriteFile(ctx, path, []byte(code), 0o644); err != nil {
		return false, err
	}

	slog.Info("Generated routes written", "path", path)

	return true, nil
}
