package domain

import (
	"errors"
	"fmt"

	m "routegen.dev/pkg/routegen/internal/model"
)

// Sentinel errors. Typed errors below match them with errors.Is.
var (
	ErrManifest         = errors.New("manifest error")
	ErrPattern          = errors.New("invalid scan pattern")
	ErrFileTooLarge     = errors.New("file exceeds size limit")
	ErrParse            = errors.New("parse error")
	ErrRead             = errors.New("read error")
	ErrNoManifestDir    = errors.New("manifest directory not set")
	ErrDuplicateHandler = errors.New("duplicate handler name")
)

// ManifestError reports a missing or unparsable root manifest.
type ManifestError struct {
	Path m.Path
	Err  error
}

func (e *ManifestError) Error() string {
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

func (e *ManifestError) Unwrap() []error {
	return []error{ErrManifest, e.Err}
}

// PatternError reports a scan pattern that does not compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() []error {
	return []error{ErrPattern, e.Err}
}

// FileError is a per-file failure. Kind is one of ErrRead, ErrParse or
// ErrFileTooLarge.
type FileError struct {
	Path m.Path
	Kind error
	Err  error
}

func (e *FileError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Path, e.Kind)
	}

	return fmt.Sprintf("%s: %v: %v", e.Path, e.Kind, e.Err)
}

func (e *FileError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}

	return []error{e.Kind, e.Err}
}

// DuplicateHandlerError names a handler declared more than once within one
// module group.
type DuplicateHandlerError struct {
	ModulePath []string
	Name       string
}

func (e *DuplicateHandlerError) Error() string {
	return fmt.Sprintf("handler %q declared more than once in scope %s", e.Name, m.ScopeFor(e.ModulePath))
}

func (e *DuplicateHandlerError) Unwrap() error {
	return ErrDuplicateHandler
}
