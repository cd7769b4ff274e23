// Package controller provides the human-facing output of the route generator.
package controller

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "routegen.dev/pkg/routegen/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeGenerate StartMode = iota
	ModeList
	ModeWatch
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
	// routesOnStdout is set when generated code goes to a file.
	routesOnStdout bool
}

// WithGenerateMode reports progress of a one-off generation.
func WithGenerateMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeGenerate
	}
}

// WithFileOutputMode reports a one-off generation whose code is written to a
// file, which leaves stdout free for the route table.
func WithFileOutputMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeGenerate
		c.routesOnStdout = true
	}
}

// WithListMode presents the route manifest as the main result.
func WithListMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeList
	}
}

// WithWatchMode reports repeated generations.
func WithWatchMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeWatch
	}
}

func newStartConfig(options ...StartOption) StartConfig {
	cfg := StartConfig{mode: ModeGenerate}
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// UI is the side channel for progress, warnings and the route manifest.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayScannedFile(ctx context.Context, file m.SourceFile)
	DisplayWarning(ctx context.Context, err error)
	DisplayRoutes(ctx context.Context, routes []m.RouteSummary) error
	DisplayGeneratedCode(ctx context.Context, code string)
	DisplayDiff(ctx context.Context, path m.Path, diff string)
}

// IsTTY reports whether w is an interactive terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// NewUI returns the interactive TUI when attached to a terminal and the
// plain SimpleUI otherwise.
func NewUI(cmd *cobra.Command, useTTY bool) UI {
	if useTTY {
		return NewTUI(cmd)
	}

	return NewSimpleUI(cmd)
}
