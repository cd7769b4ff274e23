package controller

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "routegen.dev/pkg/routegen/internal/model"
)

// SimpleUI implements UI with plain lines on the cobra command's writers.
// Progress always goes to stderr so stdout can carry generated code. The
// route table goes to stdout in list mode and when code is written to a file.
type SimpleUI struct {
	cmd            *cobra.Command
	mode           StartMode
	routesOnStdout bool
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := newStartConfig(options...)
	s.mode = cfg.mode
	s.routesOnStdout = cfg.routesOnStdout

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// DisplayScannedFile prints a progress line for a candidate file.
func (s *SimpleUI) DisplayScannedFile(ctx context.Context, file m.SourceFile) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.progressf("Scanning %s\n", file.Path)
}

// DisplayWarning prints a skipped-file or duplicate-handler warning.
func (s *SimpleUI) DisplayWarning(ctx context.Context, err error) {
	if ctx.Err() != nil {
		return
	}

	s.progressf("warning: %v\n", err)
}

// DisplayRoutes prints the route manifest as a table, or a one-line summary
// in watch mode.
func (s *SimpleUI) DisplayRoutes(ctx context.Context, routes []m.RouteSummary) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if s.mode == ModeWatch {
		s.progressf("Regenerated %d routes\n", len(routes))
		return nil
	}

	out := s.cmd.ErrOrStderr()
	if s.mode == ModeList || s.routesOnStdout {
		out = s.cmd.OutOrStdout()
	}

	_, err := fmt.Fprintf(out, "\n%s", renderRoutesTable(routes))

	return err
}

// DisplayGeneratedCode prints the generated text (debug only).
func (s *SimpleUI) DisplayGeneratedCode(ctx context.Context, code string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.progressf("\n%s\n", code)
}

// DisplayDiff prints the difference between path and the fresh output.
func (s *SimpleUI) DisplayDiff(ctx context.Context, path m.Path, diff string) {
	if err := ctx.Err(); err != nil {
		return
	}

	if diff == "" {
		s.printf("%s is up to date\n", path)
		return
	}

	s.printf("%s", diff)
}

func renderRoutesTable(routes []m.RouteSummary) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Method", "Path", "Handler"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, route := range routes {
		table.Append([]string{string(route.Method), route.FullPath, route.Handler})
	}

	table.SetFooter([]string{"", fmt.Sprintf("Total Routes %d", len(routes)), ""})

	table.Render()

	return tableBuffer.String()
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	writef(s.cmd.OutOrStdout(), format, args...)
}

func (s *SimpleUI) progressf(format string, args ...interface{}) {
	writef(s.cmd.ErrOrStderr(), format, args...)
}

func writef(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
