package controller

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "routegen.dev/pkg/routegen/internal/model"
)

const (
	defaultTermWidth  = 120
	defaultTermHeight = 24
	// title, blank line, header row and rule, footer.
	routesChromeLines = 5
	minColumnWidth    = 6
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	footerStyle = lipgloss.NewStyle().Faint(true)
)

// TUI renders the route manifest as an interactive table. Progress lines are
// printed like SimpleUI.
type TUI struct {
	*SimpleUI
	output io.Writer

	mu      sync.Mutex
	routes  []m.RouteSummary
	pending bool
}

// NewTUI creates a new TUI.
func NewTUI(cmd *cobra.Command) *TUI {
	return &TUI{SimpleUI: NewSimpleUI(cmd), output: cmd.OutOrStdout()}
}

// DisplayRoutes defers the manifest to Wait in list mode.
func (p *TUI) DisplayRoutes(ctx context.Context, routes []m.RouteSummary) error {
	if p.mode != ModeList {
		return p.SimpleUI.DisplayRoutes(ctx, routes)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.routes = routes
	p.pending = true

	return nil
}

// Wait shows the pending manifest. Short manifests are printed directly;
// longer ones open a scrollable table until the user quits.
func (p *TUI) Wait(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	p.mu.Lock()
	routes, pending := p.routes, p.pending
	p.pending = false
	p.mu.Unlock()

	if !pending {
		return
	}

	width, height := p.terminalSize()
	model := newRoutesModel(routes, width, height)

	if !model.needsPagination() {
		_, _ = fmt.Fprint(p.output, model.staticView())
		return
	}

	program := tea.NewProgram(model, tea.WithOutput(p.output), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		p.progressf("route browser: %v\n", err)
	}
}

func (p *TUI) terminalSize() (int, int) {
	if f, ok := p.output.(*os.File); ok {
		if width, height, err := term.GetSize(int(f.Fd())); err == nil {
			return width, height
		}
	}

	return defaultTermWidth, defaultTermHeight
}

// routesModel is the bubbletea model of the route browser.
type routesModel struct {
	table  table.Model
	total  int
	width  int
	height int
}

func newRoutesModel(routes []m.RouteSummary, width, height int) routesModel {
	rows := make([]table.Row, 0, len(routes))
	for _, route := range routes {
		rows = append(rows, table.Row{string(route.Method), route.FullPath, route.Handler})
	}

	t := table.New(
		table.WithColumns(routeColumns(routes, width)),
		table.WithRows(rows),
		table.WithFocused(true),
	)

	t.SetStyles(routeTableStyles(true))

	model := routesModel{table: t, total: len(routes), width: width, height: height}
	model.table.SetHeight(model.visibleRows() + headerLines())

	return model
}

// headerLines is the height of the rendered header row and its rule.
// table.SetHeight counts them against the viewport, so row counts must add it.
func headerLines() int {
	return lipgloss.Height(routeTableStyles(false).Header.Render("Method"))
}

func routeTableStyles(highlight bool) table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)

	if highlight {
		styles.Selected = styles.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))
	} else {
		styles.Selected = lipgloss.NewStyle()
	}

	return styles
}

// routeColumns sizes Method to its content and splits the remaining width
// between Path and Handler.
func routeColumns(routes []m.RouteSummary, width int) []table.Column {
	methodWidth, pathWidth, handlerWidth := len("Method"), len("Path"), len("Handler")

	for _, route := range routes {
		methodWidth = max(methodWidth, len(route.Method))
		pathWidth = max(pathWidth, len(route.FullPath))
		handlerWidth = max(handlerWidth, len(route.Handler))
	}

	available := width - methodWidth - 6
	if pathWidth+handlerWidth > available {
		pathWidth = max(minColumnWidth, min(pathWidth, available/2))
		handlerWidth = max(minColumnWidth, available-pathWidth)
	}

	return []table.Column{
		{Title: "Method", Width: methodWidth},
		{Title: "Path", Width: pathWidth},
		{Title: "Handler", Width: handlerWidth},
	}
}

func (rm routesModel) visibleRows() int {
	return max(1, min(rm.total, rm.height-routesChromeLines))
}

func (rm routesModel) needsPagination() bool {
	return rm.total+routesChromeLines > rm.height
}

func (rm routesModel) Init() tea.Cmd {
	return nil
}

func (rm routesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		rm.width = msg.Width
		rm.height = msg.Height
		rm.table.SetHeight(rm.visibleRows() + headerLines())

		return rm, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return rm, tea.Quit
		}
	}

	var cmd tea.Cmd
	rm.table, cmd = rm.table.Update(msg)

	return rm, cmd
}

func (rm routesModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Registered routes"))
	b.WriteString("\n\n")
	b.WriteString(rm.table.View())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf("%d routes • ↑/↓ scroll • q quit", rm.total)))
	b.WriteString("\n")

	return b.String()
}

// staticView renders every row without selection highlighting.
func (rm routesModel) staticView() string {
	rm.table.Blur()
	rm.table.SetStyles(routeTableStyles(false))
	rm.table.SetHeight(max(1, rm.total) + headerLines())

	var b strings.Builder

	b.WriteString(titleStyle.Render("Registered routes"))
	b.WriteString("\n\n")
	b.WriteString(rm.table.View())
	b.WriteString("\n")
	b.WriteString(footerStyle.Render(fmt.Sprintf("%d routes", rm.total)))
	b.WriteString("\n")

	return b.String()
}
