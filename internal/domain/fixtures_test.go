package domain

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"routegen.dev/pkg/routegen/internal/adapter"
	"routegen.dev/pkg/routegen/internal/controller"
	controllermocks "routegen.dev/pkg/routegen/internal/controller/mocks"
	m "routegen.dev/pkg/routegen/internal/model"
)

// writeTree creates files under root; keys are slash-separated relative paths.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// writeSparse creates a file of the given size without writing its content.
func writeSparse(t *testing.T, path string, size int64) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))
	require.NoError(t, f.Close())
}

func rootProject(root string) m.ProjectDescriptor {
	return m.ProjectDescriptor{
		RootPath:    m.Path(root),
		PackageName: "server",
		CrateName:   "server",
		SourceRoot:  m.Path(filepath.Join(root, "src")),
		EntryFile:   m.Path(filepath.Join(root, "src", "lib.rs")),
		IsRoot:      true,
	}
}

func newPermissiveUI(t *testing.T) *controllermocks.MockUI {
	ui := controllermocks.NewMockUI(t)
	ui.On("Start", mock.Anything, mock.Anything).Return(nil).Maybe()
	ui.On("Close", mock.Anything).Maybe()
	ui.On("Wait", mock.Anything).Maybe()
	ui.On("DisplayScannedFile", mock.Anything, mock.Anything).Maybe()
	ui.On("DisplayWarning", mock.Anything, mock.Anything).Maybe()
	ui.On("DisplayRoutes", mock.Anything, mock.Anything).Return(nil).Maybe()
	ui.On("DisplayGeneratedCode", mock.Anything, mock.Anything).Maybe()
	ui.On("DisplayDiff", mock.Anything, mock.Anything, mock.Anything).Maybe()

	return ui
}

func newTestWorkflow(t *testing.T, ui controller.UI) Workflow {
	t.Helper()

	fs := adapter.NewLocalSourceFSAdapter()
	parser, err := adapter.NewCachedRustFileAdapter(adapter.NewTreeSitterRustAdapter(), 64)
	require.NoError(t, err)

	return NewWorkflow(
		fs,
		ui,
		NewManifestReader(fs, adapter.NewTOMLManifestAdapter(fs)),
		NewTreeScanner(fs),
		NewDeclarationExtractor(fs, parser),
		NewCodeEmitter(),
	)
}
