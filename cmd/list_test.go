package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"routegen.dev/pkg/routegen/internal/domain"
	m "routegen.dev/pkg/routegen/internal/model"
)

var listedRoutes = []m.RouteSummary{
	{Method: m.MethodGet, FullPath: "/handler/nation/", Handler: "crate::handler::nation::list_nations", Source: "src/handler/nation.rs"},
	{Method: m.MethodPost, FullPath: "/agency_api/handler/types/", Handler: "agency_api::handler::types::create_type", Source: "crates/agency-api/src/handler/types.rs"},
}

func runListCmd(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()

	cmd := newRootCmd()
	cmd.AddCommand(newListCmd())

	stdout := &bytes.Buffer{}
	cmd.SetOut(stdout)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"list", "--log-file", logFileIn(t), "--manifest-dir", "/ws"}, args...))

	return stdout, cmd.Execute()
}

func TestListCmd_Table(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)
	mockWorkflow.On("Routes", mock.Anything, mock.Anything).Return(listedRoutes, nil)

	stdout, err := runListCmd(t, "--no-tui")
	require.NoError(t, err)

	out := stdout.String()
	assert.Contains(t, out, "/agency_api/handler/types/")
	assert.Contains(t, out, "crate::handler::nation::list_nations")
	assert.Contains(t, out, "TOTAL ROUTES 2")
}

func TestListCmd_YAML(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)
	mockWorkflow.On("Routes", mock.Anything, mock.Anything).Return(listedRoutes, nil)

	stdout, err := runListCmd(t, "--format", "yaml")
	require.NoError(t, err)

	var decoded []m.RouteSummary
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &decoded))
	assert.Equal(t, listedRoutes, decoded)
	assert.Contains(t, stdout.String(), "handler: crate::handler::nation::list_nations")
}

func TestListCmd_EmptyYAML(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)
	mockWorkflow.On("Routes", mock.Anything, mock.Anything).Return(nil, nil)

	stdout, err := runListCmd(t, "-f", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", stdout.String())
}

func TestListCmd_UnknownFormat(t *testing.T) {
	withMockWorkflow(t)

	_, err := runListCmd(t, "--format", "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported --format "json"`)
}

func TestListCmd_PatternsArePassedThrough(t *testing.T) {
	mockWorkflow := withMockWorkflow(t)
	mockWorkflow.On("Routes", mock.Anything, mock.MatchedBy(func(args domain.GenerateArgs) bool {
		return assert.ObjectsAreEqual([]string{"src/handler/**"}, args.Patterns) &&
			args.ManifestDir == m.Path("/ws")
	})).Return(listedRoutes, nil)

	_, err := runListCmd(t, "--no-tui", "src/handler/**")
	require.NoError(t, err)
}
