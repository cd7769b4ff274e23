package cmd

import (
	"bytes"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Output(t *testing.T) {
	cmd := newVersionCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	output := out.String()
	if strings.Contains(output, "version: unknown") {
		assert.Contains(t, output, "version: unknown")
		return
	}

	assert.Contains(t, output, "routegen version")
	assert.Contains(t, output, "go version")
}

func TestVCSRevision(t *testing.T) {
	tests := []struct {
		name         string
		settings     []debug.BuildSetting
		wantRevision string
		wantModified bool
	}{
		{"no vcs info", nil, "", false},
		{
			"clean checkout",
			[]debug.BuildSetting{{Key: "vcs.revision", Value: "3f2c1ab"}, {Key: "vcs.modified", Value: "false"}},
			"3f2c1ab",
			false,
		},
		{
			"dirty checkout",
			[]debug.BuildSetting{{Key: "vcs", Value: "git"}, {Key: "vcs.revision", Value: "3f2c1ab"}, {Key: "vcs.modified", Value: "true"}},
			"3f2c1ab",
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			revision, modified := vcsRevision(&debug.BuildInfo{Settings: tt.settings})
			assert.Equal(t, tt.wantRevision, revision)
			assert.Equal(t, tt.wantModified, modified)
		})
	}
}
