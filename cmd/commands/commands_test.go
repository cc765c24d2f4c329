package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListCommand(t *testing.T) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list"})

	require.NoError(t, cmd.Execute())

	for _, name := range []string{"buffer-all", "buffer-count", "buffer-timeout", "window-time", "window-timeout", "group-parity"} {
		assert.Contains(t, out.String(), name)
	}
}

func TestDemoCommand_InvalidFlags(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"demo", "--max-count", "0", "buffer-timeout"})

	err := cmd.Execute()

	assert.ErrorContains(t, err, "MaxCount")
}

func TestDemoCommand_UnknownScenario(t *testing.T) {
	t.Setenv("BATCHZ_DEBUG", "true")
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"demo", "--interval", "1ms", "nope"})

	err := cmd.Execute()

	assert.ErrorContains(t, err, `unknown scenario "nope"`)
}

func TestDemoCommand_RunsTimeWindows(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"demo", "--interval", "1ms", "--count", "4", "--window-period", "5ms", "window-time", "window-timeout"})

	assert.NoError(t, cmd.Execute())
}

func TestDemoCommand_RunsScenario(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"demo", "--interval", "1ms", "--count", "4", "buffer-count"})

	assert.NoError(t, cmd.Execute())
}
