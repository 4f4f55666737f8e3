//go:build windows

package actions

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShellCommandSetsVerbatimCmdLine(t *testing.T) {
	command := `"C:\Program Files\app.exe" --x`
	line := dialectCmd.commandLine(command)

	cmd := shellCommand(context.Background(), []string{"cmd", "/C"}, line, false)

	require.NotNil(t, cmd.SysProcAttr)
	assert.Equal(t, `cmd /C ""C:\Program Files\app.exe" --x"`, cmd.SysProcAttr.CmdLine)
	assert.Zero(t, cmd.SysProcAttr.CreationFlags)
}

func TestDetachedShellCommandKeepsCreationFlags(t *testing.T) {
	line, err := dialectCmd.startLine("chrome", "https://example.com/?a=1&calc.exe")
	require.NoError(t, err)

	cmd := shellCommand(context.Background(), []string{"cmd", "/C"}, dialectCmd.commandLine(line), true)

	assert.Equal(t, `cmd /C "start "" "chrome" "https://example.com/?a=1&calc.exe""`, cmd.SysProcAttr.CmdLine)
	assert.NotZero(t, cmd.SysProcAttr.CreationFlags)
}

func TestCmdRunsQuotedLineVerbatim(t *testing.T) {
	out, err := NewOSLauncher().RunShell(context.Background(), []string{"cmd", "/C"}, dialectCmd.commandLine(`echo a^&b`))
	require.NoError(t, err)
	assert.Equal(t, "a&b", strings.TrimSpace(string(out)))
}
