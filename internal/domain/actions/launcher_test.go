package actions

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipOnWindows(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses a POSIX shell")
	}
}

func TestOSLauncherExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "app.exe")
	require.NoError(t, os.WriteFile(file, nil, 0o755))

	l := NewOSLauncher()
	assert.True(t, l.Exists(file))
	assert.True(t, l.Exists(dir))
	assert.False(t, l.Exists(filepath.Join(dir, "nope.exe")))
}

var posixShell = []string{"sh", "-c"}

func TestOSLauncherRunShell(t *testing.T) {
	skipOnWindows(t)
	l := NewOSLauncher()

	out, err := l.RunShell(context.Background(), posixShell, "echo hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))

	_, err = l.RunShell(context.Background(), posixShell, "echo oops >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit status 3")
	assert.Contains(t, err.Error(), "oops")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = l.RunShell(ctx, posixShell, "sleep 5")
	assert.ErrorIs(t, err, ErrTimeout)

	_, err = l.RunShell(context.Background(), nil, "true")
	assert.ErrorIs(t, err, ErrNoShell)
}

func TestPOSIXQuotingSurvivesRealShell(t *testing.T) {
	skipOnWindows(t)
	arg := `https://example.com/?a='1'&b=$(echo pwned);c="x" | true`

	line, err := dialectPOSIX.startLine("printf", "%s", arg)
	require.NoError(t, err)

	out, err := NewOSLauncher().RunShell(context.Background(), posixShell, line)
	require.NoError(t, err)
	assert.Equal(t, arg, string(out))
}

func TestOSLauncherStart(t *testing.T) {
	skipOnWindows(t)
	l := NewOSLauncher()

	assert.NoError(t, l.Start("sh", "-c", "exit 0"))
	assert.Error(t, l.Start(filepath.Join(t.TempDir(), "missing-binary")))

	marker := filepath.Join(t.TempDir(), "started")
	require.NoError(t, l.StartShell(posixShell, "touch '"+marker+"'"))
	assert.Eventually(t, func() bool { return l.Exists(marker) }, 2*time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, l.StartShell(nil, "true"), ErrNoShell)
}

func TestExecutorWithRealShell(t *testing.T) {
	skipOnWindows(t)
	cfg := DefaultConfig()
	cfg.Shell = posixShell
	e := NewExecutor(cfg, NewOSLauncher(), nil)

	assert.True(t, e.ExecuteCommand(context.Background(), "true").Success)

	out := e.ExecuteCommand(context.Background(), "exit 2")
	assert.False(t, out.Success)
	assert.Contains(t, out.Message, "exit status 2")
}
