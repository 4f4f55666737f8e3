package actions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Launcher is the boundary between the executor and the host OS.
type Launcher interface {
	// Exists reports whether path is present on the filesystem.
	Exists(path string) bool
	// Start spawns name detached from the agent and returns without waiting.
	Start(name string, args ...string) error
	// StartShell hands line to the shell unmodified and returns without waiting.
	StartShell(shell []string, line string) error
	// RunShell hands line to the shell unmodified and waits for it, returning
	// combined output.
	RunShell(ctx context.Context, shell []string, line string) ([]byte, error)
}

// OSLauncher implements Launcher with os/exec.
type OSLauncher struct{}

// NewOSLauncher creates the production launcher.
func NewOSLauncher() *OSLauncher {
	return &OSLauncher{}
}

func (OSLauncher) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSLauncher) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.SysProcAttr = detachedProcAttr()
	return spawn(cmd)
}

func (OSLauncher) StartShell(shell []string, line string) error {
	if len(shell) == 0 {
		return ErrNoShell
	}
	return spawn(shellCommand(context.Background(), shell, line, true))
}

// shellCommand builds the shell invocation. On Windows the command line is
// set verbatim, bypassing argument escaping.
func shellCommand(ctx context.Context, shell []string, line string, detached bool) *exec.Cmd {
	args := append(append([]string(nil), shell[1:]...), line)
	cmd := exec.CommandContext(ctx, shell[0], args...)
	cmd.SysProcAttr = shellProcAttr(shell, line, detached)
	return cmd
}

func spawn(cmd *exec.Cmd) error {
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %s: %w", cmd.Path, err)
	}

	// Reap the child so it never lingers as a zombie; its exit status is not reported.
	go func() { _ = cmd.Wait() }()
	return nil
}

func (OSLauncher) RunShell(ctx context.Context, shell []string, line string) ([]byte, error) {
	if len(shell) == 0 {
		return nil, ErrNoShell
	}
	var out bytes.Buffer
	cmd := shellCommand(ctx, shell, line, false)
	cmd.Stdout = &out
	cmd.Stderr = &out
	// Grandchildren may hold the output pipe open after the shell is killed.
	cmd.WaitDelay = waitDelay

	err := cmd.Run()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return out.Bytes(), ErrTimeout
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out.Bytes(), fmt.Errorf("exit status %d%s", exitErr.ExitCode(), outputSuffix(out.Bytes()))
		}
		return out.Bytes(), fmt.Errorf("run %s: %w", shell[0], err)
	}
	return out.Bytes(), nil
}

const (
	maxOutputInError = 200
	waitDelay        = 2 * time.Second
)

func outputSuffix(out []byte) string {
	s := strings.TrimSpace(string(out))
	if s == "" {
		return ""
	}
	if len(s) > maxOutputInError {
		s = s[:maxOutputInError] + "..."
	}
	return ": " + s
}
