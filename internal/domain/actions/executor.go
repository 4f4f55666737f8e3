package actions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultCommandTimeout bounds a synchronous command when none is configured.
const DefaultCommandTimeout = 30 * time.Second

// Config configures an Executor.
type Config struct {
	Catalog Catalog
	// Shell is the program and leading arguments used for fallback launches and
	// commands, e.g. ["cmd", "/C"].
	Shell          []string
	CommandTimeout time.Duration
}

// DefaultConfig returns the Windows defaults.
func DefaultConfig() Config {
	return Config{
		Catalog:        DefaultCatalog(),
		Shell:          []string{"cmd", "/C"},
		CommandTimeout: DefaultCommandTimeout,
	}
}

// Executor turns logical actions into OS launches. Its methods never return
// errors: every failure is reported as an unsuccessful Outcome.
type Executor struct {
	catalog  Catalog
	shell    []string
	timeout  time.Duration
	launcher Launcher
	logger   *zap.Logger
}

// NewExecutor creates an executor. A nil logger discards logs.
func NewExecutor(cfg Config, launcher Launcher, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Catalog == nil {
		cfg.Catalog = DefaultCatalog()
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = DefaultCommandTimeout
	}
	return &Executor{
		catalog:  cfg.Catalog.Clone(),
		shell:    append([]string(nil), cfg.Shell...),
		timeout:  cfg.CommandTimeout,
		launcher: launcher,
		logger:   logger.Named("executor"),
	}
}

// OpenOffice launches the word processor.
func (e *Executor) OpenOffice() Outcome {
	res, err := e.resolveAndStart(TagOffice)
	if err != nil {
		return failure(TagOffice, res.via, err)
	}
	return Outcome{
		Success: true,
		Message: e.openedMessage(TagOffice, res),
		Action:  TagOffice,
		Via:     res.via,
		Path:    res.path,
	}
}

// OpenWebpage launches the browser on url. The URL is passed through verbatim.
func (e *Executor) OpenWebpage(url string) Outcome {
	res, err := e.resolveAndStart(TagWeb, url)
	if err != nil {
		return failure(TagWeb, res.via, err)
	}
	return Outcome{
		Success: true,
		Message: fmt.Sprintf("%s opened: %s", e.catalog[TagWeb].Name, url),
		Action:  TagWeb,
		URL:     url,
		Via:     res.via,
		Path:    res.path,
	}
}

// OpenMediaPlayer launches the media player.
func (e *Executor) OpenMediaPlayer() Outcome {
	res, err := e.resolveAndStart(TagMedia)
	if err != nil {
		return failure(TagMedia, res.via, err)
	}
	return Outcome{
		Success: true,
		Message: e.openedMessage(TagMedia, res),
		Action:  TagMedia,
		Via:     res.via,
		Path:    res.path,
	}
}

// OpenApp launches the program at path. No probing and no fallback.
func (e *Executor) OpenApp(path string) Outcome {
	if !e.launcher.Exists(path) {
		e.logger.Error("application not found", zap.String("path", path))
		return Outcome{
			Success: false,
			Message: fmt.Sprintf("File not found: %s", path),
			Action:  TagCustom,
			Via:     ViaNone,
		}
	}

	if err := e.launcher.Start(path); err != nil {
		e.logger.Error("failed to open application", zap.String("path", path), zap.Error(err))
		return failure(TagCustom, ViaDirect, err)
	}

	e.logger.Info("application opened", zap.String("path", path))
	return Outcome{
		Success: true,
		Message: fmt.Sprintf("Application opened: %s", path),
		Action:  TagCustom,
		Via:     ViaDirect,
		Path:    path,
	}
}

// ExecuteCommand runs command through the shell and waits for it, bounded by the
// configured timeout. A non-zero exit is a failure.
func (e *Executor) ExecuteCommand(ctx context.Context, command string) Outcome {
	if strings.TrimSpace(command) == "" {
		return failure(TagCommand, ViaNone, ErrEmptyCommand)
	}
	if len(e.shell) == 0 {
		return failure(TagCommand, ViaNone, ErrNoShell)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	line := dialectFor(e.shell).commandLine(command)
	start := time.Now()
	_, err := e.launcher.RunShell(ctx, e.shell, line)
	elapsed := time.Since(start)

	if err != nil {
		if errors.Is(err, ErrTimeout) {
			err = fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
		}
		e.logger.Error("command failed",
			zap.String("command", command),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
		return failure(TagCommand, ViaDirect, err)
	}

	e.logger.Info("command executed", zap.String("command", command), zap.Duration("elapsed", elapsed))
	return Outcome{
		Success: true,
		Message: fmt.Sprintf("Command executed: %s", command),
		Action:  TagCommand,
		Via:     ViaDirect,
	}
}

// Dispatch runs one of the DispatchTags. url is only used by TagWeb.
func (e *Executor) Dispatch(tag Tag, url string) (Outcome, error) {
	switch tag {
	case TagOffice:
		return e.OpenOffice(), nil
	case TagWeb:
		return e.OpenWebpage(url), nil
	case TagMedia:
		return e.OpenMediaPlayer(), nil
	default:
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownAction, tag)
	}
}

// CommandTimeout reports the bound applied to ExecuteCommand.
func (e *Executor) CommandTimeout() time.Duration {
	return e.timeout
}

type resolution struct {
	via  Via
	path string
}

// resolveAndStart probes the tag's candidates in order and launches the first
// that exists. With no hit it issues exactly one shell launch. Once a candidate
// is chosen, a launch failure is final.
func (e *Executor) resolveAndStart(tag Tag, args ...string) (resolution, error) {
	prog := e.catalog[tag]

	for _, candidate := range prog.Candidates {
		path := expandPath(candidate)
		if !e.launcher.Exists(path) {
			continue
		}
		res := resolution{via: ViaPath, path: path}
		if err := e.launcher.Start(path, args...); err != nil {
			e.logger.Error("launch failed", zap.String("action", tag.String()), zap.String("path", path), zap.Error(err))
			return res, err
		}
		e.logger.Info("launched", zap.String("action", tag.String()), zap.String("path", path))
		return res, nil
	}

	res := resolution{via: ViaShell}
	if len(e.shell) == 0 {
		return res, ErrNoShell
	}
	if prog.Fallback == "" {
		return res, fmt.Errorf("no fallback program for %s", tag)
	}

	dialect := dialectFor(e.shell)
	line, err := dialect.startLine(prog.Fallback, args...)
	if err != nil {
		e.logger.Warn("refusing shell fallback", zap.String("action", tag.String()), zap.Strings("args", args), zap.Error(err))
		return res, err
	}
	if err := e.launcher.StartShell(e.shell, dialect.commandLine(line)); err != nil {
		e.logger.Error("shell fallback failed", zap.String("action", tag.String()), zap.String("program", prog.Fallback), zap.Error(err))
		return res, err
	}
	e.logger.Info("launched via shell", zap.String("action", tag.String()), zap.String("program", prog.Fallback))
	return res, nil
}

func (e *Executor) openedMessage(tag Tag, res resolution) string {
	name := e.catalog[tag].Name
	if res.via == ViaPath {
		return fmt.Sprintf("%s opened from %s", name, res.path)
	}
	return fmt.Sprintf("%s opened via shell", name)
}
