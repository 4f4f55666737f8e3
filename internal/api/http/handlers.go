package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/giroscopio/internal/domain/actions"
	"github.com/GriffinCanCode/giroscopio/internal/domain/stats"
	"github.com/GriffinCanCode/giroscopio/internal/infrastructure/logging"
)

// Executor performs actions on the host. Implemented by *actions.Executor.
type Executor interface {
	OpenOffice() actions.Outcome
	OpenWebpage(url string) actions.Outcome
	OpenMediaPlayer() actions.Outcome
	OpenApp(path string) actions.Outcome
	ExecuteCommand(ctx context.Context, command string) actions.Outcome
	Dispatch(tag actions.Tag, url string) (actions.Outcome, error)
}

// Broadcaster receives the stats snapshot after every action request.
type Broadcaster interface {
	Broadcast(snap stats.Snapshot)
}

// Options toggles the unrestricted actions and identifies this process.
type Options struct {
	AllowCustom  bool
	AllowCommand bool
	InstanceID   string
}

// DefaultOptions keeps every action enabled.
func DefaultOptions() Options {
	return Options{AllowCustom: true, AllowCommand: true}
}

const maxCommandInLog = 50

// Handlers contains all HTTP handlers
type Handlers struct {
	executor Executor
	tracker  *stats.Tracker
	logger   *logging.Logger
	metrics  *HandlerMetrics
	stream   Broadcaster
	opts     Options
	now      func() time.Time
}

// NewHandlers creates a new handler set. metrics and stream may be nil.
func NewHandlers(
	executor Executor,
	tracker *stats.Tracker,
	logger *logging.Logger,
	metrics *HandlerMetrics,
	stream Broadcaster,
	opts Options,
) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		executor: executor,
		tracker:  tracker,
		logger:   logger,
		metrics:  metrics,
		stream:   stream,
		opts:     opts,
		now:      time.Now,
	}
}

// Health reports that the agent is online
func (h *Handlers) Health(c *gin.Context) {
	h.tracker.RecordRequest()
	h.logRequest(c, "HEALTH_CHECK", true, "server online")

	c.JSON(http.StatusOK, healthResponse{
		Status:     "online",
		Message:    "Remote control agent online",
		Timestamp:  h.timestamp(),
		InstanceID: h.opts.InstanceID,
		Stats:      h.tracker.Snapshot(),
	})
}

// Stats returns the statistics without counting the call
func (h *Handlers) Stats(c *gin.Context) {
	h.logger.ForRequest(c).Info("Statistics requested", zap.String("device_ip", c.ClientIP()))

	c.JSON(http.StatusOK, statsResponse{
		Status:    "ok",
		Message:   "Server statistics",
		Timestamp: h.timestamp(),
		Stats:     h.tracker.Snapshot(),
	})
}

// OpenOffice opens the word processor
func (h *Handlers) OpenOffice(c *gin.Context) {
	h.countAction(c, actions.TagOffice)
	outcome := h.executor.OpenOffice()
	h.respond(c, "OFFICE", outcome, "")
}

// OpenWeb opens the browser on the requested URL
func (h *Handlers) OpenWeb(c *gin.Context) {
	var req webRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.invalidBody(c, "WEB", actions.TagWeb, err)
		return
	}
	url := resolveURL(req.URL)

	h.countAction(c, actions.TagWeb)
	outcome := h.executor.OpenWebpage(url)
	h.respond(c, "WEB", outcome, "URL: "+url)
}

// OpenMedia opens the media player
func (h *Handlers) OpenMedia(c *gin.Context) {
	h.countAction(c, actions.TagMedia)
	outcome := h.executor.OpenMediaPlayer()
	h.respond(c, "MEDIA", outcome, "")
}

// OpenCustom launches a caller-supplied executable. It counts as a request but
// not as a device action.
func (h *Handlers) OpenCustom(c *gin.Context) {
	var req customRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.invalidBody(c, "CUSTOM", actions.TagCustom, err)
		return
	}
	if req.AppPath == "" {
		h.missingField(c, "CUSTOM", actions.TagCustom, "app_path")
		return
	}
	if !h.opts.AllowCustom {
		h.disabled(c, "CUSTOM", actions.TagCustom)
		return
	}

	h.tracker.RecordRequest()
	outcome := h.executor.OpenApp(req.AppPath)
	h.respond(c, "CUSTOM", outcome, "App: "+req.AppPath)
}

// RunCommand executes a caller-supplied shell command and waits for it. It
// counts as a request but not as a device action.
func (h *Handlers) RunCommand(c *gin.Context) {
	var req commandRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.invalidBody(c, "COMMAND", actions.TagCommand, err)
		return
	}
	if req.Command == "" {
		h.missingField(c, "COMMAND", actions.TagCommand, "command")
		return
	}
	if !h.opts.AllowCommand {
		h.disabled(c, "COMMAND", actions.TagCommand)
		return
	}

	h.tracker.RecordRequest()
	done := h.metrics.TrackCommand()
	outcome := h.executor.ExecuteCommand(c.Request.Context(), req.Command)
	done()
	h.respond(c, "COMMAND", outcome, "Cmd: "+truncate(req.Command, maxCommandInLog))
}

// Execute dispatches {"action": "office"|"web"|"media"} to the matching handler logic
func (h *Handlers) Execute(c *gin.Context) {
	var req executeRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.invalidBody(c, "EXECUTE", "", err)
		return
	}

	h.tracker.RecordRequest()

	if req.Action == "" {
		h.logRequest(c, "EXECUTE", false, "action not specified")
		snap := h.tracker.Snapshot()
		c.JSON(http.StatusBadRequest, errorResponse{
			Message: "action is required",
			Stats:   &snap,
		})
		return
	}

	h.registerDevice(c)

	tag, ok := actions.ParseDispatchTag(req.Action)
	if !ok {
		h.logRequest(c, "EXECUTE", false, "invalid action: "+req.Action)
		snap := h.tracker.Snapshot()
		c.JSON(http.StatusBadRequest, errorResponse{
			Message:      fmt.Sprintf("Invalid action: %s", req.Action),
			ValidActions: actions.DispatchTagNames(),
			Stats:        &snap,
		})
		return
	}

	h.tracker.RecordAction(tag.String())

	url := resolveURL(req.URL)
	outcome, err := h.executor.Dispatch(tag, url)
	if err != nil {
		// ParseDispatchTag and Dispatch accept the same tags.
		panic(err)
	}

	details := ""
	if tag == actions.TagWeb {
		details = "URL: " + url
	}
	h.respond(c, "EXECUTE->"+strings.ToUpper(tag.String()), outcome, details)
}

// countAction applies the counters of a dedicated device-action route.
func (h *Handlers) countAction(c *gin.Context, tag actions.Tag) {
	h.tracker.RecordRequest()
	h.tracker.RecordAction(tag.String())
	h.registerDevice(c)
}

func (h *Handlers) registerDevice(c *gin.Context) {
	ip := c.ClientIP()
	if h.tracker.RegisterDevice(ip) {
		h.logger.ForRequest(c).Info("New device connected", zap.String("device_ip", ip))
	}
}

// respond reports the outcome with the post-action snapshot and notifies subscribers.
func (h *Handlers) respond(c *gin.Context, label string, outcome actions.Outcome, details string) {
	snap := h.tracker.Snapshot()

	h.metrics.RecordOutcome(outcome, len(snap.ConnectedDevices))
	if details != "" {
		details += " | "
	}
	h.logRequest(c, label, outcome.Success, fmt.Sprintf("%stotal actions: %d", details, snap.TotalActions))

	if h.stream != nil {
		h.stream.Broadcast(snap)
	}

	status := http.StatusOK
	if !outcome.Success {
		status = http.StatusInternalServerError
	}
	c.JSON(status, actionResponse{Outcome: outcome, Stats: snap})
}

func (h *Handlers) missingField(c *gin.Context, label string, tag actions.Tag, field string) {
	h.logRequest(c, label, false, field+" not specified")
	snap := h.tracker.Snapshot()
	c.JSON(http.StatusBadRequest, errorResponse{
		Message: field + " is required",
		Action:  tag,
		Stats:   &snap,
	})
}

func (h *Handlers) invalidBody(c *gin.Context, label string, tag actions.Tag, err error) {
	h.logRequest(c, label, false, "invalid JSON body: "+err.Error())
	c.JSON(http.StatusBadRequest, errorResponse{
		Message: "invalid JSON body",
		Action:  tag,
		Error:   err.Error(),
	})
}

func (h *Handlers) disabled(c *gin.Context, label string, tag actions.Tag) {
	h.logRequest(c, label, false, "action disabled")
	snap := h.tracker.Snapshot()
	c.JSON(http.StatusForbidden, errorResponse{
		Message: fmt.Sprintf("%s actions are disabled on this host", tag),
		Action:  tag,
		Stats:   &snap,
	})
}

func (h *Handlers) logRequest(c *gin.Context, action string, success bool, details string) {
	fields := []zap.Field{
		zap.String("action", action),
		zap.String("device_ip", c.ClientIP()),
		zap.Bool("success", success),
	}
	if details != "" {
		fields = append(fields, zap.String("details", details))
	}

	logger := h.logger.ForRequest(c)
	if success {
		logger.Info("Request handled", fields...)
	} else {
		logger.Warn("Request failed", fields...)
	}
}

func (h *Handlers) timestamp() string {
	return h.now().Format(time.RFC3339)
}

// bindOptionalJSON decodes the body into dst, treating an empty body as {}.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
