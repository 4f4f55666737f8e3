package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/GriffinCanCode/giroscopio/internal/domain/stats"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the agent root, e.g. http://192.168.1.20:5000.
	BaseURL   string
	APIPrefix string
	// Timeout bounds every call except Command, which waits up to CommandTimeout.
	Timeout        time.Duration
	CommandTimeout time.Duration
	// Retries applies to GET requests only; actions are never repeated.
	Retries      int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// BreakerThreshold consecutive transport failures open the breaker for BreakerCooldown.
	BreakerThreshold int
	BreakerCooldown  time.Duration
	UserAgent        string
}

// DefaultConfig returns the settings used by giroctl.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:          baseURL,
		APIPrefix:        "/api",
		Timeout:          3 * time.Second,
		CommandTimeout:   35 * time.Second,
		Retries:          2,
		RetryWaitMin:     200 * time.Millisecond,
		RetryWaitMax:     2 * time.Second,
		BreakerThreshold: 5,
		BreakerCooldown:  30 * time.Second,
		UserAgent:        "giroctl/1.0",
	}
}

// Health is the agent's liveness report.
type Health struct {
	Status     string         `json:"status"`
	Message    string         `json:"message"`
	Timestamp  string         `json:"timestamp"`
	InstanceID string         `json:"instance_id"`
	Stats      stats.Snapshot `json:"stats"`
}

// Result is the outcome of an action request. A launch failure on the agent is
// a Result with Success false, not an error.
type Result struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Action  string         `json:"action"`
	URL     string         `json:"url,omitempty"`
	Stats   stats.Snapshot `json:"stats"`
}

// APIError is a rejected request (validation, disabled action, rate limit, unknown route).
type APIError struct {
	StatusCode   int
	Message      string
	ValidActions []string
}

func (e *APIError) Error() string {
	if len(e.ValidActions) > 0 {
		return fmt.Sprintf("agent returned %d: %s (valid actions: %s)", e.StatusCode, e.Message, strings.Join(e.ValidActions, ", "))
	}
	return fmt.Sprintf("agent returned %d: %s", e.StatusCode, e.Message)
}

// wireResponse is the union of every JSON body the agent sends.
type wireResponse struct {
	Status       string          `json:"status"`
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	Action       string          `json:"action"`
	URL          string          `json:"url"`
	Timestamp    string          `json:"timestamp"`
	InstanceID   string          `json:"instance_id"`
	ValidActions []string        `json:"valid_actions"`
	Stats        *stats.Snapshot `json:"stats"`
}

// Client talks to a remote control agent.
type Client struct {
	resty   *resty.Client
	breaker *breaker
	cfg     Config
}

// New creates a client for the agent at cfg.BaseURL.
func New(cfg Config) *Client {
	defaults := DefaultConfig(cfg.BaseURL)
	if cfg.APIPrefix == "" {
		cfg.APIPrefix = defaults.APIPrefix
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.CommandTimeout <= 0 {
		cfg.CommandTimeout = defaults.CommandTimeout
	}
	if cfg.RetryWaitMin <= 0 {
		cfg.RetryWaitMin = defaults.RetryWaitMin
	}
	if cfg.RetryWaitMax < cfg.RetryWaitMin {
		cfg.RetryWaitMax = cfg.RetryWaitMin
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaults.UserAgent
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	// Pooled transport from retryablehttp; retries are driven by resty so
	// they can be limited to GETs.
	retryClient := retryablehttp.NewClient()
	retryClient.Logger = nil

	minWait, maxWait := cfg.RetryWaitMin, cfg.RetryWaitMax
	r := resty.New().
		SetBaseURL(cfg.BaseURL+cfg.APIPrefix).
		SetTransport(retryClient.HTTPClient.Transport).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json").
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(minWait).
		SetRetryMaxWaitTime(maxWait).
		SetRetryAfter(func(_ *resty.Client, resp *resty.Response) (time.Duration, error) {
			attempt := 1
			var raw *http.Response
			if resp != nil {
				raw = resp.RawResponse
				if resp.Request != nil {
					attempt = resp.Request.Attempt
				}
			}
			return retryablehttp.DefaultBackoff(minWait, maxWait, attempt, raw), nil
		}).
		AddRetryCondition(retryIdempotent)

	return &Client{
		resty:   r,
		breaker: newBreaker(cfg.BreakerThreshold, cfg.BreakerCooldown),
		cfg:     cfg,
	}
}

// retryIdempotent retries GETs on transport errors, 429 and 5xx.
func retryIdempotent(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
		return false
	}
	if err != nil {
		return true
	}
	code := resp.StatusCode()
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

// BreakerState reports whether calls currently reach the network.
func (c *Client) BreakerState() BreakerState {
	return c.breaker.State()
}

// BaseURL returns the agent root this client targets.
func (c *Client) BaseURL() string {
	return c.cfg.BaseURL
}

func (c *Client) do(ctx context.Context, timeout time.Duration, method, path string, body any) (*resty.Response, *wireResponse, error) {
	if err := c.breaker.allow(); err != nil {
		return nil, nil, err
	}

	caller := ctx
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var out wireResponse
	req := c.resty.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&out)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	c.breaker.doneFor(caller, err)
	if err != nil {
		return nil, nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	return resp, &out, nil
}

func (c *Client) get(ctx context.Context, path string) (*wireResponse, error) {
	resp, out, err := c.do(ctx, c.cfg.Timeout, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiError(resp, out)
	}
	return out, nil
}

// action posts body to an action route. 200 and 500 both carry a Result.
func (c *Client) action(ctx context.Context, timeout time.Duration, path string, body any) (*Result, error) {
	if body == nil {
		body = struct{}{}
	}
	resp, out, err := c.do(ctx, timeout, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}

	code := resp.StatusCode()
	if code != http.StatusOK && code != http.StatusInternalServerError {
		return nil, apiError(resp, out)
	}
	if out.Stats == nil {
		return nil, &APIError{StatusCode: code, Message: "malformed response: " + strings.TrimSpace(resp.String())}
	}
	return &Result{
		Success: out.Success,
		Message: out.Message,
		Action:  out.Action,
		URL:     out.URL,
		Stats:   *out.Stats,
	}, nil
}

func apiError(resp *resty.Response, out *wireResponse) error {
	msg := out.Message
	if msg == "" {
		msg = http.StatusText(resp.StatusCode())
	}
	return &APIError{StatusCode: resp.StatusCode(), Message: msg, ValidActions: out.ValidActions}
}

// Health checks that the agent is online. It counts as a request on the agent.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	out, err := c.get(ctx, "/health")
	if err != nil {
		return nil, err
	}
	h := &Health{
		Status:     out.Status,
		Message:    out.Message,
		Timestamp:  out.Timestamp,
		InstanceID: out.InstanceID,
	}
	if out.Stats != nil {
		h.Stats = *out.Stats
	}
	return h, nil
}

// Stats fetches the agent's statistics without affecting them.
func (c *Client) Stats(ctx context.Context) (*stats.Snapshot, error) {
	out, err := c.get(ctx, "/stats")
	if err != nil {
		return nil, err
	}
	if out.Stats == nil {
		return nil, errors.New("stats missing from response")
	}
	return out.Stats, nil
}

// Office opens the word processor.
func (c *Client) Office(ctx context.Context) (*Result, error) {
	return c.action(ctx, c.cfg.Timeout, "/actions/office", nil)
}

// Web opens the browser. An empty url lets the agent use its default page.
func (c *Client) Web(ctx context.Context, url string) (*Result, error) {
	var body any
	if url != "" {
		body = map[string]string{"url": url}
	}
	return c.action(ctx, c.cfg.Timeout, "/actions/web", body)
}

// Media opens the media player.
func (c *Client) Media(ctx context.Context) (*Result, error) {
	return c.action(ctx, c.cfg.Timeout, "/actions/media", nil)
}

// Custom launches the executable at path on the agent.
func (c *Client) Custom(ctx context.Context, path string) (*Result, error) {
	return c.action(ctx, c.cfg.Timeout, "/actions/custom", map[string]string{"app_path": path})
}

// Command runs command through the agent's shell and waits for it.
func (c *Client) Command(ctx context.Context, command string) (*Result, error) {
	return c.action(ctx, c.cfg.CommandTimeout, "/actions/command", map[string]string{"command": command})
}

// Execute dispatches a named action through the generic endpoint.
func (c *Client) Execute(ctx context.Context, action, url string) (*Result, error) {
	body := map[string]string{"action": action}
	if url != "" {
		body["url"] = url
	}
	return c.action(ctx, c.cfg.Timeout, "/actions/execute", body)
}

// ConnectionStatus summarizes reachability for display.
type ConnectionStatus struct {
	Connected  bool      `json:"connected"`
	BackendURL string    `json:"backend_url"`
	LastPing   time.Time `json:"last_ping"`
	InstanceID string    `json:"instance_id,omitempty"`
	Error      string    `json:"error,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Status pings the agent and reports the result without returning an error.
func (c *Client) Status(ctx context.Context) ConnectionStatus {
	start := time.Now()
	st := ConnectionStatus{BackendURL: c.cfg.BaseURL, LastPing: start}

	h, err := c.Health(ctx)
	st.Timestamp = time.Now()
	if err != nil {
		st.Error = err.Error()
		return st
	}
	st.Connected = h.Status == "online"
	st.InstanceID = h.InstanceID
	if !st.Connected {
		st.Error = "unexpected status: " + h.Status
	}
	return st
}
