package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/giroscopio/internal/infrastructure/config"
	"github.com/GriffinCanCode/giroscopio/internal/infrastructure/logging"
)

type stubLauncher struct {
	mu      sync.Mutex
	present map[string]bool
	started [][]string
}

func (s *stubLauncher) Exists(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.present[path]
}

func (s *stubLauncher) Start(name string, args ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.started = append(s.started, append([]string{name}, args...))
	return nil
}

func (s *stubLauncher) StartShell(shell []string, line string) error {
	return s.Start(shell[0], append(append([]string(nil), shell[1:]...), line)...)
}

func (s *stubLauncher) RunShell(context.Context, []string, string) ([]byte, error) {
	return nil, nil
}

func newTestServer(t *testing.T, cfg *config.Config) (*Server, *stubLauncher) {
	t.Helper()
	launcher := &stubLauncher{present: map[string]bool{}}
	srv, err := NewServer(cfg, WithLauncher(launcher), WithLogger(logging.NewNop()))
	require.NoError(t, err)
	return srv, launcher
}

func serve(srv *Server, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthCarriesInstanceAndRequestID(t *testing.T) {
	srv, _ := newTestServer(t, config.Default())

	w := serve(srv, http.MethodGet, "/api/health", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("X-Request-ID"), "req_"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, srv.InstanceID(), body["instance_id"])
}

func TestOfficeFallsBackToShell(t *testing.T) {
	srv, launcher := newTestServer(t, config.Default())

	w := serve(srv, http.MethodPost, "/api/actions/office", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [][]string{{"cmd", "/C", `"start "" "winword""`}}, launcher.started)
	assert.Equal(t, int64(1), srv.Tracker().Snapshot().ActionsByType["office"])
}

func TestForwardedHeadersAreIgnored(t *testing.T) {
	srv, _ := newTestServer(t, config.Default())

	serve(srv, http.MethodPost, "/api/actions/media", "", map[string]string{"X-Forwarded-For": "10.9.9.9"})

	assert.Equal(t, []string{"192.0.2.1"}, srv.Tracker().Snapshot().ConnectedDevices)
}

func TestCustomPrefixAndMetrics(t *testing.T) {
	cfg := config.Default()
	cfg.Server.APIPrefix = "/v1"
	srv, _ := newTestServer(t, cfg)

	assert.Equal(t, http.StatusOK, serve(srv, http.MethodGet, "/v1/stats", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(srv, http.MethodGet, "/api/stats", "", nil).Code)

	w := serve(srv, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "giroscopio_http_requests_total")
}

func TestDisabledCommand(t *testing.T) {
	cfg := config.Default()
	cfg.Actions.AllowCommand = false
	srv, _ := newTestServer(t, cfg)

	w := serve(srv, http.MethodPost, "/api/actions/command", `{"command":"dir"}`, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPathsFileOverrides(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "paths.yaml")
	require.NoError(t, os.WriteFile(file, []byte("media:\n  candidates:\n    - /opt/vlc/vlc\n  fallback: vlc\n"), 0o644))

	cfg := config.Default()
	cfg.Actions.PathsFile = file
	srv, launcher := newTestServer(t, cfg)
	launcher.present["/opt/vlc/vlc"] = true

	w := serve(srv, http.MethodPost, "/api/actions/media", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, [][]string{{"/opt/vlc/vlc"}}, launcher.started)
}

func TestNewServerRejectsBadConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Actions.PathsFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := NewServer(cfg, WithLogger(logging.NewNop()))
	assert.Error(t, err)

	cfg = config.Default()
	cfg.Actions.CommandTimeout = 0
	_, err = NewServer(cfg, WithLogger(logging.NewNop()))
	assert.Error(t, err)

	cfg = config.Default()
	cfg.CORS.Origins = []string{"phone.local"}
	_, err = NewServer(cfg, WithLogger(logging.NewNop()))
	assert.ErrorContains(t, err, "invalid CORS origins")
}

func TestCORSOriginsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.CORS.Origins = []string{"http://phone.local"}
	srv, _ := newTestServer(t, cfg)

	w := serve(srv, http.MethodGet, "/api/stats", "", map[string]string{"Origin": "http://phone.local"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://phone.local", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(srv, http.MethodGet, "/api/stats", "", map[string]string{"Origin": "http://other.local"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestShutdownWithoutRun(t *testing.T) {
	srv, _ := newTestServer(t, config.Default())
	assert.NoError(t, srv.Shutdown(context.Background()))
}
