// Package server assembles the remote control agent.
//
// NewServer wires configuration, logging, metrics, the statistics tracker,
// the action executor and the WebSocket hub behind a gin router:
//
//	RequestID -> AccessLog -> Recovery -> Metrics -> CORS -> RateLimit -> handlers
//
// The API is mounted under the configured prefix (default /api). Prometheus
// metrics are served at /metrics outside the prefix.
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.NewServer(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	go srv.Run()
//	defer srv.Shutdown(context.Background())
package server
