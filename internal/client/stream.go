package client

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/GriffinCanCode/giroscopio/internal/domain/stats"
)

type streamMessage struct {
	Type    string          `json:"type"`
	Stats   *stats.Snapshot `json:"stats,omitempty"`
	Message string          `json:"message,omitempty"`
}

// StreamURL returns the WebSocket address of the agent's stats stream.
func (c *Client) StreamURL() string {
	u := c.cfg.BaseURL + c.cfg.APIPrefix + "/stream"
	switch {
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	}
	return u
}

// Watch subscribes to the stats stream and calls fn for every snapshot until
// ctx is cancelled or the connection drops. Cancellation returns nil.
func (c *Client) Watch(ctx context.Context, fn func(stats.Snapshot)) error {
	if err := c.breaker.allow(); err != nil {
		return err
	}

	dialer := websocket.Dialer{HandshakeTimeout: c.cfg.Timeout}
	conn, _, err := dialer.DialContext(ctx, c.StreamURL(), nil)
	c.breaker.doneFor(ctx, err)
	if err != nil {
		return fmt.Errorf("connect stream: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		var msg streamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read stream: %w", err)
		}

		switch msg.Type {
		case "stats":
			if msg.Stats != nil {
				fn(*msg.Stats)
			}
		case "error":
			return errors.New("stream error: " + msg.Message)
		}
	}
}
