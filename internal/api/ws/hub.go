package ws

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/giroscopio/internal/domain/stats"
	"github.com/GriffinCanCode/giroscopio/internal/infrastructure/logging"
	"github.com/GriffinCanCode/giroscopio/internal/infrastructure/monitoring"
)

const (
	sendBuffer     = 16
	writeTimeout   = 5 * time.Second
	maxMessageSize = 4096

	// Subscribers must answer a ping within pongWait.
	defaultPongWait   = 60 * time.Second
	defaultPingPeriod = (defaultPongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origins are enforced by the CORS middleware
	},
}

// Message is the envelope for every frame in both directions.
type Message struct {
	Type    string          `json:"type"`
	Stats   *stats.Snapshot `json:"stats,omitempty"`
	Message string          `json:"message,omitempty"`
}

// SnapshotSource provides the current statistics.
type SnapshotSource interface {
	Snapshot() stats.Snapshot
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
	// queuedRequests is the TotalRequests of the newest snapshot queued. Guarded by Hub.mu.
	queuedRequests int64
}

// Hub fans statistics out to subscribers.
type Hub struct {
	source  SnapshotSource
	logger  *logging.Logger
	metrics *monitoring.Metrics

	pongWait   time.Duration
	pingPeriod time.Duration

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

// NewHub creates a hub. metrics may be nil.
func NewHub(source SnapshotSource, logger *logging.Logger, metrics *monitoring.Metrics) *Hub {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Hub{
		source:     source,
		logger:     logger,
		metrics:    metrics,
		pongWait:   defaultPongWait,
		pingPeriod: defaultPingPeriod,
		subs:       make(map[*subscriber]struct{}),
	}
}

// Subscribers returns the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Broadcast pushes snap to every subscriber without blocking. A snapshot older
// than one already queued for a subscriber is skipped, so concurrent callers
// never make a subscriber's counters go backwards.
func (h *Hub) Broadcast(snap stats.Snapshot) {
	data, err := json.Marshal(Message{Type: "stats", Stats: &snap})
	if err != nil {
		h.logger.Error("Failed to encode stats frame", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if snap.TotalRequests < sub.queuedRequests {
			continue
		}
		if !h.queueLocked(sub, data, &snap) {
			h.logger.Warn("Dropping slow stream subscriber", zap.String("remote", sub.conn.RemoteAddr().String()))
		}
	}
}

// HandleConnection upgrades the request and serves one subscriber until it disconnects.
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.add(sub) {
		conn.Close()
		return
	}
	h.logger.Info("Stream subscriber connected", zap.String("client_ip", c.ClientIP()))

	go h.writeLoop(sub)

	snap := h.source.Snapshot()
	h.enqueue(sub, Message{Type: "stats", Stats: &snap})

	h.readLoop(sub)
	h.remove(sub)
	h.logger.Info("Stream subscriber disconnected", zap.String("client_ip", c.ClientIP()))
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for sub := range h.subs {
		h.removeLocked(sub)
	}
}

func (h *Hub) readLoop(sub *subscriber) {
	sub.conn.SetReadLimit(maxMessageSize)
	sub.conn.SetReadDeadline(time.Now().Add(h.pongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(h.pongWait))
	})
	for {
		var msg Message
		if err := sub.conn.ReadJSON(&msg); err != nil {
			return
		}
		switch msg.Type {
		case "ping":
			h.enqueue(sub, Message{Type: "pong"})
		case "stats":
			snap := h.source.Snapshot()
			h.enqueue(sub, Message{Type: "stats", Stats: &snap})
		default:
			h.enqueue(sub, Message{Type: "error", Message: "unknown message type"})
		}
	}
}

// writeLoop owns all writes to the connection, including keepalive pings.
func (h *Hub) writeLoop(sub *subscriber) {
	ticker := time.NewTicker(h.pingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()
	for {
		select {
		case data, ok := <-sub.send:
			sub.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				sub.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := sub.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			sub.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) enqueue(sub *subscriber, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[sub]; !ok {
		return
	}
	if msg.Stats != nil && msg.Stats.TotalRequests < sub.queuedRequests {
		return
	}
	h.queueLocked(sub, data, msg.Stats)
}

// queueLocked hands data to the write loop, removing the subscriber when its
// queue is full.
func (h *Hub) queueLocked(sub *subscriber, data []byte, snap *stats.Snapshot) bool {
	select {
	case sub.send <- data:
		if snap != nil {
			sub.queuedRequests = snap.TotalRequests
		}
		return true
	default:
		h.removeLocked(sub)
		return false
	}
}

func (h *Hub) add(sub *subscriber) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.subs[sub] = struct{}{}
	if h.metrics != nil {
		h.metrics.IncStreamSubscribers()
	}
	return true
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub)
}

// removeLocked closes the subscriber's queue; its write loop then closes the connection.
func (h *Hub) removeLocked(sub *subscriber) {
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	close(sub.send)
	if h.metrics != nil {
		h.metrics.DecStreamSubscribers()
	}
}
