// Package ws streams desktop events to clients over a WebSocket.
package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/webdesk/webdesk/internal/domain/system"
	"github.com/webdesk/webdesk/internal/infrastructure/logging"
	"github.com/webdesk/webdesk/internal/infrastructure/monitoring"
	"github.com/webdesk/webdesk/internal/shared/events"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// sendBuffer absorbs event bursts; a client that cannot drain it in
	// time is disconnected rather than allowed to stall the publishers.
	sendBuffer = 256
)

// Message is one event pushed to the client, tagged with the manager it
// came from.
type Message struct {
	Source string        `json:"source"`
	Topic  string        `json:"topic"`
	Detail events.Detail `json:"detail,omitempty"`
}

// Handler upgrades HTTP requests into event stream connections.
type Handler struct {
	system   *system.SystemManager
	upgrader websocket.Upgrader
	log      *logging.Logger
	metrics  *monitoring.Metrics
}

// NewHandler creates the stream handler.
func NewHandler(sys *system.SystemManager, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{
		system: sys,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// WithMetrics attaches a metrics collector.
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// Handle upgrades the request and streams every event published by the
// desktop managers until the client disconnects.
func (h *Handler) Handle(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("stream upgrade failed", zap.Error(err))
		return
	}

	send := make(chan Message, sendBuffer)
	done := make(chan struct{})

	sources := map[string]*events.Bus{
		"windows":     h.system.Windows().Events(),
		"kernel":      h.system.Kernel().Events(),
		"filesystem":  h.system.Filesystem().Events(),
		"permissions": h.system.Permissions().Events(),
		"register":    h.system.Register().Events(),
		"themes":      h.system.Themes().Events(),
	}
	cancels := make([]func(), 0, len(sources))
	for name, bus := range sources {
		source := name
		cancels = append(cancels, bus.SubscribeAll(func(ev events.Event) {
			select {
			case send <- Message{Source: source, Topic: ev.Topic, Detail: ev.Detail}:
			case <-done:
			default:
				// Buffer full: the writer will notice the closed socket.
			}
		}))
	}

	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
	}
	h.log.Info("stream connected", zap.String("remote", conn.RemoteAddr().String()))

	cleanup := func() {
		close(done)
		for _, cancel := range cancels {
			cancel()
		}
		conn.Close()
		if h.metrics != nil {
			h.metrics.WSConnections.Dec()
		}
		h.log.Info("stream disconnected", zap.String("remote", conn.RemoteAddr().String()))
	}

	go h.writeLoop(conn, send, done)
	h.readLoop(conn)
	cleanup()
}

// readLoop discards client frames and returns when the connection drops.
func (h *Handler) readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, send <-chan Message, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case msg := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
			if h.metrics != nil {
				h.metrics.WSMessages.Inc()
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
