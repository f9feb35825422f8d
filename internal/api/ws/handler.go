package ws

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/GriffinCanCode/PolyChat/backend/internal/domain/events"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PolyChat/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/PolyChat/backend/internal/shared/types"
	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
	sendBuffer     = 256
)

// ErrClosed is returned by Send after Close
var ErrClosed = errors.New("websocket handler closed")

// Outbound is the envelope of every message sent to clients
type Outbound struct {
	Type    string `json:"type"`
	ID      string `json:"id,omitempty"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Handler manages WebSocket connections
type Handler struct {
	router   *Router
	upgrader websocket.Upgrader

	mu        sync.RWMutex
	clients   map[string]*client
	closed    bool
	onConnect func()

	metrics *monitoring.Metrics
	tracer  *tracing.Tracer
	logger  *zap.Logger
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// NewHandler creates a new WebSocket handler
func NewHandler(sessions Sessions, window Window) *Handler {
	return &Handler{
		router: NewRouter(sessions, window),
		upgrader: websocket.Upgrader{
			// The socket only listens on loopback
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[string]*client),
		logger:  zap.NewNop(),
	}
}

// WithMetrics adds metrics tracking
func (h *Handler) WithMetrics(metrics *monitoring.Metrics) *Handler {
	h.metrics = metrics
	return h
}

// WithTracer traces every inbound message
func (h *Handler) WithTracer(tracer *tracing.Tracer) *Handler {
	h.tracer = tracer
	return h
}

// WithLogger sets the component logger
func (h *Handler) WithLogger(logger *zap.Logger) *Handler {
	if logger != nil {
		h.logger = logger
		h.router.logger = logger
	}
	return h
}

// OnConnect registers a callback run after each new client is registered
func (h *Handler) OnConnect(fn func()) *Handler {
	h.onConnect = fn
	return h
}

// Clients returns the number of connected clients
func (h *Handler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
	if !h.register(cl) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}
	defer h.unregister(cl)

	h.logger.Info("websocket client connected", zap.String("client_id", cl.id))
	go h.writePump(cl)

	h.sendTo(cl, Outbound{Type: "system", Payload: map[string]string{"clientId": cl.id}})
	if h.onConnect != nil {
		h.onConnect()
	}

	h.readPump(c, cl)
}

func (h *Handler) register(cl *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[cl.id] = cl
	h.metrics.IncWSConnections()
	return true
}

func (h *Handler) unregister(cl *client) {
	h.mu.Lock()
	if _, ok := h.clients[cl.id]; ok {
		delete(h.clients, cl.id)
		h.metrics.DecWSConnections()
	}
	cl.close()
	h.mu.Unlock()

	h.logger.Info("websocket client disconnected", zap.String("client_id", cl.id))
}

func (h *Handler) readPump(c *gin.Context, cl *client) {
	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	ctx := c.Request.Context()
	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("websocket read error", zap.String("client_id", cl.id), zap.Error(err))
			}
			return
		}

		var msg types.WSMessage
		if err := sonic.Unmarshal(data, &msg); err != nil {
			h.sendTo(cl, Outbound{Type: "error", Error: "malformed message"})
			continue
		}
		h.metrics.RecordWSMessage("in", msg.Type)

		if reply, ok := h.router.Handle(ctx, h.tracer, msg); ok {
			h.sendTo(cl, reply)
		}
	}
}

func (h *Handler) writePump(cl *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		cl.conn.Close()
	}()

	for {
		select {
		case data, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Publish implements events.Publisher
func (h *Handler) Publish(e events.Event) {
	_ = h.broadcast(Outbound{Type: e.Type, Payload: e.Payload})
}

// Send implements bridge.Sender
func (h *Handler) Send(msgType, msgID string, payload any) error {
	return h.broadcast(Outbound{Type: msgType, ID: msgID, Payload: payload})
}

func (h *Handler) broadcast(msg Outbound) error {
	data, err := sonic.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode message", zap.String("type", msg.Type), zap.Error(err))
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return ErrClosed
	}
	for _, cl := range h.clients {
		h.enqueue(cl, msg.Type, data)
	}
	return nil
}

func (h *Handler) sendTo(cl *client, msg Outbound) {
	data, err := sonic.Marshal(msg)
	if err != nil {
		h.logger.Error("failed to encode message", zap.String("type", msg.Type), zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	// Close may have dropped the client while its read loop still replies
	if h.clients[cl.id] != cl {
		return
	}
	h.enqueue(cl, msg.Type, data)
}

// enqueue never blocks; a client that cannot keep up loses the message.
// Must hold h.mu (read) and cl must still be registered: send channels
// are only closed under h.mu (write) after removal from h.clients.
func (h *Handler) enqueue(cl *client, msgType string, data []byte) {
	select {
	case cl.send <- data:
		h.metrics.RecordWSMessage("out", msgType)
	default:
		h.logger.Warn("dropping message for slow client",
			zap.String("client_id", cl.id),
			zap.String("type", msgType),
		)
	}
}

// Close disconnects every client and rejects new ones
func (h *Handler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, cl := range h.clients {
		cl.close()
		delete(h.clients, id)
		h.metrics.DecWSConnections()
	}
}
