package ws

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/TabletOS/backend/internal/domain/tablet"
)

const (
	// DefaultFrameInterval is how often the stream checks for a new frame
	DefaultFrameInterval = 50 * time.Millisecond

	writeTimeout = 5 * time.Second
)

// Message is a client command
type Message struct {
	Type string `json:"type"`
	X    int    `json:"x,omitempty"`
	Y    int    `json:"y,omitempty"`
	Code int    `json:"code,omitempty"`
	App  string `json:"app,omitempty"`
}

// Handler manages WebSocket viewer connections
type Handler struct {
	device   *tablet.Device
	logger   *zap.Logger
	interval time.Duration
	upgrader websocket.Upgrader
}

// NewHandler creates a new WebSocket handler
func NewHandler(device *tablet.Device, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		device:   device,
		logger:   logger,
		interval: DefaultFrameInterval,
	}
}

// WithFrameInterval sets the frame polling interval
func (h *Handler) WithFrameInterval(d time.Duration) *Handler {
	if d > 0 {
		h.interval = d
	}
	return h
}

// WithOriginCheck sets the upgrade origin policy. The default accepts only
// same-host origins.
func (h *Handler) WithOriginCheck(check func(r *http.Request) bool) *Handler {
	h.upgrader.CheckOrigin = check
	return h
}

// conn serializes writes to a websocket connection
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(data)
}

func (c *conn) sendFrame(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteMessage(websocket.BinaryMessage, data)
}

func (c *conn) sendError(msg string) error {
	return c.send(gin.H{
		"type":      "error",
		"message":   msg,
		"timestamp": time.Now().Unix(),
	})
}

// HandleConnection handles WebSocket upgrade and messages
func (h *Handler) HandleConnection(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer ws.Close()

	conn := &conn{ws: ws}
	width, height := h.device.Size()
	if err := conn.send(gin.H{
		"type":    "system",
		"session": h.device.SessionID(),
		"width":   width,
		"height":  height,
	}); err != nil {
		return
	}

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	go h.streamFrames(ctx, conn)

	// Listen for messages
	for {
		var msg Message
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug("WebSocket read error", zap.Error(err))
			}
			return
		}

		if err := h.handle(conn, msg); err != nil {
			return
		}
	}
}

func (h *Handler) handle(conn *conn, msg Message) error {
	var err error
	switch msg.Type {
	case "mouse":
		err = h.device.MousePressed(msg.X, msg.Y)
	case "key":
		err = h.device.KeyPressed(msg.Code)
	case "open":
		err = h.device.Open(msg.App)
	case "close":
		h.device.Close()
	case "ping":
		return conn.send(gin.H{"type": "pong"})
	default:
		return conn.sendError("unknown message type")
	}

	if err != nil {
		return conn.sendError(err.Error())
	}
	return conn.send(gin.H{"type": "ok", "command": msg.Type})
}

// streamFrames pushes the latest frame whenever the frame count changes
func (h *Handler) streamFrames(ctx context.Context, conn *conn) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var sent uint64
	var buf bytes.Buffer
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		frames := h.device.Frames()
		if frames == sent {
			continue
		}
		sent = frames

		buf.Reset()
		if err := png.Encode(&buf, h.device.LastFrame().Image()); err != nil {
			h.logger.Error("Frame encode failed", zap.Error(err))
			continue
		}
		if err := conn.sendFrame(buf.Bytes()); err != nil {
			return
		}
	}
}
