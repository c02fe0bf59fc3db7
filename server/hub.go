package server

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/rustyeddy/coinboard/dashboard"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
	sendBuffer = 4
)

// wsMessage is the envelope of every websocket frame.
type wsMessage struct {
	Type string             `json:"type"`
	Data dashboard.Snapshot `json:"data"`
}

type wsClient struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// hub fans board snapshots out to websocket clients. A client that falls
// behind loses frames rather than blocking the others.
type hub struct {
	board    *dashboard.Board
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[string]*wsClient
}

func newHub(board *dashboard.Board, logger zerolog.Logger) *hub {
	return &hub{
		board:  board,
		logger: logger.With().Str("sub", "ws").Logger(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[string]*wsClient),
	}
}

// run forwards board snapshots until ctx is done.
func (h *hub) run(ctx context.Context) {
	snaps, unsubscribe := h.board.Subscribe()
	defer unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case snap, ok := <-snaps:
			if !ok {
				return
			}
			h.broadcast(snap)
		}
	}
}

func encodeSnapshot(snap dashboard.Snapshot) ([]byte, error) {
	return json.Marshal(wsMessage{Type: "snapshot", Data: snap})
}

func (h *hub) broadcast(snap dashboard.Snapshot) {
	msg, err := encodeSnapshot(snap)
	if err != nil {
		h.logger.Error().Err(err).Msg("encode snapshot")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, c := range h.clients {
		select {
		case c.send <- msg:
		default:
			h.logger.Warn().Str("conn", id).Msg("client too slow, dropping frame")
		}
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *hub) register(c *wsClient) {
	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()
	h.logger.Info().Str("conn", c.id).Msg("websocket connected")
}

func (h *hub) unregister(c *wsClient) {
	h.mu.Lock()
	if _, ok := h.clients[c.id]; ok {
		delete(h.clients, c.id)
		close(c.send)
	}
	h.mu.Unlock()
	h.logger.Info().Str("conn", c.id).Msg("websocket disconnected")
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		_ = c.conn.Close()
	}
}

func (h *hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied with an HTTP error
		h.logger.Warn().Err(err).Msg("websocket upgrade")
		return
	}

	c := &wsClient{id: uuid.NewString(), conn: conn, send: make(chan []byte, sendBuffer)}
	if msg, err := encodeSnapshot(h.board.Snapshot()); err == nil {
		c.send <- msg
	}
	h.register(c)

	go h.writePump(c)
	h.readPump(c)
}

// readPump discards client frames and detects disconnects.
func (h *hub) readPump(c *wsClient) {
	defer func() {
		h.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Debug().Err(err).Str("conn", c.id).Msg("websocket read")
			}
			return
		}
	}
}

func (h *hub) writePump(c *wsClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
