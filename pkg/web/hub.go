package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pterm/pterm"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 16 * 1024,
}

type client struct {
	id   uuid.UUID
	send chan []byte
}

// hub fans change batches out to the connected websocket clients. A client
// that cannot keep up is dropped.
type hub struct {
	mu      sync.Mutex
	clients map[uuid.UUID]*client
	logger  *pterm.Logger
	metrics *metrics
}

func newHub(logger *pterm.Logger, m *metrics) *hub {
	return &hub{
		clients: make(map[uuid.UUID]*client),
		logger:  logger,
		metrics: m,
	}
}

func (h *hub) register(c *client) {
	h.mu.Lock()
	h.clients[c.id] = c
	n := len(h.clients)
	h.mu.Unlock()
	h.metrics.clients.Set(float64(n))
	h.logger.Debug("websocket client connected", h.logger.Args("client", c.id.String(), "clients", n))
}

func (h *hub) unregister(id uuid.UUID) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.metrics.clients.Set(float64(n))
		h.logger.Debug("websocket client disconnected", h.logger.Args("client", id.String(), "clients", n))
	}
}

func (h *hub) broadcast(payload []byte) {
	h.mu.Lock()
	var slow []uuid.UUID
	for id, c := range h.clients {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, id)
		}
	}
	h.mu.Unlock()

	for _, id := range slow {
		h.logger.Warn("dropping slow websocket client", h.logger.Args("client", id.String()))
		h.unregister(id)
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	ids := make([]uuid.UUID, 0, len(h.clients))
	for id := range h.clients {
		ids = append(ids, id)
	}
	h.mu.Unlock()
	for _, id := range ids {
		h.unregister(id)
	}
}

// serve upgrades the connection and streams batches until the peer goes
// away. welcome is sent right after registration.
func (h *hub) serve(welcome func() []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Error("failed to upgrade the websocket", h.logger.Args("error", err))
			return
		}

		c := &client{id: uuid.New(), send: make(chan []byte, sendBuffer)}
		h.register(c)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					h.unregister(c.id)
					return
				}
			}
		}()

		if payload := welcome(); payload != nil {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.unregister(c.id)
			}
		}

		for payload := range c.send {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				h.unregister(c.id)
				break
			}
		}

		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
		conn.Close()
		<-done
	}
}
