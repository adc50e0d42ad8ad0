// Package ws serves the live tracking feed: clients open a WebSocket for one
// tracking number and receive every update published for it.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"dispatch/internal/core/ports"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type connection struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *connection) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

// Hub keeps the open connections per topic. It is also a ports.Broadcaster
// for single-instance deployments without a message broker.
type Hub struct {
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu     sync.RWMutex
	topics map[string]map[*connection]struct{}
}

var _ ports.Broadcaster = (*Hub)(nil)

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		logger: logger.With("component", "tracking_hub"),
		topics: make(map[string]map[*connection]struct{}),
	}
}

// Serve upgrades the request and streams topic updates until the client
// disconnects. It blocks for the lifetime of the connection.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, topic string) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return fmt.Errorf("upgrade: %w", err)
	}

	c := &connection{conn: conn}
	h.register(topic, c)
	defer h.unregister(topic, c)

	done := make(chan struct{})
	defer close(done)
	go h.keepAlive(c, done)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// clients only listen; reading detects the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

// Deliver writes body to every connection watching topic.
func (h *Hub) Deliver(topic string, body []byte) {
	h.mu.RLock()
	conns := make([]*connection, 0, len(h.topics[topic]))
	for c := range h.topics[topic] {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		if err := c.write(websocket.TextMessage, body); err != nil {
			h.logger.Debug("write failed, dropping connection", "topic", topic, "error", err)
			h.unregister(topic, c)
		}
	}
}

// Broadcast marshals payload and delivers it locally.
func (h *Hub) Broadcast(_ context.Context, topic string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	h.Deliver(topic, body)
	return nil
}

// Watchers returns the number of open connections for topic.
func (h *Hub) Watchers(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.topics[topic])
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for topic, conns := range h.topics {
		for c := range conns {
			_ = c.conn.Close()
		}
		delete(h.topics, topic)
	}
}

func (h *Hub) register(topic string, c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.topics[topic] == nil {
		h.topics[topic] = make(map[*connection]struct{})
	}
	h.topics[topic][c] = struct{}{}
}

func (h *Hub) unregister(topic string, c *connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.topics[topic]
	if !ok {
		return
	}
	if _, ok := conns[c]; !ok {
		return
	}
	delete(conns, c)
	if len(conns) == 0 {
		delete(h.topics, topic)
	}
	_ = c.conn.Close()
}

func (h *Hub) keepAlive(c *connection, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.write(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
