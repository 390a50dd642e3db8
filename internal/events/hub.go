package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rickgao/auction-watch/internal/model"
)

// HubConfig holds websocket feed settings.
type HubConfig struct {
	BufferLimit  int           // queued events per client before it is dropped (default: 256)
	WriteTimeout time.Duration // per message (default: 10s)
	PingInterval time.Duration // keepalive (default: 30s)
}

// DefaultHubConfig returns the default feed settings.
func DefaultHubConfig() HubConfig {
	return HubConfig{
		BufferLimit:  256,
		WriteTimeout: 10 * time.Second,
		PingInterval: 30 * time.Second,
	}
}

// Hub streams published events to websocket clients. Each client may pass
// ?account=<name> to receive only that account's events. A client that
// cannot keep up is disconnected.
type Hub struct {
	cfg      HubConfig
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*hubClient]struct{}
	closed  bool
	wg      sync.WaitGroup
}

type hubClient struct {
	hub     *Hub
	conn    *websocket.Conn
	account string
	queue   *Queue[[]byte]

	writeMu sync.Mutex
	done    chan struct{}
	once    sync.Once
}

// NewHub creates a hub. Zero config fields take their defaults.
func NewHub(cfg HubConfig, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultHubConfig()
	if cfg.BufferLimit <= 0 {
		cfg.BufferLimit = def.BufferLimit
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = def.PingInterval
	}
	return &Hub{
		cfg:    cfg,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*hubClient]struct{}),
	}
}

// Handle fans e out to connected clients. It never blocks on a client.
func (h *Hub) Handle(_ context.Context, e model.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	h.mu.Lock()
	targets := make([]*hubClient, 0, len(h.clients))
	for c := range h.clients {
		if c.account == "" || c.account == e.Account {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()

	for _, c := range targets {
		if !c.queue.Push(data) {
			h.logger.Warn("event stream client too slow, disconnecting", "remote", c.conn.RemoteAddr())
			c.close()
		}
	}
	return nil
}

// ServeHTTP upgrades the request and registers the client.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		http.Error(w, "event stream closed", http.StatusServiceUnavailable)
		return
	}
	h.mu.Unlock()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket upgrade failed", "err", err)
		return
	}

	c := &hubClient{
		hub:     h,
		conn:    conn,
		account: r.URL.Query().Get("account"),
		queue:   NewQueue[[]byte](16, h.cfg.BufferLimit),
		done:    make(chan struct{}),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	h.wg.Add(3)
	h.mu.Unlock()

	go c.writeLoop()
	go c.readLoop()
	go c.pingLoop()

	h.logger.Debug("event stream client connected", "remote", conn.RemoteAddr(), "account", c.account)
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and waits for their goroutines.
func (h *Hub) Close() {
	h.mu.Lock()
	h.closed = true
	clients := make([]*hubClient, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
	h.wg.Wait()
}

func (c *hubClient) close() {
	c.once.Do(func() {
		c.hub.mu.Lock()
		delete(c.hub.clients, c)
		c.hub.mu.Unlock()

		close(c.done)
		c.queue.Close()

		c.writeMu.Lock()
		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.writeMu.Unlock()
		c.conn.Close()
	})
}

// writeLoop sends queued events until the queue is closed.
func (c *hubClient) writeLoop() {
	defer c.hub.wg.Done()

	for {
		data, ok := c.queue.Pop()
		if !ok {
			return
		}
		c.writeMu.Lock()
		c.conn.SetWriteDeadline(time.Now().Add(c.hub.cfg.WriteTimeout))
		err := c.conn.WriteMessage(websocket.TextMessage, data)
		c.writeMu.Unlock()
		if err != nil {
			c.hub.logger.Debug("event stream write failed", "err", err)
			c.close()
			return
		}
	}
}

// readLoop discards client messages; it exists to notice disconnects.
func (c *hubClient) readLoop() {
	defer c.hub.wg.Done()
	defer c.close()

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *hubClient) pingLoop() {
	defer c.hub.wg.Done()

	ticker := time.NewTicker(c.hub.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, []byte("keepalive"), time.Now().Add(c.hub.cfg.WriteTimeout))
			c.writeMu.Unlock()
			if err != nil {
				c.hub.logger.Debug("event stream ping failed", "err", err)
				c.close()
				return
			}
		}
	}
}
