// Package hub pushes dashboard views to WebSocket clients and serves their typeahead search.
package hub

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/preston-bernstein/esports-dashboard/internal/app/dashboard"
	"github.com/preston-bernstein/esports-dashboard/internal/debounce"
	"github.com/preston-bernstein/esports-dashboard/internal/directory"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
	"github.com/preston-bernstein/esports-dashboard/internal/logging"
	"github.com/preston-bernstein/esports-dashboard/internal/refresh"
	"github.com/preston-bernstein/esports-dashboard/internal/render"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 16
)

// Service is the dashboard surface the hub drives.
type Service interface {
	View() (render.View, bool)
	Search(ctx context.Context, game, query string) directory.SearchResult
	Refresh() refresh.Status
	Follow(ctx context.Context, id teams.ID) (dashboard.Follows, error)
	Unfollow(ctx context.Context, id teams.ID) (dashboard.Follows, error)
}

// Subscriber hands out latest-wins view streams.
type Subscriber interface {
	Subscribe() (<-chan render.View, func())
}

// Config configures a Hub.
type Config struct {
	Service        Service
	Views          Subscriber
	Logger         *slog.Logger
	SearchDebounce time.Duration
	CheckOrigin    func(r *http.Request) bool
}

// Hub tracks connected clients.
type Hub struct {
	service  Service
	views    Subscriber
	logger   *slog.Logger
	debounce time.Duration
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

// New constructs a Hub.
func New(cfg Config) *Hub {
	checkOrigin := cfg.CheckOrigin
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &Hub{
		service:  cfg.Service,
		views:    cfg.Views,
		logger:   cfg.Logger,
		debounce: cfg.SearchDebounce,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and starts the client pumps.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn(h.logger, "websocket upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		debounce: debounce.New(h.debounce),
		ctx:      ctx,
		cancel:   cancel,
	}
	var views <-chan render.View
	if h.views != nil {
		views, c.unsubscribe = h.views.Subscribe()
	}
	h.register(c)

	if view, ok := h.service.View(); ok {
		c.enqueue(Envelope{Type: TypeView, Payload: view})
	}
	if views != nil {
		go c.forwardViews(views)
	}

	go c.writePump()
	go c.readPump()
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		c.close()
	}
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = struct{}{}
	logging.Debug(h.logger, "websocket client registered", logging.FieldCount, len(h.clients))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients, c)
	logging.Debug(h.logger, "websocket client unregistered", logging.FieldCount, len(h.clients))
}
