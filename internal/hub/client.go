package hub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/preston-bernstein/esports-dashboard/internal/app/dashboard"
	"github.com/preston-bernstein/esports-dashboard/internal/debounce"
	"github.com/preston-bernstein/esports-dashboard/internal/domain/teams"
	"github.com/preston-bernstein/esports-dashboard/internal/follow"
	"github.com/preston-bernstein/esports-dashboard/internal/logging"
	"github.com/preston-bernstein/esports-dashboard/internal/render"
)

var errInvalidID = errors.New("invalid team id")

type client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	debounce    *debounce.Debouncer
	unsubscribe func()
	ctx         context.Context
	cancel      context.CancelFunc

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
}

func (c *client) readPump() {
	defer c.close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Warn(c.hub.logger, "websocket read failed", "error", err)
			}
			return
		}
		c.handle(data)
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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

func (c *client) forwardViews(views <-chan render.View) {
	for view := range views {
		c.enqueue(Envelope{Type: TypeView, Payload: view})
	}
}

func (c *client) handle(data []byte) {
	var msg Inbound
	if err := json.Unmarshal(data, &msg); err != nil {
		c.sendError("malformed message")
		return
	}

	switch msg.Type {
	case TypeSearch:
		game, query := msg.Game, msg.Query
		c.debounce.Call(func() {
			result := c.hub.service.Search(c.ctx, game, query)
			c.enqueue(Envelope{Type: TypeSearchResult, Payload: result})
		})
	case TypeRefresh:
		status := c.hub.service.Refresh()
		c.enqueue(Envelope{Type: TypeStatus, Payload: status})
	case TypeFollow, TypeUnfollow:
		id, err := parseID(msg.ID)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		var follows dashboard.Follows
		if msg.Type == TypeFollow {
			follows, err = c.hub.service.Follow(c.ctx, id)
		} else {
			follows, err = c.hub.service.Unfollow(c.ctx, id)
		}
		if err != nil {
			logging.Warn(c.hub.logger, "websocket follow update failed", logging.FieldTeamID, int64(id), "error", err)
			c.sendError("follow update failed")
			return
		}
		c.enqueue(Envelope{Type: TypeFollows, Payload: follows})
	default:
		c.sendError("unknown message type")
	}
}

func (c *client) sendError(msg string) {
	c.enqueue(Envelope{Type: TypeError, Payload: errorPayload{Error: msg}})
}

// enqueue drops the message when the client is closed or its buffer is full.
func (c *client) enqueue(env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		logging.Error(c.hub.logger, "websocket marshal failed", err, logging.FieldKind, env.Type)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		logging.Warn(c.hub.logger, "websocket send buffer full, dropping message", logging.FieldKind, env.Type)
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.debounce.Stop()
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		_ = c.conn.Close()
		c.hub.unregister(c)
	})
}

func parseID(raw any) (teams.ID, error) {
	ids := follow.NormalizeValues([]any{raw}).IDs()
	if len(ids) != 1 {
		return 0, errInvalidID
	}
	return ids[0], nil
}
