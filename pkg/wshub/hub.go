package wshub

import (
	"context"
	"errors"
	"sync"

	"github.com/shubinsengi1/ubertest/pkg/logger"
	wrap "github.com/shubinsengi1/ubertest/pkg/logger/wrapper"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

var (
	ErrEmptyConn      = errors.New("connection is empty")
	ErrConnIsNotFound = errors.New("connection not found")
)

// Hub is the subscription registry: one live connection per user id, with
// explicit connect/disconnect lifecycle. Delivery through the hub is
// presence-notification, not guaranteed messaging.
type Hub struct {
	clients map[uuid.UUID]*Conn
	l       logger.Logger
	mu      sync.Mutex
}

func NewHub(l logger.Logger) *Hub {
	return &Hub{
		clients: make(map[uuid.UUID]*Conn),
		l:       l,
	}
}

// Add registers a new connection. An existing connection for the same
// user is closed and replaced.
func (h *Hub) Add(newConn *Conn) error {
	if newConn == nil {
		return ErrEmptyConn
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), "ws_connection_add")

	if existing, ok := h.clients[newConn.userID]; ok {
		h.l.Warn(ctx, "replacing existing connection", "user_id", existing.userID)
		if err := existing.Close(); err != nil {
			h.l.Warn(ctx, "failed to close existing conn", "user_id", existing.userID, "err", err.Error())
		}
	}

	h.clients[newConn.userID] = newConn

	return nil
}

// Delete removes and closes the connection for the given user id.
func (h *Hub) Delete(userID uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := wrap.WithAction(context.Background(), "ws_connection_delete")

	conn, ok := h.clients[userID]
	if !ok {
		return ErrConnIsNotFound
	}

	if err := conn.Close(); err != nil {
		h.l.Warn(ctx, "failed to close conn", "user_id", conn.userID, "err", err.Error())
	}

	delete(h.clients, userID)

	return nil
}

// SendTo delivers a message to one subscriber. Returns ErrConnIsNotFound
// when the user has no live connection.
func (h *Hub) SendTo(id uuid.UUID, msg any) error {
	h.mu.Lock()
	conn, ok := h.clients[id]
	h.mu.Unlock()

	if !ok {
		return ErrConnIsNotFound
	}
	return conn.Send(msg)
}

// BroadcastRole delivers a message to every connected subscriber with the
// given role. Individual send failures are ignored.
func (h *Hub) BroadcastRole(role string, msg any) {
	h.mu.Lock()
	conns := make([]*Conn, 0, len(h.clients))
	for _, conn := range h.clients {
		if conn.role == role {
			conns = append(conns, conn)
		}
	}
	h.mu.Unlock()

	for _, conn := range conns {
		_ = conn.Send(msg)
	}
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close closes every connection.
func (h *Hub) Close() {
	ctx := wrap.WithAction(context.Background(), "ws_hub_close")

	h.mu.Lock()
	conns := make([]*Conn, 0, len(h.clients))
	for _, conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.Unlock()

	for _, conn := range conns {
		_ = h.Delete(conn.userID)
	}

	h.l.Info(ctx, "all websocket connections closed")
}
