package wshub

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

// Conn is a single subscriber connection, keyed by user id.
type Conn struct {
	conn    *websocket.Conn
	userID  uuid.UUID
	role    string
	doneCtx context.Context
	cancel  context.CancelFunc
	mu      sync.Mutex
}

func NewConn(ctx context.Context, userID uuid.UUID, role string, conn *websocket.Conn) *Conn {
	ctx, cancel := context.WithCancel(ctx)

	return &Conn{
		conn:    conn,
		userID:  userID,
		role:    role,
		doneCtx: ctx,
		cancel:  cancel,
	}
}

func (c *Conn) UserID() uuid.UUID {
	return c.userID
}

func (c *Conn) Role() string {
	return c.role
}

func (c *Conn) health() error {
	if c.conn == nil {
		return errors.New("connection is nil")
	}

	select {
	case <-c.doneCtx.Done():
		return errors.New("connection context cancelled")
	default:
	}

	if err := c.conn.WriteControl(
		websocket.PingMessage,
		[]byte("ping"),
		time.Now().Add(3*time.Second),
	); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	return nil
}

// Send writes a JSON message to the peer. Writes are serialized; gorilla
// connections do not support concurrent writers.
func (c *Conn) Send(msg any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.health(); err != nil {
		return fmt.Errorf("send failed: connection not healthy: %w", err)
	}
	return c.conn.WriteJSON(msg)
}

// Listen reads messages until the connection closes. Inbound payloads are
// handed to fn; a handler error terminates the loop.
func (c *Conn) Listen(fn func(msg map[string]any) error) error {
	for {
		select {
		case <-c.doneCtx.Done():
			return errors.New("listen stopped: context done")
		default:
			var msg map[string]any
			if err := c.conn.ReadJSON(&msg); err != nil {
				return fmt.Errorf("read failed: %w", err)
			}
			if err := fn(msg); err != nil {
				return fmt.Errorf("handler failed: %w", err)
			}
		}
	}
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancel != nil {
		c.cancel()
	}

	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
