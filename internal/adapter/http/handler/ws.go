package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/pkg/logger"
	wrap "github.com/shubinsengi1/ubertest/pkg/logger/wrapper"
	"github.com/shubinsengi1/ubertest/pkg/metrics"
	"github.com/shubinsengi1/ubertest/pkg/wshub"
)

type WS struct {
	hub      *wshub.Hub
	l        logger.Logger
	upgrader websocket.Upgrader
}

func NewWS(hub *wshub.Hub, l logger.Logger) *WS {
	return &WS{
		hub: hub,
		l:   l,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
			CheckOrigin:      func(r *http.Request) bool { return true },
		},
	}
}

// Subscribe upgrades an authenticated request to a websocket and keeps
// it registered in the hub until the peer disconnects. Riders receive
// status updates for their rides, drivers additionally receive new ride
// request broadcasts.
func (h *WS) Subscribe(w http.ResponseWriter, r *http.Request) {
	ctx := wrap.WithAction(r.Context(), "ws_subscribe")

	claims, ok := models.UserFromContext(ctx)
	if !ok {
		errorResponse(w, http.StatusUnauthorized, "authentication required")
		return
	}
	ctx = wrap.WithUserID(ctx, claims.UserID.String())

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied to the client.
		h.l.Warn(ctx, "websocket upgrade failed", "error", err.Error())
		return
	}

	conn := wshub.NewConn(r.Context(), claims.UserID, string(claims.Role), wsConn)
	if err := h.hub.Add(conn); err != nil {
		h.l.Error(ctx, "failed to register websocket connection", err)
		_ = wsConn.Close()
		return
	}
	metrics.WebSocketConnectionsGauge.Inc()

	h.l.Info(ctx, "websocket subscribed", "role", claims.Role)

	defer func() {
		if err := h.hub.Delete(claims.UserID); err != nil {
			h.l.Debug(ctx, "websocket already removed from hub", "error", err.Error())
		}
		metrics.WebSocketConnectionsGauge.Dec()
		h.l.Info(ctx, "websocket closed")
	}()

	// Inbound frames are drained so control messages keep flowing; the
	// connection is push-only from the server side.
	if err := conn.Listen(func(msg map[string]any) error { return nil }); err != nil {
		h.l.Debug(ctx, "websocket listen ended", "reason", err.Error())
	}
}
