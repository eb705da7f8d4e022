package ws

import (
	"context"
	"errors"
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/logger"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
	"github.com/shubinsengi1/ubertest/pkg/wshub"
)

// Notifier pushes events to connected clients over the websocket hub.
// Delivery is best effort: an offline recipient is logged and skipped,
// never an error for the caller.
type Notifier struct {
	hub *wshub.Hub
	l   logger.Logger
}

func NewNotifier(hub *wshub.Hub, l logger.Logger) *Notifier {
	return &Notifier{
		hub: hub,
		l:   l,
	}
}

func (n *Notifier) Notify(recipientID uuid.UUID, event string, payload any) {
	msg := models.Event{
		Type:      event,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}

	if err := n.hub.SendTo(recipientID, msg); err != nil {
		if errors.Is(err, wshub.ErrConnIsNotFound) {
			n.l.Debug(context.Background(), "recipient not connected, dropping event",
				"user_id", recipientID.String(), "event", event)
			return
		}
		n.l.Warn(context.Background(), "failed to deliver event",
			"user_id", recipientID.String(), "event", event, "error", err.Error())
	}
}

// BroadcastRideRequest pushes a new open ride to every connected
// driver. Wired as the handler for the broker's ride request queue.
func (n *Notifier) BroadcastRideRequest(ctx context.Context, msg models.RideRequestedMessage) {
	event := models.Event{
		Type:      types.EventNewRideRequest,
		Timestamp: time.Now().UTC(),
		Payload:   msg,
	}
	n.hub.BroadcastRole(string(types.RoleDriver), event)
}
