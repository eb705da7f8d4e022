package types

import "strings"

// Event names delivered over the websocket hub and rabbit exchange.
// Status change events are derived from the status value itself so the
// two sets can never drift apart.
const (
	EventNewRideRequest = "new-ride-request"
	EventRideAccepted   = "ride-accepted"
	EventRideCancelled  = "ride-cancelled"
	EventDriverLocation = "driver-location"
	EventRideRated      = "ride-rated"
)

// EventForStatus maps a ride status to its event name, e.g.
// driver_on_way becomes "ride-driver-on-way".
func EventForStatus(s RideStatus) string {
	return "ride-" + strings.ReplaceAll(string(s), "_", "-")
}
