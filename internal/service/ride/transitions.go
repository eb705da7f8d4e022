package ride

import "github.com/shubinsengi1/ubertest/internal/domain/types"

// progressRank orders the driver-progress statuses. Any strictly
// forward move between ranked statuses is legal, so a driver may skip
// intermediate updates. Requested is absent on purpose: a requested
// ride becomes accepted only through the dispatch service, which also
// assigns the driver.
var progressRank = map[types.RideStatus]int{
	types.StatusAccepted:    1,
	types.StatusDriverOnWay: 2,
	types.StatusArrived:     3,
	types.StatusInProgress:  4,
	types.StatusCompleted:   5,
}

func canAdvance(from, to types.RideStatus) bool {
	f, fromOK := progressRank[from]
	t, toOK := progressRank[to]
	return fromOK && toOK && t > f
}

func canCancel(from types.RideStatus) bool {
	return !from.Terminal()
}
