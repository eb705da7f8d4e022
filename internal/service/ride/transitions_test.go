package ride

import (
	"testing"

	"github.com/shubinsengi1/ubertest/internal/domain/types"
)

func TestCanAdvance(t *testing.T) {
	allowed := []struct{ from, to types.RideStatus }{
		{types.StatusAccepted, types.StatusDriverOnWay},
		{types.StatusDriverOnWay, types.StatusArrived},
		{types.StatusArrived, types.StatusInProgress},
		{types.StatusInProgress, types.StatusCompleted},
		// forward skips
		{types.StatusAccepted, types.StatusArrived},
		{types.StatusAccepted, types.StatusInProgress},
		{types.StatusAccepted, types.StatusCompleted},
		{types.StatusDriverOnWay, types.StatusCompleted},
	}
	for _, tt := range allowed {
		if !canAdvance(tt.from, tt.to) {
			t.Errorf("canAdvance(%s, %s) = false, want true", tt.from, tt.to)
		}
	}

	denied := []struct{ from, to types.RideStatus }{
		{types.StatusRequested, types.StatusAccepted}, // dispatch only
		{types.StatusRequested, types.StatusDriverOnWay},
		{types.StatusAccepted, types.StatusAccepted},
		{types.StatusArrived, types.StatusDriverOnWay}, // going backwards
		{types.StatusCompleted, types.StatusInProgress},
		{types.StatusCancelled, types.StatusAccepted},
		{types.StatusCompleted, types.StatusCompleted},
	}
	for _, tt := range denied {
		if canAdvance(tt.from, tt.to) {
			t.Errorf("canAdvance(%s, %s) = true, want false", tt.from, tt.to)
		}
	}
}

func TestCanCancel(t *testing.T) {
	for _, s := range []types.RideStatus{
		types.StatusRequested, types.StatusAccepted, types.StatusDriverOnWay,
		types.StatusArrived, types.StatusInProgress,
	} {
		if !canCancel(s) {
			t.Errorf("canCancel(%s) = false, want true", s)
		}
	}
	for _, s := range []types.RideStatus{types.StatusCompleted, types.StatusCancelled} {
		if canCancel(s) {
			t.Errorf("canCancel(%s) = true, want false", s)
		}
	}
}
