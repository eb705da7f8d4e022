package ride

import (
	"testing"

	"github.com/shubinsengi1/ubertest/internal/domain/types"
)

func TestCalculateFare(t *testing.T) {
	tests := []struct {
		name       string
		rideType   types.RideType
		distanceKm float64
		wantBase   float64
		wantDist   float64
		wantTotal  float64
	}{
		{"economy short", types.RideEconomy, 2.3, 2.50, 2.76, 5.26},
		{"economy zero distance", types.RideEconomy, 0, 2.50, 0, 2.50},
		{"comfort", types.RideComfort, 10, 3.50, 15.00, 18.50},
		{"premium", types.RidePremium, 4.2, 5.00, 8.40, 13.40},
		{"suv", types.RideSUV, 1.5, 4.00, 2.70, 6.70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fare, err := calculateFare(tt.rideType, tt.distanceKm)
			if err != nil {
				t.Fatalf("calculateFare: %v", err)
			}
			if fare.Base != tt.wantBase {
				t.Errorf("base = %v, want %v", fare.Base, tt.wantBase)
			}
			if fare.Distance != tt.wantDist {
				t.Errorf("distance = %v, want %v", fare.Distance, tt.wantDist)
			}
			if fare.Time != 0 || fare.Surge != 0 {
				t.Errorf("time/surge = %v/%v, want 0/0", fare.Time, fare.Surge)
			}
			if fare.Total != tt.wantTotal {
				t.Errorf("total = %v, want %v", fare.Total, tt.wantTotal)
			}
		})
	}
}

func TestCalculateFareUnknownType(t *testing.T) {
	if _, err := calculateFare("luxury", 5); err != types.ErrUnknownRideType {
		t.Fatalf("err = %v, want ErrUnknownRideType", err)
	}
}
