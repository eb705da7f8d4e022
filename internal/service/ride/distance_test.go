package ride

import (
	"math"
	"testing"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
)

func TestDistance(t *testing.T) {
	paris := models.Location{Latitude: 48.8566, Longitude: 2.3522}
	london := models.Location{Latitude: 51.5074, Longitude: -0.1278}

	t.Run("same point is zero", func(t *testing.T) {
		if d := Distance(paris, paris); d != 0 {
			t.Errorf("distance = %v, want 0", d)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		if d1, d2 := Distance(paris, london), Distance(london, paris); d1 != d2 {
			t.Errorf("distance not symmetric: %v vs %v", d1, d2)
		}
	})

	t.Run("one degree of latitude", func(t *testing.T) {
		a := models.Location{Latitude: 10, Longitude: 20}
		b := models.Location{Latitude: 11, Longitude: 20}
		if d := Distance(a, b); d != 111.19 {
			t.Errorf("distance = %v, want 111.19", d)
		}
	})

	t.Run("paris to london", func(t *testing.T) {
		d := Distance(paris, london)
		if math.Abs(d-343.5) > 1.0 {
			t.Errorf("distance = %v, want about 343.5", d)
		}
	})
}

func TestDuration(t *testing.T) {
	tests := []struct {
		distanceKm float64
		want       int
	}{
		{0, 0},
		{-1, 0},
		{2.3, 6},
		{10, 25},
		{0.1, 0},
	}

	for _, tt := range tests {
		if got := Duration(tt.distanceKm); got != tt.want {
			t.Errorf("Duration(%v) = %d, want %d", tt.distanceKm, got, tt.want)
		}
	}
}
