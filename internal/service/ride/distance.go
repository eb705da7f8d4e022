package ride

import (
	"math"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
)

const (
	earthRadiusKm = 6371

	// minutes of travel per kilometer of route
	minutesPerKm = 2.5
)

// Distance returns the great-circle distance in kilometers between two
// points using the haversine formula, rounded to two decimals.
func Distance(p1, p2 models.Location) float64 {
	lat1Rad := p1.Latitude * math.Pi / 180
	lon1Rad := p1.Longitude * math.Pi / 180
	lat2Rad := p2.Latitude * math.Pi / 180
	lon2Rad := p2.Longitude * math.Pi / 180

	diffLat := lat2Rad - lat1Rad
	diffLon := lon2Rad - lon1Rad

	a := math.Pow(math.Sin(diffLat/2), 2) + math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Pow(math.Sin(diffLon/2), 2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return round2(earthRadiusKm * c)
}

// Duration estimates travel time in whole minutes from the route
// distance.
func Duration(distanceKm float64) int {
	if distanceKm <= 0 {
		return 0
	}
	return int(math.Round(distanceKm * minutesPerKm))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
