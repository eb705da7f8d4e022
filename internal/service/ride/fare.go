package ride

import (
	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
)

type rate struct {
	base  float64
	perKm float64
}

// Tariff table per ride class. Values are currency units.
var rates = map[types.RideType]rate{
	types.RideEconomy: {base: 2.50, perKm: 1.20},
	types.RideComfort: {base: 3.50, perKm: 1.50},
	types.RidePremium: {base: 5.00, perKm: 2.00},
	types.RideSUV:     {base: 4.00, perKm: 1.80},
}

// calculateFare prices a ride of the given class over the given
// distance. Time and surge components are fixed at zero. Every
// component is rounded to two decimals independently.
func calculateFare(rideType types.RideType, distanceKm float64) (models.Fare, error) {
	r, ok := rates[rideType]
	if !ok {
		return models.Fare{}, types.ErrUnknownRideType
	}

	base := round2(r.base)
	distance := round2(r.perKm * distanceKm)

	return models.Fare{
		Base:     base,
		Distance: distance,
		Time:     0,
		Surge:    0,
		Total:    round2(base + distance),
	}, nil
}
