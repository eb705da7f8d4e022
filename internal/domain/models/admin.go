package models

import (
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

// Overview is the admin dashboard snapshot.
type Overview struct {
	RidesByStatus map[types.RideStatus]int `json:"rides_by_status"`
	TotalRides    int                      `json:"total_rides"`
	TotalRiders   int                      `json:"total_riders"`
	TotalDrivers  int                      `json:"total_drivers"`
	OnlineDrivers int                      `json:"online_drivers"`
	TotalRevenue  float64                  `json:"total_revenue"`
	RevenueToday  float64                  `json:"revenue_today"`
}

// DailyRideStats is one day in the admin analytics series.
type DailyRideStats struct {
	Day       time.Time `json:"day"`
	Rides     int       `json:"rides"`
	Completed int       `json:"completed"`
	Cancelled int       `json:"cancelled"`
	Revenue   float64   `json:"revenue"`
}

// Analytics is the admin platform report over a trailing window.
type Analytics struct {
	Days           int                    `json:"days"`
	TotalRides     int                    `json:"total_rides"`
	CompletedRides int                    `json:"completed_rides"`
	CompletionRate float64                `json:"completion_rate"`
	AverageFare    float64                `json:"average_fare"`
	RidesByType    map[types.RideType]int `json:"rides_by_type"`
	Daily          []DailyRideStats       `json:"daily"`
}

// ActiveRide is a row in the admin live-rides view.
type ActiveRide struct {
	RideID         uuid.UUID        `json:"ride_id"`
	Status         types.RideStatus `json:"status"`
	RiderID        uuid.UUID        `json:"rider_id"`
	DriverID       *uuid.UUID       `json:"driver_id,omitempty"`
	Pickup         Location         `json:"pickup"`
	Destination    Location         `json:"destination"`
	DriverLocation *Location        `json:"driver_location,omitempty"`
	RemainingKm    float64          `json:"remaining_km"`
	RequestedAt    time.Time        `json:"requested_at"`
}
