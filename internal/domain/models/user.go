package models

import (
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
)

type RatingSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

type Earnings struct {
	Total     float64 `json:"total"`
	ThisWeek  float64 `json:"this_week"`
	ThisMonth float64 `json:"this_month"`
}

type Vehicle struct {
	Make  string `json:"make,omitempty"`
	Model string `json:"model,omitempty"`
	Plate string `json:"plate,omitempty"`
	Color string `json:"color,omitempty"`
}

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Name         string
	Phone        string
	Role         types.UserRole

	Rating RatingSummary

	// Driver-only fields. Zero-valued for riders.
	Vehicle   Vehicle
	Earnings  Earnings
	Available bool
	Location  *Location

	// Active is flipped by admins; a deactivated user cannot log in.
	Active bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDriver reports whether the user can accept rides.
func (u *User) IsDriver() bool {
	return u.Role == types.RoleDriver
}

// DriverDashboard summarizes a driver's day and running totals.
type DriverDashboard struct {
	TodayRides     int     `json:"today_rides"`
	TodayEarnings  float64 `json:"today_earnings"`
	CompletedRides int     `json:"completed_rides"`
	CancelledRides int     `json:"cancelled_rides"`

	Earnings  Earnings      `json:"earnings"`
	Rating    RatingSummary `json:"rating"`
	Available bool          `json:"available"`
}

// EarningsBucket is one day of a driver's completed-ride income.
type EarningsBucket struct {
	Day    time.Time `json:"day"`
	Rides  int       `json:"rides"`
	Amount float64   `json:"amount"`
}

// EarningsReport breaks a driver's income down over a period.
type EarningsReport struct {
	Period string           `json:"period"`
	Rides  int              `json:"rides"`
	Amount float64          `json:"amount"`
	Daily  []EarningsBucket `json:"daily"`
}

type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	RevokedAt *time.Time
}
