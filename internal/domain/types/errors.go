package types

import "errors"

var (
	// Ride lifecycle.
	ErrRideNotFound          = errors.New("ride not found")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrRideNoLongerAvailable = errors.New("ride is no longer available")
	ErrUnknownRideType       = errors.New("unknown ride type")
	ErrInvalidLocation       = errors.New("invalid location")
	ErrReasonTooLong         = errors.New("cancellation reason too long")

	// Rating.
	ErrNotCompleted = errors.New("ride is not completed")
	ErrAlreadyRated = errors.New("ride already rated by this party")
	ErrInvalidScore = errors.New("rating score must be between 1 and 5")

	// Reporting.
	ErrUnknownPeriod = errors.New("unknown earnings period")

	// Authorization.
	ErrUnauthorized = errors.New("not authorized for this ride")
	ErrForbidden    = errors.New("forbidden")

	// Users and auth.
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrDriverNotFound     = errors.New("driver not found")
	ErrUserDeactivated    = errors.New("account is deactivated")
)
