package types

// RideStatus is the closed set of ride lifecycle states. Transitions
// between them are governed by the ride service's transition table.
type RideStatus string

const (
	StatusRequested   RideStatus = "requested"
	StatusAccepted    RideStatus = "accepted"
	StatusDriverOnWay RideStatus = "driver_on_way"
	StatusArrived     RideStatus = "arrived"
	StatusInProgress  RideStatus = "in_progress"
	StatusCompleted   RideStatus = "completed"
	StatusCancelled   RideStatus = "cancelled"
)

func (s RideStatus) String() string {
	return string(s)
}

// Terminal reports whether no further transitions are possible.
func (s RideStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func (s RideStatus) Valid() bool {
	switch s {
	case StatusRequested, StatusAccepted, StatusDriverOnWay, StatusArrived,
		StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// RideType is the closed set of ride classes. Each has its own fare table
// entry.
type RideType string

const (
	RideEconomy RideType = "economy"
	RideComfort RideType = "comfort"
	RidePremium RideType = "premium"
	RideSUV     RideType = "suv"
)

func (t RideType) String() string {
	return string(t)
}

func (t RideType) Valid() bool {
	switch t {
	case RideEconomy, RideComfort, RidePremium, RideSUV:
		return true
	default:
		return false
	}
}

// PaymentMethod is chosen by the rider at request time.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentPaypal PaymentMethod = "paypal"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentPaypal:
		return true
	default:
		return false
	}
}

// PaymentStatus tracks settlement of a ride's fare. It becomes
// "completed" exactly when the ride does.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// UserRole identifies the acting party on an operation. It doubles as
// the cancelled-by marker on cancelled rides.
type UserRole string

const (
	RoleRider  UserRole = "rider"
	RoleDriver UserRole = "driver"
	RoleAdmin  UserRole = "admin"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) Valid() bool {
	switch r {
	case RoleRider, RoleDriver, RoleAdmin:
		return true
	default:
		return false
	}
}
