package dto

import (
	"time"

	"github.com/shubinsengi1/ubertest/internal/domain/models"
	"github.com/shubinsengi1/ubertest/internal/domain/types"
	"github.com/shubinsengi1/ubertest/internal/service/auth"
	"github.com/shubinsengi1/ubertest/pkg/uuid"
	"github.com/shubinsengi1/ubertest/pkg/validator"
)

type VehicleRequest struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Plate string `json:"plate"`
	Color string `json:"color"`
}

type RegisterRequest struct {
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Phone    string          `json:"phone"`
	Role     string          `json:"role"`
	Vehicle  *VehicleRequest `json:"vehicle,omitempty"`
}

func (r *RegisterRequest) ToInput() auth.RegisterInput {
	in := auth.RegisterInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Phone:    r.Phone,
		Role:     types.UserRole(r.Role),
	}
	if r.Vehicle != nil {
		in.Vehicle = models.Vehicle{
			Make:  r.Vehicle.Make,
			Model: r.Vehicle.Model,
			Plate: r.Vehicle.Plate,
			Color: r.Vehicle.Color,
		}
	}
	return in
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func ValidateRegister(v *validator.Validator, req *RegisterRequest) {
	v.Check(req.Name != "", "name", "must be provided")
	v.Check(len(req.Name) <= 500, "name", "must not be more than 500 bytes long")

	v.Check(req.Email != "", "email", "must be provided")
	v.Check(validator.Matches(req.Email, validator.EmailRX), "email", "must be a valid email address")
	v.Check(len(req.Email) <= 500, "email", "must not be more than 500 bytes long")

	v.Check(req.Password != "", "password", "must be provided")
	v.Check(len(req.Password) >= 8, "password", "must be at least 8 bytes long")
	v.Check(len(req.Password) <= 72, "password", "must not be more than 72 bytes long")

	v.Check(validator.PermittedValue(req.Role,
		types.RoleRider.String(), types.RoleDriver.String()),
		"role", "must be rider or driver")

	if req.Role == types.RoleDriver.String() {
		v.Check(req.Vehicle != nil, "vehicle", "must be provided for drivers")
	}
}

func ValidateLogin(v *validator.Validator, req *LoginRequest) {
	v.Check(req.Email != "", "email", "must be provided")
	v.Check(req.Password != "", "password", "must be provided")
}

func ValidateRefreshToken(v *validator.Validator, req *RefreshTokenRequest) {
	v.Check(req.RefreshToken != "", "refresh_token", "must be provided")
}

type UserResponse struct {
	ID     uuid.UUID            `json:"id"`
	Email  string               `json:"email"`
	Name   string               `json:"name"`
	Phone  string               `json:"phone,omitempty"`
	Role   types.UserRole       `json:"role"`
	Rating models.RatingSummary `json:"rating"`
	Active bool                 `json:"active"`

	Vehicle   *models.Vehicle  `json:"vehicle,omitempty"`
	Earnings  *models.Earnings `json:"earnings,omitempty"`
	Available *bool            `json:"available,omitempty"`
	Location  *models.Location `json:"location,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func FromUser(u *models.User) UserResponse {
	resp := UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      u.Role,
		Rating:    u.Rating,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
	if u.IsDriver() {
		vehicle := u.Vehicle
		earnings := u.Earnings
		available := u.Available
		resp.Vehicle = &vehicle
		resp.Earnings = &earnings
		resp.Available = &available
		resp.Location = u.Location
	}
	return resp
}

func FromUsers(users []*models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}
