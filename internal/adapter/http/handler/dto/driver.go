package dto

import "github.com/shubinsengi1/ubertest/pkg/validator"

type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type AvailabilityRequest struct {
	Available bool `json:"available"`
}

func ValidateUpdateLocation(v *validator.Validator, req *UpdateLocationRequest) {
	v.Check(req.Latitude >= -90 && req.Latitude <= 90, "latitude", "must be between -90 and 90")
	v.Check(req.Longitude >= -180 && req.Longitude <= 180, "longitude", "must be between -180 and 180")
}
