package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Emission status labels. The emoji prefixes are part of the stored value,
// seed data and clients match on the full string.
const (
	StatusGood      = "✅ Good"
	StatusWarning   = "⚠️ Warning"
	StatusExceeding = "❌ Exceeding Limit"
)

// ExceedingThreshold is the CO2 emission threshold in kg above which a
// vehicle counts as exceeding the limit
const ExceedingThreshold = 15.0

// FuelTypes lists the accepted fuel types for a vehicle
var FuelTypes = []string{"Petrol", "Diesel", "Electric", "Hybrid", "CNG", "LPG"}

// Vehicle holds the structure for the vehicles collection in mongo
type Vehicle struct {
	ID               primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Number           string             `json:"number" bson:"number"`
	Name             string             `json:"name" bson:"name"`
	FuelType         string             `json:"fuelType" bson:"fuelType"`
	OwnerName        string             `json:"ownerName" bson:"ownerName"`
	OwnerLocation    string             `json:"ownerLocation" bson:"ownerLocation"`
	OwnerEmail       string             `json:"ownerEmail" bson:"ownerEmail"`
	CarbonFootprint  CarbonFootprint    `json:"carbonFootprint" bson:"carbonFootprint"`
	NotificationSent bool               `json:"notificationSent" bson:"notificationSent"`
	CreatedAt        interface{}        `json:"createdAt" bson:"createdAt"`
	UpdatedAt        interface{}        `json:"updatedAt" bson:"updatedAt"`
}

// CarbonFootprint holds the embedded emission figures of a vehicle. Status is
// derived from CarbonEmitted and never set by callers directly.
type CarbonFootprint struct {
	DistanceTravelled float64 `json:"distanceTravelled" bson:"distanceTravelled"`
	FuelEfficiency    float64 `json:"fuelEfficiency" bson:"fuelEfficiency"`
	CarbonEmitted     float64 `json:"carbonEmitted" bson:"carbonEmitted"`
	Status            string  `json:"status" bson:"status"`
}

// DeriveStatus returns the emission status label for a carbonEmitted value.
// Exactly 15 is still Warning, exactly 10 is still Good.
func DeriveStatus(carbonEmitted float64) string {
	switch {
	case carbonEmitted > ExceedingThreshold:
		return StatusExceeding
	case carbonEmitted > 10:
		return StatusWarning
	default:
		return StatusGood
	}
}

// ApplyStatus recomputes the derived status label from the stored
// carbonEmitted value. Called before every persisted create or update so the
// label can never disagree with the number.
func (c *CarbonFootprint) ApplyStatus() {
	c.Status = DeriveStatus(c.CarbonEmitted)
}

// Validate checks the caller supplied vehicle fields
func (v *Vehicle) Validate() error {
	if strings.TrimSpace(v.Number) == "" {
		return NewValidationError("please provide a vehicle number")
	}
	if strings.TrimSpace(v.Name) == "" {
		return NewValidationError("please provide a vehicle name")
	}
	if !validFuelType(v.FuelType) {
		return NewValidationError("fuel type %q is not one of %v", v.FuelType, FuelTypes)
	}
	if v.CarbonFootprint.DistanceTravelled < 0 {
		return NewValidationError("distance must be a positive number")
	}
	if v.CarbonFootprint.FuelEfficiency < 0 {
		return NewValidationError("fuel efficiency must be a positive number")
	}
	if v.CarbonFootprint.CarbonEmitted < 0 {
		return NewValidationError("carbon emitted must be a positive number")
	}
	return nil
}

func validFuelType(fuelType string) bool {
	for _, ft := range FuelTypes {
		if ft == fuelType {
			return true
		}
	}
	return false
}

// FuelTypeStat is one aggregation bucket of the fleet stats, grouped by fuelType
type FuelTypeStat struct {
	FuelType           string  `json:"fuelType" bson:"_id"`
	TotalVehicles      int     `json:"totalVehicles" bson:"totalVehicles"`
	AvgCarbonEmitted   float64 `json:"avgCarbonEmitted" bson:"avgCarbonEmitted"`
	TotalCarbonEmitted float64 `json:"totalCarbonEmitted" bson:"totalCarbonEmitted"`
}

// FleetStats is the full fleet statistics response payload
type FleetStats struct {
	FuelTypeStats       []FuelTypeStat `json:"fuelTypeStats"`
	ExceedingCount      int64          `json:"exceedingCount"`
	TotalVehicles       int64          `json:"totalVehicles"`
	ExceedingPercentage float64        `json:"exceedingPercentage"`
}
