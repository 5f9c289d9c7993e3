package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// EmissionSources lists the accepted emission sources
var EmissionSources = []string{"transportation", "electricity", "heating", "food", "other"}

// EmissionUnits lists the accepted units of measurement
var EmissionUnits = []string{"kg", "ton"}

// Emission holds the structure for the emissions collection in mongo. Each
// record belongs to the user who logged it.
type Emission struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	User        primitive.ObjectID `json:"user" bson:"user"`
	Source      string             `json:"source" bson:"source"`
	Description string             `json:"description" bson:"description"`
	Amount      float64            `json:"amount" bson:"amount"`
	Unit        string             `json:"unit" bson:"unit"`
	Date        interface{}        `json:"date" bson:"date"`
	Location    string             `json:"location" bson:"location"`
	Tags        []string           `json:"tags" bson:"tags"`
	CreatedAt   interface{}        `json:"createdAt" bson:"createdAt"`
}

// Validate checks the caller supplied emission fields
func (e *Emission) Validate() error {
	if !contains(EmissionSources, e.Source) {
		return NewValidationError("source %q is not one of %v", e.Source, EmissionSources)
	}
	if e.Description == "" {
		return NewValidationError("please provide a description")
	}
	if e.Amount < 0 {
		return NewValidationError("amount must be a positive number")
	}
	if e.Unit == "" {
		e.Unit = "kg"
	}
	if !contains(EmissionUnits, e.Unit) {
		return NewValidationError("unit %q is not one of %v", e.Unit, EmissionUnits)
	}
	return nil
}

func contains(valid []string, v string) bool {
	for _, s := range valid {
		if s == v {
			return true
		}
	}
	return false
}

// EmissionSourceStat is one aggregation bucket of the per-user emission
// stats, grouped by source
type EmissionSourceStat struct {
	Source      string  `json:"source" bson:"_id"`
	TotalAmount float64 `json:"totalAmount" bson:"totalAmount"`
	Count       int     `json:"count" bson:"count"`
	AvgAmount   float64 `json:"avgAmount" bson:"avgAmount"`
}
