package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatusBoundaries(t *testing.T) {
	cases := []struct {
		carbonEmitted float64
		want          string
	}{
		{0, StatusGood},
		{8.25, StatusGood},
		{10.0, StatusGood},
		{10.01, StatusWarning},
		{12, StatusWarning},
		{15.0, StatusWarning},
		{15.01, StatusExceeding},
		{20, StatusExceeding},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, DeriveStatus(c.carbonEmitted), "carbonEmitted=%v", c.carbonEmitted)
	}
}

func TestApplyStatusOverwritesCallerValue(t *testing.T) {
	fp := CarbonFootprint{CarbonEmitted: 20, Status: StatusGood}
	fp.ApplyStatus()
	assert.Equal(t, StatusExceeding, fp.Status)
}

func TestVehicleValidate(t *testing.T) {
	valid := Vehicle{Number: "MH12CD5678", Name: "Honda Civic", FuelType: "Diesel"}
	assert.NoError(t, valid.Validate())

	missingNumber := Vehicle{Name: "Honda Civic", FuelType: "Diesel"}
	assert.Error(t, missingNumber.Validate())

	badFuel := Vehicle{Number: "MH12CD5678", Name: "Honda Civic", FuelType: "Coal"}
	assert.Error(t, badFuel.Validate())

	negative := Vehicle{Number: "MH12CD5678", Name: "Honda Civic", FuelType: "Diesel"}
	negative.CarbonFootprint.CarbonEmitted = -1
	assert.Error(t, negative.Validate())
}
