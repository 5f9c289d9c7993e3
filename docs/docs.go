// Package docs EcoTrack API.
//
// Documentation of the EcoTrack carbon tracking API.
//
//     Schemes: https
//     BasePath: /
//     Version: 1.0.0
//     Host: https://api.ecotrackhq.com
//
//     Consumes:
//     - application/json
//
//     Produces:
//     - application/json
//
//     Security:
//     - basic
//
//    SecurityDefinitions:
//    basic:
//      type: basic
//
// swagger:meta
package docs

import (
	"github.com/ecotrackhq/ecotrack-api/models"
)

// swagger:route GET /health health healthEndpointID
// Lists the healthchex of the web service api.
// responses:
//   200: healthResponse

// Shows the current health of the api. true means it is alive, false means it is not.
// swagger:response healthResponse
type healthResponseWrapper struct {
	// in:body
	Body models.HealthCheckResponse
}

// swagger:route GET /api/v1/vehicles vehicles vehiclesEndpointID
// Lists the registered vehicles with their derived emission status.
// responses:
//   200: vehiclesResponse

// The vehicles currently registered, with carbon footprint figures.
// swagger:response vehiclesResponse
type vehiclesResponseWrapper struct {
	// in:body
	Body []models.Vehicle
}
