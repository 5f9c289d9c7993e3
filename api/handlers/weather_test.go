package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ecotrackhq/ecotrack-api/api/handlers"
	"github.com/ecotrackhq/ecotrack-api/config"
)

func TestWeather_CitySearchHandlerMissingCity(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/weather/cities", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	weather := handlers.NewWeather(&config.Config{})

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(weather.CitySearchHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "please provide a city")
}

func TestWeather_GeoPositionHandlerMissingCoords(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/weather/geoposition?lat=48.1", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	weather := handlers.NewWeather(&config.Config{})

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(weather.GeoPositionHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "please provide lat and lon")
}

func TestAirQuality_CityFeedHandlerMissingCity(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/aqi", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	aqi := handlers.NewAirQuality(&config.Config{})

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(aqi.CityFeedHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "please provide a city")
}
