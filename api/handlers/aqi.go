package handlers

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ecotrackhq/ecotrack-api/config"
	"github.com/ecotrackhq/ecotrack-api/models"
)

const waqiBaseURL = "https://api.waqi.info"

// AirQuality proxies WAQI air quality lookups so the token stays server side
type AirQuality struct {
	Config *config.Config
	Client *http.Client
}

// NewAirQuality builds an air quality handler with a bounded http client
func NewAirQuality(conf *config.Config) AirQuality {
	return AirQuality{
		Config: conf,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// CityFeedHandler returns the live air quality feed for a city
func (h AirQuality) CityFeedHandler(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		config.ErrorStatusFromError(w, models.NewValidationError("please provide a city"))
		return
	}

	target := fmt.Sprintf("%s/feed/%s/?token=%s", waqiBaseURL, url.PathEscape(city), h.Config.AqicnToken)
	resp, err := h.Client.Get(target)
	if err != nil {
		config.ErrorStatus("failed to reach air quality provider", http.StatusBadGateway, w, err)
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}
