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

const accuWeatherBaseURL = "http://dataservice.accuweather.com"

// Weather proxies AccuWeather lookups so the API key stays server side
type Weather struct {
	Config *config.Config
	Client *http.Client
}

// NewWeather builds a weather handler with a bounded http client
func NewWeather(conf *config.Config) Weather {
	return Weather{
		Config: conf,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// CitySearchHandler resolves a city name to an AccuWeather location key
func (h Weather) CitySearchHandler(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if city == "" {
		config.ErrorStatusFromError(w, models.NewValidationError("please provide a city"))
		return
	}
	h.forward(w, fmt.Sprintf("%s/locations/v1/cities/search?apikey=%s&q=%s",
		accuWeatherBaseURL, h.Config.AccuWeatherAPIKey, url.QueryEscape(city)))
}

// GeoPositionHandler resolves lat/lon coordinates to an AccuWeather location key
func (h Weather) GeoPositionHandler(w http.ResponseWriter, r *http.Request) {
	lat := r.URL.Query().Get("lat")
	lon := r.URL.Query().Get("lon")
	if lat == "" || lon == "" {
		config.ErrorStatusFromError(w, models.NewValidationError("please provide lat and lon"))
		return
	}
	h.forward(w, fmt.Sprintf("%s/locations/v1/cities/geoposition/search?apikey=%s&q=%s",
		accuWeatherBaseURL, h.Config.AccuWeatherAPIKey, url.QueryEscape(lat+","+lon)))
}

// CurrentConditionsHandler returns the current conditions for a location key
func (h Weather) CurrentConditionsHandler(w http.ResponseWriter, r *http.Request) {
	locationKey := r.URL.Query().Get("locationKey")
	if locationKey == "" {
		config.ErrorStatusFromError(w, models.NewValidationError("please provide a locationKey"))
		return
	}
	h.forward(w, fmt.Sprintf("%s/currentconditions/v1/%s?apikey=%s&details=true",
		accuWeatherBaseURL, url.PathEscape(locationKey), h.Config.AccuWeatherAPIKey))
}

func (h Weather) forward(w http.ResponseWriter, target string) {
	resp, err := h.Client.Get(target)
	if err != nil {
		config.ErrorStatus("failed to reach weather provider", http.StatusBadGateway, w, err)
		return
	}
	defer resp.Body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = io.Copy(w, resp.Body)
}
