package config

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/ecotrackhq/ecotrack-api/models"
)

// Config holds the project config values
type Config struct {
	URL                 string
	DatabaseName        string
	BaseURL             string
	Port                string
	CommunityServiceURL string
	AccuWeatherAPIKey   string
	AqicnToken          string
}

// New sets up the logger and reads all config related values from the environment
func New() *Config {
	logger, err := setLogger(os.Getenv("ENVIRONMENT"))
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	return &Config{
		URL:                 os.Getenv("DB_URI"),
		DatabaseName:        os.Getenv("DB_NAME"),
		BaseURL:             os.Getenv("BASE_URL"),
		Port:                os.Getenv("PORT"),
		CommunityServiceURL: os.Getenv("COMMUNITY_SERVICE_URL"),
		AccuWeatherAPIKey:   os.Getenv("ACCUWEATHER_API_KEY"),
		AqicnToken:          os.Getenv("AQICN_TOKEN"),
	}
}

func setLogger(environment string) (*zap.Logger, error) {
	switch environment {
	case "development":
		return zap.NewDevelopment()
	case "production":
		return zap.NewProduction()
	default:
		return zap.NewExample(), nil
	}
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	b, _ := json.Marshal(models.ErrorMessageResponse{Response: models.MessageError{
		Message: message,
		Error:   err.Error(),
	}})
	w.Write(b)
}

// ErrorStatusFromError maps the typed errors returned by the databases layer to
// their http status codes. Consistency and store failures come back as a
// generic 500 so internal detail stays in the logs.
func ErrorStatusFromError(w http.ResponseWriter, err error) {
	var (
		validationErr    *models.ValidationError
		notFoundErr      *models.NotFoundError
		authorizationErr *models.AuthorizationError
		conflictErr      *models.ConflictError
		consistencyErr   *models.ConsistencyError
	)
	switch {
	case errors.As(err, &validationErr):
		ErrorStatus(validationErr.Message, http.StatusBadRequest, w, err)
	case errors.As(err, &notFoundErr):
		ErrorStatus(notFoundErr.Message, http.StatusNotFound, w, err)
	case errors.As(err, &authorizationErr):
		ErrorStatus(authorizationErr.Message, http.StatusUnauthorized, w, err)
	case errors.As(err, &conflictErr):
		ErrorStatus(conflictErr.Message, http.StatusConflict, w, err)
	case errors.As(err, &consistencyErr):
		zap.S().Errorw("consistency failure", "detail", consistencyErr.Message, "error", err)
		ErrorStatus("internal server error", http.StatusInternalServerError, w, errors.New("internal server error"))
	default:
		zap.S().Errorw("store failure", "error", err)
		ErrorStatus("internal server error", http.StatusInternalServerError, w, errors.New("internal server error"))
	}
}
