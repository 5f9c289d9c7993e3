package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ecotrackhq/ecotrack-api/api"
	"github.com/ecotrackhq/ecotrack-api/config"
	"github.com/ecotrackhq/ecotrack-api/databases"
	"github.com/ecotrackhq/ecotrack-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	DB       databases.CollectionHelper
	Config   config.Config
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes for the primary service
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	u := User{DB: databases.NewUserDatabase(a.dbHelper)}
	v := Vehicle{DB: databases.NewVehicleDatabase(a.dbHelper)}
	e := Emission{DB: databases.NewEmissionDatabase(a.dbHelper)}
	weather := NewWeather(&a.Config)
	aqi := NewAirQuality(&a.Config)
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(30 * time.Second))

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/user/create-user", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/profile", api.Middleware(http.HandlerFunc(u.ProfileHandler))).Methods("GET")
	apiCreate.Handle("/user/profile", api.Middleware(http.HandlerFunc(u.UpdateProfileHandler))).Methods("PUT")
	apiCreate.Handle("/user/{user_id}", api.Middleware(http.HandlerFunc(u.UserHandler))).Methods("GET")

	apiCreate.Handle("/vehicles", api.Middleware(http.HandlerFunc(v.VehicleHandler))).Methods("GET")
	apiCreate.Handle("/vehicles/exceeding", api.Middleware(http.HandlerFunc(v.ExceedingVehiclesHandler))).Methods("GET")
	apiCreate.Handle("/vehicles/stats", api.Middleware(http.HandlerFunc(v.FleetStatsHandler))).Methods("GET")
	apiCreate.Handle("/vehicle", api.Middleware(http.HandlerFunc(v.CreateVehicleHandler))).Methods("POST")
	apiCreate.Handle("/vehicle/{vehicle_id}", api.Middleware(http.HandlerFunc(v.VehicleByIDHandler))).Methods("GET")
	apiCreate.Handle("/vehicle/{vehicle_id}", api.Middleware(http.HandlerFunc(v.UpdateVehicleHandler))).Methods("PUT")
	apiCreate.Handle("/vehicle/{vehicle_id}", api.Middleware(http.HandlerFunc(v.DeleteVehicleHandler))).Methods("DELETE")

	apiCreate.Handle("/emissions", api.Middleware(http.HandlerFunc(e.EmissionHandler))).Methods("GET")
	apiCreate.Handle("/emissions", api.Middleware(http.HandlerFunc(e.CreateEmissionHandler))).Methods("POST")
	apiCreate.Handle("/emissions/stats", api.Middleware(http.HandlerFunc(e.EmissionStatsHandler))).Methods("GET")
	apiCreate.Handle("/emission/{emission_id}", api.Middleware(http.HandlerFunc(e.EmissionByIDHandler))).Methods("GET")
	apiCreate.Handle("/emission/{emission_id}", api.Middleware(http.HandlerFunc(e.UpdateEmissionHandler))).Methods("PUT")
	apiCreate.Handle("/emission/{emission_id}", api.Middleware(http.HandlerFunc(e.DeleteEmissionHandler))).Methods("DELETE")

	apiCreate.Handle("/weather/cities", api.Middleware(http.HandlerFunc(weather.CitySearchHandler))).Methods("GET")
	apiCreate.Handle("/weather/geoposition", api.Middleware(http.HandlerFunc(weather.GeoPositionHandler))).Methods("GET")
	apiCreate.Handle("/weather/conditions", api.Middleware(http.HandlerFunc(weather.CurrentConditionsHandler))).Methods("GET")
	apiCreate.Handle("/aqi", api.Middleware(http.HandlerFunc(aqi.CityFeedHandler))).Methods("GET")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	// community service routes are proxied under /api/community
	if a.Config.CommunityServiceURL != "" {
		proxy, err := api.CommunityProxy(a.Config.CommunityServiceURL)
		if err != nil {
			zap.S().Errorw("failed to build community proxy", "error", err)
		} else {
			r.PathPrefix("/api/community").Handler(proxy)
		}
	}

	// swagger docs hosted at "/"
	r.PathPrefix("/").Handler(http.StripPrefix("/", http.FileServer(http.Dir("./docs/"))))
	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("ecotrack-api has connected to the database")

	// initialize api router
	a.initializeRoutes()
	return nil
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// DBHelper exposes the database helper so main can hand it to the scheduler
func (a *App) DBHelper() databases.DatabaseHelper {
	return a.dbHelper
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
