package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ecotrackhq/ecotrack-api/api/handlers"
	"github.com/ecotrackhq/ecotrack-api/config"
)

func main() {
	_ = godotenv.Load()

	a := handlers.CommunityApp{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil {
		log.Fatal(err)
	}

	port := os.Getenv("COMMUNITY_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	zap.S().Infow("ecotrack-community is up and running",
		"port", port,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", port), a.Router))
}
