package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

var a App

func executeRequest(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func checkResponseCode(t *testing.T, expected, actual int) {
	if expected != actual {
		t.Errorf("Expected response code %d. Got %d\n", expected, actual)
	}
}

func TestHealthCheckRoute(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/health", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusOK, response.Code)

	if !strings.Contains(response.Body.String(), "alive") {
		t.Errorf("Expected 'alive' in the reponse. Got '%s'", response.Body.String())
	}
}

func TestApp_VehiclesRouteUnauthorized(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("GET", "/api/v1/vehicles", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestApp_EmissionsRouteUnauthorized(t *testing.T) {
	a.Router = a.New()
	req, _ := http.NewRequest("POST", "/api/v1/emissions", nil)
	response := executeRequest(req)

	checkResponseCode(t, http.StatusUnauthorized, response.Code)
}

func TestCommunityApp_PostsRouteUnauthorized(t *testing.T) {
	ca := CommunityApp{}
	ca.Router = ca.New()
	req, _ := http.NewRequest("GET", "/api/v1/posts", nil)
	rr := httptest.NewRecorder()
	ca.Router.ServeHTTP(rr, req)

	checkResponseCode(t, http.StatusUnauthorized, rr.Code)
}

func TestCommunityApp_HealthCheckRoute(t *testing.T) {
	ca := CommunityApp{}
	ca.Router = ca.New()
	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	ca.Router.ServeHTTP(rr, req)

	checkResponseCode(t, http.StatusOK, rr.Code)
}
