package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/ecotrackhq/ecotrack-api/api"
	"github.com/ecotrackhq/ecotrack-api/config"
	"github.com/ecotrackhq/ecotrack-api/databases"
	"github.com/ecotrackhq/ecotrack-api/models"
)

// Vehicle exported for testing purposes
type Vehicle struct {
	DB databases.VehicleDatabase
}

// VehicleHandler returns all vehicles, paginated, worst emitters first
func (v Vehicle) VehicleHandler(w http.ResponseWriter, r *http.Request) {
	limit := getLimit(r)
	page := getPage(0, r)

	dbResp, err := v.DB.Find(context.TODO(), bson.D{},
		databases.SortedPaginate(limit, page, "carbonFootprint.carbonEmitted", -1))
	if err != nil {
		config.ErrorStatus("failed to get vehicles", http.StatusNotFound, w, err)
		return
	}
	// Clients expect a data array even when the collection is empty
	if len(dbResp) == 0 {
		dbResp = []models.Vehicle{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// VehicleByIDHandler returns a vehicle by ID
func (v Vehicle) VehicleByIDHandler(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["vehicle_id"]

	zap.S().Debugf("vehicle_id: %v", vehicleID)

	vID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	dbResp, err := v.DB.FindOne(context.Background(), bson.M{"_id": vID})
	if err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("vehicle"))
		return
	}

	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ExceedingVehiclesHandler returns every vehicle whose carbon emission is
// above the limit, ordered worst first
func (v Vehicle) ExceedingVehiclesHandler(w http.ResponseWriter, r *http.Request) {
	limit := getLimit(r)
	page := getPage(0, r)

	dbResp, err := v.DB.Find(context.TODO(),
		bson.M{"carbonFootprint.carbonEmitted": bson.M{"$gt": models.ExceedingThreshold}},
		databases.SortedPaginate(limit, page, "carbonFootprint.carbonEmitted", -1))
	if err != nil {
		config.ErrorStatus("failed to get exceeding vehicles", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Vehicle{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// FleetStatsHandler aggregates the fleet into per fuel-type buckets and
// reports how much of the fleet exceeds the emission limit
func (v Vehicle) FleetStatsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	pipeline := []bson.M{
		{"$group": bson.M{
			"_id":                "$fuelType",
			"totalVehicles":      bson.M{"$sum": 1},
			"avgCarbonEmitted":   bson.M{"$avg": "$carbonFootprint.carbonEmitted"},
			"totalCarbonEmitted": bson.M{"$sum": "$carbonFootprint.carbonEmitted"},
		}},
		{"$sort": bson.M{"totalCarbonEmitted": -1}},
	}

	cur, err := v.DB.Aggregate(ctx, pipeline)
	if err != nil {
		config.ErrorStatus("failed to aggregate fleet stats", http.StatusInternalServerError, w, err)
		return
	}
	var buckets []models.FuelTypeStat
	if err := cur.Decode(&buckets); err != nil {
		config.ErrorStatus("failed to decode fleet stats", http.StatusInternalServerError, w, err)
		return
	}
	if len(buckets) == 0 {
		buckets = []models.FuelTypeStat{}
	}

	total, err := v.DB.CountDocuments(ctx, bson.D{})
	if err != nil {
		config.ErrorStatus("failed to count vehicles", http.StatusInternalServerError, w, err)
		return
	}
	exceeding, err := v.DB.CountDocuments(ctx,
		bson.M{"carbonFootprint.carbonEmitted": bson.M{"$gt": models.ExceedingThreshold}})
	if err != nil {
		config.ErrorStatus("failed to count exceeding vehicles", http.StatusInternalServerError, w, err)
		return
	}

	stats := models.FleetStats{
		FuelTypeStats:  buckets,
		ExceedingCount: exceeding,
		TotalVehicles:  total,
	}
	// An empty fleet reports 0%, never a division by zero
	if total > 0 {
		stats.ExceedingPercentage = float64(exceeding) / float64(total) * 100
	}

	b, err := json.Marshal(stats)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateVehicleHandler creates a vehicle. The emission status label is derived
// from carbonEmitted on the way in, whatever the caller sent for it.
func (v Vehicle) CreateVehicleHandler(w http.ResponseWriter, r *http.Request) {
	var vehicle models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if err := vehicle.Validate(); err != nil {
		config.ErrorStatusFromError(w, err)
		return
	}

	n, err := v.DB.CountDocuments(context.Background(), bson.M{"number": vehicle.Number})
	if err != nil {
		config.ErrorStatus("failed to check vehicle number", http.StatusInternalServerError, w, err)
		return
	}
	if n > 0 {
		config.ErrorStatusFromError(w, models.NewConflictError("vehicle with number %s already exists", vehicle.Number))
		return
	}

	vehicle.ID = primitive.NewObjectID()
	vehicle.CarbonFootprint.ApplyStatus()
	vehicle.NotificationSent = false
	vehicle.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	vehicle.UpdatedAt = vehicle.CreatedAt

	_, err = v.DB.InsertOne(context.Background(), vehicle)
	if err != nil {
		config.ErrorStatus("failed to create vehicle", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Vehicle created successfully",
		"id":      vehicle.ID.Hex(),
		"status":  vehicle.CarbonFootprint.Status,
	})
}

// UpdateVehicleHandler updates a vehicle. The status label is recomputed from
// the new carbonEmitted value; the notification flag resets when the vehicle
// drops back under the limit.
func (v Vehicle) UpdateVehicleHandler(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["vehicle_id"]

	vID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	existing, err := v.DB.FindOne(context.Background(), bson.M{"_id": vID})
	if err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("vehicle"))
		return
	}

	var vehicle models.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&vehicle); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if err := vehicle.Validate(); err != nil {
		config.ErrorStatusFromError(w, err)
		return
	}

	if vehicle.Number != existing.Number {
		n, err := v.DB.CountDocuments(context.Background(), bson.M{"number": vehicle.Number})
		if err != nil {
			config.ErrorStatus("failed to check vehicle number", http.StatusInternalServerError, w, err)
			return
		}
		if n > 0 {
			config.ErrorStatusFromError(w, models.NewConflictError("vehicle with number %s already exists", vehicle.Number))
			return
		}
	}

	vehicle.CarbonFootprint.ApplyStatus()
	notificationSent := existing.NotificationSent
	if vehicle.CarbonFootprint.CarbonEmitted <= models.ExceedingThreshold {
		notificationSent = false
	}

	_, err = v.DB.UpdateOne(context.Background(), bson.M{"_id": vID}, bson.M{"$set": bson.M{
		"number":           vehicle.Number,
		"name":             vehicle.Name,
		"fuelType":         vehicle.FuelType,
		"ownerName":        vehicle.OwnerName,
		"ownerLocation":    vehicle.OwnerLocation,
		"ownerEmail":       vehicle.OwnerEmail,
		"carbonFootprint":  vehicle.CarbonFootprint,
		"notificationSent": notificationSent,
		"updatedAt":        primitive.NewDateTimeFromTime(time.Now()),
	}})
	if err != nil {
		config.ErrorStatus("failed to update vehicle", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Vehicle updated successfully",
		"status":  vehicle.CarbonFootprint.Status,
	})
}

// DeleteVehicleHandler deletes a vehicle by ID
func (v Vehicle) DeleteVehicleHandler(w http.ResponseWriter, r *http.Request) {
	vehicleID := mux.Vars(r)["vehicle_id"]

	vID, err := primitive.ObjectIDFromHex(vehicleID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	deleted, err := v.DB.DeleteOne(context.Background(), bson.M{"_id": vID})
	if err != nil {
		config.ErrorStatus("failed to delete vehicle", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatusFromError(w, models.NewNotFoundError("vehicle"))
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Vehicle deleted successfully",
	})
}
