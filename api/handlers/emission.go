package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ecotrackhq/ecotrack-api/api"
	"github.com/ecotrackhq/ecotrack-api/config"
	"github.com/ecotrackhq/ecotrack-api/databases"
	"github.com/ecotrackhq/ecotrack-api/models"
)

// Emission exported for testing purposes
type Emission struct {
	DB databases.EmissionDatabase
}

// EmissionHandler returns the requester's emission records, newest first
func (e Emission) EmissionHandler(w http.ResponseWriter, r *http.Request) {
	requester := api.RequesterFrom(r)
	uID, err := primitive.ObjectIDFromHex(requester.ID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	limit := getLimit(r)
	page := getPage(0, r)

	filter := bson.M{"user": uID}
	if source := r.URL.Query().Get("source"); source != "" {
		filter["source"] = source
	}

	dbResp, err := e.DB.Find(context.TODO(), filter, databases.SortedPaginate(limit, page, "date", -1))
	if err != nil {
		config.ErrorStatus("failed to get emissions", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Emission{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// EmissionByIDHandler returns one emission record. Only the owner or an admin
// can read it.
func (e Emission) EmissionByIDHandler(w http.ResponseWriter, r *http.Request) {
	emissionID := mux.Vars(r)["emission_id"]

	eID, err := primitive.ObjectIDFromHex(emissionID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	dbResp, err := e.DB.FindOne(context.Background(), bson.M{"_id": eID})
	if err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("emission"))
		return
	}

	requester := api.RequesterFrom(r)
	if !requester.CanMutate(dbResp.User) {
		config.ErrorStatusFromError(w, models.NewAuthorizationError("not authorized to view this emission"))
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

// EmissionStatsHandler aggregates the requester's emissions into per-source
// buckets
func (e Emission) EmissionStatsHandler(w http.ResponseWriter, r *http.Request) {
	requester := api.RequesterFrom(r)
	uID, err := primitive.ObjectIDFromHex(requester.ID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	pipeline := []bson.M{
		{"$match": bson.M{"user": uID}},
		{"$group": bson.M{
			"_id":         "$source",
			"totalAmount": bson.M{"$sum": "$amount"},
			"count":       bson.M{"$sum": 1},
			"avgAmount":   bson.M{"$avg": "$amount"},
		}},
		{"$sort": bson.M{"totalAmount": -1}},
	}

	cur, err := e.DB.Aggregate(ctx, pipeline)
	if err != nil {
		config.ErrorStatus("failed to aggregate emission stats", http.StatusInternalServerError, w, err)
		return
	}
	var stats []models.EmissionSourceStat
	if err := cur.Decode(&stats); err != nil {
		config.ErrorStatus("failed to decode emission stats", http.StatusInternalServerError, w, err)
		return
	}
	if len(stats) == 0 {
		stats = []models.EmissionSourceStat{}
	}

	b, err := json.Marshal(stats)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateEmissionHandler logs a new emission record for the requester
func (e Emission) CreateEmissionHandler(w http.ResponseWriter, r *http.Request) {
	requester := api.RequesterFrom(r)
	uID, err := primitive.ObjectIDFromHex(requester.ID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var emission models.Emission
	if err := json.NewDecoder(r.Body).Decode(&emission); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if err := emission.Validate(); err != nil {
		config.ErrorStatusFromError(w, err)
		return
	}

	emission.ID = primitive.NewObjectID()
	emission.User = uID
	if emission.Date == nil {
		emission.Date = primitive.NewDateTimeFromTime(time.Now())
	}
	emission.CreatedAt = primitive.NewDateTimeFromTime(time.Now())

	_, err = e.DB.InsertOne(context.Background(), emission)
	if err != nil {
		config.ErrorStatus("failed to create emission", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Emission logged successfully",
		"id":      emission.ID.Hex(),
	})
}

// UpdateEmissionHandler updates an emission record, owner or admin only
func (e Emission) UpdateEmissionHandler(w http.ResponseWriter, r *http.Request) {
	emissionID := mux.Vars(r)["emission_id"]

	eID, err := primitive.ObjectIDFromHex(emissionID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	existing, err := e.DB.FindOne(context.Background(), bson.M{"_id": eID})
	if err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("emission"))
		return
	}

	requester := api.RequesterFrom(r)
	if !requester.CanMutate(existing.User) {
		config.ErrorStatusFromError(w, models.NewAuthorizationError("not authorized to update this emission"))
		return
	}

	var emission models.Emission
	if err := json.NewDecoder(r.Body).Decode(&emission); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if err := emission.Validate(); err != nil {
		config.ErrorStatusFromError(w, err)
		return
	}

	_, err = e.DB.UpdateOne(context.Background(), bson.M{"_id": eID}, bson.M{"$set": bson.M{
		"source":      emission.Source,
		"description": emission.Description,
		"amount":      emission.Amount,
		"unit":        emission.Unit,
		"location":    emission.Location,
		"tags":        emission.Tags,
	}})
	if err != nil {
		config.ErrorStatus("failed to update emission", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Emission updated successfully",
	})
}

// DeleteEmissionHandler deletes an emission record, owner or admin only
func (e Emission) DeleteEmissionHandler(w http.ResponseWriter, r *http.Request) {
	emissionID := mux.Vars(r)["emission_id"]

	eID, err := primitive.ObjectIDFromHex(emissionID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	existing, err := e.DB.FindOne(context.Background(), bson.M{"_id": eID})
	if err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("emission"))
		return
	}

	requester := api.RequesterFrom(r)
	if !requester.CanMutate(existing.User) {
		config.ErrorStatusFromError(w, models.NewAuthorizationError("not authorized to delete this emission"))
		return
	}

	_, err = e.DB.DeleteOne(context.Background(), bson.M{"_id": eID})
	if err != nil {
		config.ErrorStatus("failed to delete emission", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Emission deleted successfully",
	})
}
