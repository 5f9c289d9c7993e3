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

// Post exported for testing purposes
type Post struct {
	DB     databases.PostDatabase
	UserDB databases.UserDatabase
}

// PostHandler returns all posts, newest first, paginated
func (p Post) PostHandler(w http.ResponseWriter, r *http.Request) {
	limit := getLimit(r)
	page := getPage(0, r)

	filter := bson.M{}
	if tag := r.URL.Query().Get("tag"); tag != "" {
		filter["tags"] = tag
	}
	if userID := r.URL.Query().Get("user"); userID != "" {
		uID, err := primitive.ObjectIDFromHex(userID)
		if err != nil {
			config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
			return
		}
		filter["user"] = uID
	}

	dbResp, err := p.DB.Find(context.TODO(), filter, databases.SortedPaginate(limit, page, "createdAt", -1))
	if err != nil {
		config.ErrorStatus("failed to get posts", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Post{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// PostByIDHandler returns a post by ID
func (p Post) PostByIDHandler(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["post_id"]

	pID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	dbResp, err := p.DB.FindOne(context.Background(), bson.M{"_id": pID})
	if err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("post"))
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

// CreatePostHandler creates a post owned by the requester. A positive
// carbonReduction is credited to the author's running total.
func (p Post) CreatePostHandler(w http.ResponseWriter, r *http.Request) {
	requester := api.RequesterFrom(r)
	uID, err := primitive.ObjectIDFromHex(requester.ID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var post models.Post
	if err := json.NewDecoder(r.Body).Decode(&post); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if err := post.Validate(); err != nil {
		config.ErrorStatusFromError(w, err)
		return
	}

	post.ID = primitive.NewObjectID()
	post.User = uID
	post.Likes = []primitive.ObjectID{}
	post.CommentsCount = 0
	post.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	post.UpdatedAt = post.CreatedAt

	_, err = p.DB.InsertOne(context.Background(), post)
	if err != nil {
		config.ErrorStatus("failed to create post", http.StatusInternalServerError, w, err)
		return
	}

	if post.CarbonReduction > 0 {
		_, err = p.UserDB.UpdateOne(context.Background(), bson.M{"_id": uID},
			bson.M{"$inc": bson.M{"carbonReduction": post.CarbonReduction}})
		if err != nil {
			// The post exists either way; the author credit can be replayed
			zap.S().Errorw("failed to credit carbon reduction",
				"user", uID.Hex(), "post", post.ID.Hex(), "error", err)
		}
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Post created successfully",
		"id":      post.ID.Hex(),
	})
}

// UpdatePostHandler updates a post's content fields. Only the owner or an
// admin can update; likes and commentsCount are never touched here.
func (p Post) UpdatePostHandler(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["post_id"]

	pID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	existing, err := p.DB.FindOne(context.Background(), bson.M{"_id": pID})
	if err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("post"))
		return
	}

	requester := api.RequesterFrom(r)
	if !requester.CanMutate(existing.User) {
		config.ErrorStatusFromError(w, models.NewAuthorizationError("not authorized to update this post"))
		return
	}

	var body struct {
		Title   *string   `json:"title"`
		Content *string   `json:"content"`
		Image   *string   `json:"image"`
		Tags    *[]string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	set := bson.M{"updatedAt": primitive.NewDateTimeFromTime(time.Now())}
	if body.Title != nil {
		if *body.Title == "" {
			config.ErrorStatusFromError(w, models.NewValidationError("title cannot be empty"))
			return
		}
		set["title"] = *body.Title
	}
	if body.Content != nil {
		if *body.Content == "" {
			config.ErrorStatusFromError(w, models.NewValidationError("content cannot be empty"))
			return
		}
		set["content"] = *body.Content
	}
	if body.Image != nil {
		set["image"] = *body.Image
	}
	if body.Tags != nil {
		set["tags"] = *body.Tags
	}

	_, err = p.DB.UpdateOne(context.Background(), bson.M{"_id": pID}, bson.M{"$set": set})
	if err != nil {
		config.ErrorStatus("failed to update post", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Post updated successfully",
	})
}

// DeletePostHandler deletes a post, owner or admin only. Comments under the
// post are left in place; the reconciliation job ignores orphans.
func (p Post) DeletePostHandler(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["post_id"]

	pID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	existing, err := p.DB.FindOne(context.Background(), bson.M{"_id": pID})
	if err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("post"))
		return
	}

	requester := api.RequesterFrom(r)
	if !requester.CanMutate(existing.User) {
		config.ErrorStatusFromError(w, models.NewAuthorizationError("not authorized to delete this post"))
		return
	}

	deleted, err := p.DB.DeleteOne(context.Background(), bson.M{"_id": pID})
	if err != nil {
		config.ErrorStatus("failed to delete post", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatusFromError(w, models.NewNotFoundError("post"))
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Post deleted successfully",
	})
}

// LikePostHandler adds the requester to the post's like set. The push is
// filtered on the user not already being present, so a double like can never
// slip in between the read and the write.
func (p Post) LikePostHandler(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["post_id"]

	pID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	requester := api.RequesterFrom(r)
	uID, err := primitive.ObjectIDFromHex(requester.ID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	if _, err := p.DB.FindOne(context.Background(), bson.M{"_id": pID}); err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("post"))
		return
	}

	res, err := p.DB.UpdateOne(context.Background(),
		bson.M{"_id": pID, "likes": bson.M{"$ne": uID}},
		bson.M{"$push": bson.M{"likes": uID}})
	if err != nil {
		config.ErrorStatus("failed to like post", http.StatusInternalServerError, w, err)
		return
	}
	if res.ModifiedCount == 0 {
		config.ErrorStatusFromError(w, models.NewConflictError("post already liked"))
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Post liked successfully",
	})
}

// UnlikePostHandler removes the requester from the post's like set
func (p Post) UnlikePostHandler(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["post_id"]

	pID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	requester := api.RequesterFrom(r)
	uID, err := primitive.ObjectIDFromHex(requester.ID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	if _, err := p.DB.FindOne(context.Background(), bson.M{"_id": pID}); err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("post"))
		return
	}

	res, err := p.DB.UpdateOne(context.Background(),
		bson.M{"_id": pID, "likes": uID},
		bson.M{"$pull": bson.M{"likes": uID}})
	if err != nil {
		config.ErrorStatus("failed to unlike post", http.StatusInternalServerError, w, err)
		return
	}
	if res.ModifiedCount == 0 {
		config.ErrorStatusFromError(w, models.NewConflictError("post not liked"))
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Post unliked successfully",
	})
}

// PostLikesHandler returns the ids of the users who liked the post
func (p Post) PostLikesHandler(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["post_id"]

	pID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	dbResp, err := p.DB.FindOne(context.Background(), bson.M{"_id": pID})
	if err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("post"))
		return
	}

	likes := dbResp.Likes
	if likes == nil {
		likes = []primitive.ObjectID{}
	}
	b, err := json.Marshal(map[string]interface{}{
		"likes": likes,
		"count": len(likes),
	})
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
