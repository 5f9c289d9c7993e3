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

// Comment exported for testing purposes
type Comment struct {
	DB     databases.CommentDatabase
	PostDB databases.PostDatabase
}

// CommentHandler returns the comments of a post, oldest first, paginated
func (c Comment) CommentHandler(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["post_id"]

	pID, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	limit := getLimit(r)
	page := getPage(0, r)

	dbResp, err := c.DB.Find(context.TODO(), bson.M{"post": pID},
		databases.SortedPaginate(limit, page, "createdAt", 1))
	if err != nil {
		config.ErrorStatus("failed to get comments", http.StatusNotFound, w, err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.Comment{}
	}
	b, err := json.Marshal(dbResp)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// AddCommentHandler adds a comment to a post and bumps the post's
// commentsCount in the same operation pair. If the bump fails the comment is
// rolled back so the counter never drifts silently.
func (c Comment) AddCommentHandler(w http.ResponseWriter, r *http.Request) {
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

	if _, err := c.PostDB.FindOne(context.Background(), bson.M{"_id": pID}); err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("post"))
		return
	}

	var comment models.Comment
	if err := json.NewDecoder(r.Body).Decode(&comment); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}

	if err := comment.Validate(); err != nil {
		config.ErrorStatusFromError(w, err)
		return
	}

	if comment.ParentComment != nil {
		if _, err := c.DB.FindOne(context.Background(), bson.M{"_id": *comment.ParentComment}); err != nil {
			config.ErrorStatusFromError(w, models.NewNotFoundError("parent comment"))
			return
		}
	}

	comment.ID = primitive.NewObjectID()
	comment.Post = pID
	comment.User = uID
	comment.Likes = []primitive.ObjectID{}
	comment.IsEdited = false
	comment.CreatedAt = primitive.NewDateTimeFromTime(time.Now())
	comment.UpdatedAt = comment.CreatedAt

	_, err = c.DB.InsertOne(context.Background(), comment)
	if err != nil {
		config.ErrorStatus("failed to create comment", http.StatusInternalServerError, w, err)
		return
	}

	_, err = c.PostDB.UpdateOne(context.Background(), bson.M{"_id": pID},
		bson.M{"$inc": bson.M{"commentsCount": 1}})
	if err != nil {
		// Roll the comment back rather than leave the counter wrong
		if _, delErr := c.DB.DeleteOne(context.Background(), bson.M{"_id": comment.ID}); delErr != nil {
			zap.S().Errorw("comment rollback failed",
				"comment", comment.ID.Hex(), "post", pID.Hex(), "error", delErr)
		}
		config.ErrorStatusFromError(w,
			models.NewConsistencyError("failed to increment comment count for post %s", pID.Hex()))
		return
	}

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Comment added successfully",
		"id":      comment.ID.Hex(),
	})
}

// UpdateCommentHandler edits a comment's content, owner or admin only. The
// comment is flagged as edited from then on.
func (c Comment) UpdateCommentHandler(w http.ResponseWriter, r *http.Request) {
	commentID := mux.Vars(r)["comment_id"]

	cID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	existing, err := c.DB.FindOne(context.Background(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("comment"))
		return
	}

	requester := api.RequesterFrom(r)
	if !requester.CanMutate(existing.User) {
		config.ErrorStatusFromError(w, models.NewAuthorizationError("not authorized to update this comment"))
		return
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if body.Content == "" {
		config.ErrorStatusFromError(w, models.NewValidationError("please provide some content"))
		return
	}

	_, err = c.DB.UpdateOne(context.Background(), bson.M{"_id": cID}, bson.M{"$set": bson.M{
		"content":   body.Content,
		"isEdited":  true,
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}})
	if err != nil {
		config.ErrorStatus("failed to update comment", http.StatusInternalServerError, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Comment updated successfully",
	})
}

// DeleteCommentHandler deletes a comment, owner or admin only, and decrements
// the post's commentsCount. A missing post is fine, its counter died with it.
func (c Comment) DeleteCommentHandler(w http.ResponseWriter, r *http.Request) {
	commentID := mux.Vars(r)["comment_id"]

	cID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	existing, err := c.DB.FindOne(context.Background(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("comment"))
		return
	}

	requester := api.RequesterFrom(r)
	if !requester.CanMutate(existing.User) {
		config.ErrorStatusFromError(w, models.NewAuthorizationError("not authorized to delete this comment"))
		return
	}

	deleted, err := c.DB.DeleteOne(context.Background(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatus("failed to delete comment", http.StatusInternalServerError, w, err)
		return
	}
	if deleted == 0 {
		config.ErrorStatusFromError(w, models.NewNotFoundError("comment"))
		return
	}

	res, err := c.PostDB.UpdateOne(context.Background(), bson.M{"_id": existing.Post},
		bson.M{"$inc": bson.M{"commentsCount": -1}})
	if err != nil {
		config.ErrorStatusFromError(w,
			models.NewConsistencyError("failed to decrement comment count for post %s", existing.Post.Hex()))
		return
	}
	if res.MatchedCount == 0 {
		zap.S().Debugf("post %s already gone, skipping counter decrement", existing.Post.Hex())
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Comment deleted successfully",
	})
}

// LikeCommentHandler adds the requester to the comment's like set
func (c Comment) LikeCommentHandler(w http.ResponseWriter, r *http.Request) {
	commentID := mux.Vars(r)["comment_id"]

	cID, err := primitive.ObjectIDFromHex(commentID)
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

	if _, err := c.DB.FindOne(context.Background(), bson.M{"_id": cID}); err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("comment"))
		return
	}

	res, err := c.DB.UpdateOne(context.Background(),
		bson.M{"_id": cID, "likes": bson.M{"$ne": uID}},
		bson.M{"$push": bson.M{"likes": uID}})
	if err != nil {
		config.ErrorStatus("failed to like comment", http.StatusInternalServerError, w, err)
		return
	}
	if res.ModifiedCount == 0 {
		config.ErrorStatusFromError(w, models.NewConflictError("comment already liked"))
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Comment liked successfully",
	})
}

// UnlikeCommentHandler removes the requester from the comment's like set
func (c Comment) UnlikeCommentHandler(w http.ResponseWriter, r *http.Request) {
	commentID := mux.Vars(r)["comment_id"]

	cID, err := primitive.ObjectIDFromHex(commentID)
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

	if _, err := c.DB.FindOne(context.Background(), bson.M{"_id": cID}); err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("comment"))
		return
	}

	res, err := c.DB.UpdateOne(context.Background(),
		bson.M{"_id": cID, "likes": uID},
		bson.M{"$pull": bson.M{"likes": uID}})
	if err != nil {
		config.ErrorStatus("failed to unlike comment", http.StatusInternalServerError, w, err)
		return
	}
	if res.ModifiedCount == 0 {
		config.ErrorStatusFromError(w, models.NewConflictError("comment not liked"))
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Comment unliked successfully",
	})
}

// CommentLikesHandler returns the ids of the users who liked the comment
func (c Comment) CommentLikesHandler(w http.ResponseWriter, r *http.Request) {
	commentID := mux.Vars(r)["comment_id"]

	cID, err := primitive.ObjectIDFromHex(commentID)
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	dbResp, err := c.DB.FindOne(context.Background(), bson.M{"_id": cID})
	if err != nil {
		config.ErrorStatusFromError(w, models.NewNotFoundError("comment"))
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
