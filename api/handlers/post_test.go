package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ecotrackhq/ecotrack-api/api"
	"github.com/ecotrackhq/ecotrack-api/api/handlers"
	"github.com/ecotrackhq/ecotrack-api/databases"
	"github.com/ecotrackhq/ecotrack-api/databases/mocks"
	"github.com/ecotrackhq/ecotrack-api/models"
)

func postHandlerFixture(t *testing.T) (*mocks.CollectionHelper, *mocks.CollectionHelper, handlers.Post) {
	t.Helper()
	db := &MockDatabaseHelper{}
	postsConn := &mocks.CollectionHelper{}
	usersConn := &mocks.CollectionHelper{}
	db.On("Collection", "posts").Return(postsConn)
	db.On("Collection", "users").Return(usersConn)
	p := handlers.Post{
		DB:     databases.NewPostDatabase(db),
		UserDB: databases.NewUserDatabase(db),
	}
	return postsConn, usersConn, p
}

func decodePost(post models.Post) func(mock.Arguments) {
	return func(args mock.Arguments) {
		arg := args.Get(0).(**models.Post)
		**arg = post
	}
}

func TestPost_CreatePostHandlerMissingTitle(t *testing.T) {
	uID := primitive.NewObjectID()
	body := bytes.NewBufferString(`{"content":"planted a tree today"}`)
	req, err := http.NewRequest("POST", "/api/v1/posts", body)
	if err != nil {
		t.Fatal(err)
	}
	req = api.WithRequester(req, models.Requester{ID: uID.Hex(), Role: "user"})

	_, _, p := postHandlerFixture(t)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.CreatePostHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "please provide a title")
}

func TestPost_CreatePostHandlerCreditsCarbonReduction(t *testing.T) {
	uID := primitive.NewObjectID()
	body := bytes.NewBufferString(`{"title":"Cycled to work","content":"30km round trip","carbonReduction":3.5}`)
	req, err := http.NewRequest("POST", "/api/v1/posts", body)
	if err != nil {
		t.Fatal(err)
	}
	req = api.WithRequester(req, models.Requester{ID: uID.Hex(), Role: "user"})

	postsConn, usersConn, p := postHandlerFixture(t)

	insertResult := &mocks.InsertOneResultHelper{}
	postsConn.On("InsertOne", mock.Anything, mock.Anything).Return(insertResult, nil)
	usersConn.On("UpdateOne", mock.Anything, bson.M{"_id": uID},
		bson.M{"$inc": bson.M{"carbonReduction": 3.5}}).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.CreatePostHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)
	usersConn.AssertExpectations(t)
}

func TestPost_UpdatePostHandlerNotOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	stranger := primitive.NewObjectID()
	pID := primitive.NewObjectID()

	body := bytes.NewBufferString(`{"title":"hijacked"}`)
	req, err := http.NewRequest("PUT", "/api/v1/post/"+pID.Hex(), body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"post_id": pID.Hex()})
	req = api.WithRequester(req, models.Requester{ID: stranger.Hex(), Role: "user"})

	postsConn, _, p := postHandlerFixture(t)

	singleResultHelper := &mocks.SingleResultHelper{}
	singleResultHelper.On("Decode", mock.Anything).Return(nil).
		Run(decodePost(models.Post{ID: pID, User: owner, Title: "original"}))
	postsConn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.UpdatePostHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "not authorized")
	postsConn.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestPost_UpdatePostHandlerAdminAllowed(t *testing.T) {
	owner := primitive.NewObjectID()
	admin := primitive.NewObjectID()
	pID := primitive.NewObjectID()

	body := bytes.NewBufferString(`{"title":"moderated title"}`)
	req, err := http.NewRequest("PUT", "/api/v1/post/"+pID.Hex(), body)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"post_id": pID.Hex()})
	req = api.WithRequester(req, models.Requester{ID: admin.Hex(), Role: models.RoleAdmin})

	postsConn, _, p := postHandlerFixture(t)

	singleResultHelper := &mocks.SingleResultHelper{}
	singleResultHelper.On("Decode", mock.Anything).Return(nil).
		Run(decodePost(models.Post{ID: pID, User: owner, Title: "original"}))
	postsConn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	postsConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.UpdatePostHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	postsConn.AssertExpectations(t)
}

func TestPost_DeletePostHandlerOwner(t *testing.T) {
	owner := primitive.NewObjectID()
	pID := primitive.NewObjectID()

	req, err := http.NewRequest("DELETE", "/api/v1/post/"+pID.Hex(), nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"post_id": pID.Hex()})
	req = api.WithRequester(req, models.Requester{ID: owner.Hex(), Role: "user"})

	postsConn, _, p := postHandlerFixture(t)

	singleResultHelper := &mocks.SingleResultHelper{}
	singleResultHelper.On("Decode", mock.Anything).Return(nil).
		Run(decodePost(models.Post{ID: pID, User: owner}))
	postsConn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	postsConn.On("DeleteOne", mock.Anything, bson.M{"_id": pID}).Return(int64(1), nil)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.DeletePostHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "Post deleted successfully")
}

func TestPost_LikePostHandler(t *testing.T) {
	uID := primitive.NewObjectID()
	pID := primitive.NewObjectID()

	req, err := http.NewRequest("POST", "/api/v1/post/"+pID.Hex()+"/like", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"post_id": pID.Hex()})
	req = api.WithRequester(req, models.Requester{ID: uID.Hex(), Role: "user"})

	postsConn, _, p := postHandlerFixture(t)

	singleResultHelper := &mocks.SingleResultHelper{}
	singleResultHelper.On("Decode", mock.Anything).Return(nil).
		Run(decodePost(models.Post{ID: pID}))
	postsConn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	// The filter excludes posts the user already liked, so the write only
	// lands when the like is new
	postsConn.On("UpdateOne", mock.Anything,
		bson.M{"_id": pID, "likes": bson.M{"$ne": uID}},
		bson.M{"$push": bson.M{"likes": uID}}).
		Return(&mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.LikePostHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	postsConn.AssertExpectations(t)
}

func TestPost_LikePostHandlerAlreadyLiked(t *testing.T) {
	uID := primitive.NewObjectID()
	pID := primitive.NewObjectID()

	req, err := http.NewRequest("POST", "/api/v1/post/"+pID.Hex()+"/like", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"post_id": pID.Hex()})
	req = api.WithRequester(req, models.Requester{ID: uID.Hex(), Role: "user"})

	postsConn, _, p := postHandlerFixture(t)

	singleResultHelper := &mocks.SingleResultHelper{}
	singleResultHelper.On("Decode", mock.Anything).Return(nil).
		Run(decodePost(models.Post{ID: pID, Likes: []primitive.ObjectID{uID}}))
	postsConn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	postsConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0, ModifiedCount: 0}, nil)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.LikePostHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)

	expected := models.ErrorMessageResponse{Response: models.MessageError{Message: "post already liked", Error: "post already liked"}}
	b, _ := json.Marshal(expected)
	assert.Equal(t, string(b), rr.Body.String())
}

func TestPost_UnlikePostHandlerNotLiked(t *testing.T) {
	uID := primitive.NewObjectID()
	pID := primitive.NewObjectID()

	req, err := http.NewRequest("DELETE", "/api/v1/post/"+pID.Hex()+"/like", nil)
	if err != nil {
		t.Fatal(err)
	}
	req = mux.SetURLVars(req, map[string]string{"post_id": pID.Hex()})
	req = api.WithRequester(req, models.Requester{ID: uID.Hex(), Role: "user"})

	postsConn, _, p := postHandlerFixture(t)

	singleResultHelper := &mocks.SingleResultHelper{}
	singleResultHelper.On("Decode", mock.Anything).Return(nil).
		Run(decodePost(models.Post{ID: pID}))
	postsConn.On("FindOne", mock.Anything, mock.Anything).Return(singleResultHelper)
	postsConn.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0, ModifiedCount: 0}, nil)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.UnlikePostHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Contains(t, rr.Body.String(), "post not liked")
}

func TestPost_PostHandlerEmpty(t *testing.T) {
	req, err := http.NewRequest("GET", "/api/v1/posts", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Authorization", "Bearer abc123")

	postsConn, _, p := postHandlerFixture(t)

	cursor := &mocks.CursorHelper{}
	cursor.On("Decode", mock.Anything).Return(nil)
	postsConn.On("Find", mock.Anything, mock.Anything, mock.Anything).Return(cursor, nil)

	rr := httptest.NewRecorder()
	handler := http.HandlerFunc(p.PostHandler)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]", rr.Body.String())
}
