package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ecotrackhq/ecotrack-api/api"
	"github.com/ecotrackhq/ecotrack-api/config"
	"github.com/ecotrackhq/ecotrack-api/databases"
)

// CommunityApp stores the router and db connection for the community service
type CommunityApp struct {
	Router   *mux.Router
	Config   config.Config
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes for the community service
func (a *CommunityApp) New() *mux.Router {
	// bearer tokens issued by the primary service verify here too, the
	// middleware validates them statelessly
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()

	p := Post{DB: databases.NewPostDatabase(a.dbHelper), UserDB: databases.NewUserDatabase(a.dbHelper)}
	c := Comment{DB: databases.NewCommentDatabase(a.dbHelper), PostDB: databases.NewPostDatabase(a.dbHelper)}

	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(30 * time.Second))

	apiCreate.Handle("/posts", api.Middleware(http.HandlerFunc(p.PostHandler))).Methods("GET")
	apiCreate.Handle("/posts", api.Middleware(http.HandlerFunc(p.CreatePostHandler))).Methods("POST")
	apiCreate.Handle("/post/{post_id}", api.Middleware(http.HandlerFunc(p.PostByIDHandler))).Methods("GET")
	apiCreate.Handle("/post/{post_id}", api.Middleware(http.HandlerFunc(p.UpdatePostHandler))).Methods("PUT")
	apiCreate.Handle("/post/{post_id}", api.Middleware(http.HandlerFunc(p.DeletePostHandler))).Methods("DELETE")
	apiCreate.Handle("/post/{post_id}/like", api.Middleware(http.HandlerFunc(p.LikePostHandler))).Methods("POST")
	apiCreate.Handle("/post/{post_id}/like", api.Middleware(http.HandlerFunc(p.UnlikePostHandler))).Methods("DELETE")
	apiCreate.Handle("/post/{post_id}/likes", api.Middleware(http.HandlerFunc(p.PostLikesHandler))).Methods("GET")

	apiCreate.Handle("/post/{post_id}/comments", api.Middleware(http.HandlerFunc(c.CommentHandler))).Methods("GET")
	apiCreate.Handle("/post/{post_id}/comments", api.Middleware(http.HandlerFunc(c.AddCommentHandler))).Methods("POST")
	apiCreate.Handle("/comment/{comment_id}", api.Middleware(http.HandlerFunc(c.UpdateCommentHandler))).Methods("PUT")
	apiCreate.Handle("/comment/{comment_id}", api.Middleware(http.HandlerFunc(c.DeleteCommentHandler))).Methods("DELETE")
	apiCreate.Handle("/comment/{comment_id}/like", api.Middleware(http.HandlerFunc(c.LikeCommentHandler))).Methods("POST")
	apiCreate.Handle("/comment/{comment_id}/like", api.Middleware(http.HandlerFunc(c.UnlikeCommentHandler))).Methods("DELETE")
	apiCreate.Handle("/comment/{comment_id}/likes", api.Middleware(http.HandlerFunc(c.CommentLikesHandler))).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *CommunityApp) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("ecotrack-community has connected to the database")

	a.Router = a.New()
	return nil
}

// DBHelper exposes the database helper so main can hand it to the scheduler
func (a *CommunityApp) DBHelper() databases.DatabaseHelper {
	return a.dbHelper
}
