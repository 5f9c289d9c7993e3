package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post holds the structure for the posts collection in mongo. CommentsCount
// is denormalized: it always equals the number of comments referencing this
// post and is only moved by the paired comment create/delete operations (plus
// the reconciliation job). Likes holds each user id at most once.
type Post struct {
	ID              primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	User            primitive.ObjectID   `json:"user" bson:"user"`
	Title           string               `json:"title" bson:"title"`
	Content         string               `json:"content" bson:"content"`
	Image           string               `json:"image" bson:"image"`
	Tags            []string             `json:"tags" bson:"tags"`
	CarbonReduction float64              `json:"carbonReduction" bson:"carbonReduction"`
	Likes           []primitive.ObjectID `json:"likes" bson:"likes"`
	CommentsCount   int                  `json:"commentsCount" bson:"commentsCount"`
	CreatedAt       interface{}          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       interface{}          `json:"updatedAt" bson:"updatedAt"`
}

// Validate checks the caller supplied post fields
func (p *Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return NewValidationError("please provide a title")
	}
	if strings.TrimSpace(p.Content) == "" {
		return NewValidationError("please provide some content")
	}
	if p.CarbonReduction < 0 {
		return NewValidationError("carbon reduction must be a positive number")
	}
	return nil
}

// LikedBy reports whether userID is present in the like set
func (p *Post) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
