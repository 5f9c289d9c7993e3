package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment holds the structure for the comments collection in mongo.
// ParentComment threads a comment under another one; it is not checked to
// belong to the same post (kept as the original behaved, flagged in the docs).
type Comment struct {
	ID            primitive.ObjectID   `json:"_id" bson:"_id,omitempty"`
	Post          primitive.ObjectID   `json:"post" bson:"post"`
	User          primitive.ObjectID   `json:"user" bson:"user"`
	Content       string               `json:"content" bson:"content"`
	ParentComment *primitive.ObjectID  `json:"parentComment,omitempty" bson:"parentComment,omitempty"`
	Likes         []primitive.ObjectID `json:"likes" bson:"likes"`
	IsEdited      bool                 `json:"isEdited" bson:"isEdited"`
	CreatedAt     interface{}          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     interface{}          `json:"updatedAt" bson:"updatedAt"`
}

// Validate checks the caller supplied comment fields
func (c *Comment) Validate() error {
	if strings.TrimSpace(c.Content) == "" {
		return NewValidationError("please provide some content")
	}
	return nil
}

// LikedBy reports whether userID is present in the like set
func (c *Comment) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
