package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// RoleAdmin marks a user as an administrator. Admins can mutate any post or
// comment regardless of ownership.
const RoleAdmin = "admin"

// User holds the structure for the users collection in mongo
type User struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email           string             `json:"email" bson:"email"`
	Name            string             `json:"name" bson:"name"`
	Password        string             `json:"-" bson:"password"`
	Role            string             `json:"role" bson:"role"`
	Avatar          string             `json:"avatar" bson:"avatar"`
	Location        string             `json:"location" bson:"location"`
	CarbonReduction float64            `json:"carbonReduction" bson:"carbonReduction"`
	CreatedAt       interface{}        `json:"createdAt" bson:"createdAt"`
	UpdatedAt       interface{}        `json:"updatedAt" bson:"updatedAt"`
}

// Requester is the authenticated identity attached to every mutating call.
// The transport layer has already authenticated it; the handlers only trust
// the id and role carried here.
type Requester struct {
	ID   string
	Role string
}

// IsAdmin reports whether the requester carries the admin role
func (r Requester) IsAdmin() bool { return r.Role == RoleAdmin }

// CanMutate is the single ownership predicate applied at every mutating
// operation: the resource owner or an admin may mutate, nobody else.
func (r Requester) CanMutate(ownerID primitive.ObjectID) bool {
	return r.IsAdmin() || r.ID == ownerID.Hex()
}
