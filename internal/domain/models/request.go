// internal/domain/models/request.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request status values. Status is informational only: accepting or
// rejecting volunteers and toggling activation never change it.
const (
	StatusPending   = "pending"
	StatusAccepted  = "accepted"
	StatusCompleted = "completed"
)

// Request is a call for help created by a requester.
//
// NOTE:
//   - Volunteers is the authoritative membership set. It never contains
//     duplicates and never contains Requester. Only the request store's
//     volunteer operations write it.
//   - IsActive is independent of Status.
type Request struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Location    string               `bson:"location" json:"location"`
	Requester   primitive.ObjectID   `bson:"requester" json:"requester"`
	Status      string               `bson:"status" json:"status"`
	IsActive    bool                 `bson:"is_active" json:"isActive"`
	Volunteers  []primitive.ObjectID `bson:"volunteers" json:"volunteers"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// HasVolunteer reports whether userID is in the volunteer set.
func (r Request) HasVolunteer(userID primitive.ObjectID) bool {
	for _, v := range r.Volunteers {
		if v == userID {
			return true
		}
	}
	return false
}

// RequestView is a Request with its user references joined for display.
type RequestView struct {
	ID          primitive.ObjectID `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Location    string             `json:"location"`
	Requester   UserRef            `json:"requester"`
	Status      string             `json:"status"`
	IsActive    bool               `json:"isActive"`
	Volunteers  []UserRef          `json:"volunteers"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
