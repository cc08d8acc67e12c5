// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles recognised by the lifecycle rules.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is owned by the external identity service. VolunteerHub only reads it
// to resolve references (requester, volunteers, chat authors) and to count users.
//
// NOTE:
//   - Field names follow the identity service's documents (camelCase),
//     not the snake_case used by the collections this service owns.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name           string             `bson:"name" json:"name"`
	Email          string             `bson:"email" json:"email"`
	Role           string             `bson:"role" json:"role"` // user | admin
	ProfilePicture string             `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	Location       string             `bson:"location,omitempty" json:"location,omitempty"`

	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// UserRef is the display shape of a user attached to a request or message at
// read time. Unknown users resolve to an ID-only ref.
type UserRef struct {
	ID             primitive.ObjectID `json:"id"`
	Name           string             `json:"name,omitempty"`
	Email          string             `json:"email,omitempty"`
	ProfilePicture string             `json:"profilePicture,omitempty"`
	Role           string             `json:"role,omitempty"`
}

// Ref converts a stored user into its display shape.
func (u User) Ref() UserRef {
	return UserRef{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		ProfilePicture: u.ProfilePicture,
		Role:           u.Role,
	}
}
