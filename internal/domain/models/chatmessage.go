// internal/domain/models/chatmessage.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMessage is one entry in a request's chat log.
// Messages are listed by CreatedAt ascending, ties broken by _id.
type ChatMessage struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Request   primitive.ObjectID `bson:"request_id" json:"request"`
	Author    primitive.ObjectID `bson:"author_id" json:"author"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ChatMessageView is a ChatMessage with its author joined for display.
type ChatMessageView struct {
	ID        primitive.ObjectID `json:"id"`
	Request   primitive.ObjectID `json:"request"`
	Author    UserRef            `json:"author"`
	Message   string             `json:"message"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}
