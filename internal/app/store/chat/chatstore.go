// internal/app/store/chat/chatstore.go
package chatstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CollectionName is the Mongo collection holding chat messages.
const CollectionName = "chat_messages"

var ErrEmptyMessage = errors.New("message is empty")

// Store is the Mongo-backed chat log. It does not check that the request
// exists; callers do.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(CollectionName)}
}

func newMessage(requestID, authorID primitive.ObjectID, message string) (models.ChatMessage, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	return models.ChatMessage{
		ID:        primitive.NewObjectID(),
		Request:   requestID,
		Author:    authorID,
		Message:   message,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *Store) Append(ctx context.Context, requestID, authorID primitive.ObjectID, message string) (models.ChatMessage, error) {
	m, err := newMessage(requestID, authorID, message)
	if err != nil {
		return models.ChatMessage{}, err
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.ChatMessage{}, err
	}
	return m, nil
}

// List returns the messages of a request, oldest first.
func (s *Store) List(ctx context.Context, requestID primitive.ObjectID) ([]models.ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.c.Find(ctx, bson.M{"request_id": requestID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.ChatMessage{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
