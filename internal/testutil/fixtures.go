package testutil

import (
	"context"
	"testing"
	"time"

	chatstore "github.com/dalemusser/volunteerhub/internal/app/store/chat"
	requeststore "github.com/dalemusser/volunteerhub/internal/app/store/requests"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data in MongoDB.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser inserts a user document the way the identity service shapes it.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Role:      role,
		Location:  "Kyiv Oblast",
		CreatedAt: time.Now().UTC(),
	}
	if _, err := f.db.Collection(userstore.CollectionName).InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateAdmin creates a test admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	return f.CreateUser(ctx, name, email, models.RoleAdmin)
}

// CreateRequest inserts a request with an explicit creation time.
func (f *Fixtures) CreateRequest(ctx context.Context, requester primitive.ObjectID, title, location string, createdAt time.Time) models.Request {
	f.t.Helper()

	req := NewRequest(requester, title, location, createdAt)
	if _, err := f.db.Collection(requeststore.CollectionName).InsertOne(ctx, req); err != nil {
		f.t.Fatalf("failed to create test request: %v", err)
	}
	return req
}

// CreateChatMessage inserts a chat message with an explicit creation time.
func (f *Fixtures) CreateChatMessage(ctx context.Context, requestID, author primitive.ObjectID, msg string, createdAt time.Time) models.ChatMessage {
	f.t.Helper()

	m := models.ChatMessage{
		ID:        primitive.NewObjectID(),
		Request:   requestID,
		Author:    author,
		Message:   msg,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if _, err := f.db.Collection(chatstore.CollectionName).InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test chat message: %v", err)
	}
	return m
}

// NewRequest builds an active request in its initial state without storing it.
func NewRequest(requester primitive.ObjectID, title, location string, createdAt time.Time) models.Request {
	createdAt = createdAt.UTC().Truncate(time.Millisecond)
	return models.Request{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Description: title + " description",
		Location:    location,
		Requester:   requester,
		Status:      models.StatusPending,
		IsActive:    true,
		Volunteers:  []primitive.ObjectID{},
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}
