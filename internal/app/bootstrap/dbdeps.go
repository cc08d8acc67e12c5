// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"context"

	chatstore "github.com/dalemusser/volunteerhub/internal/app/store/chat"
	requeststore "github.com/dalemusser/volunteerhub/internal/app/store/requests"
	userstore "github.com/dalemusser/volunteerhub/internal/app/store/users"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
// Exactly one of the Mongo handles or Memory is set.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	Memory *MemoryStores

	// Redis is nil unless redis_addr is configured.
	Redis *redis.Client

	// Background work (the in-memory limiter's janitor) runs until Stop.
	Background context.Context
	Stop       context.CancelFunc
}

// MemoryStores are the in-process backends used when store_backend=memory.
type MemoryStores struct {
	Requests *requeststore.MemStore
	Chat     *chatstore.MemStore
	Users    *userstore.MemDirectory
}
