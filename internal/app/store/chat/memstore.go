// internal/app/store/chat/memstore.go
package chatstore

import (
	"context"
	"sync"

	"github.com/dalemusser/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemStore keeps messages in insertion order, which is also created_at order.
type MemStore struct {
	mu   sync.RWMutex
	msgs []models.ChatMessage
}

func NewMem() *MemStore {
	return &MemStore{}
}

func (m *MemStore) Append(_ context.Context, requestID, authorID primitive.ObjectID, message string) (models.ChatMessage, error) {
	msg, err := newMessage(requestID, authorID, message)
	if err != nil {
		return models.ChatMessage{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return msg, nil
}

func (m *MemStore) List(_ context.Context, requestID primitive.ObjectID) ([]models.ChatMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.ChatMessage{}
	for _, msg := range m.msgs {
		if msg.Request == requestID {
			out = append(out, msg)
		}
	}
	return out, nil
}
