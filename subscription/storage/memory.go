package storage

import (
	"context"
	"sync"

	"github.com/golangid/gqlsubscription/candishared"
	"github.com/golangid/gqlsubscription/subscription"
)

// MemoryStore in-memory subscriber store, keep insertion order
type MemoryStore struct {
	mu          sync.RWMutex
	subscribers []*subscription.Subscriber
}

// NewMemoryStore constructor
func NewMemoryStore(subscribers ...*subscription.Subscriber) *MemoryStore {
	return &MemoryStore{subscribers: subscribers}
}

// Store method
func (m *MemoryStore) Store(ctx context.Context, subscriber *subscription.Subscriber) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, subscriber)
	return nil
}

// FindByChannelAndSchema method
func (m *MemoryStore) FindByChannelAndSchema(ctx context.Context, channel, schemaName string, handleFunc func(*subscription.Subscriber) error) error {
	m.mu.RLock()
	var matches []*subscription.Subscriber
	for _, subscriber := range m.subscribers {
		if subscriber.Channel == channel && subscriber.SchemaName == schemaName && subscriber.Validate() {
			matches = append(matches, subscriber)
		}
	}
	m.mu.RUnlock()

	for _, subscriber := range matches {
		if err := handleFunc(subscriber); err != nil {
			return err
		}
	}
	return nil
}

// Delete method
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, subscriber := range m.subscribers {
		if subscriber.ID == id {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			return nil
		}
	}
	return candishared.NewNotFoundError("subscriber", id)
}

// Len count stored subscribers
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subscribers)
}
