// Package store provides the local vector store: append-only persistence of
// document records for future similarity checks. The durable medium is a
// key→blob capability so the store can run over SQLite, an in-memory fake in
// tests, or any other single-key storage.
package store

import "sync"

// Blob is the storage capability the local store writes through: durable
// key→blob storage with no transactions and no size enforcement.
type Blob interface {
	// Get returns the blob stored under key, or (nil, nil) when absent.
	Get(key string) ([]byte, error)

	// Set stores the blob under key, replacing any previous value.
	Set(key string, value []byte) error

	// Delete removes the blob under key. Deleting an absent key is not an error.
	Delete(key string) error
}

// MemoryBlob is an in-memory Blob for tests and ephemeral use.
type MemoryBlob struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryBlob creates an empty in-memory blob store.
func NewMemoryBlob() *MemoryBlob {
	return &MemoryBlob{data: make(map[string][]byte)}
}

func (m *MemoryBlob) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemoryBlob) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	m.data[key] = v
	return nil
}

func (m *MemoryBlob) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
