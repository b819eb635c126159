package registry

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// mockProof is one registered proof held by the MockRegistry.
type mockProof struct {
	ProofID     string
	VectorHash  string
	MetadataURI string
	Creator     string
	Timestamp   int64
}

// MockRegistry is an in-memory Registry for testing. Append-only and keyed by
// content hash, mirroring the chain contract's semantics.
type MockRegistry struct {
	mu sync.Mutex
	// Proofs stores registrations keyed by content hash.
	Proofs map[string]*mockProof
	// Creator is attributed to every registration.
	Creator string
	// Err can be set to make every method return an error.
	Err error
}

// NewMockRegistry creates an empty MockRegistry.
func NewMockRegistry() *MockRegistry {
	return &MockRegistry{
		Proofs:  make(map[string]*mockProof),
		Creator: "0xmock",
	}
}

// RegisterProof records the proof unless the content hash is already taken.
func (m *MockRegistry) RegisterProof(_ context.Context, contentHash, vectorHash, metadataURI string) (string, error) {
	if m.Err != nil {
		return "", m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Proofs[contentHash]; exists {
		return "", &RemoteError{Status: 409, Code: "already_registered", Message: "content hash already registered"}
	}

	p := &mockProof{
		ProofID:     uuid.NewString(),
		VectorHash:  vectorHash,
		MetadataURI: metadataURI,
		Creator:     m.Creator,
		Timestamp:   time.Now().Unix(),
	}
	m.Proofs[contentHash] = p
	return p.ProofID, nil
}

// VerifyHash looks up a registration by content hash.
func (m *MockRegistry) VerifyHash(_ context.Context, contentHash string) (*Verification, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.Proofs[contentHash]
	if !ok {
		return &Verification{Found: false}, nil
	}
	return &Verification{Found: true, Creator: p.Creator, Timestamp: p.Timestamp}, nil
}

var _ Registry = (*MockRegistry)(nil)
