// Package registry is the client side of the on-chain proof registry: an
// append-only mapping keyed by content hash, reached through an HTTP gateway.
// The registry stores the vector hash opaquely as provenance metadata; it has
// no awareness of embedding semantics.
package registry

import (
	"context"
	"fmt"
)

// Verification is the registry's answer for a content hash.
type Verification struct {
	Found     bool   `json:"found"`
	Creator   string `json:"creator"`
	Timestamp int64  `json:"timestamp"` // unix seconds, 0 when not found
}

// Registry defines the contract for the proof registry collaborator.
// This interface enables mocking for testing the core package.
type Registry interface {
	// RegisterProof records a new proof and returns its registry-assigned ID.
	// Callers invoke this only after the similarity matcher returned zero
	// matches (or the operator explicitly proceeded in degraded mode).
	RegisterProof(ctx context.Context, contentHash, vectorHash, metadataURI string) (string, error)

	// VerifyHash looks up a prior registration by content hash.
	VerifyHash(ctx context.Context, contentHash string) (*Verification, error)
}

// RemoteError is a structured error returned by the registry gateway.
type RemoteError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("registry: %s (%s, HTTP %d)", e.Message, e.Code, e.Status)
}
