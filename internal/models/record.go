// Package models defines the core data structures used throughout veristamp
// including document records and similarity matches.
package models

import (
	"time"
	"unicode/utf8"
)

// DocumentRecord is one registered (or checked) document as persisted by the
// local vector store. Records are append-only: once written they are never
// updated, only cleared wholesale.
type DocumentRecord struct {
	// VectorHash is the deterministic digest of the embedding, used as the
	// on-chain "AI fingerprint" identifier.
	VectorHash string `json:"vector_hash"`

	// Embedding is the L2-normalized sentence embedding, fixed dimensionality
	// matching the engine's output.
	Embedding []float32 `json:"embedding"`

	// Creator is an opaque identity string (wallet address). Not validated here.
	Creator string `json:"creator"`

	// ContentHash is the digest of the raw file bytes, carried through from the
	// content hasher. It is the primary on-chain identity of the document.
	ContentHash string `json:"content_hash"`

	// Timestamp is assigned by the store at insertion time.
	Timestamp time.Time `json:"timestamp"`

	// Text holds the original extracted text, retained only when shorter than
	// the short-text limit so later checks can use lexical comparison. Empty
	// for longer documents.
	Text string `json:"text,omitempty"`
}

// HasShortText reports whether the record retained original text shorter than
// limit characters, making it eligible for lexical comparison.
func (r *DocumentRecord) HasShortText(limit int) bool {
	return r.Text != "" && utf8.RuneCountInString(r.Text) < limit
}
