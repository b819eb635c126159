// Package fingerprint produces the deterministic digests used as on-chain
// identifiers: the vector hash (AI fingerprint) of an embedding and the
// content hash of raw file bytes.
//
// The vector hash is an exact-identity key: bit-identical embeddings always
// hash identically, and near-duplicate embeddings intentionally hash to
// different digests. Fuzzy matching happens in the similarity package before
// this hash is ever submitted.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrInvalidVector indicates an embedding that cannot be canonicalized.
var ErrInvalidVector = errors.New("invalid embedding vector")

// Vector canonicalizes an embedding into a stable SHA-256 hex digest.
// Each component is formatted to exactly 8 decimal places and the components
// are joined with commas before hashing, so determinism holds across backends
// as long as the floats themselves are bit-identical.
func Vector(embedding []float32) (string, error) {
	if len(embedding) == 0 {
		return "", fmt.Errorf("%w: empty embedding", ErrInvalidVector)
	}

	var sb strings.Builder
	for i, v := range embedding {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("%w: non-finite component at index %d", ErrInvalidVector, i)
		}
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.FormatFloat(f, 'f', 8, 32))
	}

	sum := sha256.Sum256([]byte(sb.String()))
	return hex.EncodeToString(sum[:]), nil
}

// Content computes the SHA-256 hex digest of raw bytes. This is the primary
// on-chain identity of a document; the similarity subsystem only carries it
// through.
func Content(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("hash content: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ContentFile computes the content hash of a file on disk.
func ContentFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return Content(f)
}

// Truncate shortens a hash for display, keeping a prefix and suffix.
func Truncate(hash string, chars int) string {
	if len(hash) <= chars*2 {
		return hash
	}
	return hash[:chars] + "..." + hash[len(hash)-chars:]
}
