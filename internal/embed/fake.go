package embed

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"sync/atomic"
)

// FakeProvider is a deterministic in-process backend for testing. Identical
// texts always produce identical vectors; different texts produce effectively
// uncorrelated ones. No network, no model.
type FakeProvider struct {
	// Dim is the vector length to produce.
	Dim int
	// Err, when set, is returned from every call.
	Err error
	// Calls counts Embed invocations, including the engine's probe.
	Calls atomic.Int64
}

// NewFakeProvider creates a FakeProvider with the given dimensionality.
func NewFakeProvider(dim int) *FakeProvider {
	return &FakeProvider{Dim: dim}
}

func (f *FakeProvider) Name() string { return "fake" }

// Embed derives a pseudo-random but deterministic vector from the text by
// expanding a SHA-256 seed.
func (f *FakeProvider) Embed(_ context.Context, text string) ([]float32, error) {
	f.Calls.Add(1)
	if f.Err != nil {
		return nil, f.Err
	}

	vec := make([]float32, f.Dim)
	seed := sha256.Sum256([]byte(text))
	block := seed
	for i := range vec {
		if i%8 == 0 && i > 0 {
			block = sha256.Sum256(block[:])
		}
		bits := binary.LittleEndian.Uint32(block[(i%8)*4:])
		// Map to [-1, 1).
		vec[i] = float32(int32(bits)) / (1 << 31)
	}
	return vec, nil
}

// FakeFactory wraps a FakeProvider in a Factory.
func FakeFactory(p *FakeProvider) Factory {
	return func() (Provider, error) { return p, nil }
}
