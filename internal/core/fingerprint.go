package core

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"time"

	"github.com/veristamp/veristamp/internal/extract"
	"github.com/veristamp/veristamp/internal/fingerprint"
)

// Embedder produces fixed-dimensionality embeddings. Satisfied by
// embed.Engine; tests inject deterministic fakes.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Preload(ctx context.Context) error
}

// Fingerprint is the outcome of the extract-embed-hash pipeline for one file.
type Fingerprint struct {
	VectorHash string
	Embedding  []float32
	Text       string
}

// GenerateFingerprint runs the end-to-end pipeline: extract a text sample,
// embed it, and hash the embedding.
func GenerateFingerprint(ctx context.Context, ex *extract.Extractor, emb Embedder, path string) (*Fingerprint, error) {
	text, err := ex.FromFile(path)
	if err != nil {
		return nil, err
	}
	return fingerprintText(ctx, emb, text)
}

func fingerprintText(ctx context.Context, emb Embedder, text string) (*Fingerprint, error) {
	vec, err := emb.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	hash, err := fingerprint.Vector(vec)
	if err != nil {
		return nil, err
	}

	return &Fingerprint{VectorHash: hash, Embedding: vec, Text: text}, nil
}

// MetadataURI builds the provenance metadata handed to the registry alongside
// a proof: a data URI carrying the filename and the registration instant.
func MetadataURI(filename string, at time.Time) string {
	payload, _ := json.Marshal(struct {
		Name         string `json:"name"`
		RegisteredAt string `json:"registeredAt"`
	}{filename, at.UTC().Format(time.RFC3339)})
	return "data:application/json;base64," + base64.StdEncoding.EncodeToString(payload)
}
