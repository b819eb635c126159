package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veristamp/veristamp/internal/embed"
	"github.com/veristamp/veristamp/internal/extract"
	"github.com/veristamp/veristamp/internal/fingerprint"
	"github.com/veristamp/veristamp/internal/store"
)

func newTestEmbedder(dim int) *embed.Engine {
	return embed.NewEngineWithFactories(
		embed.Config{Dimensions: dim},
		embed.FakeFactory(embed.NewFakeProvider(dim)),
	)
}

func TestGenerateFingerprint(t *testing.T) {
	path := writeFile(t, "doc.txt", shortText)
	emb := newTestEmbedder(8)

	fp, err := GenerateFingerprint(context.Background(), extract.New(0), emb, path)
	require.NoError(t, err)

	assert.Equal(t, shortText, fp.Text)
	assert.Len(t, fp.Embedding, 8)

	// The hash must be exactly the vector hasher applied to the embedding.
	want, err := fingerprint.Vector(fp.Embedding)
	require.NoError(t, err)
	assert.Equal(t, want, fp.VectorHash)

	// Same file, fresh engine: identical fingerprint.
	again, err := GenerateFingerprint(context.Background(), extract.New(0), newTestEmbedder(8), path)
	require.NoError(t, err)
	assert.Equal(t, fp.VectorHash, again.VectorHash)
}

func TestGenerateFingerprint_EmptyFile(t *testing.T) {
	path := writeFile(t, "empty.txt", "")
	_, err := GenerateFingerprint(context.Background(), extract.New(0), newTestEmbedder(8), path)
	assert.ErrorIs(t, err, extract.ErrNoText)
}

func TestRecordFingerprint_TextRetention(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		retained bool
	}{
		{"short text retained", shortText, true},
		{"long text dropped", longText, false},
		{"exactly at limit dropped", longText[:100], false},
		{"just below limit retained", longText[:99], true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := store.NewLocalStore(store.NewMemoryBlob(), "")
			fp := &Fingerprint{VectorHash: "vh", Embedding: []float32{1, 0}, Text: tt.text}

			rec, err := RecordFingerprint(context.Background(), st, fp, "0xabc", "ch", 0)
			require.NoError(t, err)

			if tt.retained {
				assert.Equal(t, tt.text, rec.Text)
			} else {
				assert.Empty(t, rec.Text)
			}

			records, err := st.List(context.Background())
			require.NoError(t, err)
			require.Len(t, records, 1)
			assert.Equal(t, rec.Text, records[0].Text)
		})
	}
}

func TestRecordFingerprint_WriteError(t *testing.T) {
	st := store.NewLocalStore(failingSetBlob{}, "")
	fp := &Fingerprint{VectorHash: "vh", Embedding: []float32{1, 0}}

	_, err := RecordFingerprint(context.Background(), st, fp, "", "ch", 0)
	assert.ErrorIs(t, err, store.ErrWrite)
}

type failingSetBlob struct{}

func (failingSetBlob) Get(string) ([]byte, error) { return nil, nil }
func (failingSetBlob) Set(string, []byte) error   { return assert.AnError }
func (failingSetBlob) Delete(string) error        { return nil }
