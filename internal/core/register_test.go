package core

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veristamp/veristamp/internal/embed"
	"github.com/veristamp/veristamp/internal/extract"
	"github.com/veristamp/veristamp/internal/models"
	"github.com/veristamp/veristamp/internal/registry"
	"github.com/veristamp/veristamp/internal/similarity"
	"github.com/veristamp/veristamp/internal/store"
)

const shortText = "The quick brown fox jumps over the lazy dog"

// longText is over 100 runes so every comparison against it takes the
// semantic path.
var longText = strings.Repeat("Semantic comparison handles longer documents. ", 4)

func newTestFlow(t *testing.T) (*Flow, *registry.MockRegistry, *store.LocalStore) {
	t.Helper()

	engine := embed.NewEngineWithFactories(
		embed.Config{Dimensions: 8},
		embed.FakeFactory(embed.NewFakeProvider(8)),
	)
	st := store.NewLocalStore(store.NewMemoryBlob(), "")
	reg := registry.NewMockRegistry()

	return &Flow{
		Extractor: extract.New(0),
		Embedder:  engine,
		Matcher:   similarity.NewMatcher(0, 0),
		Store:     st,
		Registry:  reg,
	}, reg, st
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRegister_NewDocument(t *testing.T) {
	flow, reg, st := newTestFlow(t)
	path := writeFile(t, "doc.txt", shortText)

	res, err := flow.Register(context.Background(), path, RegisterOptions{Creator: "0xabc"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.ProofID)
	assert.Empty(t, res.Matches)
	assert.False(t, res.Degraded)
	require.NotNil(t, res.Fingerprint)
	assert.Len(t, res.Fingerprint.VectorHash, 64)
	assert.Len(t, res.Fingerprint.Embedding, 8)

	// Proof is keyed by content hash in the registry.
	v, err := reg.VerifyHash(context.Background(), res.ContentHash)
	require.NoError(t, err)
	assert.True(t, v.Found)

	// And the record landed in the local store with the text retained
	// (44 runes, below the short-text limit).
	records, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, res.Fingerprint.VectorHash, records[0].VectorHash)
	assert.Equal(t, "0xabc", records[0].Creator)
	assert.Equal(t, shortText, records[0].Text)
}

func TestRegister_DuplicateShortTextBlocked(t *testing.T) {
	flow, _, st := newTestFlow(t)

	first := writeFile(t, "first.txt", shortText)
	_, err := flow.Register(context.Background(), first, RegisterOptions{Creator: "0xabc"})
	require.NoError(t, err)

	// Same text resubmitted: both texts are short and the stored text was
	// retained, so the lexical path fires with a perfect score.
	second := writeFile(t, "second.txt", shortText)
	res, err := flow.Register(context.Background(), second, RegisterOptions{Creator: "0xdef"})
	require.NoError(t, err)

	require.Len(t, res.Matches, 1)
	assert.InDelta(t, 1.0, res.Matches[0].Similarity, 1e-9)
	assert.Equal(t, similarity.MethodTextBased, res.Matches[0].Method)
	assert.Equal(t, "0xabc", res.Matches[0].Creator)
	assert.Empty(t, res.ProofID, "a near-duplicate blocks submission")

	records, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1, "blocked registration must not append")
}

func TestRegister_DuplicateLongTextSemantic(t *testing.T) {
	flow, _, st := newTestFlow(t)

	first := writeFile(t, "first.txt", longText)
	_, err := flow.Register(context.Background(), first, RegisterOptions{})
	require.NoError(t, err)

	// Long text is never retained, so the resubmission must be caught by
	// the semantic path: identical text, identical embedding, cosine 1.
	records, err := st.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Empty(t, records[0].Text)

	second := writeFile(t, "second.txt", longText)
	res, err := flow.Register(context.Background(), second, RegisterOptions{})
	require.NoError(t, err)

	require.Len(t, res.Matches, 1)
	assert.InDelta(t, 1.0, res.Matches[0].Similarity, 1e-6)
	assert.Equal(t, similarity.MethodSemantic, res.Matches[0].Method)
	assert.Empty(t, res.ProofID)
}

func TestRegister_EmbedFailureAborts(t *testing.T) {
	flow, _, _ := newTestFlow(t)
	flow.Embedder = embed.NewEngineWithFactories(
		embed.Config{Dimensions: 8},
		func() (embed.Provider, error) { return nil, errors.New("backend down") },
	)

	path := writeFile(t, "doc.txt", shortText)
	_, err := flow.Register(context.Background(), path, RegisterOptions{})
	assert.ErrorIs(t, err, embed.ErrModelLoad)
}

func TestRegister_DegradedMode(t *testing.T) {
	flow, reg, st := newTestFlow(t)
	flow.Embedder = embed.NewEngineWithFactories(
		embed.Config{Dimensions: 8},
		func() (embed.Provider, error) { return nil, errors.New("backend down") },
	)

	path := writeFile(t, "doc.txt", shortText)
	res, err := flow.Register(context.Background(), path, RegisterOptions{AllowDegraded: true})
	require.NoError(t, err)

	assert.True(t, res.Degraded)
	assert.ErrorIs(t, res.DegradedErr, embed.ErrModelLoad)
	assert.NotEmpty(t, res.ProofID)
	assert.Nil(t, res.Fingerprint)

	// Registered on-chain with an empty vector hash, nothing stored locally.
	assert.Empty(t, reg.Proofs[res.ContentHash].VectorHash)
	records, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRegister_RegistryConflict(t *testing.T) {
	flow, _, _ := newTestFlow(t)

	// Same bytes registered twice with an empty local store: the duplicate
	// check cannot catch it after a clear, but the registry still rejects
	// the reused content hash.
	path := writeFile(t, "doc.txt", longText)
	_, err := flow.Register(context.Background(), path, RegisterOptions{})
	require.NoError(t, err)
	require.NoError(t, flow.Store.Clear(context.Background()))

	_, err = flow.Register(context.Background(), path, RegisterOptions{})
	var re *registry.RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "already_registered", re.Code)
}

func TestRegister_MissingFile(t *testing.T) {
	flow, _, _ := newTestFlow(t)
	_, err := flow.Register(context.Background(), filepath.Join(t.TempDir(), "absent.txt"), RegisterOptions{})
	assert.Error(t, err)
}

func TestCheck_NoSideEffects(t *testing.T) {
	flow, reg, st := newTestFlow(t)
	path := writeFile(t, "doc.txt", shortText)

	res, err := flow.Check(context.Background(), path)
	require.NoError(t, err)

	assert.Empty(t, res.Matches)
	require.NotNil(t, res.Fingerprint)
	assert.Len(t, res.Fingerprint.VectorHash, 64)

	records, err := st.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records, "check must not append")
	assert.Empty(t, reg.Proofs, "check must not register")
}

func TestVerify(t *testing.T) {
	flow, _, _ := newTestFlow(t)
	path := writeFile(t, "doc.txt", shortText)

	reg, err := flow.Register(context.Background(), path, RegisterOptions{})
	require.NoError(t, err)

	res, err := flow.Verify(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, reg.ContentHash, res.ContentHash)
	assert.Equal(t, "0xmock", res.Creator)
	assert.False(t, res.Timestamp.IsZero())

	other := writeFile(t, "other.txt", "never registered")
	res, err = flow.Verify(context.Background(), other)
	require.NoError(t, err)
	assert.False(t, res.Found)
	assert.True(t, res.Timestamp.IsZero())
}

func TestMetadataURI(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	uri := MetadataURI("paper.pdf", at)

	const prefix = "data:application/json;base64,"
	require.True(t, strings.HasPrefix(uri, prefix))

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, prefix))
	require.NoError(t, err)

	var meta struct {
		Name         string `json:"name"`
		RegisteredAt string `json:"registeredAt"`
	}
	require.NoError(t, json.Unmarshal(raw, &meta))
	assert.Equal(t, "paper.pdf", meta.Name)
	assert.Equal(t, "2026-03-14T09:26:53Z", meta.RegisteredAt)
}

type erroringStore struct{}

func (erroringStore) List(context.Context) ([]*models.DocumentRecord, error) {
	return nil, errors.New("unreadable")
}
func (erroringStore) Append(context.Context, *models.DocumentRecord) error { return nil }
func (erroringStore) Clear(context.Context) error                         { return nil }

func TestCheckForDuplicates_StoreReadFailsOpen(t *testing.T) {
	m := similarity.NewMatcher(0, 0)
	matches := CheckForDuplicates(context.Background(), erroringStore{}, m, "text", []float32{1, 0})
	assert.Empty(t, matches)
}
