package similarity

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veristamp/veristamp/internal/models"
)

// unitVec builds a one-hot vector for controlled cosine scores.
func unitVec(dim, hot int) []float32 {
	v := make([]float32, dim)
	v[hot] = 1
	return v
}

// blendVec builds a unit vector whose cosine against unitVec(dim, 0) is exactly w.
func blendVec(dim int, w float64) []float32 {
	v := make([]float32, dim)
	v[0] = float32(w)
	v[1] = float32(math.Sqrt(1 - w*w))
	return v
}

func TestNewMatcher_Defaults(t *testing.T) {
	m := NewMatcher(0, 0)
	assert.Equal(t, DefaultThreshold, m.Threshold)
	assert.Equal(t, DefaultShortTextLimit, m.ShortTextLimit)

	m = NewMatcher(0.9, 50)
	assert.Equal(t, 0.9, m.Threshold)
	assert.Equal(t, 50, m.ShortTextLimit)
}

func TestMatcher_MethodSelection_ShortTexts(t *testing.T) {
	m := NewMatcher(0.5, 100)

	candidate := strings.Repeat("a", 50)
	stored := &models.DocumentRecord{
		VectorHash: "hash1",
		Embedding:  unitVec(4, 0),
		Text:       strings.Repeat("a", 40),
	}

	matches := m.Match(candidate, unitVec(4, 1), []*models.DocumentRecord{stored})
	require.Len(t, matches, 1)
	assert.Equal(t, MethodTextBased, matches[0].Method)
}

func TestMatcher_MethodSelection_LongCandidate(t *testing.T) {
	m := NewMatcher(0.5, 100)

	// Candidate at 150 characters forces the semantic path regardless of the
	// stored record's retained text.
	candidate := strings.Repeat("b", 150)
	stored := &models.DocumentRecord{
		VectorHash: "hash1",
		Embedding:  unitVec(4, 0),
		Text:       "short stored text",
	}

	matches := m.Match(candidate, unitVec(4, 0), []*models.DocumentRecord{stored})
	require.Len(t, matches, 1)
	assert.Equal(t, MethodSemantic, matches[0].Method)
}

func TestMatcher_MethodSelection_NoRetainedText(t *testing.T) {
	m := NewMatcher(0.5, 100)

	// Short candidate but the stored record kept no text: semantic fallback.
	stored := &models.DocumentRecord{
		VectorHash: "hash1",
		Embedding:  unitVec(4, 0),
	}

	matches := m.Match("short candidate", unitVec(4, 0), []*models.DocumentRecord{stored})
	require.Len(t, matches, 1)
	assert.Equal(t, MethodSemantic, matches[0].Method)
}

func TestMatcher_ThresholdFiltering(t *testing.T) {
	m := NewMatcher(0.75, 100)
	dim := 8
	candidate := unitVec(dim, 0)

	// Scores against the candidate: 0.9, 0.8, 0.5.
	records := []*models.DocumentRecord{
		{VectorHash: "h-090", Embedding: blendVec(dim, 0.9)},
		{VectorHash: "h-080", Embedding: blendVec(dim, 0.8)},
		{VectorHash: "h-050", Embedding: blendVec(dim, 0.5)},
	}

	// Long candidate text keeps every comparison on the semantic path.
	matches := m.Match(strings.Repeat("x", 200), candidate, records)

	require.Len(t, matches, 2)
	assert.Equal(t, "h-090", matches[0].VectorHash)
	assert.Equal(t, "h-080", matches[1].VectorHash)
	assert.InDelta(t, 0.9, matches[0].Similarity, 1e-6)
	assert.InDelta(t, 0.8, matches[1].Similarity, 1e-6)
}

func TestMatcher_RankingDescendingStable(t *testing.T) {
	m := NewMatcher(0.1, 100)
	dim := 8
	candidate := unitVec(dim, 0)

	// Two records with identical scores must keep store order.
	records := []*models.DocumentRecord{
		{VectorHash: "first", Embedding: blendVec(dim, 0.8), Creator: "alice"},
		{VectorHash: "second", Embedding: blendVec(dim, 0.8), Creator: "bob"},
		{VectorHash: "best", Embedding: blendVec(dim, 0.95), Creator: "carol"},
	}

	matches := m.Match(strings.Repeat("x", 200), candidate, records)
	require.Len(t, matches, 3)
	assert.Equal(t, "best", matches[0].VectorHash)
	assert.Equal(t, "first", matches[1].VectorHash)
	assert.Equal(t, "second", matches[2].VectorHash)
}

func TestMatcher_CarriesCreator(t *testing.T) {
	m := NewMatcher(0.5, 100)
	rec := &models.DocumentRecord{
		VectorHash: "h",
		Embedding:  unitVec(4, 0),
		Creator:    "0xabc123",
	}

	matches := m.Match(strings.Repeat("x", 200), unitVec(4, 0), []*models.DocumentRecord{rec})
	require.Len(t, matches, 1)
	assert.Equal(t, "0xabc123", matches[0].Creator)
}

func TestMatcher_NoRecords(t *testing.T) {
	m := NewMatcher(0.75, 100)
	matches := m.Match("anything", unitVec(4, 0), nil)
	assert.Empty(t, matches)
}

func TestMatcher_ShortNearDuplicate(t *testing.T) {
	m := NewMatcher(0.75, 100)

	stored := &models.DocumentRecord{
		VectorHash: "h",
		Embedding:  unitVec(4, 0),
		Text:       "Hello World Test",
	}

	// Normalization collapses both texts to "hello world test".
	matches := m.Match("hello   world, test!!", unitVec(4, 1), []*models.DocumentRecord{stored})
	require.Len(t, matches, 1)
	assert.Equal(t, MethodTextBased, matches[0].Method)
	assert.Equal(t, 1.0, matches[0].Similarity)
}
