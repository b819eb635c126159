package similarity

import (
	"sort"
	"unicode/utf8"

	"github.com/veristamp/veristamp/internal/models"
)

// Comparison methods reported on each match.
const (
	MethodSemantic  = "semantic"
	MethodTextBased = "text-based"
)

// Default tuning values. Both are configuration knobs, not fixed constants:
// lower thresholds increase recall, higher thresholds increase precision, and
// the short-text limit bounds where embeddings are considered unreliable.
const (
	DefaultThreshold      = 0.75
	DefaultShortTextLimit = 100
)

// Match is one stored record that scored at or above the threshold against a
// candidate document.
type Match struct {
	VectorHash string
	Similarity float64
	Creator    string
	Method     string
}

// Matcher compares a candidate document against stored records. It is a pure
// decision core: no I/O, no side effects.
type Matcher struct {
	// Threshold is the minimum similarity score a record must reach to be
	// reported as a match.
	Threshold float64

	// ShortTextLimit is the character count below which both texts must fall
	// for the lexical comparison path to apply.
	ShortTextLimit int
}

// NewMatcher creates a Matcher, filling zero values with defaults.
func NewMatcher(threshold float64, shortTextLimit int) *Matcher {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if shortTextLimit <= 0 {
		shortTextLimit = DefaultShortTextLimit
	}
	return &Matcher{
		Threshold:      threshold,
		ShortTextLimit: shortTextLimit,
	}
}

// Match scores the candidate against every stored record, keeps records at or
// above the threshold, and returns them ranked by descending similarity. Ties
// keep store order (stable sort).
//
// Per-record method selection: if the candidate text and the record's retained
// text are both shorter than ShortTextLimit, the lexical scorer is used
// (embeddings are unreliable for very short inputs); otherwise the semantic
// scorer compares embeddings.
func (m *Matcher) Match(text string, embedding []float32, records []*models.DocumentRecord) []Match {
	candidateShort := utf8.RuneCountInString(text) < m.ShortTextLimit

	matches := make([]Match, 0)
	for _, rec := range records {
		var score float64
		method := MethodSemantic

		if candidateShort && rec.HasShortText(m.ShortTextLimit) {
			score = LexicalScore(text, rec.Text)
			method = MethodTextBased
		} else {
			score = Cosine(embedding, rec.Embedding)
		}

		if score >= m.Threshold {
			matches = append(matches, Match{
				VectorHash: rec.VectorHash,
				Similarity: score,
				Creator:    rec.Creator,
				Method:     method,
			})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	return matches
}
