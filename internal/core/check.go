package core

import (
	"context"
	"unicode/utf8"

	"github.com/veristamp/veristamp/internal/models"
	"github.com/veristamp/veristamp/internal/similarity"
	"github.com/veristamp/veristamp/internal/store"
)

// CheckForDuplicates scores a candidate against every stored record and
// returns the matches at or above the matcher's threshold, best first. Store
// read failures degrade to an empty record set, so a corrupt or unreachable
// store never blocks a check.
func CheckForDuplicates(ctx context.Context, st store.RecordStore, m *similarity.Matcher, text string, embedding []float32) []similarity.Match {
	records, err := st.List(ctx)
	if err != nil {
		records = nil
	}
	return m.Match(text, embedding, records)
}

// RecordFingerprint appends a fingerprint to the store. The extracted text is
// retained on the record only when it is below shortTextLimit runes, so later
// checks against it can take the lexical path; longer texts are compared
// semantically and storing them buys nothing.
func RecordFingerprint(ctx context.Context, st store.RecordStore, fp *Fingerprint, creator, contentHash string, shortTextLimit int) (*models.DocumentRecord, error) {
	if shortTextLimit <= 0 {
		shortTextLimit = similarity.DefaultShortTextLimit
	}

	rec := &models.DocumentRecord{
		VectorHash:  fp.VectorHash,
		Embedding:   fp.Embedding,
		Creator:     creator,
		ContentHash: contentHash,
	}
	if utf8.RuneCountInString(fp.Text) < shortTextLimit {
		rec.Text = fp.Text
	}

	if err := st.Append(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
