package core

import (
	"context"
	"time"

	"github.com/veristamp/veristamp/internal/fingerprint"
)

// VerifyResult reports whether a file's content hash has a prior registration.
type VerifyResult struct {
	ContentHash string
	Found       bool
	Creator     string
	Timestamp   time.Time
}

// Verify recomputes the file's content hash and asks the registry for a prior
// proof.
func (f *Flow) Verify(ctx context.Context, path string) (*VerifyResult, error) {
	contentHash, err := fingerprint.ContentFile(path)
	if err != nil {
		return nil, err
	}

	v, err := f.Registry.VerifyHash(ctx, contentHash)
	if err != nil {
		return nil, err
	}

	res := &VerifyResult{ContentHash: contentHash, Found: v.Found, Creator: v.Creator}
	if v.Timestamp > 0 {
		res.Timestamp = time.Unix(v.Timestamp, 0)
	}
	return res, nil
}
