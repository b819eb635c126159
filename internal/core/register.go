package core

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/veristamp/veristamp/internal/extract"
	"github.com/veristamp/veristamp/internal/fingerprint"
	"github.com/veristamp/veristamp/internal/registry"
	"github.com/veristamp/veristamp/internal/similarity"
	"github.com/veristamp/veristamp/internal/store"
)

// Flow bundles the collaborators shared by the registration and verification
// entry points.
type Flow struct {
	Extractor *extract.Extractor
	Embedder  Embedder
	Matcher   *similarity.Matcher
	Store     store.RecordStore
	Registry  registry.Registry
}

// RegisterOptions controls a registration run.
type RegisterOptions struct {
	// Creator is the identity attributed to the stored record. Opaque to this
	// subsystem.
	Creator string

	// AllowDegraded lets registration proceed when no embedding backend is
	// available: the content hash is registered without a vector hash and no
	// duplicate check runs. The caller must surface the degradation to the
	// user.
	AllowDegraded bool
}

// RegisterResult reports what a registration run did.
type RegisterResult struct {
	ContentHash string
	Fingerprint *Fingerprint // nil when the embedding step was skipped
	Matches     []similarity.Match
	ProofID     string
	MetadataURI string
	Degraded    bool
	DegradedErr error
}

// Register runs the full proof-of-originality flow for a file: content hash,
// fingerprint, duplicate check, registry submission, local record.
//
// A non-empty Matches means a near-duplicate blocked the submission; the
// result carries the ranked matches and no ProofID. An embedding failure
// aborts unless opts.AllowDegraded is set, in which case the content hash is
// registered anyway with Degraded reported on the result.
func (f *Flow) Register(ctx context.Context, path string, opts RegisterOptions) (*RegisterResult, error) {
	contentHash, err := fingerprint.ContentFile(path)
	if err != nil {
		return nil, err
	}
	res := &RegisterResult{ContentHash: contentHash}

	text, err := f.Extractor.FromFile(path)
	if err != nil {
		return nil, err
	}

	vec, embErr := f.Embedder.Embed(ctx, text)
	if embErr != nil {
		if !opts.AllowDegraded {
			return nil, embErr
		}
		res.Degraded = true
		res.DegradedErr = embErr
	} else {
		hash, err := fingerprint.Vector(vec)
		if err != nil {
			return nil, err
		}
		res.Fingerprint = &Fingerprint{VectorHash: hash, Embedding: vec, Text: text}

		res.Matches = CheckForDuplicates(ctx, f.Store, f.Matcher, text, vec)
		if len(res.Matches) > 0 {
			return res, nil
		}
	}

	var vectorHash string
	if res.Fingerprint != nil {
		vectorHash = res.Fingerprint.VectorHash
	}

	res.MetadataURI = MetadataURI(filepath.Base(path), time.Now())
	proofID, err := f.Registry.RegisterProof(ctx, contentHash, vectorHash, res.MetadataURI)
	if err != nil {
		return nil, err
	}
	res.ProofID = proofID

	if res.Fingerprint != nil {
		if _, err := RecordFingerprint(ctx, f.Store, res.Fingerprint, opts.Creator, contentHash, f.Matcher.ShortTextLimit); err != nil {
			// The proof is on-chain; only the local similarity history is
			// missing. Surface both facts.
			return res, fmt.Errorf("proof %s registered but local record not saved: %w", proofID, err)
		}
	}

	return res, nil
}

// CheckResult reports a standalone duplicate check.
type CheckResult struct {
	Fingerprint *Fingerprint
	Matches     []similarity.Match
}

// Check fingerprints a file and scores it against the stored records without
// touching the registry or the store.
func (f *Flow) Check(ctx context.Context, path string) (*CheckResult, error) {
	fp, err := GenerateFingerprint(ctx, f.Extractor, f.Embedder, path)
	if err != nil {
		return nil, err
	}

	return &CheckResult{
		Fingerprint: fp,
		Matches:     CheckForDuplicates(ctx, f.Store, f.Matcher, fp.Text, fp.Embedding),
	}, nil
}
