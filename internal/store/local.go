package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/veristamp/veristamp/internal/models"
)

// ErrWrite indicates a record could not be persisted. The record is not
// durably saved and the store does not retry.
var ErrWrite = errors.New("failed to persist record")

// DefaultKey is the fixed blob key holding the record array.
const DefaultKey = "veristamp_vectors"

// envelopeVersion is the current persisted schema version. Blobs with a
// higher version were written by a newer veristamp and are not interpreted.
const envelopeVersion = 1

// envelope is the persisted blob layout: a version field plus the record
// array, so the format can evolve safely.
type envelope struct {
	Version int                      `json:"version"`
	Records []*models.DocumentRecord `json:"records"`
}

// RecordStore is the contract every vector store backend satisfies. The store
// is append-only; the only destructive operation is a full clear.
type RecordStore interface {
	// List returns all records in insertion order.
	List(ctx context.Context) ([]*models.DocumentRecord, error)

	// Append assigns the record's timestamp and persists it.
	Append(ctx context.Context, rec *models.DocumentRecord) error

	// Clear removes all records.
	Clear(ctx context.Context) error
}

// LocalStore persists records as a single JSON blob under a fixed key.
//
// Read failures and corrupt blobs degrade to an empty record list instead of
// propagating: losing local plagiarism-detection history is recoverable,
// blocking every check on a corrupt blob is not. Write failures do propagate.
type LocalStore struct {
	blob Blob
	key  string
	now  func() time.Time
}

// NewLocalStore creates a store over the given blob medium. An empty key uses
// DefaultKey.
func NewLocalStore(blob Blob, key string) *LocalStore {
	if key == "" {
		key = DefaultKey
	}
	return &LocalStore{blob: blob, key: key, now: time.Now}
}

// List returns all stored records in insertion order. Never returns an error:
// unreadable or corrupt state is treated as empty.
func (s *LocalStore) List(_ context.Context) ([]*models.DocumentRecord, error) {
	return s.read(), nil
}

func (s *LocalStore) read() []*models.DocumentRecord {
	data, err := s.blob.Get(s.key)
	if err != nil || len(data) == 0 {
		return []*models.DocumentRecord{}
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Version > envelopeVersion {
		return []*models.DocumentRecord{}
	}
	if env.Records == nil {
		return []*models.DocumentRecord{}
	}
	return env.Records
}

// Append assigns the insertion timestamp and persists the record. On write
// failure the record is not durably saved; the caller decides whether to
// surface or retry.
func (s *LocalStore) Append(_ context.Context, rec *models.DocumentRecord) error {
	records := s.read()

	stored := *rec
	stored.Timestamp = s.now()
	records = append(records, &stored)

	data, err := json.Marshal(envelope{Version: envelopeVersion, Records: records})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if err := s.blob.Set(s.key, data); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	rec.Timestamp = stored.Timestamp
	return nil
}

// Clear removes all records.
func (s *LocalStore) Clear(_ context.Context) error {
	if err := s.blob.Delete(s.key); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

var _ RecordStore = (*LocalStore)(nil)
