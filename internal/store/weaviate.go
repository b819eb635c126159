package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/weaviate/weaviate-go-client/v5/weaviate"
	weaviatemodels "github.com/weaviate/weaviate/entities/models"

	"github.com/veristamp/veristamp/internal/models"
)

// DefaultClass is the Weaviate class holding document records.
const DefaultClass = "VeristampRecord"

// WeaviateStore is an alternative RecordStore backend persisting records as
// objects in a Weaviate instance, with the embedding stored as the object
// vector. Useful when several machines should share one duplicate-detection
// history; the default local backend needs no server at all.
type WeaviateStore struct {
	client *weaviate.Client
	class  string
}

// NewWeaviateStore creates a store talking to the Weaviate instance at url.
// An empty class uses DefaultClass.
func NewWeaviateStore(url, class string) (*WeaviateStore, error) {
	if class == "" {
		class = DefaultClass
	}

	cfg := weaviate.Config{
		Host:   url,
		Scheme: "http",
	}
	if strings.HasPrefix(url, "http://") {
		cfg.Host = strings.TrimPrefix(url, "http://")
	} else if strings.HasPrefix(url, "https://") {
		cfg.Host = strings.TrimPrefix(url, "https://")
		cfg.Scheme = "https"
	}

	client, err := weaviate.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create weaviate client: %w", err)
	}

	return &WeaviateStore{client: client, class: class}, nil
}

// ensureClass creates the record class if it does not exist yet. The class
// uses no vectorizer: veristamp always supplies the vector itself.
func (s *WeaviateStore) ensureClass(ctx context.Context) error {
	schema, err := s.client.Schema().Getter().Do(ctx)
	if err != nil {
		return fmt.Errorf("get schema: %w", err)
	}
	for _, class := range schema.Classes {
		if class.Class == s.class {
			return nil
		}
	}

	classObj := &weaviatemodels.Class{
		Class:      s.class,
		Vectorizer: "none",
		Properties: []*weaviatemodels.Property{
			{Name: "vectorHash", DataType: []string{"text"}},
			{Name: "creator", DataType: []string{"text"}},
			{Name: "contentHash", DataType: []string{"text"}},
			{Name: "text", DataType: []string{"text"}},
			{Name: "timestamp", DataType: []string{"int"}},
		},
	}

	return s.client.Schema().ClassCreator().WithClass(classObj).Do(ctx)
}

// Append persists the record as a new object carrying the embedding as its
// vector. The insertion timestamp is assigned here.
func (s *WeaviateStore) Append(ctx context.Context, rec *models.DocumentRecord) error {
	if err := s.ensureClass(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	now := time.Now()
	props := map[string]interface{}{
		"vectorHash":  rec.VectorHash,
		"creator":     rec.Creator,
		"contentHash": rec.ContentHash,
		"text":        rec.Text,
		"timestamp":   now.UnixMilli(),
	}

	_, err := s.client.Data().Creator().
		WithClassName(s.class).
		WithID(uuid.NewString()).
		WithProperties(props).
		WithVector(rec.Embedding).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}

	rec.Timestamp = now
	return nil
}

// List fetches all records using cursor pagination and returns them in
// insertion order. Transport failures degrade to an empty list, matching the
// local backend's fail-open read policy.
func (s *WeaviateStore) List(ctx context.Context) ([]*models.DocumentRecord, error) {
	records := make([]*models.DocumentRecord, 0)
	limit := 100
	afterCursor := ""

	for {
		getter := s.client.Data().ObjectsGetter().
			WithClassName(s.class).
			WithVector().
			WithLimit(limit)
		if afterCursor != "" {
			getter = getter.WithAfter(afterCursor)
		}

		objs, err := getter.Do(ctx)
		if err != nil {
			return []*models.DocumentRecord{}, nil
		}
		if len(objs) == 0 {
			break
		}

		for _, obj := range objs {
			if rec := convertToRecord(obj); rec != nil {
				records = append(records, rec)
			}
		}

		if len(objs) < limit {
			break
		}
		afterCursor = objs[len(objs)-1].ID.String()
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})

	return records, nil
}

// Clear drops the record class and everything in it.
func (s *WeaviateStore) Clear(ctx context.Context) error {
	if err := s.client.Schema().ClassDeleter().WithClassName(s.class).Do(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// convertToRecord maps a Weaviate object back to a DocumentRecord. JSON
// round-tripping handles the interface{} vector type across client versions.
func convertToRecord(obj interface{}) *models.DocumentRecord {
	data, err := json.Marshal(obj)
	if err != nil {
		return nil
	}

	var raw struct {
		Properties map[string]interface{} `json:"properties"`
		Vector     []interface{}          `json:"vector"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}

	rec := &models.DocumentRecord{
		Embedding: make([]float32, 0, len(raw.Vector)),
	}
	for _, v := range raw.Vector {
		f, ok := v.(float64)
		if !ok {
			return nil
		}
		rec.Embedding = append(rec.Embedding, float32(f))
	}

	if v, ok := raw.Properties["vectorHash"].(string); ok {
		rec.VectorHash = v
	}
	if v, ok := raw.Properties["creator"].(string); ok {
		rec.Creator = v
	}
	if v, ok := raw.Properties["contentHash"].(string); ok {
		rec.ContentHash = v
	}
	if v, ok := raw.Properties["text"].(string); ok {
		rec.Text = v
	}
	if v, ok := raw.Properties["timestamp"].(float64); ok {
		rec.Timestamp = time.UnixMilli(int64(v))
	}

	return rec
}

var _ RecordStore = (*WeaviateStore)(nil)
