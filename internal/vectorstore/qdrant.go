package vectorstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jonathan/resume-generator/internal/types"
)

// DefaultCollection is the Qdrant collection holding resume fragments.
const DefaultCollection = "resume"

const scrollPageSize = 256

// QdrantStore is a REST client to Qdrant. It assumes cosine distance
// and creates the collection on startup if missing.
type QdrantStore struct {
	baseURL    string
	apiKey     string
	collection string
	client     *http.Client
}

// QdrantConfig configures the Qdrant client.
type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewQdrantStore creates a Qdrant-backed fragment store.
func NewQdrantStore(cfg QdrantConfig) *QdrantStore {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	collection := cfg.Collection
	if collection == "" {
		collection = DefaultCollection
	}
	return &QdrantStore{
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		collection: collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// EnsureCollection creates the collection if it does not exist. Qdrant
// returns 200 when the collection already exists with the same schema.
func (s *QdrantStore) EnsureCollection(ctx context.Context, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("invalid vector dimensions: %d", dimensions)
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimensions,
			"distance": "Cosine",
		},
	}
	return s.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s", s.collection), "ensure collection", body, nil)
}

// Upsert writes fragments and their vectors as points. The fragment ID
// is the point ID, so repeated upserts overwrite in place.
func (s *QdrantStore) Upsert(ctx context.Context, fragments []types.Fragment, vectors [][]float32) error {
	if len(fragments) != len(vectors) {
		return fmt.Errorf("fragments and vectors length mismatch: %d != %d", len(fragments), len(vectors))
	}
	if len(fragments) == 0 {
		return nil
	}

	points := make([]map[string]any, len(fragments))
	for i, frag := range fragments {
		points[i] = map[string]any{
			"id":      frag.ID,
			"vector":  vectors[i],
			"payload": fragmentPayload(frag),
		}
	}
	body := map[string]any{"points": points}
	path := fmt.Sprintf("/collections/%s/points?wait=true", s.collection)
	return s.do(ctx, http.MethodPut, path, "upsert", body, nil)
}

// Delete removes the points with the given fragment IDs.
func (s *QdrantStore) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	body := map[string]any{"points": ids}
	path := fmt.Sprintf("/collections/%s/points/delete?wait=true", s.collection)
	return s.do(ctx, http.MethodPost, path, "delete", body, nil)
}

// Search returns up to limit fragments nearest to the query vector.
// Transient failures are retried once.
func (s *QdrantStore) Search(ctx context.Context, vector []float32, limit int) ([]types.ScoredFragment, error) {
	if limit <= 0 {
		limit = 10
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        limit,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      string         `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}

	path := fmt.Sprintf("/collections/%s/points/search", s.collection)
	err := s.do(ctx, http.MethodPost, path, "search", body, &resp)
	if err != nil && ctx.Err() == nil {
		err = s.do(ctx, http.MethodPost, path, "search", body, &resp)
	}
	if err != nil {
		return nil, err
	}

	results := make([]types.ScoredFragment, 0, len(resp.Result))
	for _, r := range resp.Result {
		frag := fragmentFromPayload(r.ID, r.Payload)
		results = append(results, types.ScoredFragment{Fragment: frag, Score: r.Score})
	}
	return results, nil
}

// Scroll pages through every stored point and returns the fragments.
func (s *QdrantStore) Scroll(ctx context.Context) ([]types.Fragment, error) {
	var fragments []types.Fragment
	var offset any

	path := fmt.Sprintf("/collections/%s/points/scroll", s.collection)
	for {
		body := map[string]any{
			"limit":        scrollPageSize,
			"with_payload": true,
		}
		if offset != nil {
			body["offset"] = offset
		}

		var resp struct {
			Result struct {
				Points []struct {
					ID      string         `json:"id"`
					Payload map[string]any `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		if err := s.do(ctx, http.MethodPost, path, "scroll", body, &resp); err != nil {
			return nil, err
		}

		for _, p := range resp.Result.Points {
			fragments = append(fragments, fragmentFromPayload(p.ID, p.Payload))
		}

		if resp.Result.NextPageOffset == nil || len(resp.Result.Points) == 0 {
			return fragments, nil
		}
		offset = resp.Result.NextPageOffset
	}
}

// Count returns the exact number of stored fragments.
func (s *QdrantStore) Count(ctx context.Context) (int, error) {
	body := map[string]any{"exact": true}
	var resp struct {
		Result struct {
			Count int `json:"count"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/collections/%s/points/count", s.collection)
	if err := s.do(ctx, http.MethodPost, path, "count", body, &resp); err != nil {
		return 0, err
	}
	return resp.Result.Count, nil
}

func (s *QdrantStore) do(ctx context.Context, method, path, operation string, body, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", operation, err)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", operation, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return &RequestError{Operation: operation, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &RequestError{Operation: operation, Status: resp.Status}
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &RequestError{Operation: operation, Cause: err}
		}
	}
	return nil
}

func fragmentPayload(frag types.Fragment) map[string]any {
	payload := map[string]any{
		"section":    string(frag.Section),
		"parent_key": frag.ParentKey,
		"ordinal":    frag.Ordinal,
		"position":   frag.Position,
		"text":       frag.Text,
	}
	if len(frag.Entry) > 0 {
		payload["entry"] = string(frag.Entry)
	}
	return payload
}

func fragmentFromPayload(id string, payload map[string]any) types.Fragment {
	frag := types.Fragment{ID: id}
	if v, ok := payload["section"].(string); ok {
		frag.Section = types.Section(v)
	}
	if v, ok := payload["parent_key"].(string); ok {
		frag.ParentKey = v
	}
	if v, ok := payload["ordinal"].(float64); ok {
		frag.Ordinal = int(v)
	}
	if v, ok := payload["position"].(float64); ok {
		frag.Position = int(v)
	}
	if v, ok := payload["text"].(string); ok {
		frag.Text = v
	}
	if v, ok := payload["entry"].(string); ok && v != "" {
		frag.Entry = json.RawMessage(v)
	}
	return frag
}
