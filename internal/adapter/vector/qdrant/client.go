// Package qdrant implements the embedding-history port over Qdrant's HTTP
// API, for deployments that store per-comparison vectors there.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// minReferenceSimilarity bounds which stored comparisons qualify as
// reference embeddings: only prior high-confidence matches count.
const minReferenceSimilarity = 0.7

// Client is a minimal Qdrant HTTP client implementing
// domain.EmbeddingHistoryRepository.
type Client struct {
	baseURL    string
	apiKey     string
	collection string
	httpClient *http.Client
}

// New constructs a Client for one collection with an optional apiKey.
func New(baseURL, apiKey, collection string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		collection: collection,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchEmbeddings scrolls the user's stored comparison points whose match
// similarity exceeds the reference threshold and returns up to k vectors.
func (c *Client) FetchEmbeddings(ctx context.Context, userID string, k int) ([][]float32, error) {
	body := map[string]any{
		"limit":        k,
		"with_vector":  true,
		"with_payload": false,
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": "user_id", "match": map[string]any{"value": userID}},
				{"key": "similarity", "range": map[string]any{"gt": minReferenceSimilarity}},
			},
		},
	}
	b, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/collections/%s/points/scroll", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qdrant scroll status %d", resp.StatusCode)
	}

	var out struct {
		Result struct {
			Points []struct {
				Vector []float32 `json:"vector"`
			} `json:"points"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}

	vectors := make([][]float32, 0, len(out.Result.Points))
	for _, pt := range out.Result.Points {
		if len(pt.Vector) > 0 {
			vectors = append(vectors, pt.Vector)
		}
	}
	return vectors, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
}
