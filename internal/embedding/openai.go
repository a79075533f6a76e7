package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultMaxBatchSize bounds how many texts go into a single upstream call,
// to stay under the service's payload and token limits.
const DefaultMaxBatchSize = 99

// OpenAIEmbedder implements Embedder against an OpenAI-compatible /embeddings API.
type OpenAIEmbedder struct {
	apiKey       string
	model        string
	baseURL      string
	maxBatchSize int
	client       *http.Client
}

// NewOpenAIEmbedder creates an embedder for the given model. baseURL defaults
// to the OpenAI API; maxBatchSize defaults to DefaultMaxBatchSize when <= 0.
func NewOpenAIEmbedder(apiKey, model, baseURL string, maxBatchSize int) (*OpenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("embedding API key is required")
	}
	if model == "" {
		model = "text-embedding-3-small"
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchSize
	}
	return &OpenAIEmbedder{
		apiKey:       apiKey,
		model:        model,
		baseURL:      baseURL,
		maxBatchSize: maxBatchSize,
		client:       &http.Client{Timeout: 30 * time.Second},
	}, nil
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Embed generates an embedding for a single text. It goes through the same
// model and endpoint as EmbedBatch, so build-time and query-time vectors live
// in the same space.
func (o *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := o.call(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for texts, issuing one upstream call per
// maxBatchSize chunk. The result is 1:1 and order-preserving with texts. Any
// upstream failure aborts the whole pass; callers must treat embedding as
// all-or-nothing per build.
func (o *OpenAIEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += o.maxBatchSize {
		end := start + o.maxBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		vecs, err := o.call(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed batch [%d:%d]: %w", start, end, err)
		}
		embeddings = append(embeddings, vecs...)
	}
	return embeddings, nil
}

// call issues one /embeddings request and returns vectors in input order.
func (o *OpenAIEmbedder) call(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embeddingRequest{Model: o.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return nil, fmt.Errorf("embedding API error (status %d): %s", resp.StatusCode, apiErr.Error.Message)
	}

	var result embeddingResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w", err)
	}
	if len(result.Data) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: sent %d texts, got %d embeddings", len(texts), len(result.Data))
	}

	// The API is free to reorder; reassemble by index.
	vecs := make([][]float32, len(texts))
	for _, item := range result.Data {
		if item.Index < 0 || item.Index >= len(vecs) {
			return nil, fmt.Errorf("embedding index %d out of range", item.Index)
		}
		vecs[item.Index] = item.Embedding
	}
	for i, v := range vecs {
		if len(v) == 0 {
			return nil, fmt.Errorf("empty embedding returned for text %d", i)
		}
	}
	return vecs, nil
}

// Model returns the configured model identifier.
func (o *OpenAIEmbedder) Model() string {
	return o.model
}

// Close is a no-op for OpenAIEmbedder.
func (o *OpenAIEmbedder) Close() error {
	return nil
}
