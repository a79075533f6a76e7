// Package advisor turns a query and its retrieved seed context into validated,
// structured travel advice via a chat-completions model.
package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/voyagehq/itinera/internal/models"
	"github.com/voyagehq/itinera/pkg/utils"
	"go.uber.org/zap"
)

// Generator calls an OpenAI-compatible chat-completions API and validates the
// response against the TravelAdvice contract.
type Generator struct {
	apiKey      string
	model       string
	baseURL     string
	temperature float64
	client      *http.Client
	validate    *validator.Validate
	logger      *zap.Logger
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithGeneratorLogger sets a logger for generation events.
func WithGeneratorLogger(l *zap.Logger) GeneratorOption {
	return func(g *Generator) { g.logger = l }
}

// NewGenerator creates a generator for the given chat model. baseURL defaults
// to the OpenAI API. Temperature is fixed at 0 unless overridden via config.
func NewGenerator(apiKey, model, baseURL string, temperature float64, opts ...GeneratorOption) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("chat API key is required")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	g := &Generator{
		apiKey:      apiKey,
		model:       model,
		baseURL:     baseURL,
		temperature: temperature,
		client:      &http.Client{Timeout: 60 * time.Second},
		validate:    validator.New(),
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate asks the model for advice grounded in results and validates the
// reply. A reply that is not valid JSON or fails schema validation is an
// error carrying the raw model output for diagnosis; it is never coerced.
func (g *Generator) Generate(ctx context.Context, query string, results models.RetrievalResult) (*models.TravelAdvice, error) {
	reqBody := chatRequest{
		Model: g.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage(query, results)},
		},
		Temperature:    g.temperature,
		ResponseFormat: responseFormat{Type: "json_object"},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	var result chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat API error (status %d): %s", resp.StatusCode, result.Error.Message)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("chat response has no choices")
	}

	raw := result.Choices[0].Message.Content
	g.logger.Debug("model response", zap.String("raw", utils.Truncate(raw, 512)))

	var advice models.TravelAdvice
	if err := json.Unmarshal([]byte(raw), &advice); err != nil {
		return nil, fmt.Errorf("model did not return valid JSON: %v; output: %s", err, raw)
	}
	if err := g.validate.Struct(&advice); err != nil {
		return nil, fmt.Errorf("model JSON failed schema validation: %v; output: %s", err, raw)
	}
	return &advice, nil
}

// Model returns the configured chat model identifier.
func (g *Generator) Model() string {
	return g.model
}
