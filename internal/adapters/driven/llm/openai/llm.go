// Package openai provides an analysis service adapter for OpenAI-compatible
// chat-completion APIs, including local inference servers such as LM Studio
// and Ollama's OpenAI endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/memolab/vaultscribe/internal/core/domain"
	"github.com/memolab/vaultscribe/internal/core/ports/driven"
)

// Ensure AnalysisService implements the interface.
var _ driven.AnalysisService = (*AnalysisService)(nil)

// Default configuration values.
const (
	DefaultBaseURL           = "http://localhost:1234/v1"
	DefaultModel             = "local-model"
	DefaultTimeout           = 90 * time.Second
	DefaultTemperature       = 0.4
	DefaultMaxTokens         = 1024
	DefaultRequestsPerSecond = 1.0
	DefaultBurstSize         = 2
)

// Config holds configuration for the analysis service.
type Config struct {
	// BaseURL is the API base URL (default: http://localhost:1234/v1, the
	// LM Studio default). Works with any OpenAI-compatible endpoint.
	BaseURL string

	// APIKey is optional; local servers usually ignore it.
	APIKey string

	// Model is the model identifier to request.
	Model string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Temperature controls randomness.
	Temperature float64

	// MaxTokens caps the generated analysis length.
	MaxTokens int

	// MaxInputChars truncates user content before sending. Zero disables
	// truncation.
	MaxInputChars int

	// RequestsPerSecond is the sustained request rate limit.
	RequestsPerSecond float64

	// BurstSize is the maximum request burst.
	BurstSize int
}

// AnalysisService calls an OpenAI-compatible /chat/completions endpoint.
// Requests pass through a token-bucket rate limiter so that a burst of
// debounce triggers cannot flood a local inference server.
type AnalysisService struct {
	client  *http.Client
	limiter *rate.Limiter

	baseURL       string
	apiKey        string
	model         string
	temperature   float64
	maxTokens     int
	maxInputChars int
}

// chatCompletionRequest is the /chat/completions request format.
type chatCompletionRequest struct {
	Model       string              `json:"model"`
	Messages    []chatCompletionMsg `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature,omitempty"`
	Stream      bool                `json:"stream"`
}

// chatCompletionMsg is the chat message format.
type chatCompletionMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatCompletionResponse is the /chat/completions response format.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// New creates an analysis service.
func New(cfg Config) (*AnalysisService, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.BurstSize == 0 {
		cfg.BurstSize = DefaultBurstSize
	}

	return &AnalysisService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:       rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		model:         cfg.Model,
		temperature:   cfg.Temperature,
		maxTokens:     cfg.MaxTokens,
		maxInputChars: cfg.MaxInputChars,
	}, nil
}

// Analyse sends content with a system prompt and returns the generated
// analysis. Content is truncated to the first MaxInputChars characters;
// truncation, never summarisation, and always from the start of the text.
func (s *AnalysisService) Analyse(ctx context.Context, systemPrompt, content string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	messages := []chatCompletionMsg{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: Truncate(content, s.maxInputChars)},
	}

	reqBody := chatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
		Stream:      false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/chat/completions",
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", classifyTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", domain.ErrAnalysisNetwork, err)
	}

	var chatResp chatCompletionResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("analysis endpoint error: %s", chatResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("analysis endpoint status %d: %s", resp.StatusCode, string(body))
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", domain.ErrMalformedResponse)
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// classifyTransportError maps HTTP client failures onto the analysis error
// taxonomy so the retry policy can treat them uniformly.
func classifyTransportError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", domain.ErrAnalysisTimeout, err)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return fmt.Errorf("%w: %v", domain.ErrAnalysisTimeout, err)
	}
	return fmt.Errorf("%w: %v", domain.ErrAnalysisNetwork, err)
}

// Truncate returns the first limit characters of s. A zero or negative
// limit disables truncation. Counting is by rune so a multibyte character
// is never split.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// ModelName returns the model identifier being used.
func (s *AnalysisService) ModelName() string {
	return s.model
}

// Ping validates the endpoint is reachable by listing models. Lightweight:
// no inference is run.
func (s *AnalysisService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("create ping request: %w", err)
	}
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("analysis endpoint status %d (failed to read body: %w)", resp.StatusCode, readErr)
		}
		return fmt.Errorf("analysis endpoint status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *AnalysisService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
