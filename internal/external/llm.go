package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"pulseboard/internal/types"
)

// Completer generates a natural-language completion for a prompt. The prompt
// analysis service depends on this interface so it can degrade to rule-based
// responses when no backend is configured or the backend is failing.
type Completer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// openAIAPIBase is the default chat-completions API base URL.
// Overridable in tests via LLMClientConfig.BaseURL.
const openAIAPIBase = "https://api.openai.com"

// LLMClientConfig holds the configuration for creating an LLMHTTPClient.
type LLMClientConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Override for testing; defaults to openAIAPIBase
	Logger  *slog.Logger
}

// chatRequest is the OpenAI-compatible chat completions request envelope.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the subset of the chat completions response we consume.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// LLMHTTPClient implements Completer against any OpenAI-compatible
// chat-completions endpoint through BaseClient, so all requests share the
// platform's resilience infrastructure (circuit breaker, retries, error
// mapping) and tests can point it at an httptest server.
type LLMHTTPClient struct {
	base    *BaseClient
	apiKey  string
	model   string
	baseURL string
	logger  *slog.Logger
}

// NewLLMClient creates a new LLMHTTPClient. The httpClient timeout should be
// set from config (LLM calls are slow relative to vendor data fetches).
func NewLLMClient(httpClient *http.Client, cfg LLMClientConfig) *LLMHTTPClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAIAPIBase
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base := NewBaseClient(
		httpClient,
		"llm",
		RetryPolicy{
			MaxRetries: 1,
			MinWait:    1 * time.Second,
			MaxWait:    5 * time.Second,
		},
		"Pulseboard/1.0",
	)

	return &LLMHTTPClient{
		base:    base,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// NewLLMClientWithBase creates an LLMHTTPClient with a pre-configured
// BaseClient. This is useful for testing when you want to control the
// BaseClient configuration (e.g., disable retries).
func NewLLMClientWithBase(base *BaseClient, cfg LLMClientConfig) *LLMHTTPClient {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = openAIAPIBase
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &LLMHTTPClient{
		base:    base,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}
}

// Complete sends a system+user message pair to the chat completions endpoint
// and returns the first choice's content.
func (c *LLMHTTPClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to serialize completion request",
			err,
		)
	}

	url := c.baseURL + "/v1/chat/completions"

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to create completion request",
			err,
		)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.base.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	// BaseClient returns 4xx responses (other than 429) as-is without error.
	if resp.StatusCode >= 400 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.ErrorContext(ctx, "LLM API error",
			"status_code", resp.StatusCode,
			"response_body", string(errBody),
		)
		return "", types.NewAppError(
			types.ErrCodeVendorReported,
			fmt.Sprintf("LLM backend returned %d", resp.StatusCode),
			fmt.Errorf("chat completion returned %d: %s", resp.StatusCode, string(errBody)),
		)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", types.NewAppError(
			types.ErrCodeShapeUnrecognized,
			"failed to decode completion response",
			err,
		)
	}

	if len(chatResp.Choices) == 0 {
		return "", types.NewAppError(
			types.ErrCodeVendorReported,
			"LLM backend returned no choices",
			nil,
		)
	}

	return chatResp.Choices[0].Message.Content, nil
}

// Compile-time interface compliance check.
var _ Completer = (*LLMHTTPClient)(nil)
