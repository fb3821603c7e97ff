// Package ai wraps the text-generation backend and the deterministic
// fallbacks served when it is unavailable.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"campushire/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	defaultOllamaBaseURL = "http://localhost:11434"
	defaultOllamaModel   = "llama2"
	defaultTimeout       = 30 * time.Second
)

// ErrEmptyResponse is returned when the backend answers without text.
var ErrEmptyResponse = errors.New("ollama response missing text")

// Generator produces a completion for a prompt. Callers treat any error as
// "unavailable" and fall back.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// OllamaClient calls the Ollama HTTP API.
type OllamaClient struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// NewOllamaClient constructs a client for baseURL and model. A zero timeout
// selects 30s.
func NewOllamaClient(baseURL, model string, timeout time.Duration) *OllamaClient {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	model = strings.TrimSpace(model)
	if model == "" {
		model = defaultOllamaModel
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &OllamaClient{
		baseURL:    baseURL,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Generate runs a non-streaming completion.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (text string, err error) {
	ctx, span := observability.StartClientSpan(ctx, "ollama", "generate")
	span.AddAttributes(attribute.String("ai.model", c.model))
	defer func() {
		span.SetError(err)
		span.End()
	}()

	var resp ollamaGenerateResponse
	if err := c.doJSON(ctx, "/api/generate", ollamaGenerateRequest{
		Model:  c.model,
		Prompt: prompt,
		Stream: false,
	}, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Response) == "" {
		return "", ErrEmptyResponse
	}
	return resp.Response, nil
}

func (c *OllamaClient) doJSON(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp ollamaErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&errResp)
		if errResp.Error != "" {
			return fmt.Errorf("ollama api error: %s", errResp.Error)
		}
		return fmt.Errorf("ollama api error: %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode ollama response: %w", err)
	}
	return nil
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaErrorResponse struct {
	Error string `json:"error"`
}
