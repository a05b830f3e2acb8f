package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jywlabs/listing/internal/engine"
)

const (
	// DefaultEndpoint is the local Ollama server.
	DefaultEndpoint = "http://localhost:11434"
	// DefaultModel is the model listings are tuned against.
	DefaultModel = "llama3.1:8b"
)

func init() {
	engine.RegisterEngine("ollama", func(cfg *engine.Config) (engine.Engine, error) {
		return New(cfg), nil
	})
}

// Engine generates text with a local Ollama server.
type Engine struct {
	endpoint    string
	model       string
	temperature float64
	client      *http.Client
}

// New creates a new Ollama engine.
func New(cfg *engine.Config) *Engine {
	endpoint := DefaultEndpoint
	if cfg != nil && cfg.Endpoint != "" {
		endpoint = strings.TrimRight(cfg.Endpoint, "/")
	}

	return &Engine{
		endpoint:    endpoint,
		model:       cfg.ModelOr(DefaultModel),
		temperature: cfg.TemperatureOr(engine.DefaultTemperature),
		client: &http.Client{
			Timeout: cfg.TimeoutOr(engine.DefaultTimeout),
		},
	}
}

// Name returns the engine identifier.
func (e *Engine) Name() string {
	return "ollama"
}

// Model returns the model the engine will request.
func (e *Engine) Model() string {
	return e.model
}

// Prompt sends prompt to /api/generate with streaming disabled and
// returns the full response text.
func (e *Engine) Prompt(ctx context.Context, prompt string) (string, error) {
	req := generateRequest{
		Model:  e.model,
		Prompt: prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: e.temperature,
		},
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if result.Error != "" {
		return "", fmt.Errorf("ollama error: %s", result.Error)
	}

	return result.Response, nil
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
	Error    string `json:"error,omitempty"`
}
