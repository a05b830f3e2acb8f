package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/jywlabs/listing/internal/engine"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.0-flash"

func init() {
	engine.RegisterEngine("gemini", func(cfg *engine.Config) (engine.Engine, error) {
		return New(context.Background(), cfg)
	})
}

// Engine generates text with Google's Gemini API.
type Engine struct {
	client      *genai.Client
	model       string
	temperature float32
}

// New creates a Gemini engine. An API key is required; Endpoint, when
// set, overrides the API base URL.
func New(ctx context.Context, cfg *engine.Config) (*Engine, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required (set GEMINI_API_KEY)")
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &Engine{
		client:      client,
		model:       cfg.ModelOr(DefaultModel),
		temperature: float32(cfg.TemperatureOr(engine.DefaultTemperature)),
	}, nil
}

// Name returns the engine identifier.
func (e *Engine) Name() string {
	return "gemini"
}

// Model returns the model the engine will request.
func (e *Engine) Model() string {
	return e.model
}

// Prompt sends prompt as a single user turn and returns the
// concatenated text of the first candidate.
func (e *Engine) Prompt(ctx context.Context, prompt string) (string, error) {
	result, err := e.client.Models.GenerateContent(ctx,
		e.model,
		genai.Text(prompt),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(e.temperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}
	if len(result.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}

	return result.Text(), nil
}
