package engine

import (
	"context"
	"time"
)

// Engine is the boundary to a generative model: a prompt goes in,
// generated text comes out, or the call fails.
type Engine interface {
	// Name returns the engine identifier (e.g., "ollama", "gemini")
	Name() string

	// Prompt sends a single prompt and blocks until the full response
	// text is available.
	Prompt(ctx context.Context, prompt string) (string, error)
}

// Config holds per-engine model settings. Zero values mean "use the
// engine's own default".
type Config struct {
	Model       string        // Model identifier
	Temperature *float64      // Sampling temperature; nil keeps the default
	Endpoint    string        // Base URL for HTTP engines
	APIKey      string        // Credential for hosted engines
	Timeout     time.Duration // Per-call timeout
}

// DefaultTemperature is used by engines that accept a sampling temperature.
const DefaultTemperature = 0.4

// DefaultTimeout for a single model call.
const DefaultTimeout = 5 * time.Minute

// TemperatureOr returns the configured temperature or def.
func (c *Config) TemperatureOr(def float64) float64 {
	if c == nil || c.Temperature == nil {
		return def
	}
	return *c.Temperature
}

// TimeoutOr returns the configured timeout or def.
func (c *Config) TimeoutOr(def time.Duration) time.Duration {
	if c == nil || c.Timeout <= 0 {
		return def
	}
	return c.Timeout
}

// ModelOr returns the configured model or def.
func (c *Config) ModelOr(def string) string {
	if c == nil || c.Model == "" {
		return def
	}
	return c.Model
}

// Func adapts a plain function to the Engine interface.
type Func struct {
	ID string
	Fn func(ctx context.Context, prompt string) (string, error)
}

// Name returns the function's identifier.
func (f Func) Name() string { return f.ID }

// Prompt calls the wrapped function.
func (f Func) Prompt(ctx context.Context, prompt string) (string, error) {
	return f.Fn(ctx, prompt)
}
