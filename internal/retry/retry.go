package retry

import (
	"context"
	"fmt"
	"io"
	"time"
)

const (
	// DefaultMaxRetries is the default number of attempts after the first.
	DefaultMaxRetries = 2
	// DefaultDelay is the fixed pause between attempts.
	DefaultDelay = 400 * time.Millisecond
)

// Config holds retry configuration.
type Config struct {
	MaxRetries int                                        // Attempts after the first; negative means DefaultMaxRetries
	Delay      time.Duration                              // Fixed pause between attempts; zero means none
	Logger     io.Writer                                  // Where to write retry logs (nil for no logging)
	OnRetry    func(next, max int, delay time.Duration) // Called before each pause, after a failed attempt
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		MaxRetries: DefaultMaxRetries,
		Delay:      DefaultDelay,
	}
}

// Attempts returns the total number of attempts the config allows.
func (c Config) Attempts() int {
	if c.MaxRetries < 0 {
		return DefaultMaxRetries + 1
	}
	return c.MaxRetries + 1
}

// Result represents the outcome of one attempt.
type Result struct {
	Success bool
	Output  string
	Error   error
}

// Operation runs one attempt. attempt starts at 1.
type Operation func(attempt int) Result

// Execute runs op until it succeeds or the attempts are used up, pausing
// for the fixed delay between attempts. Attempts never overlap. The
// returned count is the number of attempts made. If ctx is canceled
// during a pause the last result is returned with ctx.Err() as its error.
func Execute(ctx context.Context, cfg Config, op Operation) (Result, int) {
	if cfg.Delay < 0 {
		cfg.Delay = DefaultDelay
	}
	max := cfg.Attempts()

	var lastResult Result

	for attempt := 1; attempt <= max; attempt++ {
		lastResult = op(attempt)

		// Success - return immediately
		if lastResult.Success {
			return lastResult, attempt
		}

		// Check if we've exhausted attempts
		if attempt >= max {
			if cfg.Logger != nil {
				fmt.Fprintf(cfg.Logger, "All %d attempts exhausted\n", max)
			}
			return lastResult, attempt
		}

		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt+1, max, cfg.Delay)
		} else if cfg.Logger != nil {
			fmt.Fprintf(cfg.Logger, "Retrying in %s... (attempt %d/%d)\n", cfg.Delay, attempt+1, max)
		}

		if err := Wait(ctx, cfg.Delay); err != nil {
			return Result{
				Success: false,
				Output:  lastResult.Output,
				Error:   err,
			}, attempt
		}
	}

	return lastResult, max
}

// Wait pauses for d or until ctx is done, whichever comes first.
func Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
