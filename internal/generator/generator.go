// Package generator drives the generate-validate-retry loop: it prompts an
// engine, checks each response with the validator, and escalates the
// prompt with corrective instructions until a response passes or the
// attempts run out.
package generator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jywlabs/listing/internal/engine"
	"github.com/jywlabs/listing/internal/journal"
	"github.com/jywlabs/listing/internal/listing"
	"github.com/jywlabs/listing/internal/prompt"
	"github.com/jywlabs/listing/internal/retry"
	"github.com/jywlabs/listing/internal/validate"
)

// ReasonNoOutput is the reason recorded when the model returned nothing.
const ReasonNoOutput = "No output"

// DefaultMaxRetries is used when Generate is called with a negative count.
const DefaultMaxRetries = retry.DefaultMaxRetries

// Attempt is the record of one model call and its verdict.
type Attempt struct {
	Number  int
	Verdict validate.Verdict
	Elapsed time.Duration
	Output  string
}

// Outcome is the result of a generation run. Degraded is set when HTML is
// the last unverified output rather than a passing one; Verdict then holds
// the final attempt's failure.
type Outcome struct {
	RunID    string
	HTML     string
	Verdict  validate.Verdict
	Degraded bool
	Attempts []Attempt
}

// Generator runs generation requests against a single engine. It is not
// modified by Generate and may be reused across runs.
type Generator struct {
	engine   engine.Engine
	builder  prompt.Builder
	rules    validate.Rules
	delay    time.Duration
	logger   *zap.Logger
	display  *engine.Display
	recorder journal.Recorder
}

// Option configures a Generator.
type Option func(*Generator)

// WithBuilder sets the prompt builder. Default: prompt.Default().
func WithBuilder(b prompt.Builder) Option {
	return func(g *Generator) { g.builder = b }
}

// WithLogger sets the structured logger. Default: no-op.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithDisplay sets the human-facing progress display.
func WithDisplay(d *engine.Display) Option {
	return func(g *Generator) { g.display = d }
}

// WithRecorder sets where per-attempt journal entries go.
func WithRecorder(r journal.Recorder) Option {
	return func(g *Generator) { g.recorder = r }
}

// WithDelay sets the fixed pause between attempts. Default: 400ms.
func WithDelay(d time.Duration) Option {
	return func(g *Generator) { g.delay = d }
}

// WithRules sets the validation bounds. The corrective instruction
// restates the same bounds.
func WithRules(r validate.Rules) Option {
	return func(g *Generator) { g.rules = r }
}

// New creates a Generator for eng.
func New(eng engine.Engine, opts ...Option) *Generator {
	g := &Generator{
		engine: eng,
		rules:  validate.DefaultRules(),
		delay:  retry.DefaultDelay,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.builder == nil {
		g.builder = prompt.Default()
	}
	if g.logger == nil {
		g.logger = zap.NewNop()
	}
	if g.delay < 0 {
		g.delay = retry.DefaultDelay
	}
	return g
}

// Generate makes up to maxRetries+1 attempts. It returns as soon as an
// attempt passes validation. If none passes but some attempt produced
// text, the latest such text is returned with Degraded set. If no attempt
// produced text, the error is an *ExhaustionError.
func (g *Generator) Generate(ctx context.Context, req listing.Request, maxRetries int) (*Outcome, error) {
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	req = listing.NewRequest(req.Data, req.Language, req.Tone)

	base, err := g.builder.Build(req.Data, req.Language, req.Tone)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	runID := journal.NewRunID()
	log := g.logger.With(
		zap.String("run_id", runID),
		zap.String("engine", g.engine.Name()),
	)
	maxAttempts := maxRetries + 1

	var (
		current        = base
		corrective     = prompt.Corrective(g.rules)
		lastOutput     string
		lastVerdict    validate.Verdict
		lastInvocation error
		attempts       []Attempt
	)

	log.Info("generation started",
		zap.Int("max_attempts", maxAttempts),
		zap.String("language", req.Language),
		zap.String("tone", req.Tone),
		zap.Int("prompt_len", len(base)),
	)
	g.display.ShowRunHeader(g.engine.Name(), maxAttempts)

	op := func(n int) retry.Result {
		g.display.ShowAttemptHeader(n, maxAttempts)
		g.display.StartSpinner("Generating listing...")

		start := time.Now()
		out, err := g.engine.Prompt(ctx, current)
		elapsed := time.Since(start)

		var v validate.Verdict
		switch {
		case err != nil:
			inv := &InvocationError{Attempt: n, Err: err}
			lastInvocation = inv
			out = ""
			v = validate.Verdict{Reason: invocationReason(err), Err: inv}
		case strings.TrimSpace(out) == "":
			out = ""
			v = validate.Verdict{Reason: ReasonNoOutput}
		default:
			lastOutput = out
			v = g.rules.Validate(out)
		}
		lastVerdict = v

		g.display.ShowAttemptResult(n, v.Passed, v.Reason, elapsed)
		log.Info("attempt finished",
			zap.Int("attempt", n),
			zap.Bool("passed", v.Passed),
			zap.String("reason", v.Reason),
			zap.Duration("elapsed", elapsed),
			zap.Int("output_len", len(out)),
		)
		g.record(ctx, log, journal.Entry{
			RunID:     runID,
			Engine:    g.engine.Name(),
			Attempt:   n,
			Passed:    v.Passed,
			Reason:    v.Reason,
			Elapsed:   elapsed,
			OutputLen: len(out),
		})

		attempts = append(attempts, Attempt{Number: n, Verdict: v, Elapsed: elapsed, Output: out})
		return retry.Result{Success: v.Passed, Output: out, Error: v.Err}
	}

	result, _ := retry.Execute(ctx, retry.Config{
		MaxRetries: maxRetries,
		Delay:      g.delay,
		OnRetry: func(next, max int, delay time.Duration) {
			current += corrective
			g.display.ShowRetry(next, max, delay)
			log.Debug("retrying with corrective instructions",
				zap.Int("next_attempt", next),
				zap.Duration("delay", delay),
				zap.Int("prompt_len", len(current)),
			)
		},
	}, op)

	outcome := &Outcome{RunID: runID, Verdict: lastVerdict, Attempts: attempts}

	if result.Success {
		outcome.HTML = result.Output
		g.display.ShowSuccess("Listing passed validation")
		log.Info("generation succeeded", zap.Int("attempts", len(attempts)))
		return outcome, nil
	}

	if err := ctx.Err(); err != nil {
		g.display.ShowError("Generation canceled")
		log.Warn("generation canceled", zap.Int("attempts", len(attempts)), zap.Error(err))
		return nil, fmt.Errorf("generation canceled after %d attempts: %w", len(attempts), err)
	}

	if lastOutput != "" {
		outcome.HTML = lastOutput
		outcome.Degraded = true
		g.display.ShowDegraded(lastVerdict.Reason)
		log.Warn("returning last output after validation failures",
			zap.Int("attempts", len(attempts)),
			zap.String("last_reason", lastVerdict.Reason),
		)
		return outcome, nil
	}

	g.display.ShowError(lastVerdict.Reason)
	log.Error("generation exhausted without output",
		zap.Int("attempts", len(attempts)),
		zap.String("last_reason", lastVerdict.Reason),
	)
	return nil, &ExhaustionError{
		Attempts:       len(attempts),
		LastReason:     lastVerdict.Reason,
		LastInvocation: lastInvocation,
	}
}

func (g *Generator) record(ctx context.Context, log *zap.Logger, e journal.Entry) {
	if g.recorder == nil {
		return
	}
	if err := g.recorder.Record(ctx, e); err != nil {
		log.Warn("failed to record attempt", zap.Int("attempt", e.Attempt), zap.Error(err))
	}
}

// GenerateListing runs a default Generator for eng and returns only the
// HTML.
func GenerateListing(ctx context.Context, eng engine.Engine, req listing.Request, maxRetries int) (string, error) {
	out, err := New(eng).Generate(ctx, req, maxRetries)
	if err != nil {
		return "", err
	}
	return out.HTML, nil
}
