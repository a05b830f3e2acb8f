package claude

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/jywlabs/listing/internal/engine"
)

func init() {
	engine.RegisterEngine("claude", func(cfg *engine.Config) (engine.Engine, error) {
		return New(cfg), nil
	})
}

// Engine generates listings through the Claude Code CLI in print mode.
type Engine struct {
	model  string
	config *engine.Config
}

// New creates a new Claude engine.
func New(cfg *engine.Config) *Engine {
	return &Engine{
		model:  cfg.ModelOr(""),
		config: cfg,
	}
}

// Name returns the engine identifier.
func (e *Engine) Name() string {
	return "claude"
}

// CLICommand returns the CLI executable name.
func (e *Engine) CLICommand() string {
	return "claude"
}

// BuildArgs returns the CLI arguments for a plain-text prompt.
func (e *Engine) BuildArgs(prompt string) []string {
	args := []string{"-p", "--output-format", "text"}
	if e.model != "" {
		args = append(args, "--model", e.model)
	}
	return append(args, prompt)
}

// Prompt executes a single prompt and returns the text response.
func (e *Engine) Prompt(ctx context.Context, prompt string) (string, error) {
	timeout := e.config.TimeoutOr(engine.DefaultTimeout)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.CLICommand(), e.BuildArgs(prompt)...)

	// No stdin and a new session keep the CLI from drawing interactive
	// hints on the controlling terminal.
	cmd.Stdin = nil
	cmd.SysProcAttr = newSysProcAttr()
	setupProcessCleanup(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return "", fmt.Errorf("prompt timed out after %s: %w", timeout, ctxErr)
			}
			return "", fmt.Errorf("prompt canceled: %w", ctxErr)
		}
		// The CLI sometimes exits non-zero after printing a full answer.
		if stdout.Len() > 0 && strings.TrimSpace(stderr.String()) == "" {
			return stdout.String(), nil
		}
		return "", fmt.Errorf("prompt failed: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
