package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/jywlabs/listing/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Show the effective listing configuration.

Settings come from .listing/config.yaml if present, then .env and the
environment (LISTING_ENGINE, LISTING_MAX_RETRIES, LISTING_JOURNAL,
OLLAMA_HOST, GEMINI_API_KEY). API keys are never printed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConfigFn(".", cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}

type engineView struct {
	Model       string   `yaml:"model,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
	Endpoint    string   `yaml:"endpoint,omitempty"`
	Timeout     string   `yaml:"timeout,omitempty"`
	APIKey      string   `yaml:"apiKey,omitempty"`
}

type configView struct {
	Engine     string                `yaml:"engine"`
	MaxRetries int                   `yaml:"maxRetries"`
	RetryDelay string                `yaml:"retryDelay"`
	Language   string                `yaml:"language"`
	Tone       string                `yaml:"tone"`
	Journal    string                `yaml:"journal"`
	Engines    map[string]engineView `yaml:"engines,omitempty"`
}

func runConfigFn(dir string, out io.Writer) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}

	path := config.Path(dir)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintln(out, "No .listing/config.yaml found (using defaults)")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Run 'listing init' to create a configuration file.")
	} else {
		fmt.Fprintf(out, "Effective configuration (%s + environment):\n", path)
	}
	fmt.Fprintln(out)

	view := configView{
		Engine:     cfg.Engine,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay.String(),
		Language:   cfg.Language,
		Tone:       cfg.Tone,
		Journal:    cfg.Journal,
		Engines:    map[string]engineView{},
	}

	names := make([]string, 0, len(cfg.Engines)+1)
	for name := range cfg.Engines {
		names = append(names, name)
	}
	if _, ok := cfg.Engines["gemini"]; !ok && cfg.GeminiKey != "" {
		names = append(names, "gemini")
	}
	sort.Strings(names)

	for _, name := range names {
		ec := cfg.EngineConfig(name)
		v := engineView{Model: ec.Model, Temperature: ec.Temperature, Endpoint: ec.Endpoint}
		if ec.Timeout > 0 {
			v.Timeout = ec.Timeout.String()
		}
		if ec.APIKey != "" {
			v.APIKey = "(set)"
		}
		view.Engines[name] = v
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	return enc.Close()
}
