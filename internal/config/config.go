// Package config loads .listing/config.yaml and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/jywlabs/listing/internal/engine"
	"github.com/jywlabs/listing/internal/listing"
	"github.com/jywlabs/listing/internal/retry"
	"github.com/jywlabs/listing/internal/template"
)

// DefaultEngine is used when neither the file nor the environment names one.
const DefaultEngine = "ollama"

// Environment variables that override file settings.
const (
	EnvEngine     = "LISTING_ENGINE"
	EnvMaxRetries = "LISTING_MAX_RETRIES"
	EnvJournal    = "LISTING_JOURNAL"
	EnvOllamaHost = "OLLAMA_HOST"
	EnvGeminiKey  = "GEMINI_API_KEY"
	EnvGoogleKey  = "GOOGLE_API_KEY"
)

// Config is the effective configuration for a run.
type Config struct {
	Engine     string
	MaxRetries int
	RetryDelay time.Duration
	Language   string
	Tone       string
	Journal    string                   // journal DSN; empty disables the journal
	Engines    map[string]engine.Config // per-engine model settings
	GeminiKey  string                   // from the environment only
}

// rawConfig is used for YAML unmarshaling to distinguish missing keys from explicit values.
type rawConfig struct {
	Engine     *string                     `yaml:"engine"`
	MaxRetries *int                        `yaml:"maxRetries"`
	RetryDelay *string                     `yaml:"retryDelay"`
	Language   *string                     `yaml:"language"`
	Tone       *string                     `yaml:"tone"`
	Journal    *string                     `yaml:"journal"`
	Engines    map[string]*RawEngineConfig `yaml:"engines"`
}

// RawEngineConfig holds per-engine settings from YAML.
// Pointer fields distinguish "not set" (nil) from "set to empty string".
type RawEngineConfig struct {
	Model       *string  `yaml:"model"`
	Temperature *float64 `yaml:"temperature"`
	Endpoint    *string  `yaml:"endpoint"`
	Timeout     *string  `yaml:"timeout"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Engine:     DefaultEngine,
		MaxRetries: retry.DefaultMaxRetries,
		RetryDelay: retry.DefaultDelay,
		Language:   listing.DefaultLanguage,
		Tone:       listing.DefaultTone,
		Engines:    map[string]engine.Config{},
	}
}

// Path returns the config file location under dir.
func Path(dir string) string {
	return filepath.Join(dir, template.ListingDir, template.ConfigFile)
}

// LoadFile reads .listing/config.yaml in dir and merges it over the
// defaults. A missing file yields the defaults.
func LoadFile(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", Path(dir), err)
	}

	// Merge with defaults: only apply default when key was not set in YAML
	if raw.Engine != nil {
		cfg.Engine = *raw.Engine
	}
	if raw.MaxRetries != nil {
		cfg.MaxRetries = *raw.MaxRetries
	}
	if raw.RetryDelay != nil {
		d, err := time.ParseDuration(*raw.RetryDelay)
		if err != nil {
			return nil, fmt.Errorf("invalid retryDelay %q: %w", *raw.RetryDelay, err)
		}
		cfg.RetryDelay = d
	}
	if raw.Language != nil {
		cfg.Language = *raw.Language
	}
	if raw.Tone != nil {
		cfg.Tone = *raw.Tone
	}
	if raw.Journal != nil {
		cfg.Journal = *raw.Journal
	}

	for name, re := range raw.Engines {
		if re == nil {
			continue
		}
		ec := engine.Config{Temperature: re.Temperature}
		if re.Model != nil {
			ec.Model = *re.Model
		}
		if re.Endpoint != nil {
			ec.Endpoint = *re.Endpoint
		}
		if re.Timeout != nil {
			d, err := time.ParseDuration(*re.Timeout)
			if err != nil {
				return nil, fmt.Errorf("invalid engines.%s.timeout %q: %w", name, *re.Timeout, err)
			}
			ec.Timeout = d
		}
		cfg.Engines[name] = ec
	}

	return &cfg, nil
}

// LoadEnv loads dir/.env into the process environment. Variables already
// set are not overridden and a missing file is not an error.
func LoadEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load reads .env, the config file and environment overrides for dir, and
// validates the result.
func Load(dir string) (*Config, error) {
	if err := LoadEnv(dir); err != nil {
		return nil, err
	}
	cfg, err := LoadFile(dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvEngine); v != "" {
		c.Engine = v
	}
	if v := getenv(EnvMaxRetries); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvMaxRetries, v, err)
		}
		c.MaxRetries = n
	}
	if v := getenv(EnvJournal); v != "" {
		c.Journal = v
	}
	if v := getenv(EnvOllamaHost); v != "" {
		if !strings.Contains(v, "://") {
			v = "http://" + v
		}
		ec := c.Engines["ollama"]
		ec.Endpoint = v
		c.setEngine("ollama", ec)
	}
	if v := getenv(EnvGeminiKey); v != "" {
		c.GeminiKey = v
	} else if v := getenv(EnvGoogleKey); v != "" {
		c.GeminiKey = v
	}
	return nil
}

func (c *Config) setEngine(name string, ec engine.Config) {
	if c.Engines == nil {
		c.Engines = map[string]engine.Config{}
	}
	c.Engines[name] = ec
}

// Validate checks that the fields are usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Engine) == "" {
		return fmt.Errorf("engine must not be empty")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("maxRetries must not be negative (got %d)", c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retryDelay must not be negative (got %s)", c.RetryDelay)
	}
	return nil
}

// EngineConfig returns the model settings for the named engine. Engines
// with nothing configured get an empty Config and use their own defaults.
func (c *Config) EngineConfig(name string) *engine.Config {
	ec := c.Engines[name]
	if name == "gemini" && ec.APIKey == "" {
		ec.APIKey = c.GeminiKey
	}
	return &ec
}
