package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/jywlabs/listing/internal/config"
	"github.com/jywlabs/listing/internal/engine"
	"github.com/jywlabs/listing/internal/generator"
	"github.com/jywlabs/listing/internal/journal"
	"github.com/jywlabs/listing/internal/listing"
	"github.com/jywlabs/listing/internal/logging"
	"github.com/jywlabs/listing/internal/output"
	"github.com/jywlabs/listing/internal/template"
	"github.com/spf13/cobra"
)

// Generate command flags
var (
	// Engine selection
	generateEngineFlag string

	// Copy options
	generateToneFlag     string
	generateLanguageFlag string

	// Execution control
	generateRetries    int
	generateRetryDelay time.Duration
	generateStrict     bool

	// Output
	generateOutFlag  string
	generateVerbose  bool
	generateJSONLogs bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [property.json]",
	Short: "Generate a listing from a property record",
	Long: `Generate a validated HTML listing from a property record.

The record is read from the given file, from stdin when the path is "-",
or from .listing/property.json when no path is given. It must contain a
location object with a city.

Each attempt is validated. Failed attempts are retried with corrective
instructions appended to the prompt. If no attempt passes, the last
output is still written with a warning; use --strict to exit with
status 2 instead.

Examples:
  listing generate property.json              # Print HTML to stdout
  listing generate property.json -o out.html  # Write to a file
  listing generate - < property.json          # Read from stdin
  listing generate -e gemini -t luxury -l pt  # Engine, tone and language
  listing generate --retries 4 --strict       # More attempts, fail if unverified
`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateEngineFlag, "engine", "e", "", "Engine to use (ollama, gemini, claude); default from config")
	generateCmd.Flags().StringVarP(&generateToneFlag, "tone", "t", "", "Tone: friendly, formal, luxury, investor")
	generateCmd.Flags().StringVarP(&generateLanguageFlag, "language", "l", "", "Language code: en, fr, pt, sp, it")
	generateCmd.Flags().IntVar(&generateRetries, "retries", 0, "Extra attempts after the first when validation fails")
	generateCmd.Flags().DurationVar(&generateRetryDelay, "retry-delay", 0, "Fixed pause between attempts")
	generateCmd.Flags().BoolVar(&generateStrict, "strict", false, "Exit with status 2 if no attempt passes validation")
	generateCmd.Flags().StringVarP(&generateOutFlag, "out", "o", "", "Write HTML to this file instead of stdout")
	generateCmd.Flags().BoolVar(&generateVerbose, "verbose", false, "Debug-level structured logs")
	generateCmd.Flags().BoolVar(&generateJSONLogs, "json-logs", false, "Structured logs as JSON")

	rootCmd.AddCommand(generateCmd)
}

// generateOptions are the command-line overrides for one run. Pointer
// fields are nil when the flag was not given.
type generateOptions struct {
	PropertyPath string
	Engine       string
	Tone         string
	Language     string
	Retries      *int
	RetryDelay   *time.Duration
	OutPath      string
	Strict       bool
	Verbose      bool
	JSONLogs     bool
	Stdin        io.Reader
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts := generateOptions{
		Engine:   generateEngineFlag,
		Tone:     generateToneFlag,
		Language: generateLanguageFlag,
		OutPath:  generateOutFlag,
		Strict:   generateStrict,
		Verbose:  generateVerbose,
		JSONLogs: generateJSONLogs,
		Stdin:    cmd.InOrStdin(),
	}
	if len(args) > 0 {
		opts.PropertyPath = args[0]
	}
	if cmd.Flags().Changed("retries") {
		opts.Retries = &generateRetries
	}
	if cmd.Flags().Changed("retry-delay") {
		opts.RetryDelay = &generateRetryDelay
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	return runGenerateFn(ctx, ".", opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

func runGenerateFn(ctx context.Context, dir string, opts generateOptions, stdout, stderr io.Writer) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if opts.Engine != "" {
		cfg.Engine = opts.Engine
	}
	if opts.Retries != nil {
		cfg.MaxRetries = *opts.Retries
	}
	if opts.RetryDelay != nil {
		cfg.RetryDelay = *opts.RetryDelay
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	path := opts.PropertyPath
	if path == "" {
		path = filepath.Join(listingDir(dir), template.PropertyFile)
	}
	data, err := listing.Load(path, opts.Stdin)
	if err != nil {
		return err
	}

	tone := opts.Tone
	if tone == "" {
		tone = cfg.Tone
	}
	// An empty language lets the record's own "language" field decide
	// before the configured default.
	req := listing.NewRequest(data, opts.Language, tone)
	if opts.Language == "" && listing.SafeGet(data, "language") == nil {
		req.Language = cfg.Language
	}

	builder, err := loadBuilder(dir)
	if err != nil {
		return err
	}

	eng, err := newEngine(cfg, cfg.Engine)
	if err != nil {
		return err
	}

	logger := logging.New(logging.Options{Verbose: opts.Verbose, JSON: opts.JSONLogs, Output: stderr})
	defer logger.Sync()

	genOpts := []generator.Option{
		generator.WithBuilder(builder),
		generator.WithLogger(logger),
		generator.WithDisplay(engine.NewDisplay(stderr)),
		generator.WithDelay(cfg.RetryDelay),
	}
	if cfg.Journal != "" {
		store, err := journal.Open(ctx, resolveDSN(dir, cfg.Journal))
		if err != nil {
			return err
		}
		defer store.Close()
		genOpts = append(genOpts, generator.WithRecorder(store))
	}

	outcome, err := generator.New(eng, genOpts...).Generate(ctx, req, cfg.MaxRetries)
	if err != nil {
		return err
	}

	if opts.OutPath != "" {
		if err := os.WriteFile(opts.OutPath, []byte(outcome.HTML), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.OutPath, err)
		}
	} else {
		fmt.Fprintln(stdout, outcome.HTML)
	}

	printer := output.New(stderr)
	printer.Attempts(len(outcome.Attempts), cfg.MaxRetries+1)
	if opts.OutPath != "" {
		printer.Written(opts.OutPath)
	}
	if outcome.Degraded {
		printer.Degraded(outcome.Verdict.Reason)
		if opts.Strict {
			return &exitError{code: 2, msg: "listing did not pass validation (--strict)"}
		}
	}
	return nil
}

// resolveDSN makes relative sqlite paths relative to dir.
func resolveDSN(dir, dsn string) string {
	const prefix = "sqlite://"
	path, ok := strings.CutPrefix(dsn, prefix)
	if !ok || path == "" || filepath.IsAbs(path) {
		return dsn
	}
	return prefix + filepath.Join(dir, path)
}
