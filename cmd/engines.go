package cmd

import (
	"fmt"
	"io"

	"github.com/jywlabs/listing/internal/config"
	"github.com/jywlabs/listing/internal/engine"
	"github.com/spf13/cobra"

	// Register available engines.
	_ "github.com/jywlabs/listing/internal/engine/claude"
	_ "github.com/jywlabs/listing/internal/engine/gemini"
	_ "github.com/jywlabs/listing/internal/engine/ollama"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List available engines",
	Long: `List the engines listing can generate with. The configured default
is marked with *.

Engines:
  ollama   Local model over the Ollama HTTP API (default llama3.1:8b)
  gemini   Google Gemini API (needs GEMINI_API_KEY)
  claude   Claude CLI in print mode`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(".")
		if err != nil {
			return err
		}
		return runEnginesFn(cfg, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(enginesCmd)
}

// newEngine creates an engine by name with its settings from cfg.
func newEngine(cfg *config.Config, name string) (engine.Engine, error) {
	return engine.NewWithConfig(name, cfg.EngineConfig(name))
}

func runEnginesFn(cfg *config.Config, out io.Writer) error {
	for _, name := range engine.Available() {
		mark := " "
		if name == cfg.Engine {
			mark = "*"
		}
		ec := cfg.EngineConfig(name)
		if ec.Model != "" {
			fmt.Fprintf(out, "%s %-8s %s\n", mark, name, ec.Model)
		} else {
			fmt.Fprintf(out, "%s %s\n", mark, name)
		}
	}
	return nil
}
