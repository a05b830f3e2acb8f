package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "listing",
	Short: "listing - Validated real-estate listings from property records",
	Long: `listing turns a property record (JSON) into a fixed-format HTML listing
by prompting a language model, checking the output against structural and
length rules, and retrying with corrective instructions when it fails.

Workflow:
  listing init                         Create .listing/ with config and a sample property
  listing generate .listing/property.json > listing.html
  listing validate listing.html        Check an existing listing offline

Commands:
  init        Initialize .listing/ directory
  generate    Generate a listing from a property record
  validate    Validate a listing file
  prompt      Print the prompt that would be sent
  engines     List available engines
  history     Show recent attempts from the journal
  config      Show current configuration
  version     Show version info`,
	SilenceUsage: true,
}

// exitError carries a specific process exit code.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string {
	return e.msg
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		os.Exit(1)
	}
}
