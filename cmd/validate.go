package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/jywlabs/listing/internal/output"
	"github.com/jywlabs/listing/internal/sections"
	"github.com/jywlabs/listing/internal/validate"
	"github.com/spf13/cobra"
)

var validateQuietFlag bool

var validateCmd = &cobra.Command{
	Use:   "validate <file.html>",
	Short: "Validate a listing file",
	Long: `Validate an existing listing against the same rules used during
generation. No engine is called.

Checks, in order (the first failure is reported):
  - All seven blocks present: title, meta, h1, description,
    key-features, neighborhood, cta
  - Title at most 60 characters
  - Meta description has a content attribute of at most 155 characters
  - Description paragraph between 500 and 700 characters
  - Key features list has 3 to 5 items

Exits with status 1 when validation fails.

Examples:
  listing validate listing.html
  cat listing.html | listing validate -`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidateFn(args[0], validateQuietFlag, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	validateCmd.Flags().BoolVarP(&validateQuietFlag, "quiet", "q", false, "Only print the verdict")
	rootCmd.AddCommand(validateCmd)
}

func runValidateFn(path string, quiet bool, stdin io.Reader, out io.Writer) error {
	var (
		content []byte
		err     error
	)
	if path == "-" {
		content, err = io.ReadAll(stdin)
	} else {
		content, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read listing: %w", err)
	}

	text := string(content)
	verdict := validate.Validate(text)

	printer := output.New(out)
	if !quiet {
		printer.Sections(sections.Extract(text))
		fmt.Fprintln(out)
	}
	printer.Verdict(verdict)

	if !verdict.Passed {
		return &exitError{code: 1, msg: "validation failed"}
	}
	return nil
}
