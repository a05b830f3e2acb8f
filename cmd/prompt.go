package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jywlabs/listing/internal/config"
	"github.com/jywlabs/listing/internal/listing"
	"github.com/jywlabs/listing/internal/prompt"
	"github.com/jywlabs/listing/internal/template"
	"github.com/jywlabs/listing/internal/validate"
	"github.com/spf13/cobra"
)

var (
	promptToneFlag     string
	promptLanguageFlag string
	promptAttemptFlag  int
)

var promptCmd = &cobra.Command{
	Use:   "prompt [property.json]",
	Short: "Print the prompt that would be sent",
	Long: `Render the generation prompt for a property record without calling
any engine.

If .listing/prompt.md exists it is used instead of the built-in template.
--attempt N shows the prompt as sent on attempt N, with the corrective
instruction appended once per earlier failure.

Examples:
  listing prompt                        # Prompt for .listing/property.json
  listing prompt property.json -t formal
  listing prompt property.json --attempt 3`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) > 0 {
			path = args[0]
		}
		return runPromptFn(".", path, promptLanguageFlag, promptToneFlag, promptAttemptFlag, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	promptCmd.Flags().StringVarP(&promptToneFlag, "tone", "t", "", "Tone: friendly, formal, luxury, investor")
	promptCmd.Flags().StringVarP(&promptLanguageFlag, "language", "l", "", "Language code: en, fr, pt, sp, it")
	promptCmd.Flags().IntVar(&promptAttemptFlag, "attempt", 1, "Show the prompt as sent on this attempt")
	rootCmd.AddCommand(promptCmd)
}

// loadBuilder returns the prompt builder for dir, preferring a
// .listing/prompt.md override.
func loadBuilder(dir string) (prompt.Builder, error) {
	path := filepath.Join(listingDir(dir), template.PromptFile)
	content, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return prompt.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	b, err := prompt.New(string(content), validate.DefaultRules())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func runPromptFn(dir, propertyPath, language, tone string, attempt int, stdin io.Reader, out io.Writer) error {
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if propertyPath == "" {
		propertyPath = filepath.Join(listingDir(dir), template.PropertyFile)
	}
	data, err := listing.Load(propertyPath, stdin)
	if err != nil {
		return err
	}

	if tone == "" {
		tone = cfg.Tone
	}
	req := listing.NewRequest(data, language, tone)
	if language == "" && listing.SafeGet(data, "language") == nil {
		req.Language = cfg.Language
	}

	builder, err := loadBuilder(dir)
	if err != nil {
		return err
	}
	text, err := builder.Build(req.Data, req.Language, req.Tone)
	if err != nil {
		return err
	}
	if attempt > 1 {
		text += strings.Repeat(prompt.Corrective(validate.DefaultRules()), attempt-1)
	}

	fmt.Fprintln(out, text)
	return nil
}
