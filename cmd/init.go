package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jywlabs/listing/internal/template"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .listing/ directory",
	Long: `Initialize the .listing/ directory in the current project.

Creates:
  .listing/
    config.yaml    # Engine, retry and journal settings
    property.json  # Sample property record (T3 apartment in Lisbon)

After init, edit property.json and run 'listing generate'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInitFn(".", cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func listingDir(dir string) string {
	return filepath.Join(dir, template.ListingDir)
}

func runInitFn(dir string, out io.Writer) error {
	configDir := listingDir(dir)

	// Check if already initialized
	if _, err := os.Stat(configDir); err == nil {
		return fmt.Errorf(".listing/ already exists")
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	// Create default files from templates
	for filename, content := range template.DefaultFiles() {
		filePath := filepath.Join(configDir, filename)
		if err := os.WriteFile(filePath, []byte(content), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", filename, err)
		}
	}

	fmt.Fprintln(out, "Initialized .listing/")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Created:")
	fmt.Fprintln(out, "  .listing/config.yaml     - Engine, retry and journal settings")
	fmt.Fprintln(out, "  .listing/property.json   - Sample property record")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Next steps:")
	fmt.Fprintln(out, "  1. Start Ollama and pull the model: ollama pull llama3.1:8b")
	fmt.Fprintln(out, "  2. Run: listing generate .listing/property.json -o listing.html")

	return nil
}
