package template

import (
	_ "embed"
)

//go:embed prompt.md
var DefaultPrompt string

//go:embed example.html
var ExampleListing string

//go:embed config.yaml
var DefaultConfig string

//go:embed property.json
var SampleProperty string

// ListingDir is the name of the listing configuration directory.
const ListingDir = ".listing"

// File name constants for consistent usage across the codebase.
const (
	PromptFile   = "prompt.md"     // Optional override of the embedded prompt
	ConfigFile   = "config.yaml"
	PropertyFile = "property.json" // Sample record written by init
	JournalFile  = "journal.db"
)

// DefaultFiles returns the default files to create in .listing/
func DefaultFiles() map[string]string {
	return map[string]string{
		ConfigFile:   DefaultConfig,
		PropertyFile: SampleProperty,
	}
}
