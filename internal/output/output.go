package output

import (
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"github.com/jywlabs/listing/internal/journal"
	"github.com/jywlabs/listing/internal/sections"
	"github.com/jywlabs/listing/internal/validate"
)

// Printer handles formatted output for the CLI.
type Printer struct {
	w io.Writer
}

// New creates a new Printer that writes to the given writer.
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Verdict prints the validation outcome.
// Format: "✓ Listing passed validation" or "✗ Validation failed: <reason>"
func (p *Printer) Verdict(v validate.Verdict) {
	if v.Passed {
		fmt.Fprintf(p.w, "✓ Listing passed validation\n")
	} else {
		fmt.Fprintf(p.w, "✗ Validation failed: %s\n", v.Reason)
	}
}

// Sections prints the extraction status of every block in canonical order.
// Format: "  ✓ title (45 chars)" or "  ✗ meta (missing)"
func (p *Printer) Sections(m sections.Map) {
	for _, k := range sections.Keys() {
		if !m.Found(k) {
			fmt.Fprintf(p.w, "  ✗ %s (missing)\n", k)
			continue
		}
		n := utf8.RuneCountInString(sections.StripTags(m[k]))
		fmt.Fprintf(p.w, "  ✓ %s (%d chars)\n", k, n)
	}
}

// Attempts prints how many attempts a run used.
// Format: "Generated in N/M attempts"
func (p *Printer) Attempts(used, max int) {
	if max == 1 {
		fmt.Fprintf(p.w, "Generated in %d/1 attempt\n", used)
	} else {
		fmt.Fprintf(p.w, "Generated in %d/%d attempts\n", used, max)
	}
}

// Degraded prints the warning for an unverified listing.
// Format: "⚠ Listing did not pass validation: <reason>"
func (p *Printer) Degraded(reason string) {
	fmt.Fprintf(p.w, "⚠ Listing did not pass validation: %s\n", reason)
}

// Written prints where the listing was saved.
// Format: "Wrote <path>"
func (p *Printer) Written(path string) {
	fmt.Fprintf(p.w, "Wrote %s\n", path)
}

// History prints journal entries, one per line.
// Format: "<time>  <run>  <engine>  #N  ✓|✗  <elapsed>  <reason>"
func (p *Printer) History(entries []journal.Entry) {
	if len(entries) == 0 {
		fmt.Fprintf(p.w, "No attempts recorded\n")
		return
	}
	for _, e := range entries {
		mark := "✗"
		if e.Passed {
			mark = "✓"
		}
		run := e.RunID
		if len(run) > 8 {
			run = run[:8]
		}
		fmt.Fprintf(p.w, "%s  %s  %-7s #%d  %s  %6s  %s\n",
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			run, e.Engine, e.Attempt, mark,
			e.Elapsed.Round(10*time.Millisecond), e.Reason)
	}
}
