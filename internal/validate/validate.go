// Package validate checks generated listing markup against the structural
// and length rules a listing must satisfy before it is accepted.
package validate

import (
	"regexp"
	"unicode/utf8"

	"github.com/jywlabs/listing/internal/sections"
)

// ReasonOK is the reason attached to a passing verdict.
const ReasonOK = "OK"

// Verdict is the outcome of validating one piece of generated text.
type Verdict struct {
	Passed bool
	Reason string // names the first failing rule, or "OK"
	Err    error  // typed failure; nil when Passed
}

// Rules holds the inclusive bounds enforced by Validate.
type Rules struct {
	TitleMax       int
	MetaMax        int
	DescriptionMin int
	DescriptionMax int
	FeaturesMin    int
	FeaturesMax    int
}

// DefaultRules returns the bounds every published listing must meet.
func DefaultRules() Rules {
	return Rules{
		TitleMax:       60,
		MetaMax:        155,
		DescriptionMin: 500,
		DescriptionMax: 700,
		FeaturesMin:    3,
		FeaturesMax:    5,
	}
}

var (
	metaContentPattern   = regexp.MustCompile(`(?i)content\s*=\s*(?:"(.*?)"|'(.*?)')`)
	descParagraphPattern = regexp.MustCompile(`(?i)<section[^>]*id=["']description["'][^>]*>\s*<p>([\s\S]*?)</p>\s*</section>`)
	listItemPattern      = regexp.MustCompile(`(?i)<li[^>]*>[\s\S]*?</li>`)
)

// Validate checks text against DefaultRules.
func Validate(text string) Verdict {
	return DefaultRules().Validate(text)
}

// Validate runs the checks in a fixed order and stops at the first failure:
// presence of all blocks, title length, meta content, description paragraph
// length, then key-feature count.
func (r Rules) Validate(text string) Verdict {
	secs := sections.Extract(text)

	if missing := secs.Missing(); len(missing) > 0 {
		return fail(&MissingSectionError{Keys: missing})
	}

	if n := textLen(sections.StripTags(secs[sections.Title])); n > r.TitleMax {
		return fail(&LengthViolationError{Field: "title", Got: n, Max: r.TitleMax})
	}

	m := metaContentPattern.FindStringSubmatch(secs[sections.Meta])
	if m == nil {
		return fail(&MalformedAttributeError{Field: "meta", Attr: "content"})
	}
	content := m[1]
	if content == "" {
		content = m[2]
	}
	if n := textLen(sections.StripTags(content)); n > r.MetaMax {
		return fail(&LengthViolationError{Field: "meta", Got: n, Max: r.MetaMax})
	}

	pm := descParagraphPattern.FindStringSubmatch(secs[sections.Description])
	if pm == nil {
		return fail(&MissingParagraphError{Field: "description"})
	}
	if n := textLen(sections.StripTags(pm[1])); n < r.DescriptionMin || n > r.DescriptionMax {
		return fail(&LengthViolationError{Field: "description", Got: n, Min: r.DescriptionMin, Max: r.DescriptionMax})
	}

	if n := len(listItemPattern.FindAllString(secs[sections.KeyFeatures], -1)); n < r.FeaturesMin || n > r.FeaturesMax {
		return fail(&LengthViolationError{Field: "key-features", Got: n, Min: r.FeaturesMin, Max: r.FeaturesMax})
	}

	return Verdict{Passed: true, Reason: ReasonOK}
}

func fail(err error) Verdict {
	return Verdict{Passed: false, Reason: err.Error(), Err: err}
}

// textLen counts runes, not bytes.
func textLen(s string) int {
	return utf8.RuneCountInString(s)
}
