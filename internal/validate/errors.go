package validate

import (
	"fmt"
	"strings"

	"github.com/jywlabs/listing/internal/sections"
)

// MissingSectionError reports blocks that could not be located.
type MissingSectionError struct {
	Keys []sections.Key
}

func (e *MissingSectionError) Error() string {
	names := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		names[i] = string(k)
	}
	return fmt.Sprintf("Missing sections: [%s]", strings.Join(names, " "))
}

// LengthViolationError reports a block whose length or item count is out of bounds.
// Min is zero when the rule only has an upper bound.
type LengthViolationError struct {
	Field string
	Got   int
	Min   int
	Max   int
}

func (e *LengthViolationError) Error() string {
	switch e.Field {
	case "title":
		return fmt.Sprintf("Title too long (%d > %d)", e.Got, e.Max)
	case "meta":
		return fmt.Sprintf("Meta too long (%d > %d)", e.Got, e.Max)
	case "description":
		return fmt.Sprintf("Description length %d not in [%d,%d]", e.Got, e.Min, e.Max)
	case "key-features":
		return fmt.Sprintf("Key-features has %d items (need %d-%d)", e.Got, e.Min, e.Max)
	}
	return fmt.Sprintf("%s length %d not in [%d,%d]", e.Field, e.Got, e.Min, e.Max)
}

// MalformedAttributeError reports a tag that exists but lacks a parsable attribute.
type MalformedAttributeError struct {
	Field string
	Attr  string
}

func (e *MalformedAttributeError) Error() string {
	if e.Field == "meta" {
		return fmt.Sprintf("Meta tag missing %s attribute", e.Attr)
	}
	return fmt.Sprintf("%s tag missing %s attribute", e.Field, e.Attr)
}

// MissingParagraphError reports a section present without its nested paragraph.
type MissingParagraphError struct {
	Field string
}

func (e *MissingParagraphError) Error() string {
	if e.Field == "description" {
		return "Description paragraph not found"
	}
	return fmt.Sprintf("%s paragraph not found", e.Field)
}
