// Package validatetest builds listing documents of controlled shape for tests.
package validatetest

import (
	"fmt"
	"strings"

	"github.com/jywlabs/listing/internal/sections"
)

// Document describes a listing to render. Lengths are in characters of
// visible text.
type Document struct {
	TitleLen       int
	MetaLen        int
	DescriptionLen int
	Features       int
	Omit           []sections.Key
	Reverse        bool // emit the blocks in reverse order
	Noise          bool // interleave prose between blocks
}

// Valid returns a document that passes the default rules.
func Valid() Document {
	return Document{
		TitleLen:       45,
		MetaLen:        120,
		DescriptionLen: 600,
		Features:       4,
	}
}

// Text returns n characters of filler copy.
func Text(n int) string {
	const seed = "Bright apartment near cafes and parks with easy metro access. "
	var sb strings.Builder
	for sb.Len() < n {
		sb.WriteString(seed)
	}
	out := []byte(sb.String()[:n])
	// Trailing whitespace would be trimmed by the validator.
	if n > 0 && out[n-1] == ' ' {
		out[n-1] = '.'
	}
	return string(out)
}

// String renders the document as markup.
func (d Document) String() string {
	blocks := map[sections.Key]string{
		sections.Title:        fmt.Sprintf("<title>%s</title>", Text(d.TitleLen)),
		sections.Meta:         fmt.Sprintf(`<meta name="description" content="%s">`, Text(d.MetaLen)),
		sections.H1:           "<h1>Bright T3 Apartment with Balcony in Campo de Ourique</h1>",
		sections.Description:  fmt.Sprintf("<section id=\"description\">\n<p>%s</p>\n</section>", Text(d.DescriptionLen)),
		sections.KeyFeatures:  features(d.Features),
		sections.Neighborhood: "<section id=\"neighborhood\">\n<p>Campo de Ourique is known for lively cafes and green parks.</p>\n</section>",
		sections.CTA:          `<p class="call-to-action">Schedule your visit today.</p>`,
	}
	for _, k := range d.Omit {
		delete(blocks, k)
	}

	keys := sections.Keys()
	if d.Reverse {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
	}

	var sb strings.Builder
	if d.Noise {
		sb.WriteString("Sure! Here is your listing:\n\n")
	}
	for _, k := range keys {
		b, ok := blocks[k]
		if !ok {
			continue
		}
		sb.WriteString(b)
		sb.WriteString("\n")
		if d.Noise {
			sb.WriteString("(note: block above follows the rules)\n")
		}
	}
	return sb.String()
}

func features(n int) string {
	var sb strings.Builder
	sb.WriteString("<ul id=\"key-features\">\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&sb, "<li>Feature %d</li>\n", i)
	}
	sb.WriteString("</ul>")
	return sb.String()
}
