package validate

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jywlabs/listing/internal/sections"
	"github.com/jywlabs/listing/internal/validate/validatetest"
)

func TestValidate_ValidDocument(t *testing.T) {
	v := Validate(validatetest.Valid().String())

	if !v.Passed {
		t.Fatalf("Validate() failed: %s", v.Reason)
	}
	if v.Reason != "OK" {
		t.Errorf("Reason = %q, want %q", v.Reason, "OK")
	}
	if v.Err != nil {
		t.Errorf("Err = %v, want nil", v.Err)
	}
}

func TestValidate_ToleratesNoiseAndOrder(t *testing.T) {
	doc := validatetest.Valid()
	doc.Noise = true
	doc.Reverse = true

	if v := Validate(doc.String()); !v.Passed {
		t.Fatalf("Validate() failed: %s", v.Reason)
	}
}

func TestValidate_MissingEachSection(t *testing.T) {
	for _, key := range sections.Keys() {
		t.Run(string(key), func(t *testing.T) {
			doc := validatetest.Valid()
			doc.Omit = []sections.Key{key}

			v := Validate(doc.String())
			if v.Passed {
				t.Fatal("Validate() passed, want failure")
			}
			want := fmt.Sprintf("Missing sections: [%s]", key)
			if v.Reason != want {
				t.Errorf("Reason = %q, want %q", v.Reason, want)
			}

			var mse *MissingSectionError
			if !errors.As(v.Err, &mse) {
				t.Fatalf("Err = %T, want *MissingSectionError", v.Err)
			}
			if len(mse.Keys) != 1 || mse.Keys[0] != key {
				t.Errorf("Keys = %v, want [%s]", mse.Keys, key)
			}
		})
	}
}

func TestValidate_MissingSeveralSectionsListedInOrder(t *testing.T) {
	doc := validatetest.Valid()
	doc.Omit = []sections.Key{sections.CTA, sections.Title}

	v := Validate(doc.String())
	if v.Reason != "Missing sections: [title cta]" {
		t.Errorf("Reason = %q", v.Reason)
	}
}

func TestValidate_Boundaries(t *testing.T) {
	tests := []struct {
		name     string
		modify   func(d *validatetest.Document)
		wantPass bool
		reason   string
	}{
		{"title at 60", func(d *validatetest.Document) { d.TitleLen = 60 }, true, "OK"},
		{"title at 61", func(d *validatetest.Document) { d.TitleLen = 61 }, false, "Title too long (61 > 60)"},
		{"meta at 155", func(d *validatetest.Document) { d.MetaLen = 155 }, true, "OK"},
		{"meta at 156", func(d *validatetest.Document) { d.MetaLen = 156 }, false, "Meta too long (156 > 155)"},
		{"description at 500", func(d *validatetest.Document) { d.DescriptionLen = 500 }, true, "OK"},
		{"description at 700", func(d *validatetest.Document) { d.DescriptionLen = 700 }, true, "OK"},
		{"description at 499", func(d *validatetest.Document) { d.DescriptionLen = 499 }, false, "Description length 499 not in [500,700]"},
		{"description at 701", func(d *validatetest.Document) { d.DescriptionLen = 701 }, false, "Description length 701 not in [500,700]"},
		{"3 features", func(d *validatetest.Document) { d.Features = 3 }, true, "OK"},
		{"5 features", func(d *validatetest.Document) { d.Features = 5 }, true, "OK"},
		{"2 features", func(d *validatetest.Document) { d.Features = 2 }, false, "Key-features has 2 items (need 3-5)"},
		{"6 features", func(d *validatetest.Document) { d.Features = 6 }, false, "Key-features has 6 items (need 3-5)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validatetest.Valid()
			tt.modify(&doc)

			v := Validate(doc.String())
			if v.Passed != tt.wantPass {
				t.Fatalf("Passed = %v, want %v (reason %q)", v.Passed, tt.wantPass, v.Reason)
			}
			if v.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", v.Reason, tt.reason)
			}
			if !tt.wantPass {
				var lve *LengthViolationError
				if !errors.As(v.Err, &lve) {
					t.Errorf("Err = %T, want *LengthViolationError", v.Err)
				}
			}
		})
	}
}

func TestValidate_CheckOrder(t *testing.T) {
	// Every rule is broken; the title rule comes first.
	doc := validatetest.Document{TitleLen: 80, MetaLen: 200, DescriptionLen: 10, Features: 9}

	v := Validate(doc.String())
	if v.Reason != "Title too long (80 > 60)" {
		t.Errorf("Reason = %q, want title failure first", v.Reason)
	}

	doc.TitleLen = 10
	if v := Validate(doc.String()); !strings.HasPrefix(v.Reason, "Meta too long") {
		t.Errorf("Reason = %q, want meta failure second", v.Reason)
	}

	doc.MetaLen = 10
	if v := Validate(doc.String()); !strings.HasPrefix(v.Reason, "Description length") {
		t.Errorf("Reason = %q, want description failure third", v.Reason)
	}
}

func TestValidate_MetaWithoutContent(t *testing.T) {
	text := strings.Replace(validatetest.Valid().String(),
		`<meta name="description" content="`, `<meta name="description" data-x="`, 1)

	v := Validate(text)
	if v.Passed {
		t.Fatal("Validate() passed, want failure")
	}
	if v.Reason != "Meta tag missing content attribute" {
		t.Errorf("Reason = %q", v.Reason)
	}
	var mae *MalformedAttributeError
	if !errors.As(v.Err, &mae) {
		t.Errorf("Err = %T, want *MalformedAttributeError", v.Err)
	}
}

func TestValidate_DescriptionWithoutParagraph(t *testing.T) {
	doc := validatetest.Valid()
	text := strings.Replace(doc.String(),
		"<section id=\"description\">\n<p>", "<section id=\"description\">\n<div>", 1)
	text = strings.Replace(text, "</p>\n</section>", "</div>\n</section>", 1)

	v := Validate(text)
	if v.Reason != "Description paragraph not found" {
		t.Errorf("Reason = %q", v.Reason)
	}
	var mpe *MissingParagraphError
	if !errors.As(v.Err, &mpe) {
		t.Errorf("Err = %T, want *MissingParagraphError", v.Err)
	}
}

func TestValidate_LengthsIgnoreMarkup(t *testing.T) {
	// 58 visible characters wrapped in inline markup stays within the title bound.
	title := "<title><b>" + validatetest.Text(58) + "</b></title>"
	text := strings.Replace(validatetest.Valid().String(),
		"<title>"+validatetest.Text(45)+"</title>", title, 1)

	if v := Validate(text); !v.Passed {
		t.Fatalf("Validate() failed: %s", v.Reason)
	}
}

func TestValidate_CountsRunesNotBytes(t *testing.T) {
	title := "<title>" + strings.Repeat("é", 60) + "</title>"
	text := strings.Replace(validatetest.Valid().String(),
		"<title>"+validatetest.Text(45)+"</title>", title, 1)

	if v := Validate(text); !v.Passed {
		t.Fatalf("Validate() failed: %s", v.Reason)
	}
}

func TestRules_Custom(t *testing.T) {
	r := DefaultRules()
	r.FeaturesMax = 3

	v := r.Validate(validatetest.Valid().String())
	if v.Reason != "Key-features has 4 items (need 3-3)" {
		t.Errorf("Reason = %q", v.Reason)
	}
}

func TestValidate_EmptyText(t *testing.T) {
	v := Validate("")
	if v.Passed {
		t.Fatal("Validate(\"\") passed")
	}
	if !strings.HasPrefix(v.Reason, "Missing sections: [title meta h1 description key-features neighborhood cta]") {
		t.Errorf("Reason = %q", v.Reason)
	}
}
