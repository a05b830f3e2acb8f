package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	tmpl "github.com/jywlabs/listing/internal/template"
	"github.com/jywlabs/listing/internal/validate"
)

// Builder renders the prompt for one listing request.
type Builder interface {
	Build(data map[string]any, language, tone string) (string, error)
}

// FewShotSeeds holds tone examples keyed by tone name.
var FewShotSeeds = map[string][]string{
	"friendly": {"T3 apartment for sale in Campo de Ourique, Lisbon — bright 3-bedroom with balcony. Great for families."},
	"formal":   {"Apartment for sale in Lisbon (Campo de Ourique). Three-bedroom T3, 120 sqm. Suitable for professionals."},
	"luxury":   {"Exclusive T3 apartment in Campo de Ourique, Lisbon. Designer finishes, private balcony, prime location."},
	"investor": {"Investment opportunity: T3 apartment in Campo de Ourique, Lisbon. Strong rental demand, 120 sqm, well-located."},
}

// Languages maps supported language codes to the name used in the prompt.
var Languages = map[string]string{
	"en": "English",
	"fr": "French",
	"pt": "Portuguese",
	"sp": "Spanish",
	"it": "Italian",
}

// Tones returns the tones that have seed examples.
func Tones() []string {
	return []string{"friendly", "formal", "luxury", "investor"}
}

// LanguageName returns the display name for code, defaulting to English.
func LanguageName(code string) string {
	if name, ok := Languages[strings.ToLower(code)]; ok {
		return name
	}
	return "English"
}

// TemplateBuilder renders a text/template prompt.
type TemplateBuilder struct {
	tmpl    *template.Template
	example string
	rules   validate.Rules
}

// Default returns a builder for the embedded prompt and the default rules.
func Default() *TemplateBuilder {
	b, err := New(tmpl.DefaultPrompt, validate.DefaultRules())
	if err != nil {
		panic(fmt.Sprintf("embedded prompt template: %v", err))
	}
	return b
}

// New parses text as a prompt template. The rules are restated in the
// rendered prompt so the model sees the same limits the validator enforces.
func New(text string, rules validate.Rules) (*TemplateBuilder, error) {
	t, err := template.New("listing").Option("missingkey=zero").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template: %w", err)
	}
	return &TemplateBuilder{
		tmpl:    t,
		example: strings.TrimSpace(tmpl.ExampleListing),
		rules:   rules,
	}, nil
}

type promptData struct {
	Data         string
	Language     string
	LanguageName string
	Tone         string
	Seeds        []string
	City         string
	Neighborhood string
	Example      string
	Rules        validate.Rules
}

// Build renders the prompt. Unknown tones get no seed examples and
// unknown languages are written in English.
func (b *TemplateBuilder) Build(data map[string]any, language, tone string) (string, error) {
	encoded, err := encodeData(data)
	if err != nil {
		return "", err
	}

	var city, neighborhood string
	if loc, ok := data["location"].(map[string]any); ok {
		city, _ = loc["city"].(string)
		neighborhood, _ = loc["neighborhood"].(string)
	}

	var buf bytes.Buffer
	err = b.tmpl.Execute(&buf, promptData{
		Data:         encoded,
		Language:     language,
		LanguageName: LanguageName(language),
		Tone:         tone,
		Seeds:        FewShotSeeds[tone],
		City:         city,
		Neighborhood: neighborhood,
		Example:      b.example,
		Rules:        b.rules,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render prompt: %w", err)
	}
	return buf.String(), nil
}

// encodeData renders the record as compact JSON without escaping
// characters like < and & that are meaningful to the model.
func encodeData(data map[string]any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return "", fmt.Errorf("failed to encode property data: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// Corrective returns the instruction appended to the prompt before a retry.
func Corrective(r validate.Rules) string {
	return fmt.Sprintf("\n\nIMPORTANT: Regenerate with exact tags, exact order, and strict length limits (title<=%d, meta<=%d, description %d-%d, key-features %d-%d items).",
		r.TitleMax, r.MetaMax, r.DescriptionMin, r.DescriptionMax, r.FeaturesMin, r.FeaturesMax)
}
