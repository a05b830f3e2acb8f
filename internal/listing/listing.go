// Package listing holds the property record a listing is generated from.
package listing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// DefaultLanguage is used when neither the caller nor the record names one.
const DefaultLanguage = "en"

// DefaultTone is the tone used when none is given.
const DefaultTone = "friendly"

// ErrMissingCity is returned for records without a location.city field.
var ErrMissingCity = errors.New("JSON must include 'location' object with a 'city' field")

// Request is one generation request: the property record plus the
// language and tone the copy should be written in.
type Request struct {
	Data     map[string]any
	Language string
	Tone     string
}

// Parse decodes a property record from r and checks it carries a city.
func Parse(r io.Reader) (map[string]any, error) {
	var data map[string]any
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("invalid JSON input: %w", err)
	}
	if err := Check(data); err != nil {
		return nil, err
	}
	return data, nil
}

// Load reads a property record from path. A path of "-" reads stdin.
func Load(path string, stdin io.Reader) (map[string]any, error) {
	if path == "-" {
		return Parse(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open property file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Check reports whether data has the minimum structure generation needs.
func Check(data map[string]any) error {
	loc, ok := data["location"].(map[string]any)
	if !ok {
		return ErrMissingCity
	}
	if _, ok := loc["city"]; !ok {
		return ErrMissingCity
	}
	return nil
}

// NewRequest builds a Request. An empty language falls back to the
// record's own "language" field, then to DefaultLanguage.
func NewRequest(data map[string]any, language, tone string) Request {
	language = strings.TrimSpace(language)
	if language == "" {
		if s, ok := SafeGet(data, "language").(string); ok && s != "" {
			language = s
		} else {
			language = DefaultLanguage
		}
	}
	tone = strings.TrimSpace(tone)
	if tone == "" {
		tone = DefaultTone
	}
	return Request{Data: data, Language: language, Tone: tone}
}

// City returns the record's location.city as a string, or "".
func (r Request) City() string {
	s, _ := SafeGet(r.Data, "location", "city").(string)
	return s
}

// SafeGet walks nested maps by key and returns nil if any step is
// missing or not a map.
func SafeGet(data map[string]any, keys ...string) any {
	var cur any = data
	for _, k := range keys {
		m, ok := cur.(map[string]any)
		if !ok || m == nil {
			return nil
		}
		cur = m[k]
	}
	return cur
}
