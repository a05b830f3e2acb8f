package sections

import (
	"regexp"
	"strings"
)

// Key identifies one of the seven required listing blocks.
type Key string

const (
	Title        Key = "title"
	Meta         Key = "meta"
	H1           Key = "h1"
	Description  Key = "description"
	KeyFeatures  Key = "key-features"
	Neighborhood Key = "neighborhood"
	CTA          Key = "cta"
)

// keys is the canonical block order of a listing.
var keys = []Key{Title, Meta, H1, Description, KeyFeatures, Neighborhood, CTA}

// patterns are case-insensitive and non-greedy so an early closing tag ends the block.
var patterns = map[Key]*regexp.Regexp{
	Title:        regexp.MustCompile(`(?i)<title[^>]*>[\s\S]*?</title>`),
	Meta:         regexp.MustCompile(`(?i)<meta\s+name=["']description["'][^>]*>`),
	H1:           regexp.MustCompile(`(?i)<h1[^>]*>[\s\S]*?</h1>`),
	Description:  regexp.MustCompile(`(?i)<section[^>]*id=["']description["'][^>]*>[\s\S]*?</section>`),
	KeyFeatures:  regexp.MustCompile(`(?i)<ul[^>]*id=["']key-features["'][^>]*>[\s\S]*?</ul>`),
	Neighborhood: regexp.MustCompile(`(?i)<section[^>]*id=["']neighborhood["'][^>]*>[\s\S]*?</section>`),
	CTA:          regexp.MustCompile(`(?i)<p[^>]*class=["']call-to-action["'][^>]*>[\s\S]*?</p>`),
}

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Map holds the matched markup for each block, tags included.
// An empty value means the block was not found.
type Map map[Key]string

// Keys returns the seven block keys in listing order.
func Keys() []Key {
	out := make([]Key, len(keys))
	copy(out, keys)
	return out
}

// Extract locates every block in text. It never fails: a block that
// cannot be found maps to the empty string, and the returned Map always
// has all seven keys.
func Extract(text string) Map {
	out := make(Map, len(keys))
	for _, k := range keys {
		out[k] = patterns[k].FindString(text)
	}
	return out
}

// Missing returns the keys whose block was not found, in listing order.
func (m Map) Missing() []Key {
	var missing []Key
	for _, k := range keys {
		if m[k] == "" {
			missing = append(missing, k)
		}
	}
	return missing
}

// Found reports whether the block for k was located.
func (m Map) Found(k Key) bool {
	return m[k] != ""
}

// StripTags removes anything shaped like a tag and trims surrounding
// whitespace. Entities are left as-is.
func StripTags(s string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(s, ""))
}
