// Package category defines the classification categories that spans are
// tagged with, and the enabled-category set read from configuration.
package category

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCategory is returned when a category name is not recognized.
var ErrInvalidCategory = errors.New("invalid category")

// Category is the classification a span carries.
type Category uint8

// Categories in their canonical order. The order is also the order the
// classifier emits candidates in and the tie-break order of a sorted set.
const (
	Noun Category = iota
	Verb
	Adjective
	Adverb
	Conjunction
	URL

	count
)

// Grammatical lists the part-of-speech categories, excluding URL.
var Grammatical = []Category{Noun, Verb, Adjective, Adverb, Conjunction}

var names = [...]string{
	Noun:        "noun",
	Verb:        "verb",
	Adjective:   "adjective",
	Adverb:      "adverb",
	Conjunction: "conjunction",
	URL:         "url",
}

// String returns the singular lowercase name.
func (c Category) String() string {
	if c < count {
		return names[c]
	}
	return "unknown"
}

// ConfigName returns the plural name used in settings files
// ("nouns", "verbs", ...). URL has no config name and returns "".
func (c Category) ConfigName() string {
	if c < URL {
		return names[c] + "s"
	}
	return ""
}

// Class returns the style class a host editor attaches to spans of c.
func (c Category) Class() string {
	switch c {
	case URL:
		return "cm-url"
	case Noun, Verb, Adjective, Adverb, Conjunction:
		return "cm-pos-" + names[c]
	default:
		return ""
	}
}

// IsGrammatical reports whether c is a part-of-speech category.
func (c Category) IsGrammatical() bool {
	return c < URL
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if c >= count {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCategory, c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Parse accepts singular or plural names, case-insensitively.
func Parse(name string) (Category, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for c := Noun; c < count; c++ {
		if n == names[c] || (c.IsGrammatical() && n == c.ConfigName()) {
			return c, nil
		}
	}
	if n == "urls" {
		return URL, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidCategory, name)
}
