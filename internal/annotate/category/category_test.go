package category

import (
	"errors"
	"reflect"
	"testing"
)

func TestCategory_Names(t *testing.T) {
	tests := []struct {
		cat        Category
		name       string
		configName string
		class      string
	}{
		{Noun, "noun", "nouns", "cm-pos-noun"},
		{Verb, "verb", "verbs", "cm-pos-verb"},
		{Adjective, "adjective", "adjectives", "cm-pos-adjective"},
		{Adverb, "adverb", "adverbs", "cm-pos-adverb"},
		{Conjunction, "conjunction", "conjunctions", "cm-pos-conjunction"},
		{URL, "url", "", "cm-url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cat.String(); got != tt.name {
				t.Errorf("String() = %q, expected %q", got, tt.name)
			}
			if got := tt.cat.ConfigName(); got != tt.configName {
				t.Errorf("ConfigName() = %q, expected %q", got, tt.configName)
			}
			if got := tt.cat.Class(); got != tt.class {
				t.Errorf("Class() = %q, expected %q", got, tt.class)
			}
		})
	}

	if Category(42).String() != "unknown" {
		t.Error("expected unknown for out-of-range category")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		input    string
		expected Category
	}{
		{"nouns", Noun},
		{"Verb", Verb},
		{" adjectives ", Adjective},
		{"adverb", Adverb},
		{"CONJUNCTIONS", Conjunction},
		{"url", URL},
		{"urls", URL},
	}

	for _, tt := range tests {
		got, err := Parse(tt.input)
		if err != nil {
			t.Errorf("Parse(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("Parse(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}

	if _, err := Parse("pronouns"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}

func TestCategory_TextRoundTrip(t *testing.T) {
	var c Category
	if err := c.UnmarshalText([]byte("adverbs")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	text, err := c.MarshalText()
	if err != nil || string(text) != "adverb" {
		t.Errorf("MarshalText() = %q, %v", text, err)
	}
}

func TestSet(t *testing.T) {
	s := All()
	if len(s.Categories()) != 5 {
		t.Fatalf("expected 5 categories in All, got %v", s)
	}
	if s.Has(URL) {
		t.Error("URL must never be part of the grammatical set")
	}

	s = s.Without(Verb)
	if s.Has(Verb) {
		t.Error("expected verbs removed")
	}
	if !s.Has(Noun) || !s.Has(Conjunction) {
		t.Error("expected other categories untouched")
	}

	s = s.Toggle(Verb).Toggle(Noun)
	expected := []string{"verbs", "adjectives", "adverbs", "conjunctions"}
	if got := s.ConfigNames(); !reflect.DeepEqual(got, expected) {
		t.Errorf("ConfigNames() = %v, expected %v", got, expected)
	}

	if NewSet(URL) != 0 || !NewSet(URL).IsEmpty() {
		t.Error("NewSet(URL) should be empty")
	}
}

func TestParseSet(t *testing.T) {
	s, err := ParseSet(nil)
	if err != nil || s != All() {
		t.Errorf("expected unset list to mean All, got %v, %v", s, err)
	}

	s, err = ParseSet([]string{"nouns", "verbs"})
	if err != nil {
		t.Fatalf("ParseSet failed: %v", err)
	}
	if s.String() != "{nouns,verbs}" {
		t.Errorf("unexpected set %v", s)
	}

	s, err = ParseSet([]string{})
	if err != nil || !s.IsEmpty() {
		t.Errorf("expected empty list to mean no categories, got %v, %v", s, err)
	}

	if _, err := ParseSet([]string{"nouns", "bogus"}); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("expected ErrInvalidCategory, got %v", err)
	}
}
