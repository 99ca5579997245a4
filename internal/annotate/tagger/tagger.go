// Package tagger wraps part-of-speech tagging behind a small interface.
//
// A Tagger reports one Match per token with the set of grammatical tags
// that apply to it. Tags are not exclusive: a pronoun carries both
// TagNoun and TagPronoun, a modal both TagVerb and TagModal. Deciding
// which combinations to highlight is the classifier's job.
package tagger

import "strings"

// Tag is a single grammatical tag.
type Tag uint16

// Tags understood by the classifier.
const (
	TagNoun Tag = 1 << iota
	TagPronoun
	TagVerb
	TagAuxiliary
	TagModal
	TagAdjective
	TagAdverb
	TagConjunction
)

var tagNames = []struct {
	tag  Tag
	name string
}{
	{TagNoun, "noun"},
	{TagPronoun, "pronoun"},
	{TagVerb, "verb"},
	{TagAuxiliary, "auxiliary"},
	{TagModal, "modal"},
	{TagAdjective, "adjective"},
	{TagAdverb, "adverb"},
	{TagConjunction, "conjunction"},
}

// TagSet is a set of tags.
type TagSet = Tag

// Has reports whether every tag in other is present.
func (t Tag) Has(other Tag) bool {
	return other != 0 && t&other == other
}

// Any reports whether at least one tag in other is present.
func (t Tag) Any(other Tag) bool {
	return t&other != 0
}

// String lists the tag names joined by "|".
func (t Tag) String() string {
	var parts []string
	for _, tn := range tagNames {
		if t&tn.tag != 0 {
			parts = append(parts, tn.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Match is one tagged token. When HasOffset is false the tagger could not
// place the token in the input and Start/Length are meaningless.
type Match struct {
	Text      string
	Tags      TagSet
	Start     int
	Length    int
	HasOffset bool
}

// Tagger tags a whole text in one call.
type Tagger interface {
	Tag(text string) ([]Match, error)
}

// Func adapts a function to the Tagger interface.
type Func func(text string) ([]Match, error)

// Tag implements Tagger.
func (f Func) Tag(text string) ([]Match, error) {
	return f(text)
}
