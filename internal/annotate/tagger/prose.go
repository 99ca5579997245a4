package tagger

import (
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Prose tags text with prose's averaged-perceptron model.
type Prose struct{}

// NewProse creates a prose-backed tagger.
func NewProse() *Prose {
	return &Prose{}
}

// Tag tokenizes and tags text in one pass. Tokens carry no positions, so
// offsets come from aligning tokens against the text left to right. A
// token the tokenizer rewrote (and so cannot be found verbatim) is
// returned without an offset.
func (p *Prose) Tag(text string) (matches []Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches, err = nil, fmt.Errorf("prose tagger panic: %v", r)
		}
	}()

	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("prose tagger: %w", err)
	}

	tokens := doc.Tokens()
	words := make([]string, len(tokens))
	for i, tok := range tokens {
		words[i] = tok.Text
	}
	offsets := Align(text, words)

	matches = make([]Match, 0, len(tokens))
	for i, tok := range tokens {
		tags := TagsForPenn(tok.Tag, tok.Text)
		if tags == 0 {
			continue
		}
		m := Match{Text: tok.Text, Tags: tags}
		if offsets[i] >= 0 {
			m.Start = offsets[i]
			m.Length = len(tok.Text)
			m.HasOffset = true
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// Align finds each token in text, searching forward from the end of the
// previous aligned token. Tokens that cannot be found get -1 and do not
// move the cursor.
func Align(text string, tokens []string) []int {
	offsets := make([]int, len(tokens))
	cursor := 0
	for i, tok := range tokens {
		if tok == "" {
			offsets[i] = -1
			continue
		}
		j := strings.Index(text[cursor:], tok)
		if j < 0 {
			offsets[i] = -1
			continue
		}
		offsets[i] = cursor + j
		cursor += j + len(tok)
	}
	return offsets
}
