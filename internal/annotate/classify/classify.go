// Package classify turns tagger output and URL detection into raw span
// candidates with absolute document offsets.
package classify

import (
	"fmt"
	"iter"

	"github.com/dshills/copyedit/internal/annotate/category"
	"github.com/dshills/copyedit/internal/annotate/tagger"
	"github.com/dshills/copyedit/internal/annotate/urls"
	"github.com/dshills/copyedit/internal/engine/buffer"
	"github.com/dshills/copyedit/internal/logging"
)

// Candidate is a raw, not yet deduplicated span candidate.
type Candidate struct {
	Text     string
	Category category.Category
	From     buffer.ByteOffset
	To       buffer.ByteOffset
	// Reliable is false when the position came from the boundary search
	// fallback rather than from the tagger.
	Reliable bool
}

// Filter can veto candidates before they reach the resolver.
type Filter interface {
	Keep(c Candidate) bool
}

// FilterFunc adapts a function to the Filter interface.
type FilterFunc func(c Candidate) bool

// Keep implements Filter.
func (f FilterFunc) Keep(c Candidate) bool {
	return f(c)
}

// Rule selects the matches of one category: a match qualifies when it
// carries Tag and none of Suppress.
type Rule struct {
	Category category.Category
	Tag      tagger.Tag
	Suppress tagger.TagSet
}

// DefaultRules is the category table. Pronouns are not highlighted as
// nouns, auxiliaries and modals are not highlighted as verbs.
var DefaultRules = []Rule{
	{Category: category.Noun, Tag: tagger.TagNoun, Suppress: tagger.TagPronoun},
	{Category: category.Verb, Tag: tagger.TagVerb, Suppress: tagger.TagAuxiliary | tagger.TagModal},
	{Category: category.Adjective, Tag: tagger.TagAdjective},
	{Category: category.Adverb, Tag: tagger.TagAdverb},
	{Category: category.Conjunction, Tag: tagger.TagConjunction},
}

// Classifier produces candidates for one document text.
type Classifier struct {
	tagger tagger.Tagger
	rules  []Rule
	filter Filter
	log    *logging.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithRules replaces the category table.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) {
		c.rules = rules
	}
}

// WithFilter installs a candidate filter.
func WithFilter(f Filter) Option {
	return func(c *Classifier) {
		c.filter = f
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a classifier around a tagger.
func New(t tagger.Tagger, opts ...Option) *Classifier {
	c := &Classifier{
		tagger: t,
		rules:  DefaultRules,
		log:    logging.Null(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.WithComponent("classify")
	return c
}

// Candidates yields the grammatical candidates of text for the enabled
// categories, in rule order. The tagger runs once per iteration, not once
// per category. A tagger failure yields nothing.
func (c *Classifier) Candidates(text string, enabled category.Set) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		if enabled.IsEmpty() || text == "" {
			return
		}
		matches, err := c.tag(text)
		if err != nil {
			c.log.Warn("tagging failed, no grammatical spans this pass: %v", err)
			return
		}

		occurrences := make(map[string][]int)
		for _, rule := range c.rules {
			if !enabled.Has(rule.Category) {
				continue
			}
			for _, m := range matches {
				if !m.Tags.Has(rule.Tag) || m.Tags.Any(rule.Suppress) {
					continue
				}
				if !c.emit(text, rule.Category, m, occurrences, yield) {
					return
				}
			}
		}
	}
}

// emit yields the candidates of one match. It reports false when the
// consumer stopped iterating.
func (c *Classifier) emit(text string, cat category.Category, m tagger.Match, occurrences map[string][]int, yield func(Candidate) bool) bool {
	if isBlank(m.Text) {
		return true
	}

	if m.HasOffset && m.Start >= 0 && m.Length > 0 && m.Start+m.Length <= len(text) {
		cand := Candidate{
			Text:     m.Text,
			Category: cat,
			From:     buffer.ByteOffset(m.Start),
			To:       buffer.ByteOffset(m.Start + m.Length),
			Reliable: true,
		}
		return c.offer(cand, yield)
	}

	positions, ok := occurrences[m.Text]
	if !ok {
		positions = FindWordOccurrences(text, m.Text)
		occurrences[m.Text] = positions
	}
	for _, pos := range positions {
		cand := Candidate{
			Text:     m.Text,
			Category: cat,
			From:     buffer.ByteOffset(pos),
			To:       buffer.ByteOffset(pos + len(m.Text)),
		}
		if !c.offer(cand, yield) {
			return false
		}
	}
	return true
}

// offer passes a candidate through the filter and on to the consumer.
func (c *Classifier) offer(cand Candidate, yield func(Candidate) bool) bool {
	if c.filter != nil && !c.keep(cand) {
		return true
	}
	return yield(cand)
}

func (c *Classifier) keep(cand Candidate) (kept bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("candidate filter panic: %v", r)
			kept = false
		}
	}()
	return c.filter.Keep(cand)
}

// tag runs the tagger, turning a panic into an error.
func (c *Classifier) tag(text string) (matches []tagger.Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches, err = nil, fmt.Errorf("tagger panic: %v", r)
		}
	}()
	return c.tagger.Tag(text)
}

// URLCandidates yields URL candidates. Detection starts at skip, normally
// the end of the front-matter block, and positions stay absolute.
func (c *Classifier) URLCandidates(text string, skip buffer.ByteOffset) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		if skip < 0 || skip > buffer.ByteOffset(len(text)) {
			skip = 0
		}
		matches, err := c.findURLs(text[skip:], skip)
		if err != nil {
			c.log.Warn("url detection failed, no url spans this pass: %v", err)
			return
		}
		for _, m := range matches {
			cand := Candidate{
				Text:     m.URL,
				Category: category.URL,
				From:     m.From,
				To:       m.To,
				Reliable: true,
			}
			if !c.offer(cand, yield) {
				return
			}
		}
	}
}

func (c *Classifier) findURLs(text string, offset buffer.ByteOffset) (matches []urls.Match, err error) {
	defer func() {
		if r := recover(); r != nil {
			matches, err = nil, fmt.Errorf("url detector panic: %v", r)
		}
	}()
	return urls.Find(text, offset), nil
}
