// Package span defines classified spans and the decoration set that a
// host editor renders.
package span

import (
	"fmt"
	"slices"

	"github.com/dshills/copyedit/internal/annotate/category"
	"github.com/dshills/copyedit/internal/engine/buffer"
)

// Span is a half-open range [From, To) tagged with one category.
type Span struct {
	From     buffer.ByteOffset `json:"from" yaml:"from"`
	To       buffer.ByteOffset `json:"to" yaml:"to"`
	Category category.Category `json:"category" yaml:"category"`
}

// New creates a span.
func New(from, to buffer.ByteOffset, cat category.Category) Span {
	return Span{From: from, To: to, Category: cat}
}

// String returns a human-readable representation of the span.
func (s Span) String() string {
	return fmt.Sprintf("%s[%d:%d)", s.Category, s.From, s.To)
}

// Len returns the span length in bytes.
func (s Span) Len() buffer.ByteOffset {
	return s.To - s.From
}

// IsValid reports whether From < To.
func (s Span) IsValid() bool {
	return s.From >= 0 && s.From < s.To
}

// Range returns the span's range.
func (s Span) Range() buffer.Range {
	return buffer.Range{Start: s.From, End: s.To}
}

// Overlaps reports whether two spans share at least one position.
func (s Span) Overlaps(other Span) bool {
	return s.Range().Overlaps(other.Range())
}

// Map maps the span through an edit delta. The start sticks to the text
// after an insertion at it and the end to the text before one, so text
// typed at either edge is not decorated. Spans collapsed by a deletion
// are reported as not ok.
func (s Span) Map(d buffer.Delta) (Span, bool) {
	mapped := Span{
		From:     d.MapPos(s.From, 1),
		To:       d.MapPos(s.To, -1),
		Category: s.Category,
	}
	return mapped, mapped.From < mapped.To
}

// Compare orders spans by From, then To, then category.
func Compare(a, b Span) int {
	switch {
	case a.From != b.From:
		return cmpOffset(a.From, b.From)
	case a.To != b.To:
		return cmpOffset(a.To, b.To)
	default:
		return int(a.Category) - int(b.Category)
	}
}

func cmpOffset(a, b buffer.ByteOffset) int {
	if a < b {
		return -1
	}
	return 1
}

// Set is a decoration set: spans sorted by Compare.
type Set []Span

// NewSet copies spans into a sorted set.
func NewSet(spans ...Span) Set {
	s := make(Set, len(spans))
	copy(s, spans)
	s.Sort()
	return s
}

// Sort sorts the set in place. The sort is stable so equal spans keep
// their insertion order.
func (s Set) Sort() {
	slices.SortStableFunc(s, Compare)
}

// Clone returns a copy of the set.
func (s Set) Clone() Set {
	if s == nil {
		return nil
	}
	return slices.Clone(s)
}

// Map maps every span through an edit delta, dropping collapsed spans.
// The result is still sorted because mapping is monotonic.
func (s Set) Map(d buffer.Delta) Set {
	if len(s) == 0 {
		return s
	}
	out := make(Set, 0, len(s))
	for _, sp := range s {
		if mapped, ok := sp.Map(d); ok {
			out = append(out, mapped)
		}
	}
	return out
}

// ByCategory returns the spans of one category.
func (s Set) ByCategory(c category.Category) Set {
	var out Set
	for _, sp := range s {
		if sp.Category == c {
			out = append(out, sp)
		}
	}
	return out
}

// Count returns the number of spans per category.
func (s Set) Count() map[category.Category]int {
	counts := make(map[category.Category]int)
	for _, sp := range s {
		counts[sp.Category]++
	}
	return counts
}

// Overlapping returns the first pair of overlapping spans, if any.
// A set produced by a pass never has one.
func (s Set) Overlapping() (Span, Span, bool) {
	for i := 1; i < len(s); i++ {
		if s[i-1].Overlaps(s[i]) {
			return s[i-1], s[i], true
		}
	}
	return Span{}, Span{}, false
}

// Equal reports whether two sets hold the same spans in the same order.
func (s Set) Equal(other Set) bool {
	return slices.Equal(s, other)
}
