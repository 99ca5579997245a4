// Package resolve turns classifier candidates into a final decoration set.
package resolve

import (
	"iter"
	"sort"

	"github.com/dshills/copyedit/internal/annotate/category"
	"github.com/dshills/copyedit/internal/annotate/classify"
	"github.com/dshills/copyedit/internal/annotate/exclusion"
	"github.com/dshills/copyedit/internal/annotate/span"
	"github.com/dshills/copyedit/internal/engine/buffer"
)

// Stats counts what happened to the candidates of one Resolve call.
type Stats struct {
	Candidates int `json:"candidates" yaml:"candidates"`
	Excluded   int `json:"excluded" yaml:"excluded"`
	Duplicates int `json:"duplicates" yaml:"duplicates"`
	Overlaps   int `json:"overlaps" yaml:"overlaps"`
	Accepted   int `json:"accepted" yaml:"accepted"`
}

type key struct {
	from, to buffer.ByteOffset
}

// Resolve consumes candidate sequences in order and returns a sorted,
// non-overlapping set together with counters describing the pass.
//
//   - Candidates inside an exclusion region are dropped. URL candidates
//     ignore link regions, since a link target is what they highlight.
//   - The first candidate for a (From, To) pair wins; later ones are
//     duplicates regardless of category.
//   - A candidate overlapping an accepted span is dropped. URL spans are
//     placed before any grammatical span, so a URL is never cut up by
//     the words inside it.
func Resolve(idx *exclusion.Index, sources ...iter.Seq[classify.Candidate]) (span.Set, Stats) {
	var stats Stats
	seen := make(map[key]bool)
	var urlSpans, wordSpans []span.Span

	for _, src := range sources {
		for cand := range src {
			stats.Candidates++
			if cand.From < 0 || cand.From >= cand.To {
				stats.Excluded++
				continue
			}
			kinds := exclusion.AllKinds
			if cand.Category == category.URL {
				kinds &^= exclusion.KindLink
			}
			if idx != nil && idx.Excluded(cand.From, cand.To, kinds) {
				stats.Excluded++
				continue
			}
			k := key{cand.From, cand.To}
			if seen[k] {
				stats.Duplicates++
				continue
			}
			seen[k] = true

			sp := span.New(cand.From, cand.To, cand.Category)
			if cand.Category == category.URL {
				urlSpans = append(urlSpans, sp)
			} else {
				wordSpans = append(wordSpans, sp)
			}
		}
	}

	var accepted span.Set
	for _, group := range [][]span.Span{urlSpans, wordSpans} {
		for _, sp := range group {
			if overlapsAccepted(accepted, sp) {
				stats.Overlaps++
				continue
			}
			accepted = insertSorted(accepted, sp)
		}
	}

	stats.Accepted = len(accepted)
	return accepted, stats
}

// overlapsAccepted checks sp against its neighbours in the sorted,
// non-overlapping set.
func overlapsAccepted(set span.Set, sp span.Span) bool {
	i := sort.Search(len(set), func(i int) bool {
		return set[i].To > sp.From
	})
	return i < len(set) && set[i].Overlaps(sp)
}

func insertSorted(set span.Set, sp span.Span) span.Set {
	i := sort.Search(len(set), func(i int) bool {
		return span.Compare(set[i], sp) > 0
	})
	set = append(set, span.Span{})
	copy(set[i+1:], set[i:])
	set[i] = sp
	return set
}
