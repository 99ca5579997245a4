// Package urls detects http and https links in markdown text.
//
// Detection runs in two passes. The first finds markdown links and images
// whose target is an http(s) URL and reports only the target. The second
// finds bare URLs in the text not already covered by a first-pass
// construct.
package urls

import (
	"regexp"
	"strings"

	"github.com/dshills/copyedit/internal/engine/buffer"
)

var (
	// Pattern matches a string that is exactly one http(s) URL.
	Pattern = regexp.MustCompile(`^https?://\S+$`)

	markdownPattern = regexp.MustCompile(`!?\[[^\]]*\]\((https?://[^)\s]+)\)`)
	plainPattern    = regexp.MustCompile(`https?://[^\s)]+`)
)

// Match is one detected URL.
type Match struct {
	URL  string            `json:"url" yaml:"url"`
	From buffer.ByteOffset `json:"from" yaml:"from"`
	To   buffer.ByteOffset `json:"to" yaml:"to"`
}

// IsValid reports whether s, after trimming surrounding whitespace, is a
// single http(s) URL.
func IsValid(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && Pattern.MatchString(s)
}

// Find returns the URLs in text. offset is added to every position, which
// lets callers scan a sub-range of a larger document. Markdown targets are
// listed first, then bare URLs, each group in text order.
func Find(text string, offset buffer.ByteOffset) []Match {
	var matches []Match
	var constructs []buffer.Range

	for _, loc := range markdownPattern.FindAllStringSubmatchIndex(text, -1) {
		constructs = append(constructs, buffer.Range{
			Start: buffer.ByteOffset(loc[0]),
			End:   buffer.ByteOffset(loc[1]),
		})
		matches = append(matches, Match{
			URL:  text[loc[2]:loc[3]],
			From: offset + buffer.ByteOffset(loc[2]),
			To:   offset + buffer.ByteOffset(loc[3]),
		})
	}

	for _, loc := range plainPattern.FindAllStringIndex(text, -1) {
		r := buffer.Range{Start: buffer.ByteOffset(loc[0]), End: buffer.ByteOffset(loc[1])}
		if overlapsAny(constructs, r) {
			continue
		}
		matches = append(matches, Match{
			URL:  text[loc[0]:loc[1]],
			From: offset + r.Start,
			To:   offset + r.End,
		})
	}

	return matches
}

// overlapsAny reports whether r overlaps one of the sorted ranges.
func overlapsAny(ranges []buffer.Range, r buffer.Range) bool {
	for _, c := range ranges {
		if c.Start >= r.End {
			return false
		}
		if c.Overlaps(r) {
			return true
		}
	}
	return false
}
