// Package exclusion finds the regions of a markdown document where
// annotation must not apply: fenced code, inline code, a leading
// front-matter block and markdown link or image constructs.
//
// Regions are recomputed from the raw text on every pass. Nothing is
// cached between passes.
package exclusion

import (
	"regexp"
	"sort"

	"github.com/dshills/copyedit/internal/engine/buffer"
)

// Kind identifies which pattern produced a region.
type Kind uint8

const (
	// KindFencedCode is a ``` ... ``` block, possibly spanning lines.
	KindFencedCode Kind = 1 << iota
	// KindInlineCode is a single-backtick span on one line.
	KindInlineCode
	// KindFrontMatter is a --- ... --- block at the very start of the text.
	KindFrontMatter
	// KindLink is a markdown [label](target) or ![alt](target) construct.
	KindLink
)

// AllKinds selects every region kind.
const AllKinds = KindFencedCode | KindInlineCode | KindFrontMatter | KindLink

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindFencedCode:
		return "fenced_code"
	case KindInlineCode:
		return "inline_code"
	case KindFrontMatter:
		return "front_matter"
	case KindLink:
		return "link"
	default:
		return "mixed"
	}
}

var (
	fencedCodePattern  = regexp.MustCompile("```[\\s\\S]*?```")
	inlineCodePattern  = regexp.MustCompile("`[^`\\n]+`")
	frontMatterPattern = regexp.MustCompile(`^---[\s\S]*?---`)
	linkPattern        = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
)

// Region is a reserved range [From, To).
type Region struct {
	Kind Kind
	From buffer.ByteOffset
	To   buffer.ByteOffset
}

// Contains reports whether [from, to) lies entirely inside the region.
func (r Region) Contains(from, to buffer.ByteOffset) bool {
	return r.Range().Encloses(buffer.Range{Start: from, End: to})
}

// Range returns the region's byte range.
func (r Region) Range() buffer.Range {
	return buffer.Range{Start: r.From, End: r.To}
}

// Index holds the regions of one text. Build it once per pass with Scan
// and query it for every candidate.
type Index struct {
	regions     map[Kind][]Region
	frontMatter buffer.ByteOffset
}

// Scan finds every region in text. Each kind is matched independently
// against the unmodified text, so an unterminated construct of one kind
// only disables exclusion for that kind.
func Scan(text string) *Index {
	idx := &Index{regions: make(map[Kind][]Region, 4)}
	idx.add(KindFencedCode, fencedCodePattern, text)
	idx.add(KindInlineCode, inlineCodePattern, text)
	idx.add(KindLink, linkPattern, text)

	if loc := frontMatterPattern.FindStringIndex(text); loc != nil {
		idx.frontMatter = buffer.ByteOffset(loc[1])
		idx.regions[KindFrontMatter] = []Region{{Kind: KindFrontMatter, From: 0, To: idx.frontMatter}}
	}
	return idx
}

func (idx *Index) add(kind Kind, re *regexp.Regexp, text string) {
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return
	}
	regions := make([]Region, len(locs))
	for i, loc := range locs {
		regions[i] = Region{Kind: kind, From: buffer.ByteOffset(loc[0]), To: buffer.ByteOffset(loc[1])}
	}
	idx.regions[kind] = regions
}

// FrontMatterEnd returns the length of the leading front-matter block,
// or 0 when the text has none.
func (idx *Index) FrontMatterEnd() buffer.ByteOffset {
	return idx.frontMatter
}

// Regions returns the regions of the selected kinds sorted by start.
func (idx *Index) Regions(kinds Kind) []Region {
	var out []Region
	for _, k := range []Kind{KindFrontMatter, KindFencedCode, KindInlineCode, KindLink} {
		if kinds&k != 0 {
			out = append(out, idx.regions[k]...)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].From < out[j].From
	})
	return out
}

// Excluded reports whether [from, to) is reserved by one of the selected
// kinds. Code and link regions must contain the whole range; front-matter
// excludes any range that starts before its end.
func (idx *Index) Excluded(from, to buffer.ByteOffset, kinds Kind) bool {
	if kinds&KindFrontMatter != 0 && idx.frontMatter > 0 && from < idx.frontMatter {
		return true
	}
	for _, k := range []Kind{KindFencedCode, KindInlineCode, KindLink} {
		if kinds&k != 0 && containedIn(idx.regions[k], from, to) {
			return true
		}
	}
	return false
}

// containedIn reports whether a region of the sorted, non-overlapping
// list contains [from, to).
func containedIn(regions []Region, from, to buffer.ByteOffset) bool {
	// First region that ends at or after to; only it can contain the range.
	i := sort.Search(len(regions), func(i int) bool {
		return regions[i].To >= to
	})
	return i < len(regions) && regions[i].Contains(from, to)
}

// IsExcluded reports whether [from, to) lies in any reserved region of
// text. It scans text on every call; use Scan to check many ranges.
func IsExcluded(text string, from, to buffer.ByteOffset) bool {
	return Scan(text).Excluded(from, to, AllKinds)
}
