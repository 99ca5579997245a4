package category

import (
	"fmt"
	"strings"
)

// Set is the set of grammatical categories enabled by configuration.
// The zero value is empty; use All for the default.
type Set uint8

// All returns the set with every grammatical category enabled.
func All() Set {
	return NewSet(Grammatical...)
}

// NewSet builds a set from categories. URL is ignored: URL highlighting
// is switched independently of the part-of-speech set.
func NewSet(cats ...Category) Set {
	var s Set
	for _, c := range cats {
		s = s.With(c)
	}
	return s
}

// ParseSet builds a set from config names. A nil list means "unset" and
// yields All; an empty non-nil list yields the empty set.
func ParseSet(names []string) (Set, error) {
	if names == nil {
		return All(), nil
	}
	var s Set
	for _, name := range names {
		c, err := Parse(name)
		if err != nil {
			return 0, err
		}
		s = s.With(c)
	}
	return s, nil
}

// Has reports whether c is in the set.
func (s Set) Has(c Category) bool {
	return c.IsGrammatical() && s&(1<<c) != 0
}

// With returns a copy of the set with c added.
func (s Set) With(c Category) Set {
	if !c.IsGrammatical() {
		return s
	}
	return s | 1<<c
}

// Without returns a copy of the set with c removed.
func (s Set) Without(c Category) Set {
	if !c.IsGrammatical() {
		return s
	}
	return s &^ (1 << c)
}

// Toggle flips membership of c.
func (s Set) Toggle(c Category) Set {
	if s.Has(c) {
		return s.Without(c)
	}
	return s.With(c)
}

// IsEmpty reports whether no category is enabled.
func (s Set) IsEmpty() bool {
	return s == 0
}

// Categories returns the members in canonical order.
func (s Set) Categories() []Category {
	var out []Category
	for _, c := range Grammatical {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// ConfigNames returns the members' plural config names in canonical order.
func (s Set) ConfigNames() []string {
	cats := s.Categories()
	out := make([]string, len(cats))
	for i, c := range cats {
		out[i] = c.ConfigName()
	}
	return out
}

// String returns a human-readable representation of the set.
func (s Set) String() string {
	return fmt.Sprintf("{%s}", strings.Join(s.ConfigNames(), ","))
}
