package buffer

import "fmt"

// ByteOffset is a position in the text, counted in bytes from the start.
type ByteOffset = int64

// Range is the half-open byte interval [Start, End).
type Range struct {
	Start ByteOffset
	End   ByteOffset
}

func (r Range) String() string {
	return fmt.Sprintf("[%d:%d)", r.Start, r.End)
}

// IsEmpty reports whether the range covers no bytes. An empty range is
// an insertion point.
func (r Range) IsEmpty() bool {
	return r.Start == r.End
}

// IsValid reports whether Start <= End.
func (r Range) IsValid() bool {
	return r.Start <= r.End
}

// Encloses reports whether other lies entirely inside r.
func (r Range) Encloses(other Range) bool {
	return other.Start >= r.Start && other.End <= r.End
}

// Overlaps reports whether the ranges share at least one byte.
func (r Range) Overlaps(other Range) bool {
	return r.Start < other.End && other.Start < r.End
}
