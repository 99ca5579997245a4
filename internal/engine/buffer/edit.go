package buffer

import "fmt"

// Edit represents a text edit operation.
// It specifies a range to replace and the new text.
type Edit struct {
	Range   Range  // The range to replace
	NewText string // The replacement text
}

// NewInsert creates an Edit that inserts text at a position.
func NewInsert(offset ByteOffset, text string) Edit {
	return Edit{Range: Range{Start: offset, End: offset}, NewText: text}
}

// NewDelete creates an Edit that deletes a range of text.
func NewDelete(start, end ByteOffset) Edit {
	return Edit{Range: Range{Start: start, End: end}}
}

// NewReplace creates an Edit that replaces a range with text.
func NewReplace(start, end ByteOffset, text string) Edit {
	return Edit{Range: Range{Start: start, End: end}, NewText: text}
}

// String returns a human-readable representation of the edit.
func (e Edit) String() string {
	if e.Range.IsEmpty() {
		return fmt.Sprintf("Insert(%d, %q)", e.Range.Start, e.NewText)
	}
	if e.NewText == "" {
		return fmt.Sprintf("Delete%s", e.Range.String())
	}
	return fmt.Sprintf("Replace%s with %q", e.Range.String(), e.NewText)
}

// IsNoOp returns true if this edit does nothing.
func (e Edit) IsNoOp() bool {
	return e.Range.IsEmpty() && e.NewText == ""
}

// Delta returns the position delta this edit produces.
func (e Edit) Delta() Delta {
	return Delta{
		From:        e.Range.Start,
		To:          e.Range.End,
		InsertedLen: ByteOffset(len(e.NewText)),
	}
}

// Delta describes an applied edit without its text: the old range
// [From, To) was replaced by InsertedLen bytes.
type Delta struct {
	From        ByteOffset
	To          ByteOffset
	InsertedLen ByteOffset
}

// String returns a human-readable representation of the delta.
func (d Delta) String() string {
	return fmt.Sprintf("[%d:%d)+%d", d.From, d.To, d.InsertedLen)
}

// NetChange returns the change in document length.
func (d Delta) NetChange() ByteOffset {
	return d.InsertedLen - (d.To - d.From)
}

// MapPos maps a position in the old text to the new text.
//
// Positions before the edit are unchanged and positions after it shift by
// NetChange. A position inside the replaced range collapses to the start
// of the inserted text when assoc < 0 and to its end otherwise. The same
// rule applies to a position sitting exactly at a pure insertion point.
func (d Delta) MapPos(pos ByteOffset, assoc int) ByteOffset {
	switch {
	case pos < d.From:
		return pos
	case pos > d.To:
		return pos + d.NetChange()
	case pos == d.To && d.From < d.To:
		return d.From + d.InsertedLen
	case assoc < 0:
		return d.From
	default:
		return d.From + d.InsertedLen
	}
}

// Change is delivered to buffer listeners after every applied edit.
type Change struct {
	Delta    Delta
	OldText  string
	NewText  string
	Revision Revision
}
