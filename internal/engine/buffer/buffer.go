package buffer

import (
	"errors"
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

// Errors returned by buffer operations.
var (
	ErrOffsetOutOfRange = errors.New("offset out of range")
	ErrRangeInvalid     = errors.New("invalid range")
)

// Revision is the buffer's edit sequence number. It starts at zero and
// increases by one with every applied edit.
type Revision uint64

// Listener is called after an edit has been applied.
type Listener func(Change)

// Buffer is a mutable text document.
// All methods are thread-safe. Listeners see changes one at a time in
// revision order; an edit made while listeners run (from a listener or
// another goroutine) is delivered after them, so Apply may return before
// its own change has reached every listener.
type Buffer struct {
	mu        sync.RWMutex
	text      string
	revision  Revision
	listeners []Listener

	pending    []Change
	delivering bool
}

// NewBuffer creates a new empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// NewBufferFromString creates a buffer with initial content.
func NewBufferFromString(s string) *Buffer {
	return &Buffer{text: normalizeLineEndings(s)}
}

// NewBufferFromReader creates a buffer from an io.Reader.
func NewBufferFromReader(r io.Reader) (*Buffer, error) {
	// Read everything first: CRLF pairs may straddle read boundaries.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewBufferFromString(string(data)), nil
}

// normalizeLineEndings converts CRLF and CR line endings to LF.
func normalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Text returns the full buffer content.
func (b *Buffer) Text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text
}

// Len returns the buffer length in bytes.
func (b *Buffer) Len() ByteOffset {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return ByteOffset(len(b.text))
}

// Revision returns the current revision.
func (b *Buffer) Revision() Revision {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.revision
}

// Snapshot returns the text together with the revision it belongs to.
func (b *Buffer) Snapshot() (string, Revision) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.text, b.revision
}

// OnChange registers a listener for applied edits.
func (b *Buffer) OnChange(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

// Insert inserts text at the given offset.
func (b *Buffer) Insert(offset ByteOffset, text string) (Change, error) {
	return b.Apply(NewInsert(offset, text))
}

// Delete removes the text in [start, end).
func (b *Buffer) Delete(start, end ByteOffset) (Change, error) {
	return b.Apply(NewDelete(start, end))
}

// Replace replaces [start, end) with text.
func (b *Buffer) Replace(start, end ByteOffset, text string) (Change, error) {
	return b.Apply(NewReplace(start, end, text))
}

// SetText replaces the whole content, expressed as the smallest single
// edit between the old and new text. A no-op returns a zero Change and
// does not bump the revision.
func (b *Buffer) SetText(text string) (Change, error) {
	text = normalizeLineEndings(text)

	b.mu.Lock()
	edit := Diff(b.text, text)
	if edit.IsNoOp() {
		b.mu.Unlock()
		return Change{}, nil
	}
	change, err := b.applyLocked(edit)
	if err != nil {
		b.mu.Unlock()
		return Change{}, err
	}
	b.deliverLocked(change)
	return change, nil
}

// Apply applies an edit and notifies listeners.
func (b *Buffer) Apply(edit Edit) (Change, error) {
	b.mu.Lock()
	change, err := b.applyLocked(edit)
	if err != nil {
		b.mu.Unlock()
		return Change{}, err
	}
	b.deliverLocked(change)
	return change, nil
}

// applyLocked applies edit and bumps the revision. b.mu must be held.
func (b *Buffer) applyLocked(edit Edit) (Change, error) {
	if !edit.Range.IsValid() {
		return Change{}, ErrRangeInvalid
	}
	if edit.Range.Start < 0 || edit.Range.End > ByteOffset(len(b.text)) {
		return Change{}, ErrOffsetOutOfRange
	}

	oldText := b.text[edit.Range.Start:edit.Range.End]
	b.text = b.text[:edit.Range.Start] + edit.NewText + b.text[edit.Range.End:]
	b.revision++

	return Change{
		Delta:    edit.Delta(),
		OldText:  oldText,
		NewText:  edit.NewText,
		Revision: b.revision,
	}, nil
}

// deliverLocked queues change and, unless another call is already
// delivering, drains the queue to the listeners in revision order.
// It must be called with b.mu held and returns with it released.
func (b *Buffer) deliverLocked(change Change) {
	b.pending = append(b.pending, change)
	if b.delivering {
		b.mu.Unlock()
		return
	}
	b.delivering = true

	for len(b.pending) > 0 {
		batch := b.pending
		b.pending = nil
		listeners := make([]Listener, len(b.listeners))
		copy(listeners, b.listeners)
		b.mu.Unlock()

		for _, c := range batch {
			for _, l := range listeners {
				l(c)
			}
		}
		b.mu.Lock()
	}
	b.delivering = false
	b.mu.Unlock()
}

// Diff returns a single edit that turns oldText into newText by trimming
// their common prefix and suffix. Boundaries never split a UTF-8 sequence.
func Diff(oldText, newText string) Edit {
	prefix := 0
	limit := min(len(oldText), len(newText))
	for prefix < limit && oldText[prefix] == newText[prefix] {
		prefix++
	}
	for prefix > 0 && prefix < len(oldText) && !utf8.RuneStart(oldText[prefix]) {
		prefix--
	}

	suffix := 0
	limit -= prefix
	for suffix < limit && oldText[len(oldText)-1-suffix] == newText[len(newText)-1-suffix] {
		suffix++
	}
	for suffix > 0 && !utf8.RuneStart(oldText[len(oldText)-suffix]) {
		suffix--
	}

	return Edit{
		Range: Range{
			Start: ByteOffset(prefix),
			End:   ByteOffset(len(oldText) - suffix),
		},
		NewText: newText[prefix : len(newText)-suffix],
	}
}
