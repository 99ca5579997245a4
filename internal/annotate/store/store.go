// Package store holds the current decoration set of one document.
//
// The store is the single writer of decorations. Edits map the current set
// through their delta so highlights follow the text between passes, and
// completed passes replace the set wholesale. A pass computed on an older
// snapshot is brought forward by replaying the deltas logged since that
// snapshot.
package store

import (
	"fmt"
	"sync"

	"github.com/dshills/copyedit/internal/annotate/span"
	"github.com/dshills/copyedit/internal/engine/buffer"
)

// DefaultMaxDeltas is the default capacity of the delta log.
const DefaultMaxDeltas = 1024

// Option configures a Store.
type Option func(*Store)

// WithMaxDeltas sets the capacity of the delta log. Values below one are
// ignored.
func WithMaxDeltas(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.maxDeltas = n
		}
	}
}

// WithRevision sets the document revision the store starts at.
func WithRevision(rev buffer.Revision) Option {
	return func(s *Store) {
		s.revision = rev
	}
}

// WithEnabled sets the initial enabled state.
func WithEnabled(enabled bool) Option {
	return func(s *Store) {
		s.enabled = enabled
	}
}

type loggedDelta struct {
	revision buffer.Revision
	delta    buffer.Delta
}

// Store is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	enabled    bool
	spans      span.Set
	revision   buffer.Revision
	generation uint64

	// Ring buffer of deltas applied since the log was last cleared.
	deltas    []loggedDelta
	head      int
	count     int
	maxDeltas int

	// Highest revision dropped from the ring. Sets computed before it
	// cannot be replayed.
	evicted buffer.Revision
}

// New creates an empty, enabled store.
func New(opts ...Option) *Store {
	s := &Store{
		enabled:   true,
		maxDeltas: DefaultMaxDeltas,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.deltas = make([]loggedDelta, s.maxDeltas)
	return s
}

// Enabled reports whether the store accepts decorations.
func (s *Store) Enabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// SetEnabled switches annotation on or off and reports whether the state
// changed. Disabling clears the decorations and the delta log.
func (s *Store) SetEnabled(enabled bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.enabled == enabled {
		return false
	}
	s.enabled = enabled
	if !enabled {
		s.spans = nil
		s.clearLogLocked()
	}
	return true
}

// Decorations returns a copy of the current set.
func (s *Store) Decorations() span.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.spans.Clone()
}

// Revision returns the latest document revision the store has seen.
func (s *Store) Revision() buffer.Revision {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Generation returns the generation of the last accepted replace.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// ApplyEdit maps the current decorations through delta and records it as
// the edit producing revision rev. It is a no-op while disabled, apart
// from tracking the revision.
func (s *Store) ApplyEdit(delta buffer.Delta, rev buffer.Revision) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rev > s.revision {
		s.revision = rev
	}
	if !s.enabled {
		s.evicted = s.revision
		return
	}
	s.spans = s.spans.Map(delta)
	s.logDeltaLocked(rev, delta)
}

// Replace swaps in a set computed from the snapshot at revision rev by the
// pass numbered gen. Deltas logged after rev are replayed over the set
// before it becomes visible.
func (s *Store) Replace(set span.Set, rev buffer.Revision, gen uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.enabled {
		return ErrDisabled
	}
	if gen < s.generation {
		return fmt.Errorf("%w: %d < %d", ErrStaleGeneration, gen, s.generation)
	}
	if rev > s.revision {
		return fmt.Errorf("%w: %d > %d", ErrFutureRevision, rev, s.revision)
	}

	next := set.Clone()
	if rev < s.revision {
		if rev < s.evicted {
			return fmt.Errorf("%w: revision %d, oldest replayable %d", ErrStaleSnapshot, rev, s.evicted)
		}
		for i := 0; i < s.count; i++ {
			ld := s.deltas[(s.head+i)%s.maxDeltas]
			if ld.revision > rev {
				next = next.Map(ld.delta)
			}
		}
	}

	s.spans = next
	s.generation = gen
	s.trimLogLocked(rev)
	return nil
}

// Clear drops all decorations without changing the enabled state.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.spans = nil
}

// logDeltaLocked appends to the ring buffer (must hold lock).
func (s *Store) logDeltaLocked(rev buffer.Revision, delta buffer.Delta) {
	idx := (s.head + s.count) % s.maxDeltas
	if s.count < s.maxDeltas {
		s.count++
	} else {
		// Full: the oldest entry is lost.
		s.evicted = max(s.evicted, s.deltas[s.head].revision)
		s.head = (s.head + 1) % s.maxDeltas
	}
	s.deltas[idx] = loggedDelta{revision: rev, delta: delta}
}

// trimLogLocked drops deltas at or before rev (must hold lock).
func (s *Store) trimLogLocked(rev buffer.Revision) {
	for s.count > 0 && s.deltas[s.head].revision <= rev {
		s.evicted = max(s.evicted, s.deltas[s.head].revision)
		s.head = (s.head + 1) % s.maxDeltas
		s.count--
	}
}

func (s *Store) clearLogLocked() {
	s.head = 0
	s.count = 0
	s.evicted = s.revision
}
