package store

import (
	"errors"
	"testing"

	"github.com/dshills/copyedit/internal/annotate/category"
	"github.com/dshills/copyedit/internal/annotate/span"
	"github.com/dshills/copyedit/internal/engine/buffer"
)

func noun(from, to buffer.ByteOffset) span.Span {
	return span.New(from, to, category.Noun)
}

func TestStore_ApplyEdit(t *testing.T) {
	tests := []struct {
		name     string
		delta    buffer.Delta
		expected span.Set
	}{
		{"insert before shifts", buffer.Delta{From: 0, To: 0, InsertedLen: 5}, span.Set{noun(15, 19)}},
		{"insert after unchanged", buffer.Delta{From: 20, To: 20, InsertedLen: 3}, span.Set{noun(10, 14)}},
		{"insert at start pushes right", buffer.Delta{From: 10, To: 10, InsertedLen: 2}, span.Set{noun(12, 16)}},
		{"insert at end unchanged", buffer.Delta{From: 14, To: 14, InsertedLen: 2}, span.Set{noun(10, 14)}},
		{"delete before shifts left", buffer.Delta{From: 2, To: 6, InsertedLen: 0}, span.Set{noun(6, 10)}},
		{"delete overlapping start clips", buffer.Delta{From: 8, To: 12, InsertedLen: 0}, span.Set{noun(8, 10)}},
		{"delete covering drops", buffer.Delta{From: 9, To: 15, InsertedLen: 0}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			if err := s.Replace(span.Set{noun(10, 14)}, 0, 1); err != nil {
				t.Fatalf("Replace failed: %v", err)
			}
			s.ApplyEdit(tt.delta, 1)

			got := s.Decorations()
			if !got.Equal(tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
			if s.Revision() != 1 {
				t.Errorf("expected revision 1, got %d", s.Revision())
			}
		})
	}
}

func TestStore_SetEnabled(t *testing.T) {
	s := New()
	if err := s.Replace(span.Set{noun(0, 4)}, 0, 1); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	if s.SetEnabled(true) {
		t.Error("enabling an enabled store should report no change")
	}
	if !s.SetEnabled(false) {
		t.Error("disabling should report a change")
	}
	if len(s.Decorations()) != 0 {
		t.Errorf("expected decorations cleared, got %v", s.Decorations())
	}
	if err := s.Replace(span.Set{noun(0, 4)}, 0, 2); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}

	s.ApplyEdit(buffer.Delta{From: 0, To: 0, InsertedLen: 1}, 1)
	s.SetEnabled(true)
	if len(s.Decorations()) != 0 {
		t.Error("re-enabling should not restore old decorations")
	}
	if err := s.Replace(span.Set{noun(0, 4)}, 0, 3); !errors.Is(err, ErrStaleSnapshot) {
		t.Errorf("expected ErrStaleSnapshot for a pass predating edits made while disabled, got %v", err)
	}
	if err := s.Replace(span.Set{noun(1, 5)}, 1, 3); err != nil {
		t.Errorf("expected current pass to be accepted, got %v", err)
	}
}

func TestStore_Generations(t *testing.T) {
	s := New()
	if err := s.Replace(span.Set{noun(0, 4)}, 0, 5); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if err := s.Replace(span.Set{noun(6, 9)}, 0, 4); !errors.Is(err, ErrStaleGeneration) {
		t.Errorf("expected ErrStaleGeneration, got %v", err)
	}
	if got := s.Decorations(); !got.Equal(span.Set{noun(0, 4)}) {
		t.Errorf("stale replace must not change decorations, got %v", got)
	}
	if err := s.Replace(span.Set{noun(6, 9)}, 0, 5); err != nil {
		t.Errorf("same generation should be accepted, got %v", err)
	}
	if s.Generation() != 5 {
		t.Errorf("expected generation 5, got %d", s.Generation())
	}
}

func TestStore_ReplaceNeverMerges(t *testing.T) {
	s := New()
	_ = s.Replace(span.Set{noun(0, 4), noun(10, 14)}, 0, 1)
	_ = s.Replace(span.Set{noun(20, 24)}, 0, 2)

	if got := s.Decorations(); !got.Equal(span.Set{noun(20, 24)}) {
		t.Errorf("expected only the new set, got %v", got)
	}
}

func TestStore_ReplayDeltas(t *testing.T) {
	s := New()

	// A pass starts at revision 0, then two edits land before it finishes.
	s.ApplyEdit(buffer.Delta{From: 0, To: 0, InsertedLen: 5}, 1)
	s.ApplyEdit(buffer.Delta{From: 20, To: 20, InsertedLen: 2}, 2)

	if err := s.Replace(span.Set{noun(10, 14), noun(25, 30)}, 0, 1); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	expected := span.Set{noun(15, 19), noun(32, 37)}
	if got := s.Decorations(); !got.Equal(expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}

	// Deltas up to the replaced revision are consumed.
	if err := s.Replace(span.Set{noun(0, 1)}, 2, 2); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	if got := s.Decorations(); !got.Equal(span.Set{noun(0, 1)}) {
		t.Errorf("expected no replay at current revision, got %v", got)
	}
}

func TestStore_StaleSnapshot(t *testing.T) {
	s := New(WithMaxDeltas(2))
	for rev := buffer.Revision(1); rev <= 3; rev++ {
		s.ApplyEdit(buffer.Delta{From: 0, To: 0, InsertedLen: 1}, rev)
	}

	if err := s.Replace(span.Set{noun(0, 4)}, 0, 1); !errors.Is(err, ErrStaleSnapshot) {
		t.Errorf("expected ErrStaleSnapshot, got %v", err)
	}
	if err := s.Replace(span.Set{noun(0, 4)}, 1, 1); err != nil {
		t.Errorf("expected replay from revision 1 to succeed, got %v", err)
	}
	if got := s.Decorations(); !got.Equal(span.Set{noun(2, 6)}) {
		t.Errorf("expected %v, got %v", span.Set{noun(2, 6)}, got)
	}
}

func TestStore_FutureRevision(t *testing.T) {
	s := New(WithRevision(3))
	if err := s.Replace(span.Set{noun(0, 4)}, 4, 1); !errors.Is(err, ErrFutureRevision) {
		t.Errorf("expected ErrFutureRevision, got %v", err)
	}
	if err := s.Replace(span.Set{noun(0, 4)}, 3, 1); err != nil {
		t.Errorf("expected replace at initial revision to succeed, got %v", err)
	}
}

func TestStore_DecorationsIsCopy(t *testing.T) {
	s := New()
	_ = s.Replace(span.Set{noun(0, 4)}, 0, 1)

	got := s.Decorations()
	got[0].From = 2

	if s.Decorations()[0].From != 0 {
		t.Error("mutating the returned set changed the store")
	}
}
