package buffer

import (
	"strings"
	"sync"
	"testing"
)

func TestBuffer_Apply(t *testing.T) {
	buf := NewBufferFromString("Hello, World!")

	change, err := buf.Insert(7, "Beautiful ")
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if got := buf.Text(); got != "Hello, Beautiful World!" {
		t.Errorf("expected 'Hello, Beautiful World!', got %q", got)
	}
	if change.Revision != 1 || buf.Revision() != 1 {
		t.Errorf("expected revision 1, got %d / %d", change.Revision, buf.Revision())
	}
	if change.Delta != (Delta{From: 7, To: 7, InsertedLen: 10}) {
		t.Errorf("unexpected delta %v", change.Delta)
	}

	change, err = buf.Delete(0, 7)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if change.OldText != "Hello, " {
		t.Errorf("expected OldText 'Hello, ', got %q", change.OldText)
	}
	if change.Delta.NetChange() != -7 {
		t.Errorf("expected net change -7, got %d", change.Delta.NetChange())
	}

	text, rev := buf.Snapshot()
	if text != "Beautiful World!" || rev != 2 {
		t.Errorf("unexpected snapshot %q@%d", text, rev)
	}
}

func TestBuffer_ApplyErrors(t *testing.T) {
	buf := NewBufferFromString("abc")

	if _, err := buf.Insert(10, "x"); err != ErrOffsetOutOfRange {
		t.Errorf("expected ErrOffsetOutOfRange, got %v", err)
	}
	if _, err := buf.Delete(2, 1); err != ErrRangeInvalid {
		t.Errorf("expected ErrRangeInvalid, got %v", err)
	}
	if buf.Revision() != 0 {
		t.Errorf("failed edits must not bump the revision, got %d", buf.Revision())
	}
}

func TestBuffer_Listeners(t *testing.T) {
	buf := NewBuffer()
	var got []Change
	buf.OnChange(func(c Change) {
		// Listeners run unlocked, so reading back is allowed.
		_ = buf.Text()
		got = append(got, c)
	})

	_, _ = buf.Insert(0, "one")
	_, _ = buf.Replace(0, 3, "two!")

	if len(got) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(got))
	}
	if got[1].OldText != "one" || got[1].NewText != "two!" || got[1].Revision != 2 {
		t.Errorf("unexpected second change %+v", got[1])
	}
}

func TestBuffer_SetText(t *testing.T) {
	buf := NewBufferFromString("The quick fox")

	change, err := buf.SetText("The quick brown fox")
	if err != nil {
		t.Fatalf("SetText failed: %v", err)
	}
	if change.Delta != (Delta{From: 10, To: 10, InsertedLen: 6}) {
		t.Errorf("unexpected delta %v", change.Delta)
	}

	change, _ = buf.SetText("The quick brown fox")
	if change.Revision != 0 || buf.Revision() != 1 {
		t.Errorf("no-op SetText should not bump revision, got %d", buf.Revision())
	}
}

func TestBuffer_ConcurrentSetText(t *testing.T) {
	base := strings.Repeat("lorem ipsum dolor sit amet ", 2000)
	texts := []string{
		base + "hello brave new world!",
		"goodbye " + base + "cruel world",
	}

	for round := 0; round < 50; round++ {
		buf := NewBufferFromString(base)

		var (
			mu      sync.Mutex
			changes []Change
		)
		buf.OnChange(func(c Change) {
			mu.Lock()
			defer mu.Unlock()
			changes = append(changes, c)
		})

		start := make(chan struct{})
		var wg sync.WaitGroup
		for _, text := range texts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				<-start
				if _, err := buf.SetText(text); err != nil {
					t.Errorf("SetText failed: %v", err)
				}
			}()
		}
		close(start)
		wg.Wait()

		final := buf.Text()
		if final != texts[0] && final != texts[1] {
			t.Fatalf("round %d: buffer holds neither input (tail %q)", round, final[max(0, len(final)-30):])
		}

		// Replaying the delivered changes in order must rebuild the text.
		mu.Lock()
		replayed := base
		for i, c := range changes {
			if c.Revision != Revision(i+1) {
				t.Fatalf("round %d: change %d has revision %d", round, i, c.Revision)
			}
			replayed = replayed[:c.Delta.From] + c.NewText + replayed[c.Delta.To:]
		}
		mu.Unlock()
		if replayed != final {
			t.Fatalf("round %d: replayed changes do not match the buffer", round)
		}
	}
}

func TestBuffer_ListenerEditsAreDeliveredInOrder(t *testing.T) {
	buf := NewBufferFromString("ab")
	var revisions []Revision
	buf.OnChange(func(c Change) {
		revisions = append(revisions, c.Revision)
		if c.Revision == 1 {
			if _, err := buf.Insert(0, "x"); err != nil {
				t.Errorf("Insert from listener failed: %v", err)
			}
		}
	})

	if _, err := buf.Insert(2, "c"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if buf.Text() != "xabc" {
		t.Errorf("Text() = %q, want %q", buf.Text(), "xabc")
	}
	if len(revisions) != 2 || revisions[0] != 1 || revisions[1] != 2 {
		t.Errorf("expected revisions [1 2], got %v", revisions)
	}
}

func TestNewBufferFromReader_NormalizesLineEndings(t *testing.T) {
	buf, err := NewBufferFromReader(strings.NewReader("a\r\nb\rc\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := buf.Text(); got != "a\nb\nc\n" {
		t.Errorf("expected normalized text, got %q", got)
	}
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		old, new string
		expected Edit
	}{
		{"insert middle", "abc", "abXc", NewInsert(2, "X")},
		{"delete tail", "aaa", "aa", NewDelete(2, 3)},
		{"replace word", "a cat sat", "a dog sat", NewReplace(2, 5, "dog")},
		{"identical", "same", "same", NewInsert(4, "")},
		{"multibyte", "naïve", "naive", NewReplace(2, 4, "i")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if got != tt.expected {
				t.Errorf("Diff(%q, %q) = %v, expected %v", tt.old, tt.new, got, tt.expected)
			}
			applied := tt.old[:got.Range.Start] + got.NewText + tt.old[got.Range.End:]
			if applied != tt.new {
				t.Errorf("applying diff gave %q, expected %q", applied, tt.new)
			}
		})
	}
}

func TestDelta_MapPos(t *testing.T) {
	insert := Delta{From: 5, To: 5, InsertedLen: 3}
	del := Delta{From: 5, To: 10, InsertedLen: 0}
	replace := Delta{From: 5, To: 10, InsertedLen: 2}

	tests := []struct {
		name     string
		delta    Delta
		pos      ByteOffset
		assoc    int
		expected ByteOffset
	}{
		{"before insert", insert, 2, 1, 2},
		{"after insert", insert, 8, 1, 11},
		{"at insert sticks left", insert, 5, -1, 5},
		{"at insert sticks right", insert, 5, 1, 8},
		{"inside delete left", del, 7, -1, 5},
		{"inside delete right", del, 7, 1, 5},
		{"end of delete", del, 10, -1, 5},
		{"after delete", del, 12, 1, 7},
		{"inside replace left", replace, 7, -1, 5},
		{"inside replace right", replace, 7, 1, 7},
		{"end of replace", replace, 10, -1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.delta.MapPos(tt.pos, tt.assoc); got != tt.expected {
				t.Errorf("MapPos(%d, %d) = %d, expected %d", tt.pos, tt.assoc, got, tt.expected)
			}
		})
	}
}

func TestRange(t *testing.T) {
	r := Range{Start: 4, End: 10}

	tests := []struct {
		other    Range
		encloses bool
		overlaps bool
	}{
		{Range{4, 10}, true, true},
		{Range{5, 7}, true, true},
		{Range{2, 5}, false, true},
		{Range{9, 12}, false, true},
		{Range{10, 12}, false, false},
		{Range{0, 4}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.other.String(), func(t *testing.T) {
			if got := r.Encloses(tt.other); got != tt.encloses {
				t.Errorf("Encloses(%v) = %v, want %v", tt.other, got, tt.encloses)
			}
			if got := r.Overlaps(tt.other); got != tt.overlaps {
				t.Errorf("Overlaps(%v) = %v, want %v", tt.other, got, tt.overlaps)
			}
		})
	}

	if !(Range{3, 3}).IsEmpty() || (Range{5, 3}).IsValid() {
		t.Error("unexpected IsEmpty/IsValid result")
	}
}
