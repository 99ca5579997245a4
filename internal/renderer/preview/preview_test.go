package preview

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/copyedit/internal/annotate/category"
	"github.com/dshills/copyedit/internal/annotate/span"
	"github.com/dshills/copyedit/internal/renderer/style"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func cell(s tcell.Screen, x, y int) (rune, tcell.Style) {
	r, _, st, _ := s.GetContent(x, y)
	return r, st
}

func TestView_DrawStyles(t *testing.T) {
	screen := newScreen(t, 40, 5)
	theme := style.DefaultTheme()
	v := NewView(screen, Options{Theme: theme})

	text := "the dog runs\nsee https://a.io"
	spans := span.NewSet(
		span.New(4, 7, category.Noun),
		span.New(8, 12, category.Verb),
		span.New(17, 29, category.URL),
	)
	v.Draw(text, spans)

	tests := []struct {
		x, y int
		r    rune
		st   tcell.Style
	}{
		{0, 0, 't', theme.Base},
		{4, 0, 'd', theme.StyleFor(category.Noun)},
		{6, 0, 'g', theme.StyleFor(category.Noun)},
		{7, 0, ' ', theme.Base},
		{8, 0, 'r', theme.StyleFor(category.Verb)},
		{4, 1, 'h', theme.StyleFor(category.URL)},
		{15, 1, 'o', theme.StyleFor(category.URL)},
	}
	for _, tt := range tests {
		r, st := cell(screen, tt.x, tt.y)
		if r != tt.r {
			t.Errorf("rune at (%d,%d) = %q, want %q", tt.x, tt.y, r, tt.r)
		}
		if st != tt.st {
			t.Errorf("style at (%d,%d) = %v, want %v", tt.x, tt.y, st, tt.st)
		}
	}
}

func TestView_MultiByteOffsets(t *testing.T) {
	screen := newScreen(t, 20, 3)
	theme := style.DefaultTheme()
	v := NewView(screen, Options{Theme: theme})

	// "café" is five bytes, so byte and cell offsets differ after it.
	text := "café naïve"
	v.Draw(text, span.NewSet(span.New(6, 12, category.Adjective)))

	if r, st := cell(screen, 3, 0); r != 'é' || st != theme.Base {
		t.Errorf("cell 3 = %q %v", r, st)
	}
	if r, st := cell(screen, 5, 0); r != 'n' || st != theme.StyleFor(category.Adjective) {
		t.Errorf("cell 5 = %q, want styled n", r)
	}
	if r, st := cell(screen, 7, 0); r != 'ï' || st != theme.StyleFor(category.Adjective) {
		t.Errorf("cell 7 = %q, want styled ï", r)
	}
}

func TestView_WrapAndScroll(t *testing.T) {
	screen := newScreen(t, 5, 3)
	v := NewView(screen, Options{})

	text := "abcdefghij\nk"
	v.Draw(text, nil)

	if r, _ := cell(screen, 0, 1); r != 'f' {
		t.Errorf("expected wrapped row to start with f, got %q", r)
	}

	v.Scroll(1)
	v.Draw(text, nil)
	if r, _ := cell(screen, 0, 1); r != 'k' {
		t.Errorf("expected k after scrolling, got %q", r)
	}

	v.Scroll(100)
	if v.Top() != 2 {
		t.Errorf("Top() = %d, want 2", v.Top())
	}
	v.Scroll(-100)
	if v.Top() != 0 {
		t.Errorf("Top() = %d, want 0", v.Top())
	}
}

func TestView_StatusLine(t *testing.T) {
	screen := newScreen(t, 80, 3)
	v := NewView(screen, Options{Title: "doc.md"})

	spans := span.NewSet(span.New(0, 1, category.Noun), span.New(2, 3, category.Noun))
	v.Draw("a b", spans)

	var b strings.Builder
	for x := 0; x < 80; x++ {
		r, _ := cell(screen, x, 2)
		b.WriteRune(r)
	}
	line := b.String()
	if !strings.Contains(line, "doc.md") || !strings.Contains(line, "1:noun 2") || !strings.Contains(line, "6:url 0") {
		t.Errorf("unexpected status line %q", line)
	}
	if Legend(spans) != "1:noun 2 2:verb 0 3:adjective 0 4:adverb 0 5:conjunction 0 6:url 0" {
		t.Errorf("Legend() = %q", Legend(spans))
	}
}

func TestView_HandleEvent(t *testing.T) {
	screen := newScreen(t, 10, 4)
	var toggled []category.Category
	enabled := 0
	v := NewView(screen, Options{
		OnToggle:        func(c category.Category) { toggled = append(toggled, c) },
		OnToggleEnabled: func() { enabled++ },
	})

	key := func(k tcell.Key, r rune) *tcell.EventKey {
		return tcell.NewEventKey(k, r, tcell.ModNone)
	}

	if v.HandleEvent(key(tcell.KeyRune, '2')) {
		t.Error("2 should not quit")
	}
	v.HandleEvent(key(tcell.KeyRune, '6'))
	v.HandleEvent(key(tcell.KeyRune, ' '))

	if len(toggled) != 2 || toggled[0] != category.Verb || toggled[1] != category.URL {
		t.Errorf("toggled = %v", toggled)
	}
	if enabled != 1 {
		t.Errorf("enabled toggles = %d, want 1", enabled)
	}
	if !v.HandleEvent(key(tcell.KeyRune, 'q')) || !v.HandleEvent(key(tcell.KeyEscape, 0)) {
		t.Error("q and Esc should quit")
	}
}
