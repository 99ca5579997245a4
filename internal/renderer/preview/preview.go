// Package preview draws a decorated document on a terminal screen.
package preview

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/copyedit/internal/annotate/category"
	"github.com/dshills/copyedit/internal/annotate/span"
	"github.com/dshills/copyedit/internal/renderer/style"
)

// Snapshot returns the text to draw and its decorations.
type Snapshot func() (string, span.Set)

// Options configures a View.
type Options struct {
	// Theme defaults to style.DefaultTheme.
	Theme *style.Theme

	// Title is shown on the status line.
	Title string

	// OnToggle is called when the user toggles a category with the
	// number keys 1-5 (parts of speech) or 6 (URLs).
	OnToggle func(c category.Category)

	// OnToggleEnabled is called when the user presses space.
	OnToggleEnabled func()
}

// View renders one document. Draw and HandleEvent must not be called
// concurrently with Run.
type View struct {
	screen tcell.Screen
	opts   Options

	mu   sync.Mutex
	top  int // first visible row
	rows int
}

// NewView creates a view on an initialized screen.
func NewView(screen tcell.Screen, opts Options) *View {
	if opts.Theme == nil {
		opts.Theme = style.DefaultTheme()
	}
	return &View{screen: screen, opts: opts}
}

// Draw renders text with its decorations and a status line, soft-wrapping
// long lines.
func (v *View) Draw(text string, spans span.Set) {
	v.mu.Lock()
	defer v.mu.Unlock()

	theme := v.opts.Theme
	width, height := v.screen.Size()
	v.screen.SetStyle(theme.Base)
	v.screen.Clear()
	if width <= 0 || height <= 0 {
		return
	}
	body := height - 1

	row, x := 0, 0
	next := 0 // index of the first span that may cover the current offset
	put := func(cluster string, w int, st tcell.Style) {
		if x+w > width && x > 0 {
			row++
			x = 0
		}
		if y := row - v.top; y >= 0 && y < body {
			runes := []rune(cluster)
			v.screen.SetContent(x, y, runes[0], runes[1:], st)
		}
		x += w
	}

	state := -1
	rest := text
	offset := 0
	for len(rest) > 0 {
		var cluster string
		var w int
		cluster, rest, w, state = uniseg.FirstGraphemeClusterInString(rest, state)
		start := offset
		offset += len(cluster)

		if cluster == "\n" || cluster == "\r\n" {
			row++
			x = 0
			continue
		}
		if cluster == "\t" {
			cluster, w = " ", 4-x%4
		}
		if w == 0 {
			w = 1
		}

		st := theme.Base
		for next < len(spans) && int(spans[next].To) <= start {
			next++
		}
		if next < len(spans) && int(spans[next].From) <= start {
			st = theme.StyleFor(spans[next].Category)
		}
		if cluster == " " && w > 1 {
			for i := 0; i < w; i++ {
				put(" ", 1, st)
			}
			continue
		}
		put(cluster, w, st)
	}
	v.rows = row + 1

	v.drawStatus(width, height-1, spans)
}

// drawStatus renders the legend with per-category counts.
func (v *View) drawStatus(width, y int, spans span.Set) {
	theme := v.opts.Theme
	for x := 0; x < width; x++ {
		v.screen.SetContent(x, y, ' ', nil, theme.Status)
	}

	x := 0
	write := func(s string, st tcell.Style) {
		for _, r := range s {
			if x >= width {
				return
			}
			v.screen.SetContent(x, y, r, nil, st)
			x += uniseg.StringWidth(string(r))
		}
	}

	if v.opts.Title != "" {
		write(" "+v.opts.Title+" ", theme.Status)
	}
	counts := spans.Count()
	for i, c := range append(append([]category.Category{}, category.Grammatical...), category.URL) {
		write(" ", theme.Status)
		write(fmt.Sprintf("%d:%s %d", i+1, c, counts[c]), theme.StyleFor(c))
	}
}

// Legend returns the status line text without styling.
func Legend(spans span.Set) string {
	counts := spans.Count()
	var parts []string
	for i, c := range append(append([]category.Category{}, category.Grammatical...), category.URL) {
		parts = append(parts, fmt.Sprintf("%d:%s %d", i+1, c, counts[c]))
	}
	return strings.Join(parts, " ")
}

// Scroll moves the view by delta rows, clamped to the document.
func (v *View) Scroll(delta int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.top = max(0, min(v.top+delta, v.rows-1))
}

// Top returns the first visible row.
func (v *View) Top() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.top
}

// HandleEvent applies a key or resize event. It reports whether the user
// asked to quit.
func (v *View) HandleEvent(ev tcell.Event) (quit bool) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		_, height := v.screen.Size()
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return true
		case tcell.KeyUp:
			v.Scroll(-1)
		case tcell.KeyDown:
			v.Scroll(1)
		case tcell.KeyPgUp:
			v.Scroll(-(height - 1))
		case tcell.KeyPgDn:
			v.Scroll(height - 1)
		case tcell.KeyRune:
			return v.handleRune(ev.Rune())
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return false
}

func (v *View) handleRune(r rune) bool {
	switch {
	case r == 'q':
		return true
	case r == ' ':
		if v.opts.OnToggleEnabled != nil {
			v.opts.OnToggleEnabled()
		}
	case r >= '1' && r <= '5':
		if v.opts.OnToggle != nil {
			v.opts.OnToggle(category.Grammatical[r-'1'])
		}
	case r == '6':
		if v.opts.OnToggle != nil {
			v.opts.OnToggle(category.URL)
		}
	}
	return false
}

// Run draws snapshot whenever refresh fires or an input event arrives,
// until the user quits or ctx is canceled.
func (v *View) Run(ctx context.Context, snapshot Snapshot, refresh <-chan struct{}) error {
	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go v.screen.ChannelEvents(events, quit)
	defer close(quit)

	redraw := func() {
		text, spans := snapshot()
		v.Draw(text, spans)
		v.screen.Show()
	}
	redraw()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-refresh:
			redraw()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if v.HandleEvent(ev) {
				return nil
			}
			redraw()
		}
	}
}
