package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/copyedit/internal/annotate/category"
	"github.com/dshills/copyedit/internal/annotate/span"
	"github.com/dshills/copyedit/internal/config"
	"github.com/dshills/copyedit/internal/event"
	"github.com/dshills/copyedit/internal/renderer/preview"
	"github.com/dshills/copyedit/internal/renderer/style"
)

// PreviewCmd shows a live, colored view of a document.
type PreviewCmd struct {
	Path  string `arg:"" type:"existingfile" help:"Markdown file to preview"`
	Theme string `default:"dark" help:"Color theme (dark, light)"`
}

// Run draws the document until the user quits.
func (c *PreviewCmd) Run(g *Globals, kctx *kong.Context) error {
	theme, err := style.ThemeByName(c.Theme)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := startDocument(ctx, g, c.Path, kctx.Stderr)
	if err != nil {
		return err
	}
	defer d.Close()
	// Log lines would tear the screen; only keep them when asked for.
	if g.LogLevel == "" {
		d.session.log.SetOutput(io.Discard)
	}

	refresh := make(chan struct{}, 1)
	_, err = d.bus.Subscribe(event.TopicDecorationsUpdated,
		event.Typed(func(context.Context, event.Event[event.DecorationsUpdated]) error {
			select {
			case refresh <- struct{}{}:
			default:
			}
			return nil
		}),
		event.WithPriority(event.PriorityLow),
	)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	toggles := &settingsToggler{doc: d, settingsPath: g.Config}
	view := preview.NewView(screen, preview.Options{
		Theme:    theme,
		Title:    filepath.Base(c.Path),
		OnToggle: toggles.toggle,
		OnToggleEnabled: func() {
			d.annotator.SetEnabled(!d.annotator.Enabled())
		},
	})

	d.annotator.Refresh()
	snapshot := func() (string, span.Set) {
		text, _ := d.buf.Snapshot()
		return text, d.annotator.Decorations()
	}
	err = view.Run(ctx, snapshot, refresh)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// settingsToggler applies a category toggle from the preview. With a JSON
// settings file the toggle is written back to the file, the way the
// preference pane does, and the config watcher picks it up.
type settingsToggler struct {
	doc          *document
	settingsPath string
}

func (t *settingsToggler) toggle(c category.Category) {
	a := t.doc.annotator
	if c == category.URL {
		a.SetHighlightURLs(!a.HighlightURLs())
	} else {
		a.SetCategories(a.Categories().Toggle(c))
	}

	if format, err := config.FormatFor(t.settingsPath); err != nil || format != config.FormatJSON {
		return
	}
	if err := t.writeBack(c); err != nil {
		t.doc.session.log.Warn("saving settings: %v", err)
	}
}

func (t *settingsToggler) writeBack(c category.Category) error {
	data, err := os.ReadFile(t.settingsPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	var out string
	if c == category.URL {
		out, err = config.SetHighlightURLs(string(data), t.doc.annotator.HighlightURLs())
	} else {
		out, err = config.SetPartsOfSpeech(string(data), t.doc.annotator.Categories())
	}
	if err != nil {
		return err
	}
	return os.WriteFile(t.settingsPath, []byte(out), 0o644)
}
