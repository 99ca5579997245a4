package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/dshills/copyedit/internal/annotate"
	"github.com/dshills/copyedit/internal/engine/buffer"
	"github.com/dshills/copyedit/internal/event"
)

// WatchCmd re-annotates a file whenever it is saved and prints a report
// after every accepted pass.
type WatchCmd struct {
	Path   string `arg:"" type:"existingfile" help:"Markdown file to watch"`
	Format string `short:"f" enum:"text,json" default:"text" help:"Output format: text summary lines or one JSON report per pass"`
}

// Run watches until interrupted.
func (c *WatchCmd) Run(g *Globals, kctx *kong.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := startDocument(ctx, g, c.Path, kctx.Stderr)
	if err != nil {
		return err
	}
	defer d.Close()

	var mu sync.Mutex
	name := filepath.Base(c.Path)
	_, err = d.bus.Subscribe(event.TopicDecorationsUpdated,
		event.Typed(func(_ context.Context, ev event.Event[event.DecorationsUpdated]) error {
			text, _ := d.buf.Snapshot()
			report := newReport(name, text, ev.Payload.Decorations)
			report.Revision = ev.Payload.Revision

			mu.Lock()
			defer mu.Unlock()
			return printWatchReport(kctx.Stdout, c.Format, report)
		}),
		event.WithPriority(event.PriorityLow),
	)
	if err != nil {
		return err
	}

	d.annotator.Refresh()
	d.session.log.Info("watching %s", c.Path)
	<-ctx.Done()
	return nil
}

func printWatchReport(w io.Writer, format string, r Report) error {
	if format == formatJSON {
		// One compact document per line.
		return encodeLine(w, r)
	}
	_, err := fmt.Fprintln(w, r.summary())
	return err
}

// document is a file loaded into a buffer with an attached annotator that
// follows changes to the file and to the config file.
type document struct {
	session   *session
	buf       *buffer.Buffer
	bus       *event.Bus
	annotator *annotate.Annotator
	follower  *follower
	closers   []func()
}

func startDocument(ctx context.Context, g *Globals, path string, stderr io.Writer) (*document, error) {
	s, err := g.open(ctx, stderr)
	if err != nil {
		return nil, err
	}
	d := &document{session: s}
	d.closers = append(d.closers, s.Close)

	d.buf, err = loadDocument(path)
	if err != nil {
		d.Close()
		return nil, err
	}

	d.bus = s.newBus()
	d.closers = append(d.closers, d.bus.Close)
	event.ForwardBufferChanges(d.bus, d.buf, "buffer", func(err error) {
		s.log.Debug("forwarding edit: %v", err)
	})

	d.annotator = annotate.New(d.buf, s.annotatorOptions()...)
	d.closers = append(d.closers, d.annotator.Close)
	if err := d.annotator.Attach(d.bus); err != nil {
		d.Close()
		return nil, err
	}

	d.follower, err = followFile(path, d.buf, s.log)
	if err != nil {
		d.Close()
		return nil, err
	}
	d.closers = append(d.closers, func() { _ = d.follower.Close() })

	cw, err := s.watchConfig(g.Config, d.bus, d.annotator)
	if err != nil {
		d.Close()
		return nil, err
	}
	if cw != nil {
		d.closers = append(d.closers, func() { _ = cw.Close() })
	}
	return d, nil
}

// Close releases everything in reverse order of creation.
func (d *document) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}
