package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dshills/copyedit/internal/annotate"
	"github.com/dshills/copyedit/internal/config"
	"github.com/dshills/copyedit/internal/engine/buffer"
	"github.com/dshills/copyedit/internal/event"
	"github.com/dshills/copyedit/internal/logging"
	"github.com/dshills/copyedit/internal/plugin/lua"
)

// session holds what every command needs: the loaded configuration, the
// logger and the optional Lua filter.
type session struct {
	cfg    config.Config
	log    *logging.Logger
	filter *lua.Filter
}

// open loads configuration and the filter script named by the flags.
func (g *Globals) open(ctx context.Context, stderr io.Writer) (*session, error) {
	cfg := config.Default()
	if g.Config != "" {
		loaded, err := config.Load(g.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	level := cfg.LogLevel()
	if g.LogLevel != "" {
		level = logging.ParseLevel(g.LogLevel)
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.Output = stderr
	s := &session{cfg: cfg, log: logging.New(logCfg)}

	script := cfg.Copyedit.FilterScript
	if g.Filter != "" {
		script = g.Filter
	}
	if script != "" {
		f, err := lua.LoadFilter(ctx, script, lua.WithLogger(s.log))
		if err != nil {
			return nil, fmt.Errorf("loading filter: %w", err)
		}
		s.filter = f
		s.log.Debug("using filter script %s", script)
	}
	return s, nil
}

// annotatorOptions translates the configuration into annotator options.
func (s *session) annotatorOptions() []annotate.Option {
	opts := []annotate.Option{
		annotate.WithLogger(s.log),
		annotate.WithCategories(s.cfg.Categories()),
		annotate.WithHighlightURLs(s.cfg.Copyedit.HighlightURLs),
		annotate.WithDebounce(s.cfg.Debounce()),
		annotate.WithEnabled(s.cfg.Copyedit.Enabled),
	}
	if s.filter != nil {
		opts = append(opts, annotate.WithFilter(s.filter))
	}
	return opts
}

// watchConfig reloads the config file on change and publishes the new
// annotation settings on bus. It returns nil when no config file is in
// use.
func (s *session) watchConfig(path string, bus *event.Bus, a *annotate.Annotator) (*config.Watcher, error) {
	if path == "" {
		return nil, nil
	}
	w, err := config.NewWatcher(path, config.WithWatcherLogger(s.log))
	if err != nil {
		return nil, err
	}
	w.OnChange(func(cfg config.Config) {
		s.log.SetLevel(cfg.LogLevel())
		a.Scheduler().SetDelay(cfg.Debounce())
		a.SetEnabled(cfg.Copyedit.Enabled)
		payload := event.ConfigChanged{
			Categories:    cfg.Categories(),
			HighlightURLs: cfg.Copyedit.HighlightURLs,
		}
		if err := event.Publish(context.Background(), bus, event.TopicConfigChanged, payload, "config"); err != nil {
			s.log.Warn("publishing config change: %v", err)
		}
	})
	w.OnError(func(err error) {
		s.log.Warn("config reload failed, keeping previous settings: %v", err)
	})
	return w, nil
}

func (s *session) Close() {
	if s.filter != nil {
		if err := s.filter.Close(); err != nil {
			s.log.Debug("closing filter: %v", err)
		}
	}
}

// staticSource is a document that never changes.
type staticSource string

func (s staticSource) Snapshot() (string, buffer.Revision) {
	return string(s), 0
}

// readInput reads a document from path, or from stdin when path is "-".
func readInput(path string, stdin io.Reader) (string, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	buf, err := buffer.NewBufferFromReader(r)
	if err != nil {
		return "", err
	}
	return buf.Text(), nil
}

// loadDocument reads path into a buffer.
func loadDocument(path string) (*buffer.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf, err := buffer.NewBufferFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return buf, nil
}

// newBus creates the event bus of a long-running command.
func (s *session) newBus() *event.Bus {
	return event.NewBus(
		event.WithLogger(s.log),
		event.WithErrorHandler(func(err error) {
			if !errors.Is(err, event.ErrBusClosed) {
				s.log.Warn("event handler: %v", err)
			}
		}),
	)
}
