package annotate

import (
	"context"

	"github.com/dshills/copyedit/internal/event"
)

// Attach subscribes the annotator to buffer and configuration events on
// bus and publishes decoration updates there. An annotator is attached to
// at most one bus; attaching again replaces the previous subscriptions.
func (a *Annotator) Attach(bus *event.Bus) error {
	if a.isClosed() {
		return ErrClosed
	}
	a.Detach()

	edits, err := bus.Subscribe(event.TopicBufferChanged,
		event.Typed(func(_ context.Context, ev event.Event[event.BufferChanged]) error {
			a.HandleEdit(ev.Payload.Delta, ev.Payload.Revision)
			return nil
		}),
		event.WithPriority(event.PriorityHigh),
	)
	if err != nil {
		return err
	}

	settings, err := bus.Subscribe(event.TopicConfigChanged,
		event.Typed(func(_ context.Context, ev event.Event[event.ConfigChanged]) error {
			a.applySettings(ev.Payload)
			return nil
		}),
	)
	if err != nil {
		_ = bus.Unsubscribe(edits)
		return err
	}

	a.mu.Lock()
	a.bus = bus
	a.subs = []*event.Subscription{edits, settings}
	a.mu.Unlock()
	a.log.Debug("attached to event bus")
	return nil
}

// Detach removes the bus subscriptions. It is safe to call when not
// attached.
func (a *Annotator) Detach() {
	a.mu.Lock()
	bus, subs := a.bus, a.subs
	a.bus, a.subs = nil, nil
	a.mu.Unlock()

	for _, sub := range subs {
		_ = bus.Unsubscribe(sub)
	}
}

// applySettings records both settings and runs at most one pass.
func (a *Annotator) applySettings(cfg event.ConfigChanged) {
	a.mu.Lock()
	changed := a.categories != cfg.Categories || a.highlightURLs != cfg.HighlightURLs
	a.categories = cfg.Categories
	a.highlightURLs = cfg.HighlightURLs
	a.mu.Unlock()

	if changed {
		a.log.Info("settings changed: parts of speech %s, urls %t", cfg.Categories, cfg.HighlightURLs)
		a.Refresh()
	}
}
