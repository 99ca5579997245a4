package event

import (
	"context"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/copyedit/internal/logging"
)

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithErrorHandler receives handler errors and panics.
func WithErrorHandler(h ErrorHandler) BusOption {
	return func(b *Bus) {
		b.onError = h
	}
}

// WithLogger sets the bus logger.
func WithLogger(l *logging.Logger) BusOption {
	return func(b *Bus) {
		if l != nil {
			b.log = l
		}
	}
}

// Stats contains bus counters.
type Stats struct {
	EventsPublished   uint64
	HandlersExecuted  uint64
	HandlerErrors     uint64
	HandlerPanics     uint64
	ActiveSubscribers int
}

// Bus delivers events synchronously to matching subscriptions. It is safe
// for concurrent use, and handlers may publish or unsubscribe re-entrantly.
type Bus struct {
	mu     sync.RWMutex
	subs   []*Subscription
	seq    uint64
	closed bool

	onError ErrorHandler
	log     *logging.Logger

	eventsPublished  atomic.Uint64
	handlersExecuted atomic.Uint64
	handlerErrors    atomic.Uint64
	handlerPanics    atomic.Uint64
}

// NewBus creates an empty bus.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{log: logging.Null()}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.WithComponent("event")
	return b
}

// Subscribe registers handler for topics matching pattern.
func (b *Bus) Subscribe(pattern Topic, handler Handler, opts ...SubscriptionOption) (*Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !pattern.IsValid() {
		return nil, ErrInvalidTopic
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrBusClosed
	}

	b.seq++
	sub := newSubscription(uuid.NewString(), b.seq, pattern, handler, opts...)
	b.subs = append(b.subs, sub)
	slices.SortStableFunc(b.subs, compareSubscriptions)
	return sub, nil
}

// SubscribeFunc is Subscribe for a plain function.
func (b *Bus) SubscribeFunc(pattern Topic, fn HandlerFunc, opts ...SubscriptionOption) (*Subscription, error) {
	return b.Subscribe(pattern, fn, opts...)
}

// Unsubscribe removes a subscription. Events already being delivered may
// still reach it.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}
	sub.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.Index(b.subs, sub)
	if i < 0 {
		return ErrSubscriptionNotFound
	}
	b.subs = slices.Delete(b.subs, i, i+1)
	return nil
}

// Publish delivers event to every matching subscription and returns when
// all handlers have run. Handler failures go to the error handler, not to
// the caller.
func (b *Bus) Publish(ctx context.Context, event any) error {
	tp, ok := event.(TopicProvider)
	if !ok || !tp.EventTopic().IsValid() {
		return ErrInvalidEvent
	}
	t := tp.EventTopic()

	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrBusClosed
	}
	var matched []*Subscription
	for _, sub := range b.subs {
		if t.Matches(sub.pattern) {
			matched = append(matched, sub)
		}
	}
	b.mu.RUnlock()

	b.eventsPublished.Add(1)
	for _, sub := range matched {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !sub.shouldDeliver(event) {
			continue
		}
		b.deliver(ctx, sub, t, event)
		if sub.once {
			_ = b.Unsubscribe(sub)
		}
	}
	return nil
}

func (b *Bus) deliver(ctx context.Context, sub *Subscription, t Topic, event any) {
	defer func() {
		if r := recover(); r != nil {
			b.handlerPanics.Add(1)
			b.report(&PanicError{
				SubscriptionID: sub.id,
				Topic:          t,
				Value:          r,
				Stack:          string(debug.Stack()),
			})
		}
	}()

	b.handlersExecuted.Add(1)
	if err := sub.handler.Handle(ctx, event); err != nil {
		b.handlerErrors.Add(1)
		b.report(&HandlerError{SubscriptionID: sub.id, Topic: t, Err: err})
	}
}

func (b *Bus) report(err error) {
	b.log.Warn("%v", err)
	if b.onError != nil {
		b.onError(err)
	}
}

// Close drops all subscriptions. Later calls to Publish and Subscribe
// return ErrBusClosed.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, sub := range b.subs {
		sub.cancel()
	}
	b.subs = nil
	b.closed = true
}

// Stats returns the current counters.
func (b *Bus) Stats() Stats {
	b.mu.RLock()
	active := len(b.subs)
	b.mu.RUnlock()

	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		HandlersExecuted:  b.handlersExecuted.Load(),
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		ActiveSubscribers: active,
	}
}

// Publish wraps payload in a new event on topic t and publishes it.
func Publish[T any](ctx context.Context, b *Bus, t Topic, payload T, source string) error {
	return b.Publish(ctx, NewEvent(t, payload, source))
}
