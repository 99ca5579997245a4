package event

import (
	"cmp"
	"sync/atomic"
)

// FilterFunc decides per event whether a subscription receives it.
type FilterFunc func(event any) bool

// SubscriptionOption configures a subscription.
type SubscriptionOption func(*Subscription)

// WithPriority sets the delivery order.
func WithPriority(p Priority) SubscriptionOption {
	return func(s *Subscription) {
		s.priority = p
	}
}

// WithFilter only delivers events accepted by f.
func WithFilter(f FilterFunc) SubscriptionOption {
	return func(s *Subscription) {
		s.filter = f
	}
}

// WithOnce removes the subscription after its first delivery.
func WithOnce() SubscriptionOption {
	return func(s *Subscription) {
		s.once = true
	}
}

// Subscription is a registered handler.
type Subscription struct {
	id       string
	seq      uint64
	pattern  Topic
	handler  Handler
	priority Priority
	filter   FilterFunc
	once     bool
	active   atomic.Bool
}

func newSubscription(id string, seq uint64, pattern Topic, h Handler, opts ...SubscriptionOption) *Subscription {
	s := &Subscription{
		id:       id,
		seq:      seq,
		pattern:  pattern,
		handler:  h,
		priority: PriorityNormal,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.active.Store(true)
	return s
}

// ID returns the subscription ID.
func (s *Subscription) ID() string {
	return s.id
}

// Pattern returns the subscribed topic pattern.
func (s *Subscription) Pattern() Topic {
	return s.pattern
}

// Priority returns the delivery priority.
func (s *Subscription) Priority() Priority {
	return s.priority
}

// IsActive reports whether the subscription still receives events.
func (s *Subscription) IsActive() bool {
	return s.active.Load()
}

func (s *Subscription) cancel() {
	s.active.Store(false)
}

// shouldDeliver claims the delivery. A once subscription is claimed by the
// first accepted event only.
func (s *Subscription) shouldDeliver(event any) bool {
	if !s.IsActive() {
		return false
	}
	if s.filter != nil && !s.filter(event) {
		return false
	}
	if s.once {
		return s.active.CompareAndSwap(true, false)
	}
	return true
}

func compareSubscriptions(a, b *Subscription) int {
	if c := cmp.Compare(a.priority, b.priority); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}
