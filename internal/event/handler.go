package event

import "context"

// Priority orders handlers on one topic. Lower values run first.
type Priority int

const (
	// PriorityHigh is for handlers that keep state in sync, like the
	// annotator following buffer edits.
	PriorityHigh Priority = 100

	// PriorityNormal is the default.
	PriorityNormal Priority = 200

	// PriorityLow is for observers such as renderers and loggers.
	PriorityLow Priority = 300
)

// Handler processes an event. The event is an Event[T]; handlers type-assert.
type Handler interface {
	Handle(ctx context.Context, event any) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// TypedHandlerFunc handles one payload type.
type TypedHandlerFunc[T any] func(ctx context.Context, event Event[T]) error

// Typed converts fn to a Handler that skips events of other payload types.
func Typed[T any](fn TypedHandlerFunc[T]) Handler {
	return HandlerFunc(func(ctx context.Context, event any) error {
		if e, ok := event.(Event[T]); ok {
			return fn(ctx, e)
		}
		return nil
	})
}

// ErrorHandler receives handler errors and recovered panics. Publish never
// returns them.
type ErrorHandler func(err error)
