// Package event is the in-process event bus connecting the document, the
// configuration watcher and the annotator.
//
// Events are typed with generics and carry a topic:
//
//	buffer.content.changed          a document edit (BufferChanged)
//	config.copyedit.changed         new annotation settings (ConfigChanged)
//	annotation.decorations.updated  a new decoration set (DecorationsUpdated)
//
// Subscriptions take a topic pattern in which "*" matches one segment and
// "**" matches any number of trailing segments. Delivery is synchronous on
// the publisher's goroutine, in priority order, and a panicking handler
// never reaches the publisher.
//
//	bus := event.NewBus()
//	sub, _ := bus.Subscribe("annotation.*", event.HandlerFunc(
//	    func(ctx context.Context, e any) error { ... }))
//	defer bus.Unsubscribe(sub)
package event
