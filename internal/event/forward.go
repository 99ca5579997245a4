package event

import (
	"context"

	"github.com/dshills/copyedit/internal/engine/buffer"
)

// ForwardBufferChanges publishes a BufferChanged event for every edit
// applied to buf. Publish errors are passed to onError when it is not nil.
func ForwardBufferChanges(b *Bus, buf *buffer.Buffer, source string, onError func(error)) {
	buf.OnChange(func(c buffer.Change) {
		payload := BufferChanged{Delta: c.Delta, Revision: c.Revision}
		if err := Publish(context.Background(), b, TopicBufferChanged, payload, source); err != nil && onError != nil {
			onError(err)
		}
	})
}
