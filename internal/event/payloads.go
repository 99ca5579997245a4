package event

import (
	"github.com/google/uuid"

	"github.com/dshills/copyedit/internal/annotate/category"
	"github.com/dshills/copyedit/internal/annotate/span"
	"github.com/dshills/copyedit/internal/engine/buffer"
)

// BufferChanged is published on TopicBufferChanged after an edit.
type BufferChanged struct {
	Delta    buffer.Delta
	Revision buffer.Revision
}

// ConfigChanged is published on TopicConfigChanged when annotation
// settings change.
type ConfigChanged struct {
	Categories    category.Set
	HighlightURLs bool
}

// DecorationsUpdated is published on TopicDecorationsUpdated when an
// annotator's visible decoration set is replaced or cleared.
type DecorationsUpdated struct {
	Annotator   uuid.UUID
	Revision    buffer.Revision
	Generation  uint64
	Decorations span.Set
}
