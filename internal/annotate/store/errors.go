package store

import "errors"

// Errors returned by Store.Replace.
var (
	// ErrDisabled indicates decorations were offered while annotation is off.
	ErrDisabled = errors.New("annotation disabled")

	// ErrStaleGeneration indicates a newer pass has already been applied.
	ErrStaleGeneration = errors.New("stale generation")

	// ErrStaleSnapshot indicates the edits since the analyzed snapshot are
	// no longer in the delta log, so the set cannot be brought up to date.
	ErrStaleSnapshot = errors.New("snapshot predates retained edit log")

	// ErrFutureRevision indicates a set computed for a revision the store
	// has not seen yet.
	ErrFutureRevision = errors.New("revision is ahead of the store")
)
