// Package buffer provides the thread-safe document that the annotation
// engine observes.
//
// The buffer package provides:
//
//   - A mutable UTF-8 text with a monotonically increasing Revision
//   - Edits (replace a byte range with new text) and the Delta each edit
//     produces for anyone mapping positions across it
//   - Change listeners, notified synchronously after every edit
//   - Diff, which turns two full-text versions into a single Edit
//
// Basic usage:
//
//	buf := buffer.NewBufferFromString("Hello, World!")
//	buf.OnChange(func(c buffer.Change) {
//	    // c.Delta describes the edit, c.Revision the new revision
//	})
//	buf.Insert(7, "Beautiful ") // "Hello, Beautiful World!"
//
// Position mapping:
//
// A Delta replaces the old range [From, To) with InsertedLen bytes.
// Delta.MapPos moves an old-text position into the new text. The assoc
// argument decides which side a position sticks to when text is inserted
// exactly at it: assoc < 0 stays before the insertion, assoc >= 0 moves
// after it.
//
// Thread Safety:
//
// All Buffer methods are thread-safe. Listeners run while no lock is held,
// in the goroutine that performed the edit.
package buffer
