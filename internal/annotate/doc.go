// Package annotate highlights parts of speech and URLs in a live text
// document.
//
// An Annotator is an explicit handle bound to one document. Edits are
// reported with HandleEdit, which maps the current decorations through
// the edit at once and schedules a debounced analysis pass. A pass reads
// a snapshot of the document, classifies it, drops candidates inside
// code, front matter and link syntax, resolves overlaps and swaps the
// result into the store, replaying any edits that happened while it ran.
//
//	a := annotate.New(buf, annotate.WithCategories(cfg.Categories()))
//	defer a.Close()
//	buf.OnChange(func(c buffer.Change) { a.HandleEdit(c.Delta, c.Revision) })
//	a.Refresh()
//
// The package subpackages can also be used on their own: classify,
// exclusion and resolve form the pure pass, store and schedule the
// incremental machinery around it.
package annotate
