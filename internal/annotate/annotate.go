package annotate

import (
	"context"
	"errors"
	"iter"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/copyedit/internal/annotate/category"
	"github.com/dshills/copyedit/internal/annotate/classify"
	"github.com/dshills/copyedit/internal/annotate/exclusion"
	"github.com/dshills/copyedit/internal/annotate/resolve"
	"github.com/dshills/copyedit/internal/annotate/schedule"
	"github.com/dshills/copyedit/internal/annotate/span"
	"github.com/dshills/copyedit/internal/annotate/store"
	"github.com/dshills/copyedit/internal/annotate/tagger"
	"github.com/dshills/copyedit/internal/engine/buffer"
	"github.com/dshills/copyedit/internal/event"
	"github.com/dshills/copyedit/internal/logging"
)

// ErrClosed is returned by operations on a closed Annotator.
var ErrClosed = errors.New("annotator closed")

// Source provides consistent snapshots of the annotated document.
type Source interface {
	Snapshot() (text string, rev buffer.Revision)
}

// PassStats describes the most recent analysis pass.
type PassStats struct {
	Revision   buffer.Revision
	Generation uint64
	Resolve    resolve.Stats
	Duration   time.Duration
	// Err is nil when the pass result became visible.
	Err error
}

// Annotator keeps the decorations of one document up to date. It is
// safe for concurrent use.
type Annotator struct {
	id         uuid.UUID
	src        Source
	classifier *classify.Classifier
	store      *store.Store
	sched      *schedule.Scheduler
	log        *logging.Logger

	mu            sync.RWMutex
	categories    category.Set
	highlightURLs bool
	bus           *event.Bus
	subs          []*event.Subscription
	last          PassStats
	passes        int
	closed        bool
}

// New creates an annotator for src. When enabled, call Refresh to run
// the first pass.
func New(src Source, opts ...Option) *Annotator {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.tagger == nil {
		o.tagger = tagger.NewProse()
	}

	a := &Annotator{
		id:            uuid.New(),
		src:           src,
		categories:    o.categories,
		highlightURLs: o.highlightURLs,
	}
	a.log = o.logger.WithComponent("annotate").WithField("annotator", a.id.String()[:8])

	classifyOpts := []classify.Option{classify.WithLogger(o.logger)}
	if o.filter != nil {
		classifyOpts = append(classifyOpts, classify.WithFilter(o.filter))
	}
	a.classifier = classify.New(o.tagger, classifyOpts...)

	_, rev := src.Snapshot()
	a.store = store.New(
		store.WithRevision(rev),
		store.WithEnabled(o.enabled),
		store.WithMaxDeltas(o.maxDeltas),
	)
	a.sched = schedule.New(a.pass,
		schedule.WithClock(o.clock),
		schedule.WithDelay(o.debounce),
		schedule.WithLogger(o.logger),
	)
	return a
}

// ID identifies the annotator in published events.
func (a *Annotator) ID() uuid.UUID {
	return a.id
}

// Enabled reports whether the annotator produces decorations.
func (a *Annotator) Enabled() bool {
	return a.store.Enabled()
}

// Decorations returns a copy of the visible decoration set.
func (a *Annotator) Decorations() span.Set {
	return a.store.Decorations()
}

// Categories returns the enabled parts of speech.
func (a *Annotator) Categories() category.Set {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.categories
}

// HighlightURLs reports whether URLs are highlighted.
func (a *Annotator) HighlightURLs() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.highlightURLs
}

// LastPass returns the statistics of the most recent pass and the number
// of passes run so far.
func (a *Annotator) LastPass() (PassStats, int) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.last, a.passes
}

// Scheduler exposes the pass scheduler, mainly so callers can Flush it.
func (a *Annotator) Scheduler() *schedule.Scheduler {
	return a.sched
}

// SetEnabled switches annotation on or off. Enabling schedules an
// immediate pass. Disabling clears the decorations and cancels pending
// work.
func (a *Annotator) SetEnabled(enabled bool) {
	if a.isClosed() {
		return
	}
	if !a.store.SetEnabled(enabled) {
		return
	}
	if enabled {
		a.log.Debug("enabled")
		a.schedule(a.sched.Immediate)
		return
	}
	a.log.Debug("disabled")
	a.sched.Cancel()
	a.publish(a.store.Revision(), a.store.Generation(), nil)
}

// HandleEdit maps the decorations through an applied edit and schedules
// a debounced pass. rev is the revision the edit produced.
func (a *Annotator) HandleEdit(delta buffer.Delta, rev buffer.Revision) {
	if a.isClosed() {
		return
	}
	a.store.ApplyEdit(delta, rev)
	if a.store.Enabled() {
		a.schedule(a.sched.Debounce)
	}
}

// SetCategories changes the enabled parts of speech.
func (a *Annotator) SetCategories(set category.Set) {
	a.mu.Lock()
	changed := a.categories != set
	a.categories = set
	a.mu.Unlock()
	if changed {
		a.Refresh()
	}
}

// SetHighlightURLs switches URL highlighting.
func (a *Annotator) SetHighlightURLs(on bool) {
	a.mu.Lock()
	changed := a.highlightURLs != on
	a.highlightURLs = on
	a.mu.Unlock()
	if changed {
		a.Refresh()
	}
}

// Refresh schedules an immediate pass when enabled.
func (a *Annotator) Refresh() {
	if a.isClosed() || !a.store.Enabled() {
		return
	}
	a.schedule(a.sched.Immediate)
}

// Analyze runs the classification pass over text with the current
// settings and returns the resolved decorations. It does not touch the
// store.
func (a *Annotator) Analyze(text string) span.Set {
	set, _ := a.analyze(text)
	return set
}

// AnalyzeStats is Analyze with the resolver counters.
func (a *Annotator) AnalyzeStats(text string) (span.Set, resolve.Stats) {
	return a.analyze(text)
}

func (a *Annotator) analyze(text string) (span.Set, resolve.Stats) {
	a.mu.RLock()
	cats, urls := a.categories, a.highlightURLs
	a.mu.RUnlock()

	idx := exclusion.Scan(text)
	var sources []iter.Seq[classify.Candidate]
	if urls {
		sources = append(sources, a.classifier.URLCandidates(text, idx.FrontMatterEnd()))
	}
	sources = append(sources, a.classifier.Candidates(text, cats))
	return resolve.Resolve(idx, sources...)
}

// Close detaches from the bus and cancels pending work. Later calls on
// the annotator are no-ops.
func (a *Annotator) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	a.Detach()
	a.sched.Close()
	a.log.Debug("closed")
}

func (a *Annotator) isClosed() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.closed
}

func (a *Annotator) schedule(fn func() (uint64, error)) {
	if _, err := fn(); err != nil && !errors.Is(err, schedule.ErrClosed) {
		a.log.Warn("scheduling pass: %v", err)
	}
}

// pass is the scheduler task.
func (a *Annotator) pass(gen uint64) {
	if !a.store.Enabled() {
		return
	}

	start := time.Now()
	text, rev := a.src.Snapshot()
	set, rs := a.analyze(text)
	err := a.store.Replace(set, rev, gen)

	a.mu.Lock()
	a.passes++
	a.last = PassStats{
		Revision:   rev,
		Generation: gen,
		Resolve:    rs,
		Duration:   time.Since(start),
		Err:        err,
	}
	a.mu.Unlock()

	switch {
	case err == nil:
		a.log.Debug("pass %d at revision %d: %d spans in %s", gen, rev, rs.Accepted, time.Since(start))
		a.publish(rev, gen, a.store.Decorations())
	case errors.Is(err, store.ErrStaleSnapshot):
		a.log.Debug("pass %d fell too far behind, rescheduling: %v", gen, err)
		a.schedule(a.sched.Immediate)
	default:
		// Disabled, superseded, or the edit that produced rev has not
		// been reported yet; a later pass covers it.
		a.log.Debug("pass %d discarded: %v", gen, err)
	}
}

// publish announces a decoration change when attached to a bus.
func (a *Annotator) publish(rev buffer.Revision, gen uint64, set span.Set) {
	a.mu.RLock()
	bus := a.bus
	a.mu.RUnlock()
	if bus == nil {
		return
	}

	payload := event.DecorationsUpdated{
		Annotator:   a.id,
		Revision:    rev,
		Generation:  gen,
		Decorations: set,
	}
	if err := event.Publish(context.Background(), bus, event.TopicDecorationsUpdated, payload, "annotate"); err != nil && !errors.Is(err, event.ErrBusClosed) {
		a.log.Warn("publishing decorations: %v", err)
	}
}
