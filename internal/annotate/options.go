package annotate

import (
	"time"

	"github.com/dshills/copyedit/internal/annotate/category"
	"github.com/dshills/copyedit/internal/annotate/classify"
	"github.com/dshills/copyedit/internal/annotate/schedule"
	"github.com/dshills/copyedit/internal/annotate/tagger"
	"github.com/dshills/copyedit/internal/logging"
)

type options struct {
	tagger        tagger.Tagger
	filter        classify.Filter
	logger        *logging.Logger
	clock         schedule.Clock
	debounce      time.Duration
	categories    category.Set
	highlightURLs bool
	enabled       bool
	maxDeltas     int
}

func defaultOptions() options {
	return options{
		logger:        logging.Null(),
		clock:         schedule.RealClock{},
		debounce:      schedule.DefaultDelay,
		categories:    category.All(),
		highlightURLs: true,
		enabled:       true,
	}
}

// Option configures an Annotator.
type Option func(*options)

// WithTagger sets the part-of-speech tagger. The default is the prose
// tagger.
func WithTagger(t tagger.Tagger) Option {
	return func(o *options) {
		o.tagger = t
	}
}

// WithFilter installs a candidate filter, such as a Lua script.
func WithFilter(f classify.Filter) Option {
	return func(o *options) {
		o.filter = f
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithClock replaces the scheduler clock.
func WithClock(c schedule.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clock = c
		}
	}
}

// WithDebounce sets the delay between the last edit and the analysis pass.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithCategories sets the enabled parts of speech.
func WithCategories(set category.Set) Option {
	return func(o *options) {
		o.categories = set
	}
}

// WithHighlightURLs switches URL highlighting.
func WithHighlightURLs(on bool) Option {
	return func(o *options) {
		o.highlightURLs = on
	}
}

// WithEnabled sets the initial enabled state. A disabled annotator does
// nothing until SetEnabled(true).
func WithEnabled(on bool) Option {
	return func(o *options) {
		o.enabled = on
	}
}

// WithMaxDeltas bounds how many edits a running pass can catch up with.
func WithMaxDeltas(n int) Option {
	return func(o *options) {
		o.maxDeltas = n
	}
}
