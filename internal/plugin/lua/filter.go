package lua

import (
	"context"
	"fmt"
	"sync/atomic"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/copyedit/internal/annotate/classify"
	"github.com/dshills/copyedit/internal/logging"
)

// FilterFunction is the global a filter script must define.
const FilterFunction = "filter"

// FilterStats counts filter calls.
type FilterStats struct {
	Calls   uint64
	Dropped uint64
	Errors  uint64
}

// Filter is a classify.Filter backed by a Lua script.
type Filter struct {
	state  *State
	source string
	log    *logging.Logger

	calls   atomic.Uint64
	dropped atomic.Uint64
	errors  atomic.Uint64
}

var _ classify.Filter = (*Filter)(nil)

// LoadFilter runs the script at path and returns its filter.
func LoadFilter(ctx context.Context, path string, opts ...StateOption) (*Filter, error) {
	state := NewState(opts...)
	if err := state.DoFile(ctx, path); err != nil {
		_ = state.Close()
		return nil, fmt.Errorf("loading filter script %s: %w", path, err)
	}
	return newFilter(state, path)
}

// NewFilter runs code and returns its filter. name identifies the script
// in logs and errors.
func NewFilter(ctx context.Context, name, code string, opts ...StateOption) (*Filter, error) {
	state := NewState(opts...)
	if err := state.DoString(ctx, code); err != nil {
		_ = state.Close()
		return nil, fmt.Errorf("loading filter script %s: %w", name, err)
	}
	return newFilter(state, name)
}

func newFilter(state *State, source string) (*Filter, error) {
	if !state.HasFunction(FilterFunction) {
		_ = state.Close()
		return nil, fmt.Errorf("%s: %w", source, ErrNoFilterFunction)
	}
	return &Filter{
		state:  state,
		source: source,
		log:    state.log.WithField("script", source),
	}, nil
}

// Keep calls filter(text, category, from, to). A script error drops the
// candidate.
func (f *Filter) Keep(c classify.Candidate) bool {
	f.calls.Add(1)

	results, err := f.state.Call(context.Background(), FilterFunction,
		lua.LString(c.Text),
		lua.LString(c.Category.String()),
		lua.LNumber(c.From),
		lua.LNumber(c.To),
	)
	if err != nil {
		f.errors.Add(1)
		f.dropped.Add(1)
		f.log.Warn("filter failed for %q at %d: %v", c.Text, c.From, err)
		return false
	}

	if len(results) == 0 || !lua.LVAsBool(results[0]) {
		f.dropped.Add(1)
		return false
	}
	return true
}

// Source returns the script path or name.
func (f *Filter) Source() string {
	return f.source
}

// Stats returns call counters.
func (f *Filter) Stats() FilterStats {
	return FilterStats{
		Calls:   f.calls.Load(),
		Dropped: f.dropped.Load(),
		Errors:  f.errors.Load(),
	}
}

// Close releases the Lua state.
func (f *Filter) Close() error {
	return f.state.Close()
}
