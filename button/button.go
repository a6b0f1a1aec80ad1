// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package button

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"
	"time"
)

const (
	// DefaultCapacity is the event queue size used when Opts.Capacity is 0.
	DefaultCapacity = 10
	// DefaultYield is the pause after each callback used when Opts.Yield is
	// 0.
	DefaultYield = 10 * time.Millisecond
)

// never marks a line that has not accepted an edge yet.
const never = -1

// LineID identifies an input line.
type LineID uint8

// Line describes one input line.
type Line struct {
	ID   LineID
	Name string
	// Debounce is the minimum time between two accepted edges. An edge is
	// accepted only when strictly more than Debounce elapsed since the last
	// accepted one.
	Debounce time.Duration
}

func (l *Line) String() string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("line%d", l.ID)
}

// Callback is invoked on the consumer goroutine for every accepted edge.
type Callback func()

func noop() {}

// Opts configures a Router.
type Opts struct {
	// Capacity is the size of the event queue.
	Capacity int
	// Yield is the pause after each callback. A negative value disables it.
	Yield time.Duration
	// Clock returns a monotonic time. Defaults to the time elapsed since New.
	Clock  func() time.Duration
	Logger *slog.Logger
}

type line struct {
	Line
	last atomic.Int64
	fn   atomic.Pointer[Callback]
}

// Router debounces edges and dispatches them to callbacks.
type Router struct {
	lines   []*line
	index   map[LineID]*line
	events  chan LineID
	yield   time.Duration
	now     func() time.Duration
	log     *slog.Logger
	dropped atomic.Uint64
}

// New returns a Router for a fixed set of lines. Every line starts with a
// no-op callback.
func New(lines []Line, opts *Opts) (*Router, error) {
	if opts == nil {
		opts = &Opts{}
	}
	if len(lines) == 0 {
		return nil, errors.New("button: no lines")
	}
	capacity := opts.Capacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	if capacity < 0 {
		return nil, fmt.Errorf("button: invalid capacity %d", capacity)
	}
	yield := opts.Yield
	if yield == 0 {
		yield = DefaultYield
	}
	now := opts.Clock
	if now == nil {
		start := time.Now()
		now = func() time.Duration { return time.Since(start) }
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	r := &Router{
		lines:  make([]*line, 0, len(lines)),
		index:  make(map[LineID]*line, len(lines)),
		events: make(chan LineID, capacity),
		yield:  yield,
		now:    now,
		log:    logger,
	}
	for _, l := range lines {
		if _, ok := r.index[l.ID]; ok {
			return nil, fmt.Errorf("button: duplicate line %d", l.ID)
		}
		if l.Debounce < 0 {
			return nil, fmt.Errorf("button: %s: negative debounce %s", &l, l.Debounce)
		}
		s := &line{Line: l}
		s.last.Store(never)
		fn := Callback(noop)
		s.fn.Store(&fn)
		r.lines = append(r.lines, s)
		r.index[l.ID] = s
	}
	return r, nil
}

// Lines returns the configured lines.
func (r *Router) Lines() []Line {
	out := make([]Line, len(r.lines))
	for i, l := range r.lines {
		out[i] = l.Line
	}
	return out
}

// Edge reports a raw edge on line id. It returns true when the edge was
// accepted and queued; false when it was debounced, dropped because the
// queue is full, or id is unknown.
//
// Edge is safe for concurrent use, never blocks and does not allocate.
func (r *Router) Edge(id LineID) bool {
	l := r.index[id]
	if l == nil {
		return false
	}
	now := int64(r.now())
	last := l.last.Load()
	if last != never && now-last <= int64(l.Debounce) {
		return false
	}
	// A concurrent edge on the same line won the window.
	if !l.last.CompareAndSwap(last, now) {
		return false
	}
	select {
	case r.events <- id:
		return true
	default:
		r.dropped.Add(1)
		return false
	}
}

// Dropped returns the number of accepted edges lost to a full queue.
func (r *Router) Dropped() uint64 {
	return r.dropped.Load()
}

// Register replaces the callback of line id. The last registration wins; a
// nil fn restores the no-op. It takes effect on the next event dequeued for
// the line, including while Run is active.
func (r *Router) Register(id LineID, fn Callback) error {
	l := r.index[id]
	if l == nil {
		return fmt.Errorf("button: unknown line %d", id)
	}
	if fn == nil {
		fn = noop
	}
	l.fn.Store(&fn)
	return nil
}

// Run consumes events until ctx is cancelled, invoking the callback of each
// event's line and then pausing for the configured yield. It must be called
// from a single goroutine.
func (r *Router) Run(ctx context.Context) error {
	var t *time.Timer
	if r.yield > 0 {
		t = time.NewTimer(r.yield)
		if !t.Stop() {
			<-t.C
		}
		defer t.Stop()
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case id := <-r.events:
			r.dispatch(id)
		}
		if t == nil {
			continue
		}
		t.Reset(r.yield)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

func (r *Router) dispatch(id LineID) {
	l := r.index[id]
	r.log.Debug("button event", "line", l.String())
	(*l.fn.Load())()
}
