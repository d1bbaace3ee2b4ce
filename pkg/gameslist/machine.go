package gameslist

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/catalog"
	"gitlab.com/tinyland/lab/boardgame-atlas/pkg/stream"
)

const defaultEventBuffer = 16

// Option configures a StateMachine.
type Option func(*options)

type options struct {
	query     catalog.Query
	logger    *slog.Logger
	feedbacks []Feedback
	teardown  []func()
	buffer    int
}

// WithQuery sets the catalog query the loading feedback runs.
func WithQuery(q catalog.Query) Option {
	return func(o *options) { o.query = q }
}

// WithLogger sets the logger for transitions and searches.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithFeedback installs an extra feedback loop next to the loading one.
func WithFeedback(fb Feedback) Option {
	return func(o *options) { o.feedbacks = append(o.feedbacks, fb) }
}

// WithTeardown registers fn to run once, after Close has stopped every
// internal goroutine.
func WithTeardown(fn func()) Option {
	return func(o *options) { o.teardown = append(o.teardown, fn) }
}

// WithEventBuffer sets how many injected events may queue before Send waits.
func WithEventBuffer(n int) Option {
	return func(o *options) { o.buffer = n }
}

// StateMachine owns the list state. Events from Send and from the feedback
// loops are folded through Reduce by a single goroutine, one at a time, and
// every change is published on a replay-latest stream.
type StateMachine struct {
	state  *stream.Subject[State]
	inbox  chan Event
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	wg        sync.WaitGroup
	closeOnce sync.Once
	done      chan struct{}
	teardown  []func()
	processed atomic.Int64
}

// New starts a state machine in Idle that searches api when it starts
// loading.
func New(api catalog.Searcher, opts ...Option) *StateMachine {
	o := options{buffer: defaultEventBuffer}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.buffer < 0 {
		o.buffer = 0
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &StateMachine{
		state:    stream.NewSubject[State](Idle{}),
		inbox:    make(chan Event, o.buffer),
		ctx:      ctx,
		cancel:   cancel,
		logger:   o.logger,
		done:     make(chan struct{}),
		teardown: o.teardown,
	}

	feedbacks := append([]Feedback{WhenLoading(api, o.query, o.logger)}, o.feedbacks...)
	merged := make(chan Event)
	for _, fb := range feedbacks {
		sub := m.state.Subscribe()
		events := fb(ctx, sub.C())

		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			defer sub.Cancel()
			for ev := range events {
				select {
				case merged <- ev:
				case <-ctx.Done():
				}
			}
		}()
	}

	m.wg.Add(1)
	go m.run(merged)

	return m
}

// Send injects an event, typically Appeared from the view. It is safe from
// any goroutine and does nothing once the machine is closed.
func (m *StateMachine) Send(ev Event) {
	if ev == nil || m.ctx.Err() != nil {
		return
	}
	select {
	case m.inbox <- ev:
	case <-m.ctx.Done():
	}
}

// State returns the current state.
func (m *StateMachine) State() State {
	return m.state.Value()
}

// Subscribe returns a subscription that first yields the current state and
// then every change. Callers should Cancel it when done; Close ends it.
func (m *StateMachine) Subscribe() *stream.Subscription[State] {
	return m.state.Subscribe()
}

// Processed returns how many events have been folded.
func (m *StateMachine) Processed() int64 {
	return m.processed.Load()
}

// Done is closed once Close has finished.
func (m *StateMachine) Done() <-chan struct{} {
	return m.done
}

// Close stops folding, completes the state stream, waits for the feedback
// loops to exit and then runs the teardown hooks. Later calls are no-ops.
func (m *StateMachine) Close() error {
	m.closeOnce.Do(func() {
		m.cancel()
		m.state.Close()
		m.wg.Wait()
		for _, fn := range m.teardown {
			fn()
		}
		m.logger.Debug("state machine closed", "processed", m.processed.Load())
		close(m.done)
	})
	return nil
}

func (m *StateMachine) run(feedback <-chan Event) {
	defer m.wg.Done()

	for {
		var ev Event
		select {
		case <-m.ctx.Done():
			return
		case ev = <-m.inbox:
		case ev = <-feedback:
		}
		if m.ctx.Err() != nil {
			return
		}
		m.fold(ev)
	}
}

// fold applies one event. Only run calls it, so the read-reduce-publish
// sequence is never interleaved.
func (m *StateMachine) fold(ev Event) {
	prev := m.state.Value()
	next := Reduce(prev, ev)
	m.processed.Add(1)

	if Equal(prev, next) {
		m.logger.Debug("event ignored", "state", prev.String(), "event", ev.String())
		return
	}

	m.logger.Debug("state changed", "from", prev.String(), "to", next.String(), "event", ev.String())
	if err := m.state.Send(next); err != nil {
		m.logger.Debug("state not published", "error", err)
	}
}
