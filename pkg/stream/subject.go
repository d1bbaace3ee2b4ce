// Package stream provides a current-value broadcaster: a hot stream that
// always holds a latest value, replays it to every new subscriber and then
// forwards live updates in order.
//
// Publishing never blocks on a slow reader. Each subscription owns an
// unbounded queue drained by its own goroutine, so delivery is ordered and
// lossless per subscriber.
package stream

import (
	"errors"
	"sync"
)

// ErrClosed is returned by Send after the subject has been closed.
var ErrClosed = errors.New("stream: subject closed")

// Subject is a replay-latest broadcaster of values of type T. It is safe for
// concurrent use.
type Subject[T any] struct {
	mu     sync.Mutex
	value  T
	subs   map[*Subscription[T]]struct{}
	closed bool
}

// NewSubject returns a subject whose current value is initial.
func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{
		value: initial,
		subs:  make(map[*Subscription[T]]struct{}),
	}
}

// Value returns the current value.
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Send stores v as the current value and queues it for every subscriber.
func (s *Subject[T]) Send(v T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.value = v
	for sub := range s.subs {
		sub.push(v)
	}
	return nil
}

// Subscribe registers a new subscriber. The current value is the first item
// delivered on the returned subscription's channel. Subscribing to a closed
// subject yields the last value followed by channel close.
func (s *Subject[T]) Subscribe() *Subscription[T] {
	sub := newSubscription(s)

	s.mu.Lock()
	sub.push(s.value)
	if s.closed {
		sub.complete()
	} else {
		s.subs[sub] = struct{}{}
	}
	s.mu.Unlock()

	go sub.pump()
	return sub
}

// Subscribers returns the number of live subscriptions.
func (s *Subject[T]) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Close completes the subject. Subscribers receive any values already queued
// and then see their channel closed. Further Sends fail with ErrClosed.
// Close is idempotent.
func (s *Subject[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	for sub := range s.subs {
		sub.complete()
		delete(s.subs, sub)
	}
}

func (s *Subject[T]) remove(sub *Subscription[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, sub)
}

// Subscription is one subscriber's view of a Subject.
type Subscription[T any] struct {
	parent *Subject[T]
	c      chan T

	mu        sync.Mutex
	queue     []T
	completed bool
	wake      chan struct{}

	cancel     chan struct{}
	cancelOnce sync.Once
	done       chan struct{}
}

func newSubscription[T any](parent *Subject[T]) *Subscription[T] {
	return &Subscription[T]{
		parent: parent,
		c:      make(chan T),
		wake:   make(chan struct{}, 1),
		cancel: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// C returns the channel values are delivered on. It is closed after Cancel,
// or once the subject is closed and the queue has drained.
func (sub *Subscription[T]) C() <-chan T {
	return sub.c
}

// Cancel detaches the subscription and drops undelivered values. It returns
// once the delivery goroutine has exited. Safe to call more than once.
func (sub *Subscription[T]) Cancel() {
	sub.cancelOnce.Do(func() {
		sub.parent.remove(sub)
		close(sub.cancel)
	})
	<-sub.done
}

// Done is closed when the delivery goroutine has exited.
func (sub *Subscription[T]) Done() <-chan struct{} {
	return sub.done
}

func (sub *Subscription[T]) push(v T) {
	sub.mu.Lock()
	sub.queue = append(sub.queue, v)
	sub.mu.Unlock()
	sub.signal()
}

func (sub *Subscription[T]) complete() {
	sub.mu.Lock()
	sub.completed = true
	sub.mu.Unlock()
	sub.signal()
}

func (sub *Subscription[T]) signal() {
	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

// next pops the head of the queue. ok is false when nothing is queued;
// finished reports that the subject completed and the queue is empty.
func (sub *Subscription[T]) next() (v T, ok, finished bool) {
	sub.mu.Lock()
	defer sub.mu.Unlock()

	if len(sub.queue) == 0 {
		return v, false, sub.completed
	}
	v = sub.queue[0]
	var zero T
	sub.queue[0] = zero
	sub.queue = sub.queue[1:]
	return v, true, false
}

func (sub *Subscription[T]) pump() {
	defer close(sub.done)
	defer close(sub.c)

	for {
		v, ok, finished := sub.next()
		if finished {
			return
		}
		if !ok {
			select {
			case <-sub.wake:
				continue
			case <-sub.cancel:
				return
			}
		}
		select {
		case sub.c <- v:
		case <-sub.cancel:
			return
		}
	}
}
