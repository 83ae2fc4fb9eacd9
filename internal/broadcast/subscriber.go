package broadcast

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/merijjeyn/logan/event"
)

var (
	// ErrClosed is returned by Next once the subscriber has been
	// unregistered and its inbox discarded.
	ErrClosed = errors.New("subscriber closed")
	// ErrTimeout is returned by Next when no event arrived within the
	// wait window. Stream sessions answer it with a heartbeat frame.
	ErrTimeout = errors.New("subscriber wait timed out")
)

// Subscriber is one connected streaming consumer: an opaque per-connection
// handle plus a private, unbounded, ordered inbox of pending events.
//
// The inbox is written only by the broadcaster during fan-out and drained
// only by the owning stream session via Next.
type Subscriber struct {
	id    uuid.UUID
	clock clockwork.Clock

	mu     sync.Mutex
	inbox  []event.Event
	closed bool

	notify   chan struct{}
	closedCh chan struct{}
}

func newSubscriber(clock clockwork.Clock) *Subscriber {
	return &Subscriber{
		id:       uuid.New(),
		clock:    clock,
		notify:   make(chan struct{}, 1),
		closedCh: make(chan struct{}),
	}
}

// ID returns the subscriber's opaque handle, valid for one connection.
func (s *Subscriber) ID() uuid.UUID { return s.id }

// enqueue appends an event to the inbox. It never blocks and reports
// false if the subscriber has already been torn down.
func (s *Subscriber) enqueue(ev event.Event) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.inbox = append(s.inbox, ev)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
	return true
}

// close discards the inbox and unblocks any pending Next call.
// Idempotent.
func (s *Subscriber) close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.inbox = nil
	s.mu.Unlock()
	close(s.closedCh)
}

// Pending returns the number of events waiting in the inbox.
func (s *Subscriber) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inbox)
}

// Next returns the next queued event, waiting up to timeout for one to
// arrive. It returns ErrTimeout when the window elapses with nothing
// pending, ErrClosed once the subscriber is unregistered, and the
// context error if ctx is cancelled. This is the only suspension point
// of a stream session.
func (s *Subscriber) Next(ctx context.Context, timeout time.Duration) (event.Event, error) {
	deadline := s.clock.Now().Add(timeout)
	for {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return event.Event{}, ErrClosed
		}
		if len(s.inbox) > 0 {
			ev := s.inbox[0]
			s.inbox = s.inbox[1:]
			s.mu.Unlock()
			return ev, nil
		}
		s.mu.Unlock()

		remaining := deadline.Sub(s.clock.Now())
		if remaining <= 0 {
			return event.Event{}, ErrTimeout
		}

		timer := s.clock.NewTimer(remaining)
		select {
		case <-s.notify:
			timer.Stop()
		case <-s.closedCh:
			timer.Stop()
			return event.Event{}, ErrClosed
		case <-ctx.Done():
			timer.Stop()
			return event.Event{}, ctx.Err()
		case <-timer.Chan():
			return event.Event{}, ErrTimeout
		}
	}
}
