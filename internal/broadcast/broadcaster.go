package broadcast

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/merijjeyn/logan/event"
	"github.com/merijjeyn/logan/internal/metrics"
)

const (
	commandTimeout = 5 * time.Second
	stopTimeout    = 10 * time.Second
	cmdBuffer      = 256
)

// broadcasterCmd is the command interface for the Broadcaster actor.
type broadcasterCmd interface{ isBroadcasterCmd() }

type baseBroadcasterCmd struct{}

func (baseBroadcasterCmd) isBroadcasterCmd() {}

type registerCmd struct {
	baseBroadcasterCmd
	replyChannel chan *Subscriber
}

type unregisterCmd struct {
	baseBroadcasterCmd
	id uuid.UUID
}

type publishCmd struct {
	baseBroadcasterCmd
	event event.Event
}

type countCmd struct {
	baseBroadcasterCmd
	replyChannel chan int
}

type historyCmd struct {
	baseBroadcasterCmd
	replyChannel chan []event.Event
}

type stopCmd struct {
	baseBroadcasterCmd
}

// Broadcaster owns the live subscriber set and fans ingested events out
// to every subscriber's inbox. A single goroutine processes all commands,
// so set membership changes and the fan-out sweep are mutually exclusive
// without any lock being held across I/O.
type Broadcaster struct {
	cmdCh       chan broadcasterCmd
	clock       clockwork.Clock
	subscribers map[uuid.UUID]*Subscriber
	history     []event.Event
	historySize int
	done        chan struct{}
	stopTimeout time.Duration
}

// New creates a broadcaster and starts its actor goroutine.
// historySize bounds the in-memory ring of recent events kept for
// introspection; zero disables the ring. History is never replayed to
// new subscribers.
func New(clock clockwork.Clock, historySize int) *Broadcaster {
	b := &Broadcaster{
		cmdCh:       make(chan broadcasterCmd, cmdBuffer),
		clock:       clock,
		subscribers: make(map[uuid.UUID]*Subscriber),
		historySize: historySize,
		done:        make(chan struct{}),
		stopTimeout: stopTimeout,
	}
	go b.run()
	return b
}

// Register creates a subscriber with an empty inbox and adds it to the
// live set. It never fails; after Stop it returns an already-closed
// subscriber whose Next immediately reports ErrClosed.
func (b *Broadcaster) Register() *Subscriber {
	replyCh := make(chan *Subscriber, 1)
	select {
	case b.cmdCh <- registerCmd{replyChannel: replyCh}:
	case <-b.done:
		return b.closedSubscriber()
	}

	select {
	case sub := <-replyCh:
		return sub
	case <-b.done:
		return b.closedSubscriber()
	}
}

// Unregister removes the subscriber from the live set and discards its
// inbox. Idempotent: unknown or already-removed subscribers are a no-op.
// Safe to call concurrently with Publish.
func (b *Broadcaster) Unregister(sub *Subscriber) {
	if sub == nil {
		return
	}
	select {
	case b.cmdCh <- unregisterCmd{id: sub.id}:
	case <-b.done:
	}
}

// Publish enqueues ev into every live subscriber's inbox, in ingestion
// order, and records it in the history ring. Both happen in the same
// actor turn, so the subscriber set stays consistent during the sweep.
// Publish returns without waiting for any consumer to read.
func (b *Broadcaster) Publish(ev event.Event) {
	select {
	case b.cmdCh <- publishCmd{event: ev}:
	case <-b.done:
	}
}

// Subscribers returns the size of the live set, or -1 if the broadcaster
// is stopped or did not answer within the command timeout. Used by the
// readiness probe, which treats a negative count as unhealthy.
func (b *Broadcaster) Subscribers() int {
	replyCh := make(chan int, 1)
	select {
	case b.cmdCh <- countCmd{replyChannel: replyCh}:
	case <-b.done:
		return -1
	}

	timer := b.clock.NewTimer(commandTimeout)
	defer timer.Stop()

	select {
	case count := <-replyCh:
		return count
	case <-b.done:
		return -1
	case <-timer.Chan():
		slog.Warn("Subscriber count timed out", "timeout", commandTimeout)
		return -1
	}
}

// History returns a snapshot of the retained recent events, oldest first.
func (b *Broadcaster) History() []event.Event {
	replyCh := make(chan []event.Event, 1)
	select {
	case b.cmdCh <- historyCmd{replyChannel: replyCh}:
	case <-b.done:
		return nil
	}

	select {
	case events := <-replyCh:
		return events
	case <-b.done:
		return nil
	}
}

// Stop tears down all subscribers, leaving the set empty, and waits for
// the actor goroutine to exit.
func (b *Broadcaster) Stop() {
	select {
	case b.cmdCh <- stopCmd{}:
	case <-b.done:
		return
	}

	timer := b.clock.NewTimer(b.stopTimeout)
	defer timer.Stop()

	select {
	case <-b.done:
		slog.Info("Broadcaster stopped")
	case <-timer.Chan():
		slog.Warn("Broadcaster stop timeout exceeded", "timeout", b.stopTimeout)
	}
}

func (b *Broadcaster) closedSubscriber() *Subscriber {
	sub := newSubscriber(b.clock)
	sub.close()
	return sub
}

func (b *Broadcaster) run() {
	defer close(b.done)

	for cmd := range b.cmdCh {
		switch c := cmd.(type) {
		case registerCmd:
			c.replyChannel <- b.handleRegister()
		case unregisterCmd:
			b.handleUnregister(c.id)
		case publishCmd:
			b.handlePublish(c.event)
		case countCmd:
			c.replyChannel <- len(b.subscribers)
		case historyCmd:
			c.replyChannel <- append([]event.Event(nil), b.history...)
		case stopCmd:
			b.handleStop()
			return
		default:
			slog.Warn("Broadcaster received unknown command", "command", cmd)
		}
	}
}

func (b *Broadcaster) handleRegister() *Subscriber {
	sub := newSubscriber(b.clock)
	b.subscribers[sub.id] = sub
	metrics.BroadcasterSubscribers.Set(float64(len(b.subscribers)))
	slog.Debug("Subscriber registered", "subscriber_id", sub.id.String(), "total", len(b.subscribers))
	return sub
}

func (b *Broadcaster) handleUnregister(id uuid.UUID) {
	sub, exists := b.subscribers[id]
	if !exists {
		return
	}
	sub.close()
	delete(b.subscribers, id)
	metrics.BroadcasterSubscribers.Set(float64(len(b.subscribers)))
	slog.Debug("Subscriber unregistered", "subscriber_id", id.String(), "remaining", len(b.subscribers))
}

func (b *Broadcaster) handlePublish(ev event.Event) {
	if b.historySize > 0 {
		b.history = append(b.history, ev)
		if len(b.history) > b.historySize {
			b.history = b.history[len(b.history)-b.historySize:]
		}
	}

	// A subscriber torn down mid-sweep must not abort delivery to the
	// rest: skip it and drop it from the set.
	var gone []uuid.UUID
	for id, sub := range b.subscribers {
		if !sub.enqueue(ev) {
			gone = append(gone, id)
		}
	}
	for _, id := range gone {
		delete(b.subscribers, id)
	}
	if len(gone) > 0 {
		metrics.BroadcasterSubscribers.Set(float64(len(b.subscribers)))
	}

	metrics.BroadcasterEventsPublishedTotal.Inc()
}

func (b *Broadcaster) handleStop() {
	for id, sub := range b.subscribers {
		sub.close()
		delete(b.subscribers, id)
	}
	metrics.BroadcasterSubscribers.Set(0)
	slog.Info("Broadcaster shutting down, all subscribers closed")
}
