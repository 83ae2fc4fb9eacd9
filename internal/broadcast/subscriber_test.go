package broadcast

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscriber_NextReturnsQueuedInOrder(t *testing.T) {
	sub := newSubscriber(clockwork.NewRealClock())

	require.True(t, sub.enqueue(testEvent("first")))
	require.True(t, sub.enqueue(testEvent("second")))
	require.True(t, sub.enqueue(testEvent("third")))

	for _, want := range []string{"first", "second", "third"} {
		ev, err := sub.Next(context.Background(), time.Second)
		require.NoError(t, err)
		assert.Equal(t, want, ev.Message)
	}
	assert.Zero(t, sub.Pending())
}

func TestSubscriber_NextTimesOutOnIdle(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sub := newSubscriber(clock)

	type result struct {
		err error
	}
	resultCh := make(chan result, 1)
	go func() {
		_, err := sub.Next(context.Background(), 30*time.Second)
		resultCh <- result{err: err}
	}()

	// Wait for Next to park on its timer, then run the clock out.
	clock.BlockUntil(1)
	clock.Advance(30 * time.Second)

	select {
	case res := <-resultCh:
		assert.ErrorIs(t, res.err, ErrTimeout)
	case <-time.After(time.Second):
		t.Fatal("Next did not return after the wait window elapsed")
	}
}

func TestSubscriber_EventBeatsTimeout(t *testing.T) {
	clock := clockwork.NewFakeClock()
	sub := newSubscriber(clock)

	errCh := make(chan error, 1)
	go func() {
		_, err := sub.Next(context.Background(), 30*time.Second)
		errCh <- err
	}()

	clock.BlockUntil(1)
	sub.enqueue(testEvent("arrived"))

	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Next did not return after an event arrived")
	}
}

func TestSubscriber_NextHonorsContextCancellation(t *testing.T) {
	sub := newSubscriber(clockwork.NewRealClock())

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := sub.Next(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSubscriber_CloseUnblocksNext(t *testing.T) {
	sub := newSubscriber(clockwork.NewRealClock())

	go func() {
		time.Sleep(10 * time.Millisecond)
		sub.close()
	}()

	_, err := sub.Next(context.Background(), time.Minute)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSubscriber_CloseIsIdempotentAndDiscardsInbox(t *testing.T) {
	sub := newSubscriber(clockwork.NewRealClock())

	sub.enqueue(testEvent("pending"))
	sub.close()
	sub.close()

	assert.Zero(t, sub.Pending())
	assert.False(t, sub.enqueue(testEvent("late")))

	_, err := sub.Next(context.Background(), time.Second)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSubscriber_CoalescedNotifiesStillDrainEverything(t *testing.T) {
	sub := newSubscriber(clockwork.NewRealClock())

	// The notify channel holds a single token; queued events must still
	// all come out because Next re-checks the inbox before waiting.
	for range 10 {
		require.True(t, sub.enqueue(testEvent("burst")))
	}

	for range 10 {
		_, err := sub.Next(context.Background(), time.Second)
		require.NoError(t, err)
	}
	assert.Zero(t, sub.Pending())
}
