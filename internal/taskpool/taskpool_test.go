package taskpool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoReturnsResultBeforeDeadline(t *testing.T) {
	p := New(2)

	got, err := Do(context.Background(), p, time.Second, func() (int, error) {
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 42, got)
}

func TestDoPropagatesWorkError(t *testing.T) {
	p := New(2)
	boom := errors.New("boom")

	_, err := Do(context.Background(), p, time.Second, func() (string, error) {
		return "", boom
	})

	assert.ErrorIs(t, err, boom)
}

func TestDoTimesOutWithoutWaitingForWork(t *testing.T) {
	p := New(2)
	done := make(chan struct{})

	start := time.Now()
	_, err := Do(context.Background(), p, 20*time.Millisecond, func() (int, error) {
		defer close(done)
		time.Sleep(200 * time.Millisecond)
		return 1, nil
	})
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrDeadlineExceeded)
	assert.Less(t, elapsed, 150*time.Millisecond, "caller must not wait for the abandoned worker")

	// The abandoned worker still runs to completion.
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("abandoned worker never finished")
	}
}

func TestAbandonedWorkDoesNotBlockLaterCalls(t *testing.T) {
	p := New(1)

	var finished atomic.Bool
	_, err := Do(context.Background(), p, 10*time.Millisecond, func() (int, error) {
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
		return 0, nil
	})
	require.ErrorIs(t, err, ErrDeadlineExceeded)

	// The pool slot frees once the abandoned worker completes, so a later
	// call on a size-1 pool still goes through.
	got, err := Do(context.Background(), p, time.Second, func() (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, got)
	assert.True(t, finished.Load())
}

func TestDoRespectsCancelledContext(t *testing.T) {
	p := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Do(ctx, p, time.Second, func() (int, error) {
		return 1, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}
