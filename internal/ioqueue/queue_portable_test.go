//go:build !windows

package ioqueue

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFOOrder(t *testing.T) {
	q := New(1)
	defer q.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, q.Post(KeyWork, i))
	}

	w := q.NewWaiter()
	for i := 0; i < 5; i++ {
		p, err := w.Wait(time.Second)
		require.NoError(t, err)
		assert.Equal(t, i, p.Payload)
	}
}

func TestQueue_WaitTimeout(t *testing.T) {
	q := New(1)
	defer q.Close()

	w := q.NewWaiter()
	_, err := w.Wait(10 * time.Millisecond)
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestQueue_CloseWakesWaiters(t *testing.T) {
	q := New(1)
	w := q.NewWaiter()

	done := make(chan error, 1)
	go func() {
		_, err := w.Wait(5 * time.Second)
		done <- err
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, q.Close())

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(time.Second):
		t.Fatal("waiter did not wake on close")
	}
}

func TestQueue_PostAfterCloseFails(t *testing.T) {
	q := New(1)
	require.NoError(t, q.Close())
	assert.ErrorIs(t, q.Post(KeyWork, 1), ErrClosed)
}

// TestQueue_ConcurrencyGating verifies that at most `concurrency` waiters are
// ever released from Wait simultaneously, matching an OS completion port's
// NumberOfConcurrentThreads semantics (spec.md invariant I4 / property P3,
// applied to the queue primitive itself rather than the Pool built on it).
func TestQueue_ConcurrencyGating(t *testing.T) {
	const concurrency = 3
	const workers = 10
	const items = 100

	q := New(concurrency)
	defer q.Close()

	for i := 0; i < items; i++ {
		require.NoError(t, q.Post(KeyWork, i))
	}
	for i := 0; i < workers; i++ {
		require.NoError(t, q.Post(KeyShutdown, nil))
	}

	var mu sync.Mutex
	current := 0
	maxObserved := 0
	var received int
	var recvMu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := q.NewWaiter()
			for {
				p, err := w.Wait(2 * time.Second)
				if err != nil {
					return
				}
				if p.Key == KeyShutdown {
					return
				}

				mu.Lock()
				current++
				if current > maxObserved {
					maxObserved = current
				}
				mu.Unlock()

				time.Sleep(2 * time.Millisecond) // simulate work

				mu.Lock()
				current--
				mu.Unlock()

				recvMu.Lock()
				received++
				recvMu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, maxObserved, concurrency)
	assert.Equal(t, items, received)
}
