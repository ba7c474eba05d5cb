//go:build windows

package ioqueue

import (
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sys/windows"
)

// New creates a completion queue backed by a real Windows I/O Completion
// Port, created with the given concurrency as its
// NumberOfConcurrentThreads. The kernel itself gates how many threads can be
// simultaneously released from GetQueuedCompletionStatus on this handle, so
// — unlike the portable (!windows) backend — Waiter needs no slot-tracking
// of its own; it is a thin pass-through to the shared handle.
//
// Grounded on eventloop/poller_windows.go's FastPoller.Init/PollIO.
func New(concurrency int) Queue {
	if concurrency < 1 {
		concurrency = 1
	}
	handle, err := windows.CreateIoCompletionPort(windows.InvalidHandle, 0, 0, uint32(concurrency))
	if err != nil {
		// Construction failures are surfaced through Post/Wait instead of a
		// panic here, keeping New infallible. Pool.New does not check for
		// this case: it returns a Pool whose Submit returns this error and
		// whose dispatcher exits on its first Wait.
		return &brokenQueue{err: err}
	}
	return &windowsQueue{iocp: handle}
}

// windowsQueue pins posted payloads in a registry keyed by a monotonic
// ticket, and encodes the ticket into the completion packet's Internal
// field (the OVERLAPPED struct is otherwise unused here — there is no real
// pending I/O, only control packets). The ticket is looked up and deleted
// by the matching Wait, so every pin is released exactly once: this is the
// fix for the source's "PostEvent pins but never unpins" leak noted in
// spec.md §9.
type windowsQueue struct {
	iocp    windows.Handle
	closed  atomic.Bool
	ticket  atomic.Uint64
	reg     sync.Map // ticket -> registryEntry
	closeMu sync.Once
}

type registryEntry struct {
	key     Key
	payload any
}

func (q *windowsQueue) Post(key Key, payload any) error {
	if q.closed.Load() {
		return ErrClosed
	}

	ticket := q.ticket.Add(1)
	q.reg.Store(ticket, registryEntry{key: key, payload: payload})

	ov := &windows.Overlapped{Internal: uintptr(ticket)}
	if err := windows.PostQueuedCompletionStatus(q.iocp, 0, 0, ov); err != nil {
		q.reg.Delete(ticket)
		return err
	}
	return nil
}

func (q *windowsQueue) Close() error {
	var err error
	q.closeMu.Do(func() {
		q.closed.Store(true)
		err = windows.CloseHandle(q.iocp)
	})
	return err
}

func (q *windowsQueue) NewWaiter() Waiter {
	return &windowsWaiter{q: q}
}

type windowsWaiter struct {
	q *windowsQueue
}

func (w *windowsWaiter) Wait(timeout time.Duration) (Packet, error) {
	if w.q.closed.Load() {
		return Packet{}, ErrClosed
	}

	timeoutMs := uint32(windows.INFINITE)
	if timeout > 0 {
		timeoutMs = uint32(timeout.Milliseconds())
	}

	var bytes uint32
	var key uintptr
	var overlapped *windows.Overlapped

	err := windows.GetQueuedCompletionStatus(w.q.iocp, &bytes, &key, &overlapped, timeoutMs)
	if err != nil {
		if errno, ok := err.(syscall.Errno); ok {
			switch errno {
			case windows.WAIT_TIMEOUT:
				return Packet{}, ErrTimeout
			case windows.ERROR_ABANDONED_WAIT_0, windows.ERROR_INVALID_HANDLE:
				return Packet{}, ErrClosed
			}
		}
		return Packet{}, err
	}

	if overlapped == nil {
		// A completion with no OVERLAPPED carries no payload — a bare
		// wake-up posted for some other reason than our own Post. Treat it
		// as a no-op, per spec.md §4.4 step 2.
		return Packet{Key: KeyNoop}, nil
	}

	ticket := uint64(overlapped.Internal)
	v, ok := w.q.reg.LoadAndDelete(ticket)
	if !ok {
		// Should be unreachable (every ticket we hand out is registered
		// before the post that carries it), but fail safe rather than
		// panic on an unexpectedly shaped completion.
		return Packet{Key: KeyNoop}, nil
	}
	entry := v.(registryEntry)
	return Packet{Key: entry.key, Payload: entry.payload}, nil
}

// brokenQueue is returned by New when CreateIoCompletionPort itself fails,
// so construction stays infallible and the failure surfaces on first use.
type brokenQueue struct{ err error }

func (b *brokenQueue) Post(Key, any) error { return b.err }
func (b *brokenQueue) Close() error        { return nil }
func (b *brokenQueue) NewWaiter() Waiter   { return brokenWaiter{b.err} }

type brokenWaiter struct{ err error }

func (b brokenWaiter) Wait(time.Duration) (Packet, error) { return Packet{}, b.err }
