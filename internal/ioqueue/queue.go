// Package ioqueue provides the completion-queue abstraction assumed by
// spec.md §4.1: a kernel-managed, bounded-concurrency, FIFO packet queue
// with thread-gating semantics. On windows it is backed by a real I/O
// Completion Port; everywhere else it is emulated with the same observable
// contract.
package ioqueue

import (
	"errors"
	"time"
)

// Key is the small control value carried by a completion packet, used to
// distinguish ordinary work from the shutdown sentinel.
type Key int32

const (
	// KeyNoop marks a completion that carries no work — the queue's way of
	// waking a blocked Wait without delivering a payload. Worker loops must
	// treat this as "continue", not as a unit of work.
	KeyNoop Key = iota
	// KeyWork marks an ordinary work packet; Payload is the opaque value
	// handed to Post (which may itself be nil — see Pool.SubmitEmpty).
	KeyWork
	// KeyShutdown is the reserved sentinel posted to signal a worker to
	// exit its loop.
	KeyShutdown
)

// Packet is one dequeued completion.
type Packet struct {
	Key     Key
	Payload any
}

var (
	// ErrClosed is returned by Post and Wait once Close has been called.
	ErrClosed = errors.New("ioqueue: queue closed")
	// ErrTimeout is returned by Wait when no packet arrived within the
	// requested timeout.
	ErrTimeout = errors.New("ioqueue: wait timed out")
)

// Queue is a bounded-concurrency FIFO packet queue: Post never blocks and
// preserves submission order; Wait (via a Waiter) blocks up to a timeout and
// is gated so that at most `concurrency` callers are released from it
// simultaneously, matching an OS completion port's NumberOfConcurrentThreads
// semantics.
type Queue interface {
	// Post enqueues a packet, non-blocking, preserving FIFO order. Payload
	// ownership transfers to whichever Waiter eventually dequeues it.
	Post(key Key, payload any) error

	// NewWaiter returns a handle modeling one OS thread's repeated
	// completion-wait calls against this queue. Each worker goroutine
	// should create exactly one Waiter and reuse it across loop iterations.
	NewWaiter() Waiter

	// Close releases the queue. Any Waiter blocked in Wait wakes with
	// ErrClosed. Idempotent.
	Close() error
}

// Waiter is a per-caller handle for dequeuing from a Queue.
type Waiter interface {
	// Wait blocks until a packet is available, the queue is closed, or
	// timeout elapses (timeout <= 0 means wait indefinitely).
	Wait(timeout time.Duration) (Packet, error)
}
