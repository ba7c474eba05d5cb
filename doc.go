// Package iocpthreadpool provides a self-scaling, per-instance thread pool
// whose dispatch/worker pipeline is gated by an OS I/O completion queue — a
// kernel-managed, bounded-concurrency FIFO packet queue with thread-gating
// semantics (Windows I/O Completion Ports on windows, a portable emulation
// with the same contract elsewhere).
//
// # Architecture
//
// A [Pool] is built around two completion queues (see package
// internal/ioqueue): a single-concurrency dispatch queue fed by [Pool.Submit],
// and a worker queue gated at the pool's configured max concurrency. One
// dispatcher goroutine forwards accepted work from the dispatch queue to the
// worker queue, blocking on pickup as backpressure; N worker goroutines drain
// the worker queue and invoke the user callback. The dispatcher also scales
// the worker count between MinThreads and MaxThreads: up by one worker when
// a pickup wait times out with every worker busy, and down on a periodic
// maintenance tick when too many workers are idle.
//
// # Platform support
//
// The completion queue is implemented per-platform:
//   - Windows: a real I/O Completion Port (CreateIoCompletionPort /
//     PostQueuedCompletionStatus / GetQueuedCompletionStatus).
//   - Everything else: a channel-based emulation of the same FIFO /
//     concurrency-gated / wait-with-timeout contract.
//
// # Thread safety
//
// [Pool.Submit] and [Pool.SubmitEmpty] are safe to call from any goroutine
// and never block on worker availability. [Pool.Shutdown] is idempotent and
// safe to call concurrently from multiple goroutines. [Pool.CurrentThreads],
// [Pool.ActiveThreads], and [Pool.Stats] are lock-free reads of atomic
// counters and may be stale by the time the caller observes them.
//
// # Usage
//
//	pool, err := iocpthreadpool.New(4, 2, 8, func(payload any) {
//	    fmt.Println(payload)
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pool.Shutdown()
//
//	for i := 0; i < 100; i++ {
//	    _ = pool.Submit(i)
//	}
//
// # Error types
//
//   - [ErrInvalidConfig]: returned by [New] for out-of-range bounds.
//   - [ErrRejected]: returned by [Pool.Submit] after [Pool.Shutdown].
//   - [ErrPoolUnhealthy]: returned by [Pool.Submit] once the dispatcher has
//     died on a fatal completion-queue error.
//   - [CallbackFault]: not returned to any caller; a worker logs each
//     recovered callback panic as a CallbackFault, and passes the raw
//     recovered value to an optional hook (see [WithCallbackFaultHook]). The
//     worker that caught it always continues.
package iocpthreadpool
