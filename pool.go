package iocpthreadpool

import (
	"sync"
	"sync/atomic"

	"github.com/pinopino/IOCPThreadPool/internal/ioqueue"
)

// Callback is invoked by a worker goroutine for every item submitted via
// Submit. A panicking Callback is recovered by the worker (spec.md §4.4);
// it never brings down the Pool.
type Callback func(payload any)

// Pool is a fixed-concurrency, auto-scaling thread pool gated by a pair of
// OS-completion-queue-like primitives: a dispatch queue with concurrency 1
// (only the dispatcher ever waits on it) and a worker queue with
// concurrency max_concurrency (all workers wait on it). See doc.go and
// SPEC_FULL.md for the full architecture.
type Pool struct {
	callback Callback
	cfg      config

	maxConcurrency uint32
	minThreads     int
	maxThreads     int

	dispatchQueue ioqueue.Queue // Submit posts here; only the dispatcher waits on it
	workQueue     ioqueue.Queue // dispatcher posts work/shutdown packets; workers consume
	pickup        chan struct{} // non-blocking "a worker just dequeued" signal to the dispatcher

	currentThreads atomic.Int64
	activeThreads  atomic.Int64
	disposed       atomic.Bool
	healthy        atomic.Bool

	shutdownSignaled chan struct{}
	dispatcherDone   chan struct{}
	shutdownComplete chan struct{}

	// growMu serializes worker-count growth (evaluateScaleUp/spawnWorker)
	// against Shutdown's snapshot-and-post of shutdown sentinels, so a
	// scale-up can never slip past the sentinel count uncounted.
	growMu sync.Mutex

	wg sync.WaitGroup
}

// New constructs a Pool. maxConcurrency bounds how many workers may be
// simultaneously released from a Wait on the work queue — it is the
// completion queue's NumberOfConcurrentThreads equivalent (spec.md §3).
// minThreads/maxThreads bound the live worker population. callback must be
// non-nil.
//
// New starts the dispatcher and the initial minThreads workers before
// returning.
func New(maxConcurrency uint32, minThreads, maxThreads int, callback Callback, opts ...Option) (*Pool, error) {
	if callback == nil || maxConcurrency < 1 || minThreads < 1 || maxThreads < minThreads {
		return nil, ErrInvalidConfig
	}

	p := &Pool{
		callback:         callback,
		cfg:              resolveOptions(opts),
		maxConcurrency:   maxConcurrency,
		minThreads:       minThreads,
		maxThreads:       maxThreads,
		dispatchQueue:    ioqueue.New(1),
		workQueue:        ioqueue.New(int(maxConcurrency)),
		pickup:           make(chan struct{}, 1),
		shutdownSignaled: make(chan struct{}),
		dispatcherDone:   make(chan struct{}),
		shutdownComplete: make(chan struct{}),
	}
	p.healthy.Store(true)

	for i := 0; i < minThreads; i++ {
		p.spawnWorker()
	}

	p.wg.Add(1)
	go p.dispatchLoop()

	return p, nil
}

// Submit enqueues payload for asynchronous invocation of the Pool's
// callback. It returns ErrRejected if the Pool has been shut down, or
// ErrPoolUnhealthy if the dispatcher has terminated on a fatal fault.
// Submit never blocks on worker availability — only, briefly, on handing
// the packet to the dispatch queue (spec.md §4.2).
func (p *Pool) Submit(payload any) error {
	if p.disposed.Load() {
		return ErrRejected
	}
	if !p.healthy.Load() {
		return ErrPoolUnhealthy
	}
	return p.dispatchQueue.Post(ioqueue.KeyWork, payload)
}

// SubmitEmpty enqueues a callback invocation carrying no payload (nil).
func (p *Pool) SubmitEmpty() error {
	return p.Submit(nil)
}

// CurrentThreads returns the live worker goroutine count.
func (p *Pool) CurrentThreads() int { return int(p.currentThreads.Load()) }

// ActiveThreads returns the count of workers currently executing the
// callback.
func (p *Pool) ActiveThreads() int { return int(p.activeThreads.Load()) }

// Stats is a point-in-time snapshot of Pool state, returned by Pool.Stats.
type Stats struct {
	CurrentThreads int
	ActiveThreads  int
	MinThreads     int
	MaxThreads     int
	MaxConcurrency uint32
	Healthy        bool
	Disposed       bool
}

// Stats returns a point-in-time snapshot of the Pool's elasticity state.
// This supplements spec.md with an observability surface the original
// lacked entirely (SPEC_FULL.md "Supplemented feature: pool status
// snapshot").
func (p *Pool) Stats() Stats {
	return Stats{
		CurrentThreads: p.CurrentThreads(),
		ActiveThreads:  p.ActiveThreads(),
		MinThreads:     p.minThreads,
		MaxThreads:     p.maxThreads,
		MaxConcurrency: p.maxConcurrency,
		Healthy:        p.healthy.Load(),
		Disposed:       p.disposed.Load(),
	}
}

func (p *Pool) spawnWorker() {
	p.currentThreads.Add(1)
	p.wg.Add(1)
	go p.workerLoop()
}
