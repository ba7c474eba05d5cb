package iocpthreadpool

import (
	"time"

	"github.com/pinopino/IOCPThreadPool/internal/ioqueue"
)

// dispatchLoop is the Pool's single dispatcher goroutine (spec.md §4.3). It
// owns the dispatch queue (the only waiter on it, satisfying invariant I3)
// and forwards each submitted payload to the worker queue one at a time,
// blocking until a worker actually picks it up before moving to the next —
// this is the pool's backpressure mechanism and its saturation signal in
// one. Grounded on eventloop's single dedicated run-loop goroutine pattern
// (a `select` against a shutdown channel plus a timed poll, periodic
// maintenance gated on elapsed time).
func (p *Pool) dispatchLoop() {
	defer p.wg.Done()
	defer close(p.dispatcherDone)

	waiter := p.dispatchQueue.NewWaiter()
	lastMaint := time.Now()

	for {
		select {
		case <-p.shutdownSignaled:
			return
		default:
		}

		pkt, err := waiter.Wait(p.cfg.dispatchTimeout)
		switch {
		case err == nil:
			if pkt.Key == ioqueue.KeyWork {
				if !p.dispatch(pkt.Payload) {
					// shutdown observed while waiting for pickup
					return
				}
			}
		case err == ioqueue.ErrTimeout:
			// fall through to the maintenance check below
		case err == ioqueue.ErrClosed:
			p.healthy.Store(false)
			logError(p.cfg.logger, "dispatch", "dispatch queue closed; dispatcher exiting", err, nil)
			return
		default:
			p.healthy.Store(false)
			logError(p.cfg.logger, "dispatch", "fatal error waiting on dispatch queue", err, nil)
			return
		}

		if time.Since(lastMaint) >= p.cfg.maintPeriod {
			p.runMaintenance()
			lastMaint = time.Now()
		}
	}
}

// dispatch reposts payload into the worker queue and blocks until a worker
// actually dequeues it (or shutdown begins). While waiting it treats a
// timed-out pickup as a saturation signal and re-evaluates scale-up,
// exactly as spec.md §4.3 describes: "waits on a two-event set: dispatch
// complete ... and the shutdown event. On timeout it evaluates scale-up
// and loops the wait." Returns false if shutdown was observed.
func (p *Pool) dispatch(payload any) bool {
	if err := p.workQueue.Post(ioqueue.KeyWork, payload); err != nil {
		// Worker queue is already closed — only possible during/after
		// shutdown; nothing more to do with this payload.
		return false
	}

	timeout := p.cfg.dispatchTimeout
	if p.CurrentThreads() >= p.maxThreads {
		timeout += p.cfg.maxThreadsDispatchTimeout
	}

	for {
		timer := time.NewTimer(timeout)
		select {
		case <-p.pickup:
			timer.Stop()
			return true
		case <-p.shutdownSignaled:
			timer.Stop()
			return false
		case <-timer.C:
			p.evaluateScaleUp()
		}
	}
}
