package iocpthreadpool

import (
	"github.com/pinopino/IOCPThreadPool/internal/ioqueue"
)

// workerLoop is run by every worker goroutine. It consumes the worker
// queue until it receives a shutdown sentinel or the queue closes, invoking
// the Pool's callback for every KeyWork packet with panic recovery
// (spec.md §4.4). KeyNoop packets (bare wakeups on the windows backend) are
// ignored.
func (p *Pool) workerLoop() {
	defer p.wg.Done()
	defer p.currentThreads.Add(-1)

	waiter := p.workQueue.NewWaiter()

	for {
		pkt, err := waiter.Wait(0)
		if err != nil {
			// ErrClosed (pool fully shut down) or an unexpected fatal error:
			// either way this worker has nothing left to do.
			return
		}

		switch pkt.Key {
		case ioqueue.KeyShutdown:
			return
		case ioqueue.KeyNoop:
			continue
		case ioqueue.KeyWork:
			p.signalPickup()
			p.runCallback(pkt.Payload)
		}
	}
}

// signalPickup tells the dispatcher this worker just dequeued a packet,
// unblocking its pending dispatch() call. The send is non-blocking: if the
// dispatcher isn't currently waiting (or another worker's signal is still
// buffered), dropping it is harmless — the dispatcher only uses this as a
// liveness heuristic, not a strict one-to-one handoff token.
func (p *Pool) signalPickup() {
	select {
	case p.pickup <- struct{}{}:
	default:
	}
}

// runCallback invokes the callback with panic recovery, tracking the
// active-thread count around the call.
func (p *Pool) runCallback(payload any) {
	p.activeThreads.Add(1)
	defer p.activeThreads.Add(-1)

	defer func() {
		if r := recover(); r != nil {
			fault := &CallbackFault{Value: r}
			logWarn(p.cfg.logger, "worker", "callback panicked, recovered", fault, nil)
			if p.cfg.callbackFaultHook != nil {
				func() {
					defer func() { recover() }()
					p.cfg.callbackFaultHook(r)
				}()
			}
		}
	}()

	p.callback(payload)
}
