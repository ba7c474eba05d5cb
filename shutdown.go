package iocpthreadpool

import "github.com/pinopino/IOCPThreadPool/internal/ioqueue"

// Shutdown disposes the Pool: it stops accepting new submissions
// (subsequent Submit/SubmitEmpty calls return ErrRejected), signals every
// live worker to exit once it has drained whatever work precedes its
// sentinel, and blocks until the dispatcher and all workers have actually
// exited. Shutdown is idempotent and safe to call from multiple goroutines
// concurrently; only the first caller does any work, and every caller
// (first or not) blocks until shutdown has completed.
//
// Grounded on eventloop's Stop() CompareAndSwap-guarded, closed-channel
// "losers block on the winner" idiom.
func (p *Pool) Shutdown() {
	if p.disposed.CompareAndSwap(false, true) {
		// Closing shutdownSignaled immediately unblocks a dispatcher parked
		// in dispatch()'s pickup-wait select, and is observed at the top of
		// dispatchLoop's next iteration otherwise.
		close(p.shutdownSignaled)

		// One shutdown sentinel per live worker guarantees every worker's
		// Wait eventually returns a KeyShutdown packet, even though workers
		// may keep exiting (and thus shrinking CurrentThreads) while this
		// loop runs — any shortfall just means some workers already exited
		// via a scale-down sentinel posted earlier. growMu is held across
		// the snapshot and the post so a concurrent evaluateScaleUp can't
		// spawn a worker that escapes this count: it either spawns before
		// this lock (and is counted in n) or blocks until after this
		// section unlocks, by which point disposed is already true and it
		// will decline to spawn.
		p.growMu.Lock()
		n := p.CurrentThreads()
		for i := 0; i < n; i++ {
			_ = p.workQueue.Post(ioqueue.KeyShutdown, nil)
		}
		p.growMu.Unlock()

		<-p.dispatcherDone
		p.wg.Wait()

		_ = p.dispatchQueue.Close()
		_ = p.workQueue.Close()

		close(p.shutdownComplete)
	}

	<-p.shutdownComplete
}
