package iocpthreadpool

import "github.com/pinopino/IOCPThreadPool/internal/ioqueue"

// evaluateScaleUp spawns one additional worker if, and only if, every live
// worker appears busy (active == current) and the pool has room to grow.
// Gating on unanimous busyness — rather than spawning on every timed-out
// pickup wait — is what prevents an idle pool (no submissions at all) from
// being mistaken for a saturated one (spec.md §4.3, §9).
func (p *Pool) evaluateScaleUp() {
	// Held across the disposed check and the spawn itself so Shutdown can
	// never snapshot current_threads for its sentinel count in between —
	// see Pool.growMu and shutdown.go.
	p.growMu.Lock()
	defer p.growMu.Unlock()

	if p.disposed.Load() {
		return
	}
	current := p.CurrentThreads()
	active := p.ActiveThreads()
	if current >= p.maxThreads {
		return
	}
	if active < current {
		return
	}
	p.spawnWorker()
	logInfo(p.cfg.logger, "elasticity", "scaled up", map[string]any{
		"current_threads": current + 1,
		"active_threads":  active,
	})
}

// runMaintenance is invoked periodically (every maintPeriod) by the
// dispatcher to evaluate scale-down. Unlike the source this is grounded
// on, this gates on current_threads rather than active_threads: the
// source's "active_threads > min_threads" condition never sheds anything
// while every worker is idle (active_threads == 0), so a fully idle pool
// would never shrink. The clamp below keeps current_threads at or above
// min_threads (spec.md §9 Open Question, resolved in SPEC_FULL.md).
func (p *Pool) runMaintenance() {
	if p.disposed.Load() {
		return
	}

	current := p.CurrentThreads()
	if current <= p.minThreads {
		return
	}

	active := p.ActiveThreads()
	idle := current - active
	if idle <= p.cfg.maxIdleThreads {
		return
	}

	shed := (idle-p.cfg.maxIdleThreads)/2 + 1
	// Never shed below minThreads regardless of how idle the pool is.
	if current-shed < p.minThreads {
		shed = current - p.minThreads
	}
	if shed <= 0 {
		return
	}

	for i := 0; i < shed; i++ {
		if err := p.workQueue.Post(ioqueue.KeyShutdown, nil); err != nil {
			logWarn(p.cfg.logger, "elasticity", "failed to post shutdown sentinel during scale-down", err, nil)
			return
		}
	}
	logInfo(p.cfg.logger, "elasticity", "scaled down", map[string]any{
		"shed":            shed,
		"current_threads": current,
		"idle_threads":    idle,
	})
}
