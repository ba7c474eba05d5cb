package integration

import (
	"context"
	"time"

	"github.com/joeycumines/go-microbatch"

	iocpthreadpool "github.com/pinopino/IOCPThreadPool"
)

// ThrottleConfig configures Throttle. All fields are optional; see
// microbatch.BatcherConfig for the defaults applied when left zero.
type ThrottleConfig struct {
	MaxSize        int
	FlushInterval  time.Duration
	MaxConcurrency int
}

// Throttle groups individual submissions into small batches (via
// microbatch.Batcher) before handing each batch to pool as a single
// Submit call carrying the whole []any slice as its payload. This trades a
// little latency for fewer, larger units of work reaching the pool — useful
// when the callback itself amortizes better over a batch (e.g. one
// round-trip per batch rather than per item).
//
// The returned Throttle must be closed via Close once no more jobs will be
// submitted.
type Throttle struct {
	batcher *microbatch.Batcher[any]
}

// NewThrottle constructs a Throttle that submits completed batches to pool.
func NewThrottle(pool *iocpthreadpool.Pool, cfg *ThrottleConfig) *Throttle {
	var mbCfg *microbatch.BatcherConfig
	if cfg != nil {
		mbCfg = &microbatch.BatcherConfig{
			MaxSize:        cfg.MaxSize,
			MaxConcurrency: cfg.MaxConcurrency,
		}
		if cfg.FlushInterval != 0 {
			mbCfg.FlushInterval = cfg.FlushInterval
		}
	}

	processor := func(ctx context.Context, jobs []any) error {
		return pool.Submit(jobs)
	}

	return &Throttle{batcher: microbatch.NewBatcher[any](mbCfg, processor)}
}

// Submit schedules job for inclusion in the next batch. The returned
// *microbatch.JobResult's Wait method can be used to block until the batch
// containing job has been submitted to the pool.
func (t *Throttle) Submit(ctx context.Context, job any) (*microbatch.JobResult[any], error) {
	return t.batcher.Submit(ctx, job)
}

// Close cancels any in-flight batch and stops accepting new jobs.
func (t *Throttle) Close() error {
	return t.batcher.Close()
}

// Shutdown drains any pending jobs into a final batch, submits it, and then
// stops accepting new jobs, per microbatch.Batcher.Shutdown.
func (t *Throttle) Shutdown(ctx context.Context) error {
	return t.batcher.Shutdown(ctx)
}
