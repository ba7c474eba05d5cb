package integration

import (
	"errors"
	"time"

	"github.com/joeycumines/go-catrate"

	iocpthreadpool "github.com/pinopino/IOCPThreadPool"
)

// ErrRateLimited is returned by RateLimitedSubmitter.Submit when category
// has exceeded one of its configured rates.
var ErrRateLimited = errors.New("integration: submission rejected by rate limiter")

// RateLimitedSubmitter wraps a Pool with a per-category sliding-window rate
// limit (catrate.Limiter), rejecting submissions past the configured rate
// instead of letting them pile up in the pool's work queue. This is a
// supplemental governor sitting in front of the pool's own elasticity
// control (spec.md never rate-limits submissions itself — auto-scaling is
// its only form of backpressure).
type RateLimitedSubmitter struct {
	pool    *iocpthreadpool.Pool
	limiter *catrate.Limiter
}

// NewRateLimitedSubmitter constructs a RateLimitedSubmitter over pool using
// rates, keyed the same way as catrate.NewLimiter.
func NewRateLimitedSubmitter(pool *iocpthreadpool.Pool, rates map[time.Duration]int) *RateLimitedSubmitter {
	return &RateLimitedSubmitter{
		pool:    pool,
		limiter: catrate.NewLimiter(rates),
	}
}

// Submit attempts to register an event for category and, if within rate,
// submits payload to the underlying pool. If category has exceeded its
// rate, Submit returns ErrRateLimited along with the time at which the
// next event may be registered.
func (r *RateLimitedSubmitter) Submit(category any, payload any) (retryAt time.Time, err error) {
	next, ok := r.limiter.Allow(category)
	if !ok {
		return next, ErrRateLimited
	}
	return time.Time{}, r.pool.Submit(payload)
}
