package integration

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iocpthreadpool "github.com/pinopino/IOCPThreadPool"
)

func TestRateLimitedSubmitter_AllowsWithinRate(t *testing.T) {
	var invocations atomic.Int64

	pool, err := iocpthreadpool.New(2, 1, 2, func(any) {
		invocations.Add(1)
	})
	require.NoError(t, err)
	defer pool.Shutdown()

	limiter := NewRateLimitedSubmitter(pool, map[time.Duration]int{
		time.Second: 2,
	})

	_, err = limiter.Submit("client-a", 1)
	require.NoError(t, err)
	_, err = limiter.Submit("client-a", 2)
	require.NoError(t, err)

	_, err = limiter.Submit("client-a", 3)
	assert.ErrorIs(t, err, ErrRateLimited)

	// A different category has its own independent budget.
	_, err = limiter.Submit("client-b", 1)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return invocations.Load() == 3
	}, time.Second, 5*time.Millisecond)
}
