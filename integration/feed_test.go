package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	iocpthreadpool "github.com/pinopino/IOCPThreadPool"
)

func TestFeed_DrainsChannelIntoPool(t *testing.T) {
	var mu sync.Mutex
	seen := make(map[int]bool)

	pool, err := iocpthreadpool.New(4, 2, 4, func(payload any) {
		mu.Lock()
		seen[payload.(int)] = true
		mu.Unlock()
	})
	require.NoError(t, err)
	defer pool.Shutdown()

	ch := make(chan int)
	go func() {
		for i := 0; i < 10; i++ {
			ch <- i
		}
		close(ch)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err = Feed(ctx, pool, &FeedConfig{MaxSize: 4, MinSize: 1, PartialTimeout: 10 * time.Millisecond}, ch)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 10
	}, time.Second, 5*time.Millisecond)
}

func TestFeed_ContextCancel(t *testing.T) {
	pool, err := iocpthreadpool.New(1, 1, 1, func(any) {})
	require.NoError(t, err)
	defer pool.Shutdown()

	ch := make(chan int)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = Feed(ctx, pool, nil, ch)
	assert.ErrorIs(t, err, context.Canceled)
}
