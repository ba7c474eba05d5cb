package integration

import (
	"context"
	"io"
	"time"

	"github.com/joeycumines/go-longpoll"

	iocpthreadpool "github.com/pinopino/IOCPThreadPool"
)

// FeedConfig configures Feed. All fields are optional; see
// longpoll.ChannelConfig for the defaults applied when left zero.
type FeedConfig struct {
	MaxSize        int
	MinSize        int
	PartialTimeout time.Duration
}

// Feed drains values from ch, submitting each one to pool, until ctx is
// canceled or ch is closed and fully drained (in which case Feed returns
// nil, treating io.EOF as a normal completion rather than an error). It
// uses longpoll.Channel to batch receives off of ch, so a burst of values
// arriving close together are submitted back-to-back rather than one
// Submit call per scheduler tick.
func Feed[T any](ctx context.Context, pool *iocpthreadpool.Pool, cfg *FeedConfig, ch <-chan T) error {
	var lpCfg *longpoll.ChannelConfig
	if cfg != nil {
		lpCfg = &longpoll.ChannelConfig{
			MaxSize:        cfg.MaxSize,
			MinSize:        cfg.MinSize,
			PartialTimeout: cfg.PartialTimeout,
		}
	}

	for {
		err := longpoll.Channel(ctx, lpCfg, ch, func(value T) error {
			return pool.Submit(value)
		})
		switch {
		case err == nil:
			continue
		case err == io.EOF:
			return nil
		default:
			return err
		}
	}
}
