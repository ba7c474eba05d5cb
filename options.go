package iocpthreadpool

import "time"

// config holds the resolved, validated settings for a Pool. See spec.md §3
// for the meaning of each field.
type config struct {
	dispatchTimeout           time.Duration
	maxThreadsDispatchTimeout time.Duration
	maintPeriod               time.Duration
	maxIdleThreads            int
	logger                    Logger
	callbackFaultHook         func(recovered any)
}

func defaultConfig() config {
	return config{
		dispatchTimeout:           100 * time.Millisecond,
		maxThreadsDispatchTimeout: 10 * time.Second,
		maintPeriod:               5 * time.Second,
		maxIdleThreads:            0,
		logger:                    NoOpLogger{},
	}
}

// Option configures a Pool at construction time.
type Option interface {
	applyPool(*config)
}

type optionFunc func(*config)

func (f optionFunc) applyPool(cfg *config) { f(cfg) }

// WithDispatchTimeout overrides dispatch_timeout_ms (default 100ms): the
// short timeout governing dispatcher responsiveness and maintenance
// cadence.
func WithDispatchTimeout(d time.Duration) Option {
	return optionFunc(func(cfg *config) {
		if d > 0 {
			cfg.dispatchTimeout = d
		}
	})
}

// WithMaxThreadsDispatchTimeout overrides max_threads_dispatch_timeout_ms
// (default 10s): the extended pickup-wait patience applied only when the
// pool is already at max_threads, to avoid thrashing scale-up decisions.
func WithMaxThreadsDispatchTimeout(d time.Duration) Option {
	return optionFunc(func(cfg *config) {
		if d > 0 {
			cfg.maxThreadsDispatchTimeout = d
		}
	})
}

// WithMaintPeriod overrides maint_period_ms (default 5s): the maintenance
// tick interval driving scale-down evaluation.
func WithMaintPeriod(d time.Duration) Option {
	return optionFunc(func(cfg *config) {
		if d > 0 {
			cfg.maintPeriod = d
		}
	})
}

// WithMaxIdleThreads overrides max_idle_threads (default 0): the threshold
// above which idle workers are shed on a maintenance tick.
func WithMaxIdleThreads(n int) Option {
	return optionFunc(func(cfg *config) {
		if n >= 0 {
			cfg.maxIdleThreads = n
		}
	})
}

// WithLogger sets the Logger used for dispatch/worker/elasticity
// diagnostics. Defaults to NoOpLogger.
func WithLogger(l Logger) Option {
	return optionFunc(func(cfg *config) {
		if l != nil {
			cfg.logger = l
		}
	})
}

// WithCallbackFaultHook registers a callback invoked, from the worker
// goroutine that caught it, whenever a user callback panics. The worker
// continues regardless of what the hook does; the hook exists purely for
// observability (spec.md §7/§9 call out that production systems may want
// this).
func WithCallbackFaultHook(hook func(recovered any)) Option {
	return optionFunc(func(cfg *config) {
		cfg.callbackFaultHook = hook
	})
}

func resolveOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applyPool(&cfg)
	}
	return cfg
}
