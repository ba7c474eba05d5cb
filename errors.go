package iocpthreadpool

import (
	"errors"
	"fmt"
)

// Sentinel errors. See spec.md §7 for the taxonomy these correspond to.
var (
	// ErrInvalidConfig is returned by New when the configured bounds are
	// invalid (e.g. min > max, maxConcurrency < 1).
	ErrInvalidConfig = errors.New("iocpthreadpool: invalid configuration")

	// ErrRejected is returned by Submit/SubmitEmpty once the pool has been
	// disposed (Shutdown called). Per spec.md §4.2 this is a fail-fast, not
	// a queued/best-effort attempt.
	ErrRejected = errors.New("iocpthreadpool: pool is disposed")

	// ErrPoolUnhealthy is returned by Submit/SubmitEmpty once the dispatcher
	// has terminated on a fatal completion-queue error (spec.md §7,
	// "Dispatcher kernel-wait fault"). This addresses the open question in
	// spec.md §9 about stranding submissions silently after such a fault.
	ErrPoolUnhealthy = errors.New("iocpthreadpool: pool dispatcher has terminated; submissions are not being processed")
)

// CallbackFault wraps a value recovered from a panicking user callback. It
// is never returned from Submit/SubmitEmpty — the worker that catches the
// panic continues per spec.md §4.4 — but it is the Err of the warning the
// worker logs (a hook registered via WithCallbackFaultHook receives the raw
// recovered value, not a CallbackFault). It satisfies errors.Unwrap for
// callers that want to inspect the underlying error via errors.As/errors.Is.
type CallbackFault struct {
	// Value is the value passed to panic() by the user callback.
	Value any
}

// Error implements the error interface.
func (f *CallbackFault) Error() string {
	return fmt.Sprintf("iocpthreadpool: callback panicked: %v", f.Value)
}

// Unwrap returns the underlying error if Value is itself an error, enabling
// errors.Is/errors.As to match through the panic value.
func (f *CallbackFault) Unwrap() error {
	if err, ok := f.Value.(error); ok {
		return err
	}
	return nil
}
