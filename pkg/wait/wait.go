// Package wait implements explicit waits: bounded polling loops that wait for
// a UI condition to hold.
//
// Every wait evaluates its condition immediately, then at a fixed interval
// until the condition holds or the timeout elapses. The last evaluation
// happens at the deadline, so a wait that never succeeds returns after the
// timeout plus at most one interval. Failure is always a timeout error
// matching core.ErrWaitTimeout.
package wait

import (
	"errors"
	"fmt"
	"time"

	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
)

const (
	// DefaultInterval is the fixed polling cadence.
	DefaultInterval = 500 * time.Millisecond
	// DefaultTimeout is the explicit wait used when neither the call nor the
	// Waiter sets one.
	DefaultTimeout = 15 * time.Second
)

// Condition reports whether the awaited state holds. A non-nil error aborts
// the wait unless it is ignorable (see Ignorable).
type Condition[T any] func() (T, bool, error)

// Until polls cond every interval until it returns true or timeout elapses.
// Ignorable errors (element not found, stale element) count as "not yet";
// any other error is returned unchanged. On timeout the returned error wraps
// core.ErrWaitTimeout with the last ignorable error as cause.
func Until[T any](timeout, interval time.Duration, cond Condition[T]) (T, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	deadline := time.Now().Add(timeout)

	var lastErr error
	for {
		v, ok, err := cond()
		if err != nil {
			if !Ignorable(err) {
				var zero T
				return zero, err
			}
			lastErr = err
		} else if ok {
			return v, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			var zero T
			return zero, timeoutError(timeout, lastErr)
		}
		if remaining < interval {
			time.Sleep(remaining)
		} else {
			time.Sleep(interval)
		}
	}
}

// Ignorable reports whether err only means the element is not there (yet).
func Ignorable(err error) bool {
	return errors.Is(err, core.ErrElementNotFound) || errors.Is(err, core.ErrStaleElement)
}

// IsTimeout reports whether err is a wait timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, core.ErrWaitTimeout)
}

func timeoutError(timeout time.Duration, lastErr error) *core.ExecutionError {
	e := core.ErrWaitTimeout.
		WithMessage(fmt.Sprintf("condition not met after %s", timeout)).
		WithDetails(map[string]interface{}{"timeout": timeout.String()})
	if lastErr != nil {
		e = e.WithCause(lastErr)
	}
	return e
}
