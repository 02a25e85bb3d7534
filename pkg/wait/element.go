package wait

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
)

// Finder is the part of a driver session the element waits need.
// *appium.Client satisfies it.
type Finder interface {
	FindElement(strategy, value string) (string, error)
	IsElementDisplayed(elementID string) (bool, error)
	IsElementEnabled(elementID string) (bool, error)
	GetElementText(elementID string) (string, error)
}

// Waiter runs element waits against one session with a default timeout
// taken from configuration.
type Waiter struct {
	Driver   Finder
	Timeout  time.Duration // used when a call passes timeout <= 0; DefaultTimeout when zero
	Interval time.Duration // polling cadence, DefaultInterval when zero
}

// New returns a Waiter using timeout as the default explicit wait.
func New(d Finder, timeout time.Duration) *Waiter {
	return &Waiter{Driver: d, Timeout: timeout, Interval: DefaultInterval}
}

func (w *Waiter) timeout(t time.Duration) time.Duration {
	if t > 0 {
		return t
	}
	if w.Timeout > 0 {
		return w.Timeout
	}
	return DefaultTimeout
}

// ForVisible waits until the element is present and displayed and returns
// its element id.
func (w *Waiter) ForVisible(loc core.Locator, timeout time.Duration) (string, error) {
	return run(w, loc, "to be visible", timeout, func() (string, bool, error) {
		return w.visible(loc)
	})
}

// ForClickable waits until the element is displayed and enabled and returns
// its element id.
func (w *Waiter) ForClickable(loc core.Locator, timeout time.Duration) (string, error) {
	return run(w, loc, "to be clickable", timeout, func() (string, bool, error) {
		id, ok, err := w.visible(loc)
		if !ok || err != nil {
			return "", false, err
		}
		enabled, err := w.Driver.IsElementEnabled(id)
		if err != nil {
			return "", false, err
		}
		return id, enabled, nil
	})
}

// ForText waits until the element's text contains text.
func (w *Waiter) ForText(loc core.Locator, text string, timeout time.Duration) (bool, error) {
	return run(w, loc, fmt.Sprintf("to contain text %q", text), timeout, func() (bool, bool, error) {
		id, err := w.Driver.FindElement(loc.Strategy, loc.Value)
		if err != nil {
			return false, false, err
		}
		got, err := w.Driver.GetElementText(id)
		if err != nil {
			return false, false, err
		}
		ok := strings.Contains(got, text)
		return ok, ok, nil
	})
}

// ForGone waits until the element is absent or not displayed. It is the
// negation of ForVisible under the same cadence.
func (w *Waiter) ForGone(loc core.Locator, timeout time.Duration) (bool, error) {
	return run(w, loc, "to disappear", timeout, func() (bool, bool, error) {
		_, visible, err := w.visible(loc)
		if err != nil {
			if Ignorable(err) {
				return true, true, nil
			}
			return false, false, err
		}
		return !visible, !visible, nil
	})
}

// visible finds loc and reports whether it is displayed.
func (w *Waiter) visible(loc core.Locator) (string, bool, error) {
	id, err := w.Driver.FindElement(loc.Strategy, loc.Value)
	if err != nil {
		return "", false, err
	}
	displayed, err := w.Driver.IsElementDisplayed(id)
	if err != nil {
		return "", false, err
	}
	return id, displayed, nil
}

func run[T any](w *Waiter, loc core.Locator, what string, timeout time.Duration, cond Condition[T]) (T, error) {
	if err := loc.Validate(); err != nil {
		var zero T
		return zero, err
	}

	t := w.timeout(timeout)
	v, err := Until(t, w.Interval, cond)
	if err == nil {
		return v, nil
	}

	var execErr *core.ExecutionError
	if IsTimeout(err) && errors.As(err, &execErr) {
		err = execErr.
			WithMessage(fmt.Sprintf("timed out after %s waiting for %s %s", t, loc, what)).
			WithDetails(map[string]interface{}{
				"locator":   loc.String(),
				"condition": what,
			})
	}
	return v, err
}
