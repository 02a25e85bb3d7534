// Package pages contains page objects for the screens of the app under test.
// Page objects wrap element lookups behind explicit waits so tests read as
// user actions.
package pages

import (
	"time"

	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
	"github.com/devicelab-dev/mobile-login-tests/pkg/logger"
	"github.com/devicelab-dev/mobile-login-tests/pkg/wait"
)

// Driver is the session surface page objects use.
// *appium.Client and *mock.Device satisfy it.
type Driver interface {
	wait.Finder
	ClickElement(elementID string) error
	ClearElement(elementID string) error
	TypeElement(elementID, text string) error
	HideKeyboard() error
}

// Base holds what every page needs: the driver and its waits.
type Base struct {
	Driver Driver
	Wait   *wait.Waiter
}

// NewBase returns a Base whose waits default to explicitWait.
func NewBase(d Driver, explicitWait time.Duration) Base {
	return Base{Driver: d, Wait: wait.New(d, explicitWait)}
}

// Tap waits for the element to be clickable and clicks it.
func (b Base) Tap(loc core.Locator) error {
	id, err := b.Wait.ForClickable(loc, 0)
	if err != nil {
		return err
	}
	logger.Debug("tap %s", loc)
	return b.Driver.ClickElement(id)
}

// Type waits for the element, clears it and types text. Empty text only
// clears the field.
func (b Base) Type(loc core.Locator, text string) error {
	id, err := b.Wait.ForVisible(loc, 0)
	if err != nil {
		return err
	}
	if err := b.Driver.ClearElement(id); err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	logger.Debug("type into %s", loc)
	return b.Driver.TypeElement(id, text)
}

// TextOf waits for the element and returns its text.
func (b Base) TextOf(loc core.Locator, timeout time.Duration) (string, error) {
	id, err := b.Wait.ForVisible(loc, timeout)
	if err != nil {
		return "", err
	}
	return b.Driver.GetElementText(id)
}

// IsDisplayed reports whether the element becomes visible within timeout
// (the default explicit wait when timeout <= 0). A timeout is reported as
// false; any other error is returned.
func (b Base) IsDisplayed(loc core.Locator, timeout time.Duration) (bool, error) {
	_, err := b.Wait.ForVisible(loc, timeout)
	if err == nil {
		return true, nil
	}
	if wait.IsTimeout(err) {
		return false, nil
	}
	return false, err
}

// HideKeyboard dismisses the soft keyboard. Failing to hide it is not an
// error; some platforms report one when no keyboard is shown.
func (b Base) HideKeyboard() {
	if err := b.Driver.HideKeyboard(); err != nil {
		logger.Debug("hide keyboard: %v", err)
	}
}
