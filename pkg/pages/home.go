package pages

import (
	"time"

	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
)

// Home screen locators.
var (
	HomeScreen     = core.AccessibilityID("home_screen")
	WelcomeMessage = core.AccessibilityID("welcome_message")
)

// HomePage is the screen shown after a successful login.
type HomePage struct {
	Base
}

// NewHomePage returns the home page for d.
func NewHomePage(d Driver, explicitWait time.Duration) *HomePage {
	return &HomePage{Base: NewBase(d, explicitWait)}
}

func (p *HomePage) IsHomeDisplayed() (bool, error) {
	return p.IsDisplayed(HomeScreen, 0)
}

func (p *HomePage) WelcomeMessage() (string, error) {
	return p.TextOf(WelcomeMessage, 0)
}
