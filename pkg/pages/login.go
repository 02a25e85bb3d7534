package pages

import (
	"time"

	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
)

// Login screen locators.
var (
	UsernameInput = core.AccessibilityID("username_input")
	PasswordInput = core.AccessibilityID("password_input")
	LoginButton   = core.AccessibilityID("login_button")
	ErrorMessage  = core.AccessibilityID("error_message")
)

// LoginPage is the login screen.
type LoginPage struct {
	Base
}

// NewLoginPage returns the login page for d.
func NewLoginPage(d Driver, explicitWait time.Duration) *LoginPage {
	return &LoginPage{Base: NewBase(d, explicitWait)}
}

func (p *LoginPage) EnterUsername(username string) error {
	return p.Type(UsernameInput, username)
}

func (p *LoginPage) EnterPassword(password string) error {
	return p.Type(PasswordInput, password)
}

func (p *LoginPage) TapLogin() error {
	return p.Tap(LoginButton)
}

// Login fills in both fields, hides the keyboard and submits.
func (p *LoginPage) Login(username, password string) error {
	if err := p.EnterUsername(username); err != nil {
		return err
	}
	if err := p.EnterPassword(password); err != nil {
		return err
	}
	p.HideKeyboard()
	return p.TapLogin()
}

// ErrorMessage waits for the error banner and returns its text. A timeout
// <= 0 uses the default explicit wait.
func (p *LoginPage) ErrorMessage(timeout time.Duration) (string, error) {
	return p.TextOf(ErrorMessage, timeout)
}

func (p *LoginPage) IsLoginButtonDisplayed() (bool, error) {
	return p.IsDisplayed(LoginButton, 0)
}
