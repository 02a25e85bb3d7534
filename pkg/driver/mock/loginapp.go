package mock

import (
	"time"

	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
)

// LoginApp screen element locators, matching the app under test.
var (
	usernameInput  = core.AccessibilityID("username_input")
	passwordInput  = core.AccessibilityID("password_input")
	loginButton    = core.AccessibilityID("login_button")
	errorMessage   = core.AccessibilityID("error_message")
	homeScreen     = core.AccessibilityID("home_screen")
	welcomeMessage = core.AccessibilityID("welcome_message")
)

// Authenticator decides a login attempt. It returns the display name on
// success or the error text to show on failure.
type Authenticator func(username, password string) (name string, errText string)

// LoginApp turns d into a fake login screen. Tapping login with empty fields
// shows a validation error; otherwise auth decides, after latency, between
// the home screen and an error banner.
func LoginApp(d *Device, latency time.Duration, auth Authenticator) {
	d.Add(usernameInput, "")
	d.Add(passwordInput, "")
	d.Add(loginButton, "Log in")

	d.OnClick(loginButton, func(dev *Device) {
		user, pass := dev.TextOf(usernameInput), dev.TextOf(passwordInput)
		if user == "" || pass == "" {
			dev.Add(errorMessage, "Username and password are required")
			return
		}
		dev.After(latency, func(dev *Device) {
			name, errText := auth(user, pass)
			if errText != "" {
				dev.Add(errorMessage, errText)
				return
			}
			dev.Remove(usernameInput)
			dev.Remove(passwordInput)
			dev.Remove(loginButton)
			dev.Remove(errorMessage)
			dev.Add(homeScreen, "")
			dev.Add(welcomeMessage, "Welcome, "+name)
		})
	})
}

// StaticAuth accepts exactly one username/password pair.
func StaticAuth(username, password, name string) Authenticator {
	return func(u, p string) (string, string) {
		if u == username && p == password {
			return name, ""
		}
		return "", "Invalid username or password"
	}
}
