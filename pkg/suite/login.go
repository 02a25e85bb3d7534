package suite

import (
	"time"

	"github.com/devicelab-dev/mobile-login-tests/pkg/model"
)

// Tags used by the login cases.
const (
	TagSmoke      = "smoke"
	TagRegression = "regression"
)

// emptyFieldsErrorTimeout bounds the wait for the validation message.
const emptyFieldsErrorTimeout = 5 * time.Second

// LoginCases returns the login screen cases.
func LoginCases() []Case {
	return []Case{
		{Name: "successful_login", Tags: []string{TagSmoke, TagRegression}, Run: successfulLogin},
		{Name: "login_invalid_credentials", Tags: []string{TagSmoke, TagRegression}, Run: invalidCredentials},
		{Name: "login_empty_fields", Tags: []string{TagRegression}, Run: emptyFields},
	}
}

// A valid user lands on the home screen with a welcome message.
func successfulLogin(env *Env) error {
	user := model.ValidUser
	if err := env.LoadMapping("login_success.json"); err != nil {
		return err
	}

	if err := env.Login.Login(user.Username, user.Password); err != nil {
		return err
	}

	shown, err := env.Home.IsHomeDisplayed()
	if err != nil {
		return err
	}
	if err := env.AssertVisible(shown, "home screen did not appear after successful login"); err != nil {
		return err
	}

	welcome, err := env.Home.WelcomeMessage()
	if err != nil {
		return err
	}
	return env.AssertContains(welcome, []string{user.ExpectedName},
		"expected %q in welcome message, got: %q", user.ExpectedName, welcome)
}

// An invalid user sees an error and stays on the login screen.
func invalidCredentials(env *Env) error {
	user := model.InvalidUser
	if err := env.LoadMapping("login_failure.json"); err != nil {
		return err
	}

	if err := env.Login.Login(user.Username, user.Password); err != nil {
		return err
	}

	msg, err := env.Login.ErrorMessage(0)
	if err != nil {
		return err
	}
	if err := env.AssertContains(msg, []string{"Invalid", "invalid"},
		"expected an 'invalid' error message, got: %q", msg); err != nil {
		return err
	}

	shown, err := env.Login.IsLoginButtonDisplayed()
	if err != nil {
		return err
	}
	return env.AssertVisible(shown, "login button should still be visible")
}

// Submitting empty credentials shows a validation error.
func emptyFields(env *Env) error {
	if err := env.Login.Login("", ""); err != nil {
		return err
	}

	shown, err := env.Login.IsLoginButtonDisplayed()
	if err != nil {
		return err
	}
	if err := env.AssertVisible(shown, "login button should still be visible"); err != nil {
		return err
	}

	msg, err := env.Login.ErrorMessage(emptyFieldsErrorTimeout)
	if err != nil {
		return err
	}
	return env.Assertf(msg != "", "an error message should be displayed for empty fields")
}
