package pages

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
	"github.com/devicelab-dev/mobile-login-tests/pkg/driver/mock"
	"github.com/devicelab-dev/mobile-login-tests/pkg/model"
	"github.com/devicelab-dev/mobile-login-tests/pkg/wait"
)

const testWait = 300 * time.Millisecond

func newApp(t *testing.T) (*mock.Device, *LoginPage, *HomePage) {
	t.Helper()
	d := mock.New(mock.Config{})
	mock.LoginApp(d, 20*time.Millisecond, mock.StaticAuth(
		model.ValidUser.Username, model.ValidUser.Password, model.ValidUser.ExpectedName))

	login := NewLoginPage(d, testWait)
	login.Wait.Interval = 5 * time.Millisecond
	home := NewHomePage(d, testWait)
	home.Wait.Interval = 5 * time.Millisecond
	return d, login, home
}

func TestLoginPage_Login(t *testing.T) {
	d, login, _ := newApp(t)

	require.NoError(t, login.Login("valid_user", "valid_pass"))

	assert.Equal(t, []string{
		"clear username_input",
		"type username_input",
		"clear password_input",
		"type password_input",
		"hide_keyboard",
		"click login_button",
	}, d.Calls())
}

func TestLoginPage_EmptyFieldsOnlyClear(t *testing.T) {
	d, login, _ := newApp(t)

	require.NoError(t, login.Login("", ""))

	assert.Equal(t, []string{
		"clear username_input",
		"clear password_input",
		"hide_keyboard",
		"click login_button",
	}, d.Calls())
}

func TestLoginPage_TypeReplacesExistingText(t *testing.T) {
	d, login, _ := newApp(t)
	d.SetText(UsernameInput, "stale")

	require.NoError(t, login.EnterUsername("valid_user"))
	assert.Equal(t, "valid_user", d.TextOf(UsernameInput))
}

func TestSuccessfulLogin(t *testing.T) {
	_, login, home := newApp(t)

	require.NoError(t, login.Login(model.ValidUser.Username, model.ValidUser.Password))

	shown, err := home.IsHomeDisplayed()
	require.NoError(t, err)
	assert.True(t, shown)

	welcome, err := home.WelcomeMessage()
	require.NoError(t, err)
	assert.Contains(t, welcome, model.ValidUser.ExpectedName)
}

func TestInvalidLogin(t *testing.T) {
	_, login, home := newApp(t)

	require.NoError(t, login.Login(model.InvalidUser.Username, model.InvalidUser.Password))

	msg, err := login.ErrorMessage(0)
	require.NoError(t, err)
	assert.Contains(t, msg, "Invalid")

	shown, err := login.IsLoginButtonDisplayed()
	require.NoError(t, err)
	assert.True(t, shown)

	shown, err = home.IsDisplayed(HomeScreen, 30*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, shown)
}

func TestLoginPage_ErrorMessageTimeout(t *testing.T) {
	_, login, _ := newApp(t)

	start := time.Now()
	_, err := login.ErrorMessage(40 * time.Millisecond)

	assert.True(t, wait.IsTimeout(err))
	assert.Less(t, time.Since(start), testWait)
}

func TestIsDisplayed_SurfacesDriverErrors(t *testing.T) {
	d := mock.New(mock.Config{FindError: core.ErrServerUnreachable})
	b := NewBase(d, testWait)

	shown, err := b.IsDisplayed(LoginButton, 0)
	assert.False(t, shown)
	assert.True(t, errors.Is(err, core.ErrServerUnreachable))
}

func TestTap_WaitsForEnabledButton(t *testing.T) {
	d := mock.New(mock.Config{})
	d.Add(LoginButton, "Log in")
	d.SetEnabled(LoginButton, false)
	d.After(20*time.Millisecond, func(dev *mock.Device) { dev.SetEnabled(LoginButton, true) })

	b := NewBase(d, testWait)
	b.Wait.Interval = 5 * time.Millisecond

	require.NoError(t, b.Tap(LoginButton))
	assert.Equal(t, []string{"click login_button"}, d.Calls())
}

func TestTap_MissingElementTimesOut(t *testing.T) {
	d := mock.New(mock.Config{})
	b := NewBase(d, 30*time.Millisecond)
	b.Wait.Interval = 5 * time.Millisecond

	err := b.Tap(LoginButton)
	assert.True(t, wait.IsTimeout(err))
	assert.Empty(t, d.Calls())
}
