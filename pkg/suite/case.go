// Package suite defines the login test cases and runs them against a device,
// one fresh automation session per case.
package suite

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/devicelab-dev/mobile-login-tests/pkg/config"
	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
	"github.com/devicelab-dev/mobile-login-tests/pkg/driver"
	"github.com/devicelab-dev/mobile-login-tests/pkg/pages"
	"github.com/devicelab-dev/mobile-login-tests/pkg/wiremock"
)

// Session is an open automation session. *appium.Client satisfies it.
type Session interface {
	pages.Driver
	core.ArtifactCollector
	Disconnect() error
	PlatformInfo() *core.PlatformInfo
}

// Opener opens a session for the merged settings.
type Opener func(settings *config.Settings) (Session, error)

// OpenAppium opens a remote Appium session.
func OpenAppium(settings *config.Settings) (Session, error) {
	client, err := driver.New(settings)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// Case is one test case.
type Case struct {
	Name string
	Tags []string
	Run  func(env *Env) error
}

// HasTag reports whether the case carries any of tags. No tags matches
// every case.
func (c Case) HasTag(tags ...string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, want := range tags {
		for _, have := range c.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// Select returns the cases carrying any of tags, in order.
func Select(cases []Case, tags ...string) []Case {
	var out []Case
	for _, c := range cases {
		if c.HasTag(tags...) {
			out = append(out, c)
		}
	}
	return out
}

// Env is what a case gets to work with.
type Env struct {
	Session     Session
	WireMock    *wiremock.Client
	Settings    *config.Settings
	MappingsDir string

	Login *pages.LoginPage
	Home  *pages.HomePage
}

func newEnv(s Session, wm *wiremock.Client, settings *config.Settings, mappingsDir string, explicitWait, interval time.Duration) *Env {
	env := &Env{
		Session:     s,
		WireMock:    wm,
		Settings:    settings,
		MappingsDir: mappingsDir,
		Login:       pages.NewLoginPage(s, explicitWait),
		Home:        pages.NewHomePage(s, explicitWait),
	}
	if interval > 0 {
		env.Login.Wait.Interval = interval
		env.Home.Wait.Interval = interval
	}
	return env
}

// LoadMapping registers the named mapping file from the mappings directory.
func (e *Env) LoadMapping(name string) error {
	if e.WireMock == nil {
		return core.ErrMissingRequired.WithMessage("no WireMock client configured")
	}
	_, err := e.WireMock.LoadMappingFromFile(filepath.Join(e.MappingsDir, name))
	return err
}

// Assertf returns a core.ErrConditionNotMet error with the formatted message
// when cond is false.
func (e *Env) Assertf(cond bool, format string, args ...interface{}) error {
	if cond {
		return nil
	}
	return core.ErrConditionNotMet.WithMessage(fmt.Sprintf(format, args...))
}

// AssertVisible returns a core.ErrElementNotVisible error with the formatted
// message when shown is false.
func (e *Env) AssertVisible(shown bool, format string, args ...interface{}) error {
	if shown {
		return nil
	}
	return core.ErrElementNotVisible.WithMessage(fmt.Sprintf(format, args...))
}

// AssertContains returns a core.ErrTextMismatch error with the formatted
// message unless got contains at least one of want.
func (e *Env) AssertContains(got string, want []string, format string, args ...interface{}) error {
	for _, w := range want {
		if strings.Contains(got, w) {
			return nil
		}
	}
	return core.ErrTextMismatch.
		WithMessage(fmt.Sprintf(format, args...)).
		WithDetails(map[string]interface{}{"expected": want, "actual": got})
}
