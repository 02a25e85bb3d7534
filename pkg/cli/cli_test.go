package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devicelab-dev/mobile-login-tests/pkg/config"
	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
	"github.com/devicelab-dev/mobile-login-tests/pkg/driver/mock"
	"github.com/devicelab-dev/mobile-login-tests/pkg/suite"
	"github.com/devicelab-dev/mobile-login-tests/pkg/wiremock/wiremocktest"
)

var mappingsDir = filepath.Join("..", "..", "wiremock", "mappings")

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"mobiletest"}, args...))
	return out.String(), err
}

func writeConfig(t *testing.T, wireMockURL string) string {
	t.Helper()
	dir := t.TempDir()
	settings := "wiremock:\n  base_url: " + wireMockURL + "\ntimeouts:\n  explicit_wait: 1\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte(settings), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "android.yaml"), []byte("capabilities:\n  automationName: UiAutomator2\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ios.yaml"), []byte("capabilities:\n  automationName: XCUITest\n"), 0o644))
	return dir
}

// useFakeDevice routes sessions to an in-memory login app whose backend
// answers according to the stubs loaded in srv.
func useFakeDevice(t *testing.T, srv *wiremocktest.Server, accept bool) {
	t.Helper()
	auth := func(username, password string) (string, string) {
		for _, name := range srv.Names() {
			if name == "login_success" && accept {
				return "Remi Chen", ""
			}
			if name == "login_failure" {
				return "", "Invalid username or password"
			}
		}
		return "", "Network error"
	}

	prev := openSession
	openSession = func(s *config.Settings) (suite.Session, error) {
		d := mock.New(mock.Config{Platform: s.Platform})
		mock.LoginApp(d, 5*time.Millisecond, auth)
		return d, nil
	}
	t.Cleanup(func() { openSession = prev })
}

func TestGlobalFlags(t *testing.T) {
	names := make(map[string]bool)
	for _, f := range GlobalFlags {
		for _, name := range f.Names() {
			names[name] = true
		}
	}
	for _, name := range []string{"verbose", "log-file"} {
		assert.True(t, names[name], "flag %q", name)
	}
}

func TestRun_AllPass(t *testing.T) {
	srv := wiremocktest.NewServer()
	defer srv.Close()
	useFakeDevice(t, srv, true)

	outDir := filepath.Join(t.TempDir(), "reports")
	out, err := runApp(t, "run",
		"--config-dir", writeConfig(t, srv.URL),
		"--mappings", mappingsDir,
		"--output", outDir, "--flatten",
		"--explicit-wait", "300ms")
	require.NoError(t, err, out)

	assert.Contains(t, out, "[1/3] successful_login ... PASSED")
	assert.Contains(t, out, "3 cases: 3 passed, 0 failed, 0 errored, 0 skipped")
	assert.Equal(t, 3, srv.Resets())

	for _, name := range []string{"report.json", "junit.xml", "mobiletest.log", filepath.Join("allure-results", "categories.json")} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
}

func TestRun_TagsAndFailure(t *testing.T) {
	srv := wiremocktest.NewServer()
	defer srv.Close()
	useFakeDevice(t, srv, false)

	outDir := t.TempDir()
	out, err := runApp(t, "run",
		"--platform", "IOS",
		"--config-dir", writeConfig(t, srv.URL),
		"--mappings", mappingsDir,
		"--tags", "smoke",
		"--output", outDir, "--flatten",
		"--explicit-wait", "100ms")

	assert.True(t, errors.Is(err, errCasesFailed), "got %v", err)
	assert.Contains(t, out, "[1/2] successful_login ... FAILED")
	assert.Contains(t, out, "home screen did not appear")
	assert.Contains(t, out, "2 cases: 1 passed, 1 failed")
	assert.NotContains(t, out, "login_empty_fields")

	shots, _ := filepath.Glob(filepath.Join(outDir, "artifacts", "successful_login-*"))
	assert.Len(t, shots, 2)
}

func TestRun_InvalidPlatform(t *testing.T) {
	_, err := runApp(t, "run", "--platform", "windows", "--config-dir", t.TempDir())
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))
}

func TestRun_FlattenWithoutOutput(t *testing.T) {
	srv := wiremocktest.NewServer()
	defer srv.Close()

	_, err := runApp(t, "run", "--config-dir", writeConfig(t, srv.URL), "--flatten")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--flatten requires --output")
}

func TestConfigShow(t *testing.T) {
	dir := writeConfig(t, "http://wiremock:8080")

	out, err := runApp(t, "config", "show", "--platform", "ios", "--config-dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "(ios)")
	assert.Contains(t, out, "automationName: XCUITest")
	assert.Contains(t, out, "base_url: http://wiremock:8080")
	assert.NotContains(t, out, "UiAutomator2")
}

func TestConfigShow_MissingPlatformFile(t *testing.T) {
	dir := t.TempDir()
	_, err := runApp(t, "config", "show", "--platform", "android", "--config-dir", dir)
	assert.True(t, errors.Is(err, core.ErrMissingRequired))
}

func TestWireMockCommands(t *testing.T) {
	srv := wiremocktest.NewServer()
	defer srv.Close()

	out, err := runApp(t, "wiremock", "--wiremock-url", srv.URL, "load",
		filepath.Join(mappingsDir, "login_success.json"),
		filepath.Join(mappingsDir, "login_failure.json"))
	require.NoError(t, err, out)
	assert.Equal(t, 2, strings.Count(out, ".json\n"))
	assert.ElementsMatch(t, []string{"login_success", "login_failure"}, srv.Names())

	out, err = runApp(t, "wiremock", "--wiremock-url", srv.URL, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "login_success")

	out, err = runApp(t, "wiremock", "--wiremock-url", srv.URL, "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "reset "+srv.URL)
	assert.Empty(t, srv.Names())
}

func TestWireMockLoad_URLFromSettings(t *testing.T) {
	srv := wiremocktest.NewServer()
	defer srv.Close()

	_, err := runApp(t, "wiremock", "--config-dir", writeConfig(t, srv.URL), "load",
		filepath.Join(mappingsDir, "login_failure.json"))
	require.NoError(t, err)
	assert.Equal(t, []string{"login_failure"}, srv.Names())
}

func TestWireMockLoad_NoArgs(t *testing.T) {
	_, err := runApp(t, "wiremock", "--wiremock-url", "http://localhost:1", "load")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one mapping file")
}

func TestResolveOutputDir(t *testing.T) {
	dir, err := resolveOutputDir("./my-reports", false)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(dir, "my-reports"+string(filepath.Separator)), dir)

	dir, err = resolveOutputDir("./my-reports", true)
	require.NoError(t, err)
	assert.Equal(t, "my-reports", dir)

	dir, err = resolveOutputDir("", false)
	require.NoError(t, err)
	assert.Equal(t, config.GetReportsDir(), filepath.Dir(dir))
}

func TestResolveMappingsDir(t *testing.T) {
	s, err := config.FromMap(map[string]interface{}{})
	require.NoError(t, err)

	assert.Equal(t, "flag/dir", resolveMappingsDir("flag/dir", s))
	assert.Equal(t, config.GetMappingsDir(), resolveMappingsDir("", s))

	s.WireMock.MappingsDir = "/abs/mappings"
	assert.Equal(t, "/abs/mappings", resolveMappingsDir("", s))

	s.WireMock.MappingsDir = "stubs"
	assert.Equal(t, filepath.Join(config.GetHome(), "stubs"), resolveMappingsDir("", s))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{500 * time.Millisecond, "500ms"},
		{1500 * time.Millisecond, "1.5s"},
		{90 * time.Second, "1m 30s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatDuration(tt.d))
	}
}
