//go:build e2e

package suite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/devicelab-dev/mobile-login-tests/pkg/config"
	"github.com/devicelab-dev/mobile-login-tests/pkg/wiremock"
)

// TestLoginE2E runs the login cases against a live Appium server and
// WireMock instance. Select the platform with MOBILETEST_PLATFORM.
//
//	go test -tags e2e ./pkg/suite -run TestLoginE2E
func TestLoginE2E(t *testing.T) {
	platform := os.Getenv("MOBILETEST_PLATFORM")
	if platform == "" {
		platform = config.PlatformAndroid
	}
	configDir := os.Getenv("MOBILETEST_CONFIG_DIR")
	if configDir == "" {
		configDir = filepath.Join("..", "..", "config")
	}

	settings, err := config.LoadMerged(configDir, platform)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	wm := wiremock.NewClient(settings.WireMockURL())
	if err := wm.Ping(); err != nil {
		t.Skipf("WireMock not reachable at %s: %v", wm.BaseURL(), err)
	}

	runner := NewRunner(RunnerConfig{
		Settings:    settings,
		WireMock:    wm,
		MappingsDir: mappingsDir,
		OutputDir:   t.TempDir(),
	})
	res := runner.Run(context.Background(), LoginCases())

	for _, c := range res.Cases {
		t.Run(c.Name, func(t *testing.T) {
			if !c.Status.IsSuccess() {
				t.Errorf("%s [%s]: %s", c.Status, c.Category, c.Error)
			}
		})
	}
}
