// Package driver opens Appium sessions from the merged suite configuration.
package driver

import (
	"strings"

	"github.com/devicelab-dev/mobile-login-tests/pkg/config"
	"github.com/devicelab-dev/mobile-login-tests/pkg/driver/appium"
	"github.com/devicelab-dev/mobile-login-tests/pkg/logger"
)

// W3C capabilities that are sent without a vendor prefix.
var standardCapabilities = map[string]bool{
	"platformName":              true,
	"browserName":               true,
	"browserVersion":            true,
	"acceptInsecureCerts":       true,
	"pageLoadStrategy":          true,
	"proxy":                     true,
	"setWindowRect":             true,
	"timeouts":                  true,
	"strictFileInteractability": true,
	"unhandledPromptBehavior":   true,
	"webSocketUrl":              true,
}

// Open loads the merged configuration for platform from configDir and opens a
// session with it.
func Open(configDir, platform string) (*appium.Client, error) {
	settings, err := config.LoadMerged(configDir, platform)
	if err != nil {
		return nil, err
	}
	return New(settings)
}

// New opens a remote Appium session described by settings and applies the
// implicit wait. Connection and capability errors are returned as-is; there
// is no retry.
func New(settings *config.Settings) (*appium.Client, error) {
	caps := Capabilities(settings)
	serverURL := settings.ServerURL()

	logger.Info("creating %s driver -> %s", settings.Platform, serverURL)
	logger.Debug("capabilities: %v", caps)

	client := appium.NewClient(serverURL)
	if err := client.Connect(caps); err != nil {
		return nil, err
	}

	if err := client.SetImplicitWait(settings.ImplicitWait()); err != nil {
		_ = client.Disconnect()
		return nil, err
	}

	logger.Info("driver session created: %s", client.SessionID())
	return client, nil
}

// Capabilities builds the W3C capability set from settings: platformName is
// filled from the platform tag when absent and vendor keys get the appium:
// prefix.
func Capabilities(settings *config.Settings) map[string]interface{} {
	caps := make(map[string]interface{}, len(settings.Capabilities)+1)
	for k, v := range settings.Capabilities {
		caps[capabilityKey(k)] = v
	}

	if _, ok := caps["platformName"]; !ok && settings.Platform != "" {
		switch settings.Platform {
		case config.PlatformIOS:
			caps["platformName"] = "iOS"
		default:
			caps["platformName"] = "Android"
		}
	}
	return caps
}

func capabilityKey(k string) string {
	if strings.Contains(k, ":") || standardCapabilities[k] {
		return k
	}
	return "appium:" + k
}
