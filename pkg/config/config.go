// Package config loads the suite's YAML settings and merges the shared
// settings with the per-platform capability files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
)

// Defaults applied when a key is absent from every config file.
const (
	DefaultServerURL    = "http://127.0.0.1:4723"
	DefaultWireMockURL  = "http://localhost:8080"
	DefaultImplicitWait = 10 // seconds
	DefaultExplicitWait = 15 // seconds
)

// SettingsFile is the shared settings file inside the config directory.
const SettingsFile = "settings.yaml"

// Supported platforms.
const (
	PlatformAndroid = "android"
	PlatformIOS     = "ios"
)

// Settings is the typed, read-only view of the merged configuration.
type Settings struct {
	Appium struct {
		ServerURL string `yaml:"server_url"`
	} `yaml:"appium"`

	WireMock struct {
		BaseURL     string `yaml:"base_url"`
		MappingsDir string `yaml:"mappings_dir"`
	} `yaml:"wiremock"`

	// Timeouts in seconds; nil means the key is absent.
	Timeouts struct {
		ImplicitWait *int `yaml:"implicit_wait"`
		ExplicitWait *int `yaml:"explicit_wait"`
	} `yaml:"timeouts"`

	Capabilities map[string]interface{} `yaml:"capabilities"`

	Artifacts *core.ArtifactConfig `yaml:"artifacts"`

	// Platform is the tag the settings were merged for; empty for shared-only.
	Platform string `yaml:"-"`

	raw map[string]interface{}
}

// ServerURL returns the Appium server URL, or the default.
func (s *Settings) ServerURL() string {
	if s.Appium.ServerURL != "" {
		return strings.TrimSuffix(s.Appium.ServerURL, "/")
	}
	return DefaultServerURL
}

// WireMockURL returns the WireMock base URL, or the default.
func (s *Settings) WireMockURL() string {
	if s.WireMock.BaseURL != "" {
		return strings.TrimSuffix(s.WireMock.BaseURL, "/")
	}
	return DefaultWireMockURL
}

// ImplicitWait returns the driver implicit wait. A configured 0 disables it.
func (s *Settings) ImplicitWait() time.Duration {
	if s.Timeouts.ImplicitWait != nil {
		return time.Duration(*s.Timeouts.ImplicitWait) * time.Second
	}
	return DefaultImplicitWait * time.Second
}

// ExplicitWait returns the default timeout for explicit waits.
func (s *Settings) ExplicitWait() time.Duration {
	if s.Timeouts.ExplicitWait != nil {
		return time.Duration(*s.Timeouts.ExplicitWait) * time.Second
	}
	return DefaultExplicitWait * time.Second
}

func (s *Settings) validate() error {
	if v := s.Timeouts.ImplicitWait; v != nil && *v < 0 {
		return core.ErrInvalidConfig.
			WithMessage(fmt.Sprintf("timeouts.implicit_wait must be >= 0, got %d", *v)).
			WithDetails(map[string]interface{}{"key": "timeouts.implicit_wait", "value": *v})
	}
	if v := s.Timeouts.ExplicitWait; v != nil && *v <= 0 {
		return core.ErrInvalidConfig.
			WithMessage(fmt.Sprintf("timeouts.explicit_wait must be > 0, got %d", *v)).
			WithDetails(map[string]interface{}{"key": "timeouts.explicit_wait", "value": *v})
	}
	return nil
}

// ArtifactConfig returns the artifact capture policy, or the default one.
func (s *Settings) ArtifactConfig() core.ArtifactConfig {
	if s.Artifacts != nil {
		return *s.Artifacts
	}
	return core.DefaultArtifactConfig()
}

// Get looks up a dotted key such as "timeouts.explicit_wait" in the raw
// merged mapping.
func (s *Settings) Get(key string) (interface{}, bool) {
	var cur interface{} = s.raw
	for _, part := range strings.Split(key, ".") {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Raw returns the merged mapping the settings were decoded from.
func (s *Settings) Raw() map[string]interface{} {
	return s.raw
}

// Load loads one YAML file into a nested mapping.
func Load(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var m map[string]interface{}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if m == nil {
		m = map[string]interface{}{}
	}
	return m, nil
}

// LoadSettings loads the shared settings file from dir. A missing file yields
// default settings.
func LoadSettings(dir string) (*Settings, error) {
	base, err := loadOptional(filepath.Join(dir, SettingsFile))
	if err != nil {
		return nil, err
	}
	return FromMap(base)
}

// LoadMerged loads the shared settings and deep-merges <platform>.yaml on top.
func LoadMerged(dir, platform string) (*Settings, error) {
	platform, err := NormalizePlatform(platform)
	if err != nil {
		return nil, err
	}

	base, err := loadOptional(filepath.Join(dir, SettingsFile))
	if err != nil {
		return nil, err
	}

	override, err := loadPlatformFile(dir, platform)
	if err != nil {
		return nil, err
	}

	s, err := FromMap(Merge(base, override))
	if err != nil {
		return nil, err
	}
	s.Platform = platform
	return s, nil
}

// FromMap decodes a merged mapping into Settings.
func FromMap(m map[string]interface{}) (*Settings, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, err
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, core.ErrInvalidConfig.WithCause(err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	if s.Capabilities == nil {
		s.Capabilities = map[string]interface{}{}
	}
	s.raw = m
	return &s, nil
}

// NormalizePlatform lower-cases and validates a platform tag.
func NormalizePlatform(platform string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(platform))
	switch p {
	case PlatformAndroid, PlatformIOS:
		return p, nil
	default:
		return "", core.ErrInvalidConfig.
			WithMessage(fmt.Sprintf("unsupported platform %q (want android or ios)", platform)).
			WithDetails(map[string]interface{}{"platform": platform})
	}
}

// Merge deep-merges override onto base and returns a new mapping. Nested
// maps merge key by key; any other value in override replaces the base one.
func Merge(base, override map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(override))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range override {
		if om, ok := v.(map[string]interface{}); ok {
			if bm, ok := out[k].(map[string]interface{}); ok {
				out[k] = Merge(bm, om)
				continue
			}
		}
		out[k] = v
	}
	return out
}

func loadOptional(path string) (map[string]interface{}, error) {
	m, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]interface{}{}, nil
	}
	return m, err
}

// loadPlatformFile tries <platform>.yaml then <platform>.yml.
func loadPlatformFile(dir, platform string) (map[string]interface{}, error) {
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(dir, platform+ext)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return nil, core.ErrMissingRequired.
		WithMessage(fmt.Sprintf("no %s.yaml in %s", platform, dir)).
		WithDetails(map[string]interface{}{"platform": platform, "dir": dir})
}
