package config

import (
	"os"
	"path/filepath"
	"sync"
)

const (
	envHome      = "MOBILETEST_HOME"
	envConfigDir = "MOBILETEST_CONFIG_DIR"
)

var (
	homeOnce sync.Once
	homeDir  string
)

// GetHome returns the suite home directory.
//
// Resolution order:
//  1. $MOBILETEST_HOME environment variable
//  2. Parent of the binary's directory (if binary is in <home>/bin/)
//  3. Current working directory (development fallback)
func GetHome() string {
	homeOnce.Do(func() {
		homeDir = resolveHome()
	})
	return homeDir
}

// GetConfigDir returns $MOBILETEST_CONFIG_DIR or <home>/config.
func GetConfigDir() string {
	if env := os.Getenv(envConfigDir); env != "" {
		return env
	}
	return filepath.Join(GetHome(), "config")
}

// GetMappingsDir returns <home>/wiremock/mappings.
func GetMappingsDir() string {
	return filepath.Join(GetHome(), "wiremock", "mappings")
}

// GetReportsDir returns <home>/reports.
func GetReportsDir() string {
	return filepath.Join(GetHome(), "reports")
}

func resolveHome() string {
	// 1. Environment variable
	if env := os.Getenv(envHome); env != "" {
		return env
	}

	// 2. Binary-relative: if binary is at <home>/bin/mobiletest, use <home>
	if execPath, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(execPath); err == nil {
			execPath = resolved
		}
		binDir := filepath.Dir(execPath)
		if filepath.Base(binDir) == "bin" {
			return filepath.Dir(binDir)
		}
	}

	// 3. Current working directory
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}

	return "."
}

// ResetHome resets the cached home directory (for testing).
func ResetHome() {
	homeOnce = sync.Once{}
	homeDir = ""
}
