// Package report writes suite results to disk: a JSON summary, Allure
// results and JUnit XML.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
)

// JSONFile is the name of the JSON report inside the output directory.
const JSONFile = "report.json"

// WriteJSON writes result to <dir>/report.json.
func WriteJSON(dir string, result *core.SuiteResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	return atomicWriteJSON(filepath.Join(dir, JSONFile), result)
}

// atomicWriteJSON writes v to a temp file and renames it over path so
// readers never see a partial report.
func atomicWriteJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	return atomicWrite(path, data)
}

func atomicWrite(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", filepath.Base(path), err)
	}
	return nil
}
