// Package core provides the execution model types shared by the suite runner,
// the drivers and the reporters.
package core

import (
	"fmt"
	"os"
	"path/filepath"
)

// Attachment represents a debug artifact captured for a test case
type Attachment struct {
	Name        string `json:"name"`        // Descriptive name: screenshot, page_source
	ContentType string `json:"contentType"` // MIME type: image/png, application/xml
	Path        string `json:"path"`        // File path relative to output directory
	Body        []byte `json:"-"`           // In-memory content (not serialized to JSON)
}

// Common attachment names
const (
	AttachmentScreenshot = "screenshot"
	AttachmentPageSource = "page_source"
)

// Common content types
const (
	ContentTypePNG = "image/png"
	ContentTypeXML = "application/xml"
)

// NewScreenshotAttachment creates a screenshot attachment
func NewScreenshotAttachment(path string, data []byte) Attachment {
	return Attachment{
		Name:        AttachmentScreenshot,
		ContentType: ContentTypePNG,
		Path:        path,
		Body:        data,
	}
}

// NewPageSourceAttachment creates a page source (UI hierarchy XML) attachment
func NewPageSourceAttachment(path string, data []byte) Attachment {
	return Attachment{
		Name:        AttachmentPageSource,
		ContentType: ContentTypeXML,
		Path:        path,
		Body:        data,
	}
}

// ArtifactConfig controls when and what artifacts are captured
type ArtifactConfig struct {
	// When to capture
	CaptureOnFailure bool `yaml:"capture_on_failure" json:"captureOnFailure"` // Default: true
	CaptureOnSuccess bool `yaml:"capture_on_success" json:"captureOnSuccess"` // Default: false
	CaptureOnTimeout bool `yaml:"capture_on_timeout" json:"captureOnTimeout"` // Default: true

	// What to capture
	Screenshot bool `yaml:"screenshot" json:"screenshot"`   // Default: true
	PageSource bool `yaml:"page_source" json:"pageSource"` // Default: true
}

// DefaultArtifactConfig returns sensible defaults for artifact capture
func DefaultArtifactConfig() ArtifactConfig {
	return ArtifactConfig{
		CaptureOnFailure: true,
		CaptureOnSuccess: false,
		CaptureOnTimeout: true,
		Screenshot:       true,
		PageSource:       true,
	}
}

// ShouldCapture returns true if artifacts should be captured for the given outcome
func (c ArtifactConfig) ShouldCapture(status Status, category ErrorCategory) bool {
	switch status {
	case StatusFailed, StatusErrored:
		if category == ErrCategoryTimeout {
			return c.CaptureOnTimeout
		}
		return c.CaptureOnFailure
	case StatusPassed:
		return c.CaptureOnSuccess
	default:
		return false
	}
}

// ArtifactCollector defines the interface for capturing debug artifacts
type ArtifactCollector interface {
	// Screenshot takes a screenshot and returns PNG data
	Screenshot() ([]byte, error)

	// Source returns the UI hierarchy as XML
	Source() (string, error)
}

// CaptureArtifacts collects the configured artifacts from c and writes them
// under dir as <prefix>-screenshot.png and <prefix>-source.xml. Capture
// failures are returned alongside whatever was written successfully.
func CaptureArtifacts(c ArtifactCollector, cfg ArtifactConfig, dir, prefix string) ([]Attachment, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifacts dir: %w", err)
	}

	var attachments []Attachment
	var firstErr error

	if cfg.Screenshot {
		name := prefix + "-screenshot.png"
		data, err := c.Screenshot()
		if err == nil {
			err = os.WriteFile(filepath.Join(dir, name), data, 0o644)
		}
		if err != nil {
			firstErr = fmt.Errorf("capture screenshot: %w", err)
		} else {
			attachments = append(attachments, NewScreenshotAttachment(name, data))
		}
	}

	if cfg.PageSource {
		name := prefix + "-source.xml"
		source, err := c.Source()
		if err == nil {
			err = os.WriteFile(filepath.Join(dir, name), []byte(source), 0o644)
		}
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("capture page source: %w", err)
			}
		} else {
			attachments = append(attachments, NewPageSourceAttachment(name, []byte(source)))
		}
	}

	return attachments, firstErr
}
