package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestNewScreenshotAttachment(t *testing.T) {
	data := []byte{0x89, 0x50, 0x4E, 0x47} // PNG header
	attachment := NewScreenshotAttachment("login-screenshot.png", data)

	if attachment.Name != AttachmentScreenshot {
		t.Errorf("Name = %s, want %s", attachment.Name, AttachmentScreenshot)
	}
	if attachment.ContentType != ContentTypePNG {
		t.Errorf("ContentType = %s, want %s", attachment.ContentType, ContentTypePNG)
	}
	if attachment.Path != "login-screenshot.png" {
		t.Errorf("Path = %s, want 'login-screenshot.png'", attachment.Path)
	}
	if len(attachment.Body) != 4 {
		t.Errorf("Body length = %d, want 4", len(attachment.Body))
	}
}

func TestNewPageSourceAttachment(t *testing.T) {
	attachment := NewPageSourceAttachment("login-source.xml", []byte("<hierarchy/>"))

	if attachment.Name != AttachmentPageSource {
		t.Errorf("Name = %s, want %s", attachment.Name, AttachmentPageSource)
	}
	if attachment.ContentType != ContentTypeXML {
		t.Errorf("ContentType = %s, want %s", attachment.ContentType, ContentTypeXML)
	}
}

func TestDefaultArtifactConfig(t *testing.T) {
	cfg := DefaultArtifactConfig()

	if !cfg.CaptureOnFailure {
		t.Error("CaptureOnFailure should be true by default")
	}
	if cfg.CaptureOnSuccess {
		t.Error("CaptureOnSuccess should be false by default")
	}
	if !cfg.CaptureOnTimeout {
		t.Error("CaptureOnTimeout should be true by default")
	}
	if !cfg.Screenshot || !cfg.PageSource {
		t.Error("Screenshot and PageSource should be true by default")
	}
}

func TestArtifactConfig_ShouldCapture(t *testing.T) {
	cfg := DefaultArtifactConfig()
	cfg.CaptureOnTimeout = false

	tests := []struct {
		status   Status
		category ErrorCategory
		expected bool
	}{
		{StatusFailed, ErrCategoryAssertion, true},
		{StatusErrored, ErrCategoryConnection, true},
		{StatusFailed, ErrCategoryTimeout, false},
		{StatusPassed, ErrCategoryNone, false},
		{StatusSkipped, ErrCategoryNone, false},
		{StatusPending, ErrCategoryNone, false},
	}

	for _, tt := range tests {
		if got := cfg.ShouldCapture(tt.status, tt.category); got != tt.expected {
			t.Errorf("ShouldCapture(%s, %s) = %v, want %v", tt.status, tt.category, got, tt.expected)
		}
	}
}

type fakeCollector struct {
	png       []byte
	source    string
	screenErr error
}

func (f fakeCollector) Screenshot() ([]byte, error) { return f.png, f.screenErr }
func (f fakeCollector) Source() (string, error)     { return f.source, nil }

func TestCaptureArtifacts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "artifacts")
	c := fakeCollector{png: []byte("png"), source: "<hierarchy/>"}

	attachments, err := CaptureArtifacts(c, DefaultArtifactConfig(), dir, "login")
	if err != nil {
		t.Fatalf("CaptureArtifacts failed: %v", err)
	}
	if len(attachments) != 2 {
		t.Fatalf("expected 2 attachments, got %d", len(attachments))
	}

	data, err := os.ReadFile(filepath.Join(dir, "login-source.xml"))
	if err != nil {
		t.Fatalf("source file not written: %v", err)
	}
	if string(data) != "<hierarchy/>" {
		t.Errorf("source = %q", data)
	}
}

func TestCaptureArtifacts_PartialFailure(t *testing.T) {
	c := fakeCollector{source: "<hierarchy/>", screenErr: errors.New("no display")}

	attachments, err := CaptureArtifacts(c, DefaultArtifactConfig(), t.TempDir(), "case")
	if err == nil {
		t.Error("expected screenshot error")
	}
	if len(attachments) != 1 || attachments[0].Name != AttachmentPageSource {
		t.Errorf("expected only the page source attachment, got %+v", attachments)
	}
}
