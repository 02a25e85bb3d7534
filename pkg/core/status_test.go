package core

import (
	"encoding/json"
	"testing"
)

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusPending, "pending"},
		{StatusRunning, "running"},
		{StatusPassed, "passed"},
		{StatusFailed, "failed"},
		{StatusErrored, "errored"},
		{StatusSkipped, "skipped"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.expected {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.expected)
		}
	}
}

func TestStatus_IsSuccess(t *testing.T) {
	if !StatusPassed.IsSuccess() || !StatusSkipped.IsSuccess() {
		t.Error("passed and skipped should count as success")
	}
	if StatusFailed.IsSuccess() || StatusErrored.IsSuccess() {
		t.Error("failed and errored should not count as success")
	}
}

func TestStatus_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Status   Status        `json:"status"`
		Category ErrorCategory `json:"category"`
	}{StatusFailed, ErrCategoryTimeout})
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"status":"failed","category":"timeout"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestErrorCategory_String(t *testing.T) {
	tests := []struct {
		category ErrorCategory
		expected string
	}{
		{ErrCategoryNone, "none"},
		{ErrCategoryAssertion, "assertion"},
		{ErrCategoryTimeout, "timeout"},
		{ErrCategoryConnection, "connection"},
		{ErrCategoryConfig, "config"},
		{ErrorCategory(42), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.category.String(); got != tt.expected {
			t.Errorf("ErrorCategory(%d).String() = %q, want %q", tt.category, got, tt.expected)
		}
	}
}
