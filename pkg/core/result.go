package core

import (
	"errors"
	"time"
)

// CaseResult captures the complete outcome of executing a single test case
type CaseResult struct {
	// Identity
	Name     string   `json:"name"`
	Tags     []string `json:"tags,omitempty"`
	Platform string   `json:"platform"`

	// Status
	Status   Status        `json:"status"`
	Category ErrorCategory `json:"errorCategory,omitempty"`

	// Timing
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`

	// Error Details
	Error   string                 `json:"error,omitempty"`   // Technical error message
	Code    string                 `json:"code,omitempty"`    // ExecutionError code when available
	Details map[string]interface{} `json:"details,omitempty"` // ExecutionError details

	// Debug Artifacts
	PlatformInfo *PlatformInfo `json:"platformInfo,omitempty"`
	Attachments  []Attachment  `json:"attachments,omitempty"`
}

// SetError records err on the result and derives status and category.
// Config and connection problems mark the case errored; assertion failures
// and wait timeouts mark it failed.
func (r *CaseResult) SetError(err error) {
	if err == nil {
		r.Status = StatusPassed
		r.Category = ErrCategoryNone
		return
	}

	r.Error = err.Error()
	r.Category = CategoryOf(err)

	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		r.Code = execErr.Code
		r.Details = execErr.Details
	}

	switch r.Category {
	case ErrCategoryAssertion, ErrCategoryTimeout:
		r.Status = StatusFailed
	default:
		r.Status = StatusErrored
	}
}

// SuiteResult captures the complete outcome of executing a set of cases
type SuiteResult struct {
	// Identity
	Name     string `json:"name"`
	RunID    string `json:"runId"` // Unique execution ID
	Platform string `json:"platform"`

	// Timing
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"duration"`

	// Results
	Cases []CaseResult `json:"cases"`

	// Summary
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Errored int `json:"errored"`
	Skipped int `json:"skipped"`
}

// ComputeSummary calculates case counts from the Cases slice
func (s *SuiteResult) ComputeSummary() {
	s.Total = len(s.Cases)
	s.Passed = 0
	s.Failed = 0
	s.Errored = 0
	s.Skipped = 0

	for _, c := range s.Cases {
		switch c.Status {
		case StatusPassed:
			s.Passed++
		case StatusFailed:
			s.Failed++
		case StatusErrored:
			s.Errored++
		case StatusSkipped:
			s.Skipped++
		}
	}
}

// Success returns true if no case failed or errored and at least one ran
func (s *SuiteResult) Success() bool {
	ran := 0
	for _, c := range s.Cases {
		if !c.Status.IsSuccess() {
			return false
		}
		if c.Status == StatusPassed {
			ran++
		}
	}
	return ran > 0
}
