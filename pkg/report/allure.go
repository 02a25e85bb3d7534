package report

import (
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
	"github.com/devicelab-dev/mobile-login-tests/pkg/logger"
)

// AllureDir is the results directory Allure reads, inside the output dir.
const AllureDir = "allure-results"

// Allure result schema types.

// AllureResult represents a single test result in Allure format.
type AllureResult struct {
	UUID          string              `json:"uuid"`
	HistoryID     string              `json:"historyId"`
	FullName      string              `json:"fullName"`
	Name          string              `json:"name"`
	Status        string              `json:"status"`
	Stage         string              `json:"stage"`
	Start         int64               `json:"start"`
	Stop          int64               `json:"stop"`
	Labels        []AllureLabel       `json:"labels"`
	StatusDetails AllureStatusDetails `json:"statusDetails"`
	Attachments   []AllureAttachment  `json:"attachments"`
}

// AllureAttachment represents a file attachment.
type AllureAttachment struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	Type   string `json:"type"`
}

// AllureLabel represents a label on a test result.
type AllureLabel struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// AllureStatusDetails holds failure message and trace.
type AllureStatusDetails struct {
	Message string `json:"message"`
	Trace   string `json:"trace"`
}

// AllureCategory defines a failure category with regex matching.
type AllureCategory struct {
	Name            string   `json:"name"`
	MatchedStatuses []string `json:"matchedStatuses"`
	MessageRegex    string   `json:"messageRegex"`
}

// WriteAllure writes one <uuid>-result.json per case into
// <dir>/allure-results, with attachments, categories.json and
// environment.properties.
func WriteAllure(dir string, result *core.SuiteResult) error {
	allureDir := filepath.Join(dir, AllureDir)
	if err := os.MkdirAll(allureDir, 0o755); err != nil {
		return fmt.Errorf("create allure-results dir: %w", err)
	}

	for i := range result.Cases {
		c := &result.Cases[i]
		res := buildAllureResult(result, c)
		res.Attachments = writeAllureAttachments(allureDir, res.UUID, c.Attachments)

		if err := atomicWriteJSON(filepath.Join(allureDir, res.UUID+"-result.json"), res); err != nil {
			return fmt.Errorf("allure result for %s: %w", c.Name, err)
		}
	}

	if err := writeAllureCategories(allureDir); err != nil {
		return err
	}
	return writeAllureEnvironment(allureDir, result)
}

// buildAllureResult builds an AllureResult from a case result.
func buildAllureResult(suite *core.SuiteResult, c *core.CaseResult) AllureResult {
	startMs := c.StartTime.UnixMilli()
	stopMs := startMs + c.Duration.Milliseconds()

	labels := []AllureLabel{
		{Name: "suite", Value: suite.Name},
		{Name: "framework", Value: "mobiletest"},
		{Name: "language", Value: "go"},
	}
	if c.Platform != "" {
		labels = append(labels, AllureLabel{Name: "parentSuite", Value: c.Platform})
	}
	if c.PlatformInfo != nil && c.PlatformInfo.DeviceName != "" {
		labels = append(labels, AllureLabel{Name: "host", Value: c.PlatformInfo.DeviceName})
	}
	for _, tag := range c.Tags {
		labels = append(labels, AllureLabel{Name: "tag", Value: tag})
	}

	var details AllureStatusDetails
	if c.Error != "" {
		details.Message = c.Error
		if c.Code != "" {
			details.Trace = fmt.Sprintf("code: %s\ncategory: %s", c.Code, c.Category)
		}
	}

	return AllureResult{
		UUID:          uuid.NewString(),
		HistoryID:     fnv32aHash(suite.Name + ":" + c.Name + ":" + c.Platform),
		FullName:      suite.Name + "." + c.Name,
		Name:          c.Name,
		Status:        mapAllureStatus(c.Status),
		Stage:         "finished",
		Start:         startMs,
		Stop:          stopMs,
		Labels:        labels,
		StatusDetails: details,
		Attachments:   []AllureAttachment{},
	}
}

// writeAllureAttachments stores in-memory attachment bodies next to the
// result file. Attachments that fail to write are left out.
func writeAllureAttachments(allureDir, resultID string, attachments []core.Attachment) []AllureAttachment {
	out := []AllureAttachment{}
	for i, a := range attachments {
		if len(a.Body) == 0 {
			continue
		}
		source := fmt.Sprintf("%s-attachment-%d%s", resultID, i, filepath.Ext(a.Path))
		if err := os.WriteFile(filepath.Join(allureDir, source), a.Body, 0o644); err != nil {
			logger.Warn("failed to write allure attachment %s: %v", source, err)
			continue
		}
		out = append(out, AllureAttachment{Name: a.Name, Source: source, Type: a.ContentType})
	}
	return out
}

// mapAllureStatus maps a case status to an Allure status string.
func mapAllureStatus(s core.Status) string {
	switch s {
	case core.StatusPassed:
		return "passed"
	case core.StatusFailed:
		return "failed"
	case core.StatusErrored:
		return "broken"
	case core.StatusSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// fnv32aHash returns a hex-encoded FNV-32a hash of the input string.
func fnv32aHash(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s))
	return fmt.Sprintf("%08x", h.Sum32())
}

// writeAllureCategories writes categories.json for failure categorization.
func writeAllureCategories(allureDir string) error {
	categories := []AllureCategory{
		{Name: "Timeout", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*timed out.*"},
		{Name: "Assertion Failed", MatchedStatuses: []string{"failed"}, MessageRegex: "(?i).*expected.*|.*should.*|.*did not appear.*"},
		{Name: "Session Error", MatchedStatuses: []string{"broken"}, MessageRegex: "(?i).*session.*"},
		{Name: "Connection Error", MatchedStatuses: []string{"broken"}, MessageRegex: "(?i).*unreachable.*|.*connection.*|.*wiremock.*"},
	}
	return atomicWriteJSON(filepath.Join(allureDir, "categories.json"), categories)
}

// writeAllureEnvironment writes environment.properties with platform metadata.
func writeAllureEnvironment(allureDir string, result *core.SuiteResult) error {
	var b strings.Builder
	b.WriteString("framework=mobiletest\n")
	if result.Platform != "" {
		b.WriteString(fmt.Sprintf("platform=%s\n", result.Platform))
	}
	b.WriteString(fmt.Sprintf("run.id=%s\n", result.RunID))

	for _, c := range result.Cases {
		if c.PlatformInfo == nil {
			continue
		}
		if c.PlatformInfo.DeviceName != "" {
			b.WriteString(fmt.Sprintf("device.name=%s\n", c.PlatformInfo.DeviceName))
		}
		if c.PlatformInfo.ServerURL != "" {
			b.WriteString(fmt.Sprintf("appium.url=%s\n", c.PlatformInfo.ServerURL))
		}
		break
	}

	path := filepath.Join(allureDir, "environment.properties")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write environment.properties: %w", err)
	}
	return nil
}
