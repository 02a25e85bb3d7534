package report

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
)

type junitSuites struct {
	XMLName  xml.Name     `xml:"testsuites"`
	Tests    int          `xml:"tests,attr"`
	Failures int          `xml:"failures,attr"`
	Errors   int          `xml:"errors,attr"`
	Skipped  int          `xml:"skipped,attr"`
	Time     string       `xml:"time,attr"`
	Suites   []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name      string      `xml:"name,attr"`
	Tests     int         `xml:"tests,attr"`
	Failures  int         `xml:"failures,attr"`
	Errors    int         `xml:"errors,attr"`
	Skipped   int         `xml:"skipped,attr"`
	Time      string      `xml:"time,attr"`
	Timestamp string      `xml:"timestamp,attr"`
	Cases     []junitCase `xml:"testcase"`
}

type junitCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitMessage `xml:"failure,omitempty"`
	Error     *junitMessage `xml:"error,omitempty"`
	Skipped   *junitMessage `xml:"skipped,omitempty"`
}

type junitMessage struct {
	Message string `xml:"message,attr,omitempty"`
	Type    string `xml:"type,attr,omitempty"`
	Body    string `xml:",chardata"`
}

// WriteJUnit writes result as JUnit XML to path.
func WriteJUnit(path string, result *core.SuiteResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create junit dir: %w", err)
	}

	suiteName := result.Name
	if result.Platform != "" {
		suiteName += "." + result.Platform
	}
	suite := junitSuite{
		Name:      suiteName,
		Tests:     result.Total,
		Failures:  result.Failed,
		Errors:    result.Errored,
		Skipped:   result.Skipped,
		Time:      seconds(result.Duration),
		Timestamp: result.StartTime.Format(time.RFC3339),
	}

	for _, c := range result.Cases {
		tc := junitCase{Name: c.Name, ClassName: suiteName, Time: seconds(c.Duration)}
		msg := &junitMessage{Message: c.Error, Type: c.Code, Body: c.Error}
		switch c.Status {
		case core.StatusFailed:
			tc.Failure = msg
		case core.StatusErrored:
			tc.Error = msg
		case core.StatusSkipped:
			tc.Skipped = &junitMessage{Message: c.Error}
		}
		suite.Cases = append(suite.Cases, tc)
	}

	doc := junitSuites{
		Tests:    suite.Tests,
		Failures: suite.Failures,
		Errors:   suite.Errors,
		Skipped:  suite.Skipped,
		Time:     suite.Time,
		Suites:   []junitSuite{suite},
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal junit: %w", err)
	}
	return atomicWrite(path, append([]byte(xml.Header), data...))
}

func seconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
