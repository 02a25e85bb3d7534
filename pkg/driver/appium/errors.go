package appium

import (
	"errors"
	"fmt"

	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
)

// W3C WebDriver error codes the suite reacts to.
const (
	CodeNoSuchElement     = "no such element"
	CodeStaleElement      = "stale element reference"
	CodeSessionNotCreated = "session not created"
	CodeInvalidSession    = "invalid session id"
)

// WebDriverError is an error payload returned by the Appium server.
type WebDriverError struct {
	Status  int    // HTTP status
	Code    string // W3C error code, e.g. "no such element"
	Message string
}

func (e *WebDriverError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is maps W3C codes onto the shared sentinels so callers can use
// errors.Is(err, core.ErrElementNotFound) without knowing about WebDriver.
func (e *WebDriverError) Is(target error) bool {
	var sentinel *core.ExecutionError
	switch e.Code {
	case CodeNoSuchElement:
		sentinel = core.ErrElementNotFound
	case CodeStaleElement:
		sentinel = core.ErrStaleElement
	case CodeSessionNotCreated, CodeInvalidSession:
		sentinel = core.ErrSessionNotCreated
	default:
		return false
	}
	return errors.Is(sentinel, target)
}

func parseWebDriverError(status int, result map[string]interface{}) *WebDriverError {
	errValue, ok := result["value"].(map[string]interface{})
	if !ok {
		if status >= 400 {
			return &WebDriverError{Status: status, Code: "unknown error", Message: fmt.Sprint(result["value"])}
		}
		return nil
	}
	code, _ := errValue["error"].(string)
	if code == "" {
		if status >= 400 {
			return &WebDriverError{Status: status, Code: "unknown error", Message: fmt.Sprint(errValue)}
		}
		return nil
	}
	msg, _ := errValue["message"].(string)
	return &WebDriverError{Status: status, Code: code, Message: msg}
}
