package core

import "fmt"

// Locator strategies understood by Appium.
const (
	ByAccessibilityID = "accessibility id"
	ByID              = "id"
	ByXPath           = "xpath"
)

// Locator identifies a UI element by strategy and selector.
// It is opaque here and passed through to the driver as-is.
type Locator struct {
	Strategy string `json:"using" yaml:"using"`
	Value    string `json:"value" yaml:"value"`
}

// AccessibilityID returns a locator using the accessibility id strategy
// (content-desc on Android, accessibilityIdentifier on iOS).
func AccessibilityID(value string) Locator {
	return Locator{Strategy: ByAccessibilityID, Value: value}
}

// ID returns a locator using the resource id strategy.
func ID(value string) Locator {
	return Locator{Strategy: ByID, Value: value}
}

// XPath returns a locator using an XPath expression.
func XPath(expr string) Locator {
	return Locator{Strategy: ByXPath, Value: expr}
}

// Validate checks that both strategy and value are set.
func (l Locator) Validate() error {
	if l.Strategy == "" || l.Value == "" {
		return ErrInvalidLocator.WithDetails(map[string]interface{}{
			"locator": l.String(),
		})
	}
	return nil
}

// String returns a human-readable description for logs and errors.
func (l Locator) String() string {
	return fmt.Sprintf("%s=%q", l.Strategy, l.Value)
}

// Bounds represents element position and size
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PlatformInfo contains device and platform details
type PlatformInfo struct {
	Platform   string `json:"platform"`             // ios, android
	SessionID  string `json:"sessionId,omitempty"`  // Appium session
	DeviceName string `json:"deviceName,omitempty"` // e.g., "Pixel 8"
	ServerURL  string `json:"serverUrl,omitempty"`  // Appium endpoint
}
