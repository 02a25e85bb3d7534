// Package mock provides an in-memory device for testing page objects, waits
// and the suite runner without an Appium server.
package mock

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/devicelab-dev/mobile-login-tests/pkg/core"
)

// Element is a fake UI element.
type Element struct {
	ID        string
	Locator   core.Locator
	Text      string
	Displayed bool
	Enabled   bool
}

// Device is a fake automation session. All methods are safe for concurrent use
// so screen changes can be scheduled with After while a wait is polling.
type Device struct {
	// Configuration
	Config Config

	mu       sync.Mutex
	elements map[core.Locator]*Element
	byID     map[string]*Element
	onClick  map[core.Locator]func(*Device)
	nextID   int
	calls    []string
	closed   bool
}

// Config configures mock device behavior.
type Config struct {
	// FindError, when set, is returned by every FindElement call
	FindError error
	// FindDelay adds artificial latency per lookup
	FindDelay time.Duration
	// Platform info to report
	Platform  string
	SessionID string
}

// New creates a new mock device.
func New(cfg Config) *Device {
	if cfg.Platform == "" {
		cfg.Platform = "mock"
	}
	if cfg.SessionID == "" {
		cfg.SessionID = "mock-session"
	}
	return &Device{
		Config:   cfg,
		elements: make(map[core.Locator]*Element),
		byID:     make(map[string]*Element),
		onClick:  make(map[core.Locator]func(*Device)),
	}
}

// Screen setup

// Add places a visible, enabled element on screen and returns it. Adding a
// locator that already exists replaces the element, so old ids go stale.
func (d *Device) Add(loc core.Locator, text string) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()

	if old, ok := d.elements[loc]; ok {
		delete(d.byID, old.ID)
	}
	d.nextID++
	e := &Element{
		ID:        fmt.Sprintf("mock-%d", d.nextID),
		Locator:   loc,
		Text:      text,
		Displayed: true,
		Enabled:   true,
	}
	d.elements[loc] = e
	d.byID[e.ID] = e
	return e
}

// Remove takes an element off screen; its id becomes stale.
func (d *Device) Remove(loc core.Locator) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.elements[loc]; ok {
		delete(d.byID, e.ID)
		delete(d.elements, loc)
	}
}

// SetDisplayed toggles visibility without removing the element.
func (d *Device) SetDisplayed(loc core.Locator, displayed bool) {
	d.update(loc, func(e *Element) { e.Displayed = displayed })
}

// SetEnabled toggles the enabled state.
func (d *Device) SetEnabled(loc core.Locator, enabled bool) {
	d.update(loc, func(e *Element) { e.Enabled = enabled })
}

// SetText replaces the element text.
func (d *Device) SetText(loc core.Locator, text string) {
	d.update(loc, func(e *Element) { e.Text = text })
}

// TextOf returns the current text of loc, empty when absent.
func (d *Device) TextOf(loc core.Locator) string {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.elements[loc]; ok {
		return e.Text
	}
	return ""
}

// Has reports whether loc is on screen.
func (d *Device) Has(loc core.Locator) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.elements[loc]
	return ok
}

// OnClick registers fn to run when the element at loc is clicked.
func (d *Device) OnClick(loc core.Locator, fn func(*Device)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onClick[loc] = fn
}

// After runs fn on the device once delay has passed.
func (d *Device) After(delay time.Duration, fn func(*Device)) {
	time.AfterFunc(delay, func() { fn(d) })
}

// Calls returns the driver calls made so far, e.g. "click login_button".
func (d *Device) Calls() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.calls...)
}

// Closed reports whether Disconnect was called.
func (d *Device) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Device) update(loc core.Locator, fn func(*Element)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.elements[loc]; ok {
		fn(e)
	}
}

// Driver surface

// FindElement returns the id of the element at strategy/value.
func (d *Device) FindElement(strategy, value string) (string, error) {
	if d.Config.FindDelay > 0 {
		time.Sleep(d.Config.FindDelay)
	}
	if d.Config.FindError != nil {
		return "", d.Config.FindError
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	loc := core.Locator{Strategy: strategy, Value: value}
	e, ok := d.elements[loc]
	if !ok {
		return "", core.ErrElementNotFound.WithDetails(map[string]interface{}{"locator": loc.String()})
	}
	return e.ID, nil
}

// IsElementDisplayed reports element visibility.
func (d *Device) IsElementDisplayed(elementID string) (bool, error) {
	e, err := d.lookup(elementID)
	if err != nil {
		return false, err
	}
	return e.Displayed, nil
}

// IsElementEnabled reports whether the element accepts input.
func (d *Device) IsElementEnabled(elementID string) (bool, error) {
	e, err := d.lookup(elementID)
	if err != nil {
		return false, err
	}
	return e.Enabled, nil
}

// GetElementText returns the element text.
func (d *Device) GetElementText(elementID string) (string, error) {
	e, err := d.lookup(elementID)
	if err != nil {
		return "", err
	}
	return e.Text, nil
}

// ClickElement runs the registered click handler, if any.
func (d *Device) ClickElement(elementID string) error {
	d.mu.Lock()
	e, ok := d.byID[elementID]
	if !ok {
		d.mu.Unlock()
		return core.ErrStaleElement
	}
	d.calls = append(d.calls, "click "+e.Locator.Value)
	fn := d.onClick[e.Locator]
	d.mu.Unlock()

	if fn != nil {
		fn(d)
	}
	return nil
}

// ClearElement empties the element text.
func (d *Device) ClearElement(elementID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.byID[elementID]
	if !ok {
		return core.ErrStaleElement
	}
	d.calls = append(d.calls, "clear "+e.Locator.Value)
	e.Text = ""
	return nil
}

// TypeElement appends text to the element.
func (d *Device) TypeElement(elementID, text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.byID[elementID]
	if !ok {
		return core.ErrStaleElement
	}
	d.calls = append(d.calls, "type "+e.Locator.Value)
	e.Text += text
	return nil
}

// HideKeyboard records the call.
func (d *Device) HideKeyboard() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls = append(d.calls, "hide_keyboard")
	return nil
}

// Screenshot returns a mock PNG image.
func (d *Device) Screenshot() ([]byte, error) {
	// Minimal valid PNG (1x1 transparent pixel)
	return []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, // PNG signature
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52, // IHDR chunk
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
		0x89, 0x00, 0x00, 0x00, 0x0A, 0x49, 0x44, 0x41,
		0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00,
		0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE,
		0x42, 0x60, 0x82,
	}, nil
}

// Source renders the current screen as a flat XML hierarchy.
func (d *Device) Source() (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ids := make([]string, 0, len(d.byID))
	for id := range d.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var b strings.Builder
	b.WriteString("<hierarchy>")
	for _, id := range ids {
		e := d.byID[id]
		fmt.Fprintf(&b, `<element id=%q locator=%q text=%q displayed="%t" enabled="%t"/>`,
			e.ID, e.Locator.Value, e.Text, e.Displayed, e.Enabled)
	}
	b.WriteString("</hierarchy>")
	return b.String(), nil
}

// Disconnect marks the session closed.
func (d *Device) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	return nil
}

// PlatformInfo returns mock platform info.
func (d *Device) PlatformInfo() *core.PlatformInfo {
	return &core.PlatformInfo{
		Platform:   d.Config.Platform,
		SessionID:  d.Config.SessionID,
		DeviceName: "Mock Device",
	}
}

func (d *Device) lookup(elementID string) (*Element, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.byID[elementID]
	if !ok {
		return nil, core.ErrStaleElement.WithDetails(map[string]interface{}{"element": elementID})
	}
	// Copy so callers never read while After mutates.
	cp := *e
	return &cp, nil
}
