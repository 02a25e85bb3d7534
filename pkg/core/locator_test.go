package core

import (
	"errors"
	"testing"
)

func TestLocator_Constructors(t *testing.T) {
	tests := []struct {
		loc      Locator
		strategy string
	}{
		{AccessibilityID("login_button"), "accessibility id"},
		{ID("com.example:id/login"), "id"},
		{XPath("//android.widget.Button"), "xpath"},
	}

	for _, tt := range tests {
		if tt.loc.Strategy != tt.strategy {
			t.Errorf("Strategy = %q, want %q", tt.loc.Strategy, tt.strategy)
		}
		if err := tt.loc.Validate(); err != nil {
			t.Errorf("Validate(%s) unexpected error: %v", tt.loc, err)
		}
	}
}

func TestLocator_ValidateEmpty(t *testing.T) {
	for _, loc := range []Locator{{}, {Strategy: ByID}, {Value: "x"}} {
		err := loc.Validate()
		if !errors.Is(err, ErrInvalidLocator) {
			t.Errorf("Validate(%s) = %v, want ErrInvalidLocator", loc, err)
		}
	}
}

func TestLocator_String(t *testing.T) {
	if got := AccessibilityID("home_screen").String(); got != `accessibility id="home_screen"` {
		t.Errorf("String() = %s", got)
	}
}
