package styles

import "testing"

func TestApplyTheme(t *testing.T) {
	t.Cleanup(func() { ApplyTheme("light") })

	ApplyTheme("dark")
	if GetCurrentThemeName() != "dark" {
		t.Errorf("current = %q, want dark", GetCurrentThemeName())
	}
	if TextPrimary != "#F0F0F0" || GetMarkdownTheme() != "dark" {
		t.Errorf("dark colors not applied: %v %q", TextPrimary, GetMarkdownTheme())
	}

	ApplyTheme("neon")
	if GetCurrentThemeName() != "light" {
		t.Errorf("unknown theme should fall back to light, got %q", GetCurrentThemeName())
	}
}

func TestApplyThemeWithOverrides(t *testing.T) {
	t.Cleanup(func() { ApplyTheme("light") })

	ApplyThemeWithOverrides("light", map[string]string{
		"primary": "#123456",
		"error":   "not-a-color",
	})
	if Primary != "#123456" {
		t.Errorf("primary = %v", Primary)
	}
	if Error != "#FF4D4F" {
		t.Errorf("invalid override applied: %v", Error)
	}
	if LightTheme.Colors.Primary != "#1677FF" {
		t.Error("overrides must not modify the registered theme")
	}
}

func TestIsValidHexColor(t *testing.T) {
	tests := map[string]bool{
		"#FFFFFF":   true,
		"#ffffff80": true,
		"#FFF":      false,
		"white":     false,
		"":          false,
	}
	for in, want := range tests {
		if got := IsValidHexColor(in); got != want {
			t.Errorf("IsValidHexColor(%q) = %v, want %v", in, got, want)
		}
	}
}
