package styles

import (
	"regexp"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// themeMu protects access to themeRegistry and currentTheme for thread safety
var themeMu sync.RWMutex

// hexColorRegex validates hex color codes (#RRGGBB or #RRGGBBAA with alpha)
var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}([0-9A-Fa-f]{2})?$`)

// ColorPalette holds all theme colors
type ColorPalette struct {
	// Brand colors
	Primary string `json:"primary"`
	Accent  string `json:"accent"`

	// Status colors
	Success string `json:"success"`
	Error   string `json:"error"`

	// Text colors
	TextPrimary   string `json:"textPrimary"`
	TextSecondary string `json:"textSecondary"`
	TextMuted     string `json:"textMuted"`
	TextInverse   string `json:"textInverse"`

	// Background colors
	BgPanel   string `json:"bgPanel"`
	BgOverlay string `json:"bgOverlay"` // dimmed backdrop behind the sheet
	BgCursor  string `json:"bgCursor"`

	// Border colors
	BorderNormal string `json:"borderNormal"`
	BorderActive string `json:"borderActive"`

	ButtonHover string `json:"buttonHover"`

	// Glamour theme name for the description
	MarkdownTheme string `json:"markdownTheme"`
}

// Theme represents a complete theme configuration
type Theme struct {
	Name        string       `json:"name"`
	DisplayName string       `json:"displayName"`
	Colors      ColorPalette `json:"colors"`
}

// Built-in themes
var (
	LightTheme = Theme{
		Name:        "light",
		DisplayName: "Light",
		Colors: ColorPalette{
			Primary: "#1677FF",
			Accent:  "#FA8C16",

			Success: "#52C41A",
			Error:   "#FF4D4F",

			TextPrimary:   "#1F1F1F",
			TextSecondary: "#595959",
			TextMuted:     "#8C8C8C",
			TextInverse:   "#FFFFFF",

			BgPanel:   "#FFFFFF",
			BgOverlay: "#3A3A3A",
			BgCursor:  "#E6F4FF",

			BorderNormal: "#D9D9D9",
			BorderActive: "#1677FF",

			ButtonHover: "#4096FF",

			MarkdownTheme: "light",
		},
	}

	DarkTheme = Theme{
		Name:        "dark",
		DisplayName: "Dark",
		Colors: ColorPalette{
			Primary: "#3C89E8",
			Accent:  "#D89614",

			Success: "#49AA19",
			Error:   "#DC4446",

			TextPrimary:   "#F0F0F0",
			TextSecondary: "#BFBFBF",
			TextMuted:     "#8C8C8C",
			TextInverse:   "#141414",

			BgPanel:   "#1F1F1F",
			BgOverlay: "#0A0A0A",
			BgCursor:  "#111A2C",

			BorderNormal: "#424242",
			BorderActive: "#3C89E8",

			ButtonHover: "#65A9F3",

			MarkdownTheme: "dark",
		},
	}
)

// themeRegistry holds all available themes
var themeRegistry = map[string]Theme{
	"light": LightTheme,
	"dark":  DarkTheme,
}

var currentTheme = "light"

// IsValidHexColor checks if a string is a valid hex color code
func IsValidHexColor(hex string) bool {
	return hexColorRegex.MatchString(hex)
}

// GetTheme returns a theme by name, or the light theme if not found
func GetTheme(name string) Theme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	if theme, ok := themeRegistry[name]; ok {
		return theme
	}
	return LightTheme
}

// GetCurrentThemeName returns the name of the currently active theme
func GetCurrentThemeName() string {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// ApplyTheme applies a theme by name
func ApplyTheme(name string) {
	ApplyThemeWithOverrides(name, nil)
}

// ApplyThemeWithOverrides applies a theme with color overrides keyed by the
// palette's JSON field names. Invalid colors are ignored.
func ApplyThemeWithOverrides(name string, overrides map[string]string) {
	theme := GetTheme(name)
	for key, value := range overrides {
		applySingleOverride(&theme.Colors, key, value)
	}

	themeMu.Lock()
	currentTheme = theme.Name
	themeMu.Unlock()

	ApplyThemeColors(theme)
}

func applySingleOverride(palette *ColorPalette, key, value string) {
	if key == "markdownTheme" {
		palette.MarkdownTheme = value
		return
	}
	if !IsValidHexColor(value) {
		return
	}
	switch strings.TrimSpace(key) {
	case "primary":
		palette.Primary = value
	case "accent":
		palette.Accent = value
	case "success":
		palette.Success = value
	case "error":
		palette.Error = value
	case "textPrimary":
		palette.TextPrimary = value
	case "textSecondary":
		palette.TextSecondary = value
	case "textMuted":
		palette.TextMuted = value
	case "textInverse":
		palette.TextInverse = value
	case "bgPanel":
		palette.BgPanel = value
	case "bgOverlay":
		palette.BgOverlay = value
	case "bgCursor":
		palette.BgCursor = value
	case "borderNormal":
		palette.BorderNormal = value
	case "borderActive":
		palette.BorderActive = value
	case "buttonHover":
		palette.ButtonHover = value
	}
}

// ApplyThemeColors updates all style package variables from a theme.
//
// This is NOT safe for concurrent reads of the style variables. Call it from
// the bubbletea update loop only.
func ApplyThemeColors(theme Theme) {
	c := theme.Colors

	Primary = lipgloss.Color(c.Primary)
	Accent = lipgloss.Color(c.Accent)

	Success = lipgloss.Color(c.Success)
	Error = lipgloss.Color(c.Error)

	TextPrimary = lipgloss.Color(c.TextPrimary)
	TextSecondary = lipgloss.Color(c.TextSecondary)
	TextMuted = lipgloss.Color(c.TextMuted)
	TextInverse = lipgloss.Color(c.TextInverse)

	BgPanel = lipgloss.Color(c.BgPanel)
	BgOverlay = lipgloss.Color(c.BgOverlay)
	BgCursor = lipgloss.Color(c.BgCursor)

	BorderNormal = lipgloss.Color(c.BorderNormal)
	BorderActive = lipgloss.Color(c.BorderActive)

	ButtonHoverColor = lipgloss.Color(c.ButtonHover)

	CurrentMarkdownTheme = c.MarkdownTheme

	rebuildStyles()
}

// GetMarkdownTheme returns the glamour style name for the current theme.
func GetMarkdownTheme() string {
	return CurrentMarkdownTheme
}
