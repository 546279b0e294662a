// Package styles holds the sheet's lipgloss styles. The package variables are
// rebuilt whenever a theme is applied.
package styles

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	Primary lipgloss.Color
	Accent  lipgloss.Color

	Success lipgloss.Color
	Error   lipgloss.Color

	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextInverse   lipgloss.Color

	BgPanel   lipgloss.Color
	BgOverlay lipgloss.Color
	BgCursor  lipgloss.Color

	BorderNormal lipgloss.Color
	BorderActive lipgloss.Color

	ButtonHoverColor lipgloss.Color

	CurrentMarkdownTheme string
)

// Sheet styles
var (
	Overlay     lipgloss.Style
	Panel       lipgloss.Style
	Handle      lipgloss.Style
	Title       lipgloss.Style
	CloseButton lipgloss.Style

	AmountLabel lipgloss.Style
	Amount      lipgloss.Style

	SectionHeader lipgloss.Style
	Required      lipgloss.Style
	Item          lipgloss.Style
	ItemSubtitle  lipgloss.Style
	ItemCursor    lipgloss.Style
	Check         lipgloss.Style
	Icon          lipgloss.Style
	GroupHeader   lipgloss.Style

	Muted    lipgloss.Style
	KeyHint  lipgloss.Style
	ErrorMsg lipgloss.Style

	PasswordCell       lipgloss.Style
	PasswordCellFilled lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonHover   lipgloss.Style
	ButtonPrimary lipgloss.Style
)

func init() {
	ApplyThemeColors(LightTheme)
}

// rebuildStyles recreates all lipgloss styles with current colors
func rebuildStyles() {
	Overlay = lipgloss.NewStyle().
		Foreground(TextMuted).
		Background(BgOverlay)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), true, true, false, true).
		BorderForeground(BorderNormal).
		Padding(0, 1)

	Handle = lipgloss.NewStyle().
		Foreground(BorderNormal)

	Title = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	CloseButton = lipgloss.NewStyle().
		Foreground(TextMuted)

	AmountLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	Amount = lipgloss.NewStyle().
		Foreground(TextPrimary)

	SectionHeader = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Bold(true)

	Required = lipgloss.NewStyle().
		Foreground(Error)

	Item = lipgloss.NewStyle().
		Foreground(TextPrimary)

	ItemSubtitle = lipgloss.NewStyle().
		Foreground(TextMuted)

	ItemCursor = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(BgCursor)

	Check = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	Icon = lipgloss.NewStyle().
		Foreground(Accent)

	GroupHeader = lipgloss.NewStyle().
		Foreground(TextSecondary)

	Muted = lipgloss.NewStyle().
		Foreground(TextMuted)

	KeyHint = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(BgPanel).
		Padding(0, 1)

	ErrorMsg = lipgloss.NewStyle().
		Foreground(Error)

	PasswordCell = lipgloss.NewStyle().
		Foreground(BorderNormal)

	PasswordCellFilled = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Bold(true)

	Button = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderNormal).
		Padding(0, 2)

	ButtonPrimary = Button.
		Foreground(TextInverse).
		Background(Primary).
		BorderForeground(Primary)

	ButtonFocused = Button.
		Foreground(TextInverse).
		Background(Primary).
		BorderForeground(BorderActive).
		Bold(true)

	ButtonHover = Button.
		Foreground(TextInverse).
		Background(ButtonHoverColor).
		BorderForeground(ButtonHoverColor)
}
