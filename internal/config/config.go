package config

import "time"

// Config is the fully resolved sheet configuration. Every field always holds
// either a host-supplied value or its default.
type Config struct {
	Dismiss  DismissConfig
	Password PasswordConfig
	Display  DisplayConfig
	Amount   AmountConfig
	UI       UIConfig
	Loading  LoadingConfig
}

// DismissConfig controls how the sheet can be dismissed.
type DismissConfig struct {
	SwipeToDismiss      bool
	Threshold           float64 // absolute drag distance
	ThresholdPercent    float64 // fraction of panel height
	VelocityThreshold   float64 // units per millisecond
	CloseOnOverlayClick bool
}

// PasswordConfig controls numeric password entry.
type PasswordConfig struct {
	Enabled bool
	Length  int
}

// DisplayConfig controls how the selection list is presented.
type DisplayConfig struct {
	IconDisplay                  IconDisplay
	AllowConfirmWithoutSelection bool
	HideSelection                bool
}

// AmountConfig controls amount presentation.
type AmountConfig struct {
	Align      Align
	FontSize   int
	FontWeight int
}

// UIConfig holds text and theme settings.
type UIConfig struct {
	Language    string
	Theme       string
	Title       string
	AriaLabel   string
	Description string // markdown shown under the amount
	I18n        map[string]string
}

// LoadingConfig controls deferred group loads.
type LoadingConfig struct {
	// RetryCooldown is how long a failed group refuses to reload. Zero
	// retries on the next expansion.
	RetryCooldown time.Duration
}

// IconDisplay selects when item icons are drawn.
type IconDisplay string

const (
	IconAuto IconDisplay = "auto" // only when some item has an icon
	IconShow IconDisplay = "show"
	IconHide IconDisplay = "hide"
)

// Align is a horizontal alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Theme names.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Password length bounds.
const (
	MinPasswordLength = 4
	MaxPasswordLength = 12
)

// Defaults.
const (
	DefaultThreshold         = 100
	DefaultThresholdPercent  = 0.3
	DefaultVelocityThreshold = 0.5
	DefaultPasswordLength    = 6
	DefaultAmountFontSize    = 32
	DefaultAmountFontWeight  = 600
	DefaultLanguage          = "en"
	DefaultTheme             = ThemeLight
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Dismiss: DismissConfig{
			SwipeToDismiss:      true,
			Threshold:           DefaultThreshold,
			ThresholdPercent:    DefaultThresholdPercent,
			VelocityThreshold:   DefaultVelocityThreshold,
			CloseOnOverlayClick: true,
		},
		Password: PasswordConfig{
			Enabled: false,
			Length:  DefaultPasswordLength,
		},
		Display: DisplayConfig{
			IconDisplay: IconAuto,
		},
		Amount: AmountConfig{
			Align:      AlignCenter,
			FontSize:   DefaultAmountFontSize,
			FontWeight: DefaultAmountFontWeight,
		},
		UI: UIConfig{
			Language: DefaultLanguage,
			Theme:    DefaultTheme,
			I18n:     make(map[string]string),
		},
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.UI.I18n = make(map[string]string, len(c.UI.I18n))
	for k, v := range c.UI.I18n {
		out.UI.I18n[k] = v
	}
	return &out
}

// Validate normalizes out-of-range values back into range.
func (c *Config) Validate() error {
	if c.Dismiss.Threshold < 0 {
		c.Dismiss.Threshold = DefaultThreshold
	}
	if c.Dismiss.ThresholdPercent < 0 || c.Dismiss.ThresholdPercent > 1 {
		c.Dismiss.ThresholdPercent = DefaultThresholdPercent
	}
	if c.Dismiss.VelocityThreshold < 0 {
		c.Dismiss.VelocityThreshold = DefaultVelocityThreshold
	}
	c.Password.Length = ClampPasswordLength(c.Password.Length)
	switch c.Display.IconDisplay {
	case IconAuto, IconShow, IconHide:
	default:
		c.Display.IconDisplay = IconAuto
	}
	switch c.Amount.Align {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		c.Amount.Align = AlignCenter
	}
	if c.Amount.FontSize <= 0 {
		c.Amount.FontSize = DefaultAmountFontSize
	}
	if c.Amount.FontWeight <= 0 {
		c.Amount.FontWeight = DefaultAmountFontWeight
	}
	if c.UI.Language == "" {
		c.UI.Language = DefaultLanguage
	}
	switch c.UI.Theme {
	case ThemeLight, ThemeDark:
	default:
		c.UI.Theme = DefaultTheme
	}
	if c.UI.I18n == nil {
		c.UI.I18n = make(map[string]string)
	}
	if c.Loading.RetryCooldown < 0 {
		c.Loading.RetryCooldown = 0
	}
	return nil
}

// ClampPasswordLength forces n into [MinPasswordLength, MaxPasswordLength].
func ClampPasswordLength(n int) int {
	return min(MaxPasswordLength, max(MinPasswordLength, n))
}
