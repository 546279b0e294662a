package config

import "time"

// Patch is a partial configuration. Nil fields are "not supplied".
type Patch struct {
	SwipeToDismiss               *bool
	DismissThreshold             *float64
	DismissThresholdPercent      *float64
	VelocityThreshold            *float64
	CloseOnOverlayClick          *bool
	PasswordEnabled              *bool
	PasswordLength               *int
	IconDisplay                  *IconDisplay
	AllowConfirmWithoutSelection *bool
	HideSelection                *bool
	AmountAlign                  *Align
	AmountFontSize               *int
	AmountFontWeight             *int
	Language                     *string
	Theme                        *string
	Title                        *string
	AriaLabel                    *string
	Description                  *string
	I18n                         map[string]string
	LoadRetryCooldown            *time.Duration
}

// Ptr returns a pointer to v, for building patches inline.
func Ptr[T any](v T) *T { return &v }

// Resolve builds a complete configuration from defaults plus the supplied
// fields of p.
func (p Patch) Resolve() *Config {
	c := Default()
	p.applyTo(c)
	_ = c.Validate()
	return c
}

func (p Patch) applyTo(c *Config) {
	if p.SwipeToDismiss != nil {
		c.Dismiss.SwipeToDismiss = *p.SwipeToDismiss
	}
	if p.DismissThreshold != nil {
		c.Dismiss.Threshold = *p.DismissThreshold
	}
	if p.DismissThresholdPercent != nil {
		c.Dismiss.ThresholdPercent = *p.DismissThresholdPercent
	}
	if p.VelocityThreshold != nil {
		c.Dismiss.VelocityThreshold = *p.VelocityThreshold
	}
	if p.CloseOnOverlayClick != nil {
		c.Dismiss.CloseOnOverlayClick = *p.CloseOnOverlayClick
	}
	if p.PasswordEnabled != nil {
		c.Password.Enabled = *p.PasswordEnabled
	}
	if p.PasswordLength != nil {
		c.Password.Length = *p.PasswordLength
	}
	if p.IconDisplay != nil {
		c.Display.IconDisplay = *p.IconDisplay
	}
	if p.AllowConfirmWithoutSelection != nil {
		c.Display.AllowConfirmWithoutSelection = *p.AllowConfirmWithoutSelection
	}
	if p.HideSelection != nil {
		c.Display.HideSelection = *p.HideSelection
	}
	if p.AmountAlign != nil {
		c.Amount.Align = *p.AmountAlign
	}
	if p.AmountFontSize != nil {
		c.Amount.FontSize = *p.AmountFontSize
	}
	if p.AmountFontWeight != nil {
		c.Amount.FontWeight = *p.AmountFontWeight
	}
	if p.Language != nil {
		c.UI.Language = *p.Language
	}
	if p.Theme != nil {
		c.UI.Theme = *p.Theme
	}
	if p.Title != nil {
		c.UI.Title = *p.Title
	}
	if p.AriaLabel != nil {
		c.UI.AriaLabel = *p.AriaLabel
	}
	if p.Description != nil {
		c.UI.Description = *p.Description
	}
	if p.I18n != nil {
		c.UI.I18n = make(map[string]string, len(p.I18n))
		for k, v := range p.I18n {
			c.UI.I18n[k] = v
		}
	}
	if p.LoadRetryCooldown != nil {
		c.Loading.RetryCooldown = *p.LoadRetryCooldown
	}
}

// option identifies one configurable option for ownership tracking.
type option int

const (
	optSwipeToDismiss option = iota
	optDismissThreshold
	optDismissThresholdPercent
	optVelocityThreshold
	optCloseOnOverlayClick
	optPasswordEnabled
	optPasswordLength
	optIconDisplay
	optAllowConfirmWithoutSelection
	optHideSelection
	optAmountAlign
	optAmountFontSize
	optAmountFontWeight
	optLanguage
	optTheme
	optTitle
	optAriaLabel
	optDescription
	optI18n
	optLoadRetryCooldown
	numOptions
)

// optionField knows whether a patch supplies an option and how to copy the
// option between configs.
type optionField struct {
	supplied func(Patch) bool
	carry    func(dst, src *Config)
}

var optionFields = [numOptions]optionField{
	optSwipeToDismiss: {
		func(p Patch) bool { return p.SwipeToDismiss != nil },
		func(d, s *Config) { d.Dismiss.SwipeToDismiss = s.Dismiss.SwipeToDismiss },
	},
	optDismissThreshold: {
		func(p Patch) bool { return p.DismissThreshold != nil },
		func(d, s *Config) { d.Dismiss.Threshold = s.Dismiss.Threshold },
	},
	optDismissThresholdPercent: {
		func(p Patch) bool { return p.DismissThresholdPercent != nil },
		func(d, s *Config) { d.Dismiss.ThresholdPercent = s.Dismiss.ThresholdPercent },
	},
	optVelocityThreshold: {
		func(p Patch) bool { return p.VelocityThreshold != nil },
		func(d, s *Config) { d.Dismiss.VelocityThreshold = s.Dismiss.VelocityThreshold },
	},
	optCloseOnOverlayClick: {
		func(p Patch) bool { return p.CloseOnOverlayClick != nil },
		func(d, s *Config) { d.Dismiss.CloseOnOverlayClick = s.Dismiss.CloseOnOverlayClick },
	},
	optPasswordEnabled: {
		func(p Patch) bool { return p.PasswordEnabled != nil },
		func(d, s *Config) { d.Password.Enabled = s.Password.Enabled },
	},
	optPasswordLength: {
		func(p Patch) bool { return p.PasswordLength != nil },
		func(d, s *Config) { d.Password.Length = s.Password.Length },
	},
	optIconDisplay: {
		func(p Patch) bool { return p.IconDisplay != nil },
		func(d, s *Config) { d.Display.IconDisplay = s.Display.IconDisplay },
	},
	optAllowConfirmWithoutSelection: {
		func(p Patch) bool { return p.AllowConfirmWithoutSelection != nil },
		func(d, s *Config) { d.Display.AllowConfirmWithoutSelection = s.Display.AllowConfirmWithoutSelection },
	},
	optHideSelection: {
		func(p Patch) bool { return p.HideSelection != nil },
		func(d, s *Config) { d.Display.HideSelection = s.Display.HideSelection },
	},
	optAmountAlign: {
		func(p Patch) bool { return p.AmountAlign != nil },
		func(d, s *Config) { d.Amount.Align = s.Amount.Align },
	},
	optAmountFontSize: {
		func(p Patch) bool { return p.AmountFontSize != nil },
		func(d, s *Config) { d.Amount.FontSize = s.Amount.FontSize },
	},
	optAmountFontWeight: {
		func(p Patch) bool { return p.AmountFontWeight != nil },
		func(d, s *Config) { d.Amount.FontWeight = s.Amount.FontWeight },
	},
	optLanguage: {
		func(p Patch) bool { return p.Language != nil },
		func(d, s *Config) { d.UI.Language = s.UI.Language },
	},
	optTheme: {
		func(p Patch) bool { return p.Theme != nil },
		func(d, s *Config) { d.UI.Theme = s.UI.Theme },
	},
	optTitle: {
		func(p Patch) bool { return p.Title != nil },
		func(d, s *Config) { d.UI.Title = s.UI.Title },
	},
	optAriaLabel: {
		func(p Patch) bool { return p.AriaLabel != nil },
		func(d, s *Config) { d.UI.AriaLabel = s.UI.AriaLabel },
	},
	optDescription: {
		func(p Patch) bool { return p.Description != nil },
		func(d, s *Config) { d.UI.Description = s.UI.Description },
	},
	optI18n: {
		func(p Patch) bool { return p.I18n != nil },
		func(d, s *Config) {
			d.UI.I18n = make(map[string]string, len(s.UI.I18n))
			for k, v := range s.UI.I18n {
				d.UI.I18n[k] = v
			}
		},
	},
	optLoadRetryCooldown: {
		func(p Patch) bool { return p.LoadRetryCooldown != nil },
		func(d, s *Config) { d.Loading.RetryCooldown = s.Loading.RetryCooldown },
	},
}
