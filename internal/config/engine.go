// Package config resolves sheet configuration.
//
// Two kinds of writes exist. SetConfig is a bulk write: options in the patch
// take the patch value, and options left out return to their default unless
// a per-option setter was the last write to them. The per-option setters are
// point writes that change exactly one option and keep it across later bulk
// writes until a bulk write supplies it again.
package config

import "time"

// Engine owns the resolved configuration.
type Engine struct {
	cfg      *Config
	point    [numOptions]bool // last written by a per-option setter
	onChange func(*Config)
}

// NewEngine creates an engine holding the defaults.
func NewEngine() *Engine {
	return &Engine{cfg: Default()}
}

// OnChange registers fn to run after every write with the new config.
func (e *Engine) OnChange(fn func(*Config)) { e.onChange = fn }

// Config returns a copy of the resolved configuration.
func (e *Engine) Config() *Config { return e.cfg.Clone() }

// SetConfig applies a bulk write. Supplied options take the patch value.
// Omitted options reset to their default, except those a per-option setter
// wrote last, which keep their value.
func (e *Engine) SetConfig(p Patch) {
	next := p.Resolve()
	for o, f := range optionFields {
		switch {
		case f.supplied(p):
			e.point[o] = false
		case e.point[o]:
			f.carry(next, e.cfg)
		}
	}
	e.cfg = next
	e.changed()
}

func (e *Engine) mutate(fn func(*Config), opts ...option) {
	next := e.cfg.Clone()
	fn(next)
	_ = next.Validate()
	e.cfg = next
	for _, o := range opts {
		e.point[o] = true
	}
	e.changed()
}

func (e *Engine) changed() {
	if e.onChange != nil {
		e.onChange(e.cfg.Clone())
	}
}

func (e *Engine) SetSwipeToDismiss(v bool) {
	e.mutate(func(c *Config) { c.Dismiss.SwipeToDismiss = v }, optSwipeToDismiss)
}

func (e *Engine) SetDismissThreshold(v float64) {
	e.mutate(func(c *Config) { c.Dismiss.Threshold = v }, optDismissThreshold)
}

func (e *Engine) SetDismissThresholdPercent(v float64) {
	e.mutate(func(c *Config) { c.Dismiss.ThresholdPercent = v }, optDismissThresholdPercent)
}

func (e *Engine) SetVelocityThreshold(v float64) {
	e.mutate(func(c *Config) { c.Dismiss.VelocityThreshold = v }, optVelocityThreshold)
}

func (e *Engine) SetCloseOnOverlayClick(v bool) {
	e.mutate(func(c *Config) { c.Dismiss.CloseOnOverlayClick = v }, optCloseOnOverlayClick)
}

func (e *Engine) SetPasswordEnabled(v bool) {
	e.mutate(func(c *Config) { c.Password.Enabled = v }, optPasswordEnabled)
}

// SetPasswordLength sets the password length, clamped to 4–12.
func (e *Engine) SetPasswordLength(n int) {
	e.mutate(func(c *Config) { c.Password.Length = n }, optPasswordLength)
}

func (e *Engine) SetIconDisplay(v IconDisplay) {
	e.mutate(func(c *Config) { c.Display.IconDisplay = v }, optIconDisplay)
}

func (e *Engine) SetAllowConfirmWithoutSelection(v bool) {
	e.mutate(func(c *Config) { c.Display.AllowConfirmWithoutSelection = v }, optAllowConfirmWithoutSelection)
}

func (e *Engine) SetHideSelection(v bool) {
	e.mutate(func(c *Config) { c.Display.HideSelection = v }, optHideSelection)
}

func (e *Engine) SetAmountAlign(v Align) {
	e.mutate(func(c *Config) { c.Amount.Align = v }, optAmountAlign)
}

// SetAmountFont sets amount font size and weight together.
func (e *Engine) SetAmountFont(size, weight int) {
	e.mutate(func(c *Config) {
		c.Amount.FontSize = size
		c.Amount.FontWeight = weight
	}, optAmountFontSize, optAmountFontWeight)
}

func (e *Engine) SetLanguage(v string) {
	e.mutate(func(c *Config) { c.UI.Language = v }, optLanguage)
}

func (e *Engine) SetTheme(v string) {
	e.mutate(func(c *Config) { c.UI.Theme = v }, optTheme)
}

func (e *Engine) SetTitle(v string) {
	e.mutate(func(c *Config) { c.UI.Title = v }, optTitle)
}

func (e *Engine) SetAriaLabel(v string) {
	e.mutate(func(c *Config) { c.UI.AriaLabel = v }, optAriaLabel)
}

func (e *Engine) SetDescription(v string) {
	e.mutate(func(c *Config) { c.UI.Description = v }, optDescription)
}

// SetI18nOverrides replaces the text overrides.
func (e *Engine) SetI18nOverrides(m map[string]string) {
	e.mutate(func(c *Config) {
		c.UI.I18n = make(map[string]string, len(m))
		for k, v := range m {
			c.UI.I18n[k] = v
		}
	}, optI18n)
}

func (e *Engine) SetLoadRetryCooldown(d time.Duration) {
	e.mutate(func(c *Config) { c.Loading.RetryCooldown = d }, optLoadRetryCooldown)
}
