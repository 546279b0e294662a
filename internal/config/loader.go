package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

// ErrEmptyPath is returned when no config path is given.
var ErrEmptyPath = errors.New("config path is empty")

// fileConfig is the JSON shape of a config file. Durations are strings
// ("1.5s") and every field is optional; absent fields take their default
// when the file is applied through SetConfig.
type fileConfig struct {
	SwipeToDismiss               *bool             `json:"swipeToDismiss,omitempty"`
	DismissThreshold             *float64          `json:"dismissThreshold,omitempty"`
	DismissThresholdPercent      *float64          `json:"dismissThresholdPercent,omitempty"`
	VelocityThreshold            *float64          `json:"velocityThreshold,omitempty"`
	CloseOnOverlayClick          *bool             `json:"closeOnOverlayClick,omitempty"`
	PasswordEnabled              *bool             `json:"passwordEnabled,omitempty"`
	PasswordLength               *int              `json:"passwordLength,omitempty"`
	IconDisplay                  *IconDisplay      `json:"iconDisplay,omitempty"`
	AllowConfirmWithoutSelection *bool             `json:"allowConfirmWithoutSelection,omitempty"`
	HideSelection                *bool             `json:"hideSelection,omitempty"`
	AmountAlign                  *Align            `json:"amountAlign,omitempty"`
	AmountFontSize               *int              `json:"amountFontSize,omitempty"`
	AmountFontWeight             *int              `json:"amountFontWeight,omitempty"`
	Language                     *string           `json:"language,omitempty"`
	Theme                        *string           `json:"theme,omitempty"`
	Title                        *string           `json:"title,omitempty"`
	AriaLabel                    *string           `json:"ariaLabel,omitempty"`
	Description                  *string           `json:"description,omitempty"`
	I18n                         map[string]string `json:"i18n,omitempty"`
	LoadRetryCooldown            string            `json:"loadRetryCooldown,omitempty"`
	Keymap                       map[string]string `json:"keymap,omitempty"`
}

// File is a decoded config file: the sheet options plus key overrides.
type File struct {
	Patch  Patch
	Keymap map[string]string // key string ("n", "ctrl+s") -> command ID
}

// toPatch converts the file shape to a Patch.
func (f fileConfig) toPatch() (Patch, error) {
	p := Patch{
		SwipeToDismiss:               f.SwipeToDismiss,
		DismissThreshold:             f.DismissThreshold,
		DismissThresholdPercent:      f.DismissThresholdPercent,
		VelocityThreshold:            f.VelocityThreshold,
		CloseOnOverlayClick:          f.CloseOnOverlayClick,
		PasswordEnabled:              f.PasswordEnabled,
		PasswordLength:               f.PasswordLength,
		IconDisplay:                  f.IconDisplay,
		AllowConfirmWithoutSelection: f.AllowConfirmWithoutSelection,
		HideSelection:                f.HideSelection,
		AmountAlign:                  f.AmountAlign,
		AmountFontSize:               f.AmountFontSize,
		AmountFontWeight:             f.AmountFontWeight,
		Language:                     f.Language,
		Theme:                        f.Theme,
		Title:                        f.Title,
		AriaLabel:                    f.AriaLabel,
		Description:                  f.Description,
		I18n:                         f.I18n,
	}
	if f.LoadRetryCooldown != "" {
		d, err := time.ParseDuration(f.LoadRetryCooldown)
		if err != nil {
			return Patch{}, fmt.Errorf("loadRetryCooldown: %w", err)
		}
		p.LoadRetryCooldown = &d
	}
	return p, nil
}

// Parse decodes a JSON config document.
func Parse(data []byte) (File, error) {
	var f fileConfig
	if err := json.Unmarshal(data, &f); err != nil {
		return File{}, fmt.Errorf("parse config: %w", err)
	}
	p, err := f.toPatch()
	if err != nil {
		return File{}, err
	}
	return File{Patch: p, Keymap: f.Keymap}, nil
}

// Load reads a JSON config file. A missing file yields an empty File, whose
// patch resolves to all defaults.
func Load(path string) (File, error) {
	if path == "" {
		return File{}, ErrEmptyPath
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return File{}, nil
		}
		return File{}, err
	}
	return Parse(data)
}

// LoadFrom reads only the sheet options of a config file.
func LoadFrom(path string) (Patch, error) {
	f, err := Load(path)
	return f.Patch, err
}
