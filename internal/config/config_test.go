package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault_EveryOptionSet(t *testing.T) {
	c := Default()
	if !c.Dismiss.SwipeToDismiss || !c.Dismiss.CloseOnOverlayClick {
		t.Error("swipe and overlay close should default on")
	}
	if c.Password.Length != 6 {
		t.Errorf("password length = %d, want 6", c.Password.Length)
	}
	if c.Display.IconDisplay != IconAuto || c.Amount.Align != AlignCenter {
		t.Errorf("display defaults = %+v %+v", c.Display, c.Amount)
	}
	if c.UI.Language != "en" || c.UI.Theme != ThemeLight || c.UI.I18n == nil {
		t.Errorf("ui defaults = %+v", c.UI)
	}
}

func TestSetConfig_NoLeakAcrossBulkCalls(t *testing.T) {
	e := NewEngine()
	e.SetConfig(Patch{PasswordLength: Ptr(8)})
	if got := e.Config().Password.Length; got != 8 {
		t.Fatalf("length = %d, want 8", got)
	}
	e.SetConfig(Patch{})
	if got := e.Config().Password.Length; got != 6 {
		t.Errorf("length after empty bulk set = %d, want default 6", got)
	}
}

func TestSetConfig_ResetsEveryOmittedOption(t *testing.T) {
	e := NewEngine()
	e.SetConfig(Patch{
		SwipeToDismiss: Ptr(false),
		Theme:          Ptr(ThemeDark),
		Language:       Ptr("zh"),
		I18n:           map[string]string{"confirm": "Pay"},
		HideSelection:  Ptr(true),
	})
	e.SetConfig(Patch{Title: Ptr("Checkout")})

	got := e.Config()
	want := Default()
	want.UI.Title = "Checkout"
	if got.Dismiss != want.Dismiss || got.Display != want.Display || got.UI.Theme != want.UI.Theme ||
		got.UI.Language != want.UI.Language || len(got.UI.I18n) != 0 || got.UI.Title != "Checkout" {
		t.Errorf("config = %+v, want %+v", got, want)
	}
}

func TestPointSetter_OnlyTouchesOneOption(t *testing.T) {
	e := NewEngine()
	e.SetTheme(ThemeDark)
	e.SetPasswordLength(8)
	if c := e.Config(); c.UI.Theme != ThemeDark || c.Password.Length != 8 {
		t.Errorf("point setters should accumulate: %+v", c)
	}
}

func TestPointSetter_SurvivesBulkWrite(t *testing.T) {
	e := NewEngine()
	e.SetPasswordLength(8)
	e.SetTheme(ThemeDark)
	e.SetConfig(Patch{HideSelection: Ptr(true)})
	c := e.Config()
	if c.Password.Length != 8 || c.UI.Theme != ThemeDark {
		t.Errorf("bulk write reset point-set options: length=%d theme=%q", c.Password.Length, c.UI.Theme)
	}
	if !c.Display.HideSelection {
		t.Error("bulk write did not apply its own option")
	}

	e.SetConfig(Patch{})
	if got := e.Config().Password.Length; got != 8 {
		t.Errorf("length after empty bulk write = %d, want 8", got)
	}
	if e.Config().Display.HideSelection {
		t.Error("bulk-set option must reset when a later bulk write omits it")
	}
}

func TestBulkWrite_ReclaimsPointSetOption(t *testing.T) {
	e := NewEngine()
	e.SetPasswordLength(8)
	e.SetConfig(Patch{PasswordLength: Ptr(10)})
	if got := e.Config().Password.Length; got != 10 {
		t.Fatalf("length = %d, want 10", got)
	}
	e.SetConfig(Patch{})
	if got := e.Config().Password.Length; got != DefaultPasswordLength {
		t.Errorf("length = %d, want default once a bulk write owned it", got)
	}
}

func TestPointSetter_FontAndI18nSurviveBulkWrite(t *testing.T) {
	e := NewEngine()
	e.SetAmountFont(40, 700)
	e.SetI18nOverrides(map[string]string{"confirm": "Pay"})
	e.SetConfig(Patch{Title: Ptr("Checkout")})
	c := e.Config()
	if c.Amount.FontSize != 40 || c.Amount.FontWeight != 700 {
		t.Errorf("font = %d/%d, want 40/700", c.Amount.FontSize, c.Amount.FontWeight)
	}
	if c.UI.I18n["confirm"] != "Pay" || c.UI.Title != "Checkout" {
		t.Errorf("ui = %+v", c.UI)
	}
}

func TestPasswordLength_Clamped(t *testing.T) {
	e := NewEngine()
	e.SetPasswordLength(2)
	if got := e.Config().Password.Length; got != MinPasswordLength {
		t.Errorf("length 2 clamped to %d, want %d", got, MinPasswordLength)
	}
	e.SetConfig(Patch{PasswordLength: Ptr(20)})
	if got := e.Config().Password.Length; got != MaxPasswordLength {
		t.Errorf("length 20 clamped to %d, want %d", got, MaxPasswordLength)
	}
}

func TestValidate_InvalidEnumsFallBack(t *testing.T) {
	c := Patch{
		IconDisplay:             Ptr(IconDisplay("sometimes")),
		AmountAlign:             Ptr(Align("justify")),
		Theme:                   Ptr("neon"),
		DismissThresholdPercent: Ptr(3.0),
		DismissThreshold:        Ptr(-5.0),
	}.Resolve()
	if c.Display.IconDisplay != IconAuto || c.Amount.Align != AlignCenter || c.UI.Theme != ThemeLight {
		t.Errorf("invalid enums not normalized: %+v", c)
	}
	if c.Dismiss.ThresholdPercent != DefaultThresholdPercent || c.Dismiss.Threshold != DefaultThreshold {
		t.Errorf("invalid thresholds not normalized: %+v", c.Dismiss)
	}
}

func TestEngine_ConfigIsACopy(t *testing.T) {
	e := NewEngine()
	c := e.Config()
	c.UI.I18n["title"] = "mutated"
	c.Password.Length = 11
	if got := e.Config(); got.Password.Length != 6 || got.UI.I18n["title"] != "" {
		t.Error("mutating the returned config must not affect the engine")
	}
}

func TestEngine_OnChange(t *testing.T) {
	e := NewEngine()
	var seen []*Config
	e.OnChange(func(c *Config) { seen = append(seen, c) })
	e.SetTheme(ThemeDark)
	e.SetConfig(Patch{Theme: Ptr(ThemeLight)})
	if len(seen) != 2 || seen[0].UI.Theme != ThemeDark || seen[1].UI.Theme != ThemeLight {
		t.Errorf("OnChange saw %d configs", len(seen))
	}
}

func TestLoadFrom(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.json")
	doc := `{"passwordEnabled": true, "passwordLength": 4, "theme": "dark", "loadRetryCooldown": "2s", "i18n": {"confirm": "Pay now"}}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	p, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	c := p.Resolve()
	if !c.Password.Enabled || c.Password.Length != 4 || c.UI.Theme != ThemeDark {
		t.Errorf("loaded config = %+v", c)
	}
	if c.Loading.RetryCooldown != 2*time.Second {
		t.Errorf("cooldown = %v", c.Loading.RetryCooldown)
	}
	if c.UI.I18n["confirm"] != "Pay now" {
		t.Errorf("i18n = %v", c.UI.I18n)
	}
	if c.Dismiss.Threshold != DefaultThreshold {
		t.Error("absent options should resolve to defaults")
	}
}

func TestLoad_Keymap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheet.json")
	doc := `{"title": "Checkout", "keymap": {"n": "next", "ctrl+s": "confirm"}}`
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Keymap["n"] != "next" || f.Keymap["ctrl+s"] != "confirm" || len(f.Keymap) != 2 {
		t.Errorf("keymap = %v", f.Keymap)
	}
	if f.Patch.Title == nil || *f.Patch.Title != "Checkout" {
		t.Errorf("patch title = %v", f.Patch.Title)
	}
}

func TestLoadFrom_MissingFileIsDefaults(t *testing.T) {
	p, err := LoadFrom(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got := p.Resolve(); got.Password.Length != DefaultPasswordLength {
		t.Errorf("missing file should resolve to defaults, got %+v", got)
	}
}

func TestLoadFrom_Errors(t *testing.T) {
	if _, err := LoadFrom(""); err != ErrEmptyPath {
		t.Errorf("empty path err = %v", err)
	}
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"loadRetryCooldown": "soon"}`), 0644)
	if _, err := LoadFrom(bad); err == nil {
		t.Error("bad duration should fail")
	}
	os.WriteFile(bad, []byte(`{`), 0644)
	if _, err := LoadFrom(bad); err == nil {
		t.Error("bad json should fail")
	}
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sheet.json")
	if err := os.WriteFile(path, []byte(`{}`), 0644); err != nil {
		t.Fatal(err)
	}

	stop := make(chan struct{})
	defer close(stop)
	patches, err := Watch(path, stop, nil)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := os.WriteFile(path, []byte(`{"theme": "dark"}`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case p := <-patches:
		if p.Theme == nil || *p.Theme != ThemeDark {
			t.Errorf("reloaded patch theme = %v", p.Theme)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
