package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		lang string
		want language.Tag
	}{
		{"en", language.English},
		{"en-GB", language.English},
		{"zh", language.Chinese},
		{"zh-CN", language.Chinese},
		{"ja-JP", language.Japanese},
		{"", language.English},
		{"not a tag!", language.English},
		{"sw", language.English},
	}
	for _, tt := range tests {
		base, _ := Match(tt.lang).Base()
		wantBase, _ := tt.want.Base()
		if base != wantBase {
			t.Errorf("Match(%q) base = %v, want %v", tt.lang, base, wantBase)
		}
	}
}

func TestLookup_Bundles(t *testing.T) {
	if got := Lookup("en", nil).Confirm; got != "Confirm" {
		t.Errorf("en confirm = %q", got)
	}
	if got := Lookup("zh-CN", nil).Confirm; got != "确认" {
		t.Errorf("zh confirm = %q", got)
	}
}

func TestLookup_Overrides(t *testing.T) {
	got := Lookup("en", map[string]string{
		KeyConfirm: "Pay now",
		"unknown":  "ignored",
	})
	if got.Confirm != "Pay now" {
		t.Errorf("confirm = %q", got.Confirm)
	}
	if got.Cancel != "Cancel" {
		t.Errorf("cancel should keep the bundle value, got %q", got.Cancel)
	}
	if again := Lookup("en", nil); again.Confirm != "Confirm" {
		t.Error("overrides must not leak into the shared bundle")
	}
}
