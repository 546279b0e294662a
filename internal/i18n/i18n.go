// Package i18n resolves the sheet's text bundle from a language code and
// host overrides.
package i18n

import "golang.org/x/text/language"

// Text is a resolved text bundle.
type Text struct {
	Title          string
	AmountLabel    string
	Confirm        string
	Cancel         string
	Close          string
	PasswordPrompt string
	Loading        string
	Empty          string
	Required       string
	DragHint       string
}

// Override keys, as used in the i18n config map.
const (
	KeyTitle          = "title"
	KeyAmountLabel    = "amountLabel"
	KeyConfirm        = "confirm"
	KeyCancel         = "cancel"
	KeyClose          = "close"
	KeyPasswordPrompt = "passwordPrompt"
	KeyLoading        = "loading"
	KeyEmpty          = "empty"
	KeyRequired       = "required"
	KeyDragHint       = "dragHint"
)

var supported = []language.Tag{
	language.English, // first entry is the fallback
	language.Chinese,
	language.Japanese,
}

var matcher = language.NewMatcher(supported)

var bundles = map[language.Tag]Text{
	language.English: {
		Title:          "Confirm payment",
		AmountLabel:    "Amount",
		Confirm:        "Confirm",
		Cancel:         "Cancel",
		Close:          "Close",
		PasswordPrompt: "Enter payment password",
		Loading:        "Loading…",
		Empty:          "No payment options",
		Required:       "Please complete the required options",
		DragHint:       "Drag down to close",
	},
	language.Chinese: {
		Title:          "确认付款",
		AmountLabel:    "金额",
		Confirm:        "确认",
		Cancel:         "取消",
		Close:          "关闭",
		PasswordPrompt: "请输入支付密码",
		Loading:        "加载中…",
		Empty:          "暂无支付方式",
		Required:       "请完成必选项",
		DragHint:       "下拉关闭",
	},
	language.Japanese: {
		Title:          "お支払いの確認",
		AmountLabel:    "金額",
		Confirm:        "確認",
		Cancel:         "キャンセル",
		Close:          "閉じる",
		PasswordPrompt: "支払いパスワードを入力",
		Loading:        "読み込み中…",
		Empty:          "支払い方法がありません",
		Required:       "必須項目を選択してください",
		DragHint:       "下にドラッグして閉じる",
	},
}

// Match returns the supported tag closest to lang. Unparseable or
// unsupported codes match English.
func Match(lang string) language.Tag {
	tag, err := language.Parse(lang)
	if err != nil {
		return supported[0]
	}
	_, i, conf := matcher.Match(tag)
	if conf == language.No {
		return supported[0]
	}
	return supported[i]
}

// Lookup returns the bundle for lang with overrides applied on top.
// Unknown override keys are ignored.
func Lookup(lang string, overrides map[string]string) Text {
	t := bundles[Match(lang)]
	for k, v := range overrides {
		if p := t.field(k); p != nil {
			*p = v
		}
	}
	return t
}

func (t *Text) field(key string) *string {
	switch key {
	case KeyTitle:
		return &t.Title
	case KeyAmountLabel:
		return &t.AmountLabel
	case KeyConfirm:
		return &t.Confirm
	case KeyCancel:
		return &t.Cancel
	case KeyClose:
		return &t.Close
	case KeyPasswordPrompt:
		return &t.PasswordPrompt
	case KeyLoading:
		return &t.Loading
	case KeyEmpty:
		return &t.Empty
	case KeyRequired:
		return &t.Required
	case KeyDragHint:
		return &t.DragHint
	}
	return nil
}
