package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wilbur182/paysheet/internal/amount"
	"github.com/wilbur182/paysheet/internal/config"
	"github.com/wilbur182/paysheet/internal/event"
	"github.com/wilbur182/paysheet/internal/gesture"
	"github.com/wilbur182/paysheet/internal/mouse"
	"github.com/wilbur182/paysheet/internal/selection"
)

type fakeEffects struct {
	engaged, restored int
}

func (f *fakeEffects) Engage()  { f.engaged++ }
func (f *fakeEffects) Restore() { f.restored++ }

type recorder struct {
	confirms []Result
	closes   int
}

func record(t *testing.T, c *Controller) *recorder {
	t.Helper()
	r := &recorder{}
	c.On(event.Confirm, event.NewListener(func(p any) { r.confirms = append(r.confirms, p.(Result)) }))
	c.On(event.Close, event.NewListener(func(any) { r.closes++ }))
	return r
}

func twoItemSection() []selection.Section {
	return []selection.Section{{
		Title: "Pay with",
		Key:   "pay",
		Items: []selection.Record{
			{"id": "balance", "name": "Balance"},
			{"id": "card", "name": "Card"},
		},
	}}
}

func TestOpen_InvalidAmountStaysClosed(t *testing.T) {
	fx := &fakeEffects{}
	c := New(WithHostEffects(fx))

	err := c.Open("abc")
	if !errors.Is(err, amount.ErrInvalidAmount) {
		t.Fatalf("Open(abc) err = %v, want ErrInvalidAmount", err)
	}
	if c.Phase() != PhaseClosed {
		t.Errorf("phase = %s, want closed", c.Phase())
	}
	if fx.engaged != 0 {
		t.Error("a failed open must not engage host effects")
	}
}

func TestConfirm_DefaultSelectionWithoutInteraction(t *testing.T) {
	c := New()
	rec := record(t, c)
	c.SetSections(twoItemSection(), nil)
	if err := c.Open("12.50"); err != nil {
		t.Fatalf("Open: %v", err)
	}

	res, ok := c.Confirm()
	if !ok {
		t.Fatal("Confirm refused")
	}
	if got := res.Selections["pay"]; got != "balance" {
		t.Errorf("selections[pay] = %v, want balance", got)
	}
	if res.Amount.Cents() != 1250 {
		t.Errorf("amount = %s", res.Amount)
	}
	if res.Method["id"] != "balance" || res.MethodValue != "balance" {
		t.Errorf("first-selection projection = %v / %v", res.Method, res.MethodValue)
	}
	if len(rec.confirms) != 1 {
		t.Errorf("confirm emitted %d times", len(rec.confirms))
	}
}

func TestResult_MultiSelectAndIndexKey(t *testing.T) {
	c := New()
	c.SetSections([]selection.Section{
		{Items: []selection.Record{{"id": 1}, {"id": 2}}},
		{Key: "extras", Multiple: true, Items: []selection.Record{{"id": "a"}, {"id": "b"}, {"id": "c"}}},
	}, nil)
	c.Open(nil)
	c.Toggle(1, 2)
	c.Toggle(1, 0)

	res, ok := c.Confirm()
	if !ok {
		t.Fatal("Confirm refused")
	}
	if res.Selections["0"] != 1 {
		t.Errorf("section 0 keyed by index = %v", res.Selections["0"])
	}
	extras, _ := res.Selections["extras"].([]any)
	if len(extras) != 2 || extras[0] != "c" || extras[1] != "a" {
		t.Errorf("extras = %v, want [c a]", extras)
	}
}

func TestOpen_StaleCustomDataIsReset(t *testing.T) {
	c := New()
	c.SetSections(twoItemSection(), nil)
	c.Open(nil)
	if c.Store().Model() == nil {
		t.Fatal("custom data supplied before open should survive it")
	}
	c.Close()
	c.Open(nil)
	if c.Store().Model() != nil {
		t.Error("data from the previous session must not reappear")
	}
}

func TestOpen_NoopWhenOpen(t *testing.T) {
	fx := &fakeEffects{}
	c := New(WithHostEffects(fx))
	c.Open(5)
	if err := c.Open("not a number"); err != nil {
		t.Errorf("Open while open should be a no-op, got %v", err)
	}
	if fx.engaged != 1 || c.Amount().Cents() != 500 {
		t.Errorf("engaged=%d amount=%s", fx.engaged, c.Amount())
	}
}

func TestClose_RestoresEffectsOnEveryPath(t *testing.T) {
	t0 := time.Unix(0, 0)
	paths := []struct {
		name  string
		close func(c *Controller)
	}{
		{"programmatic", func(c *Controller) { c.Close() }},
		{"cancel", func(c *Controller) { c.Cancel() }},
		{"overlay", func(c *Controller) { c.OverlayClick() }},
		{"drag", func(c *Controller) {
			c.PointerDown(mouse.SurfaceHandle, gesture.Sample{Y: 0, At: t0})
			c.PointerMove(gesture.Sample{Y: 150, At: t0.Add(time.Second)})
			c.PointerUp(gesture.Sample{Y: 150, At: t0.Add(time.Second)})
		}},
	}
	for _, tt := range paths {
		t.Run(tt.name, func(t *testing.T) {
			fx := &fakeEffects{}
			c := New(WithHostEffects(fx))
			c.SetPanelHeight(400)
			rec := record(t, c)
			c.Open(nil)

			tt.close(c)
			if c.Phase() != PhaseClosed {
				t.Fatalf("phase = %s, want closed", c.Phase())
			}
			if fx.restored != 1 {
				t.Errorf("restored %d times, want 1", fx.restored)
			}
			if rec.closes != 1 {
				t.Errorf("close emitted %d times, want 1", rec.closes)
			}

			c.Close()
			if rec.closes != 1 || fx.restored != 1 {
				t.Error("Close on a closed sheet must be a no-op")
			}
		})
	}
}

func TestOverlayClick_Disabled(t *testing.T) {
	c := New()
	c.Settings().SetCloseOnOverlayClick(false)
	c.Open(nil)
	if c.OverlayClick() {
		t.Error("overlay click should be ignored")
	}
	if !c.IsOpen() {
		t.Error("sheet should stay open")
	}
}

func passwordSheet(t *testing.T, length int) (*Controller, *recorder) {
	t.Helper()
	c := New()
	c.Settings().SetPasswordEnabled(true)
	c.Settings().SetPasswordLength(length)
	rec := record(t, c)
	c.SetSections(twoItemSection(), nil)
	c.Open("9.99")
	return c, rec
}

func TestPassword_AutoConfirmAtLength(t *testing.T) {
	c, rec := passwordSheet(t, 4)
	if c.ShowActions() || !c.ShowPassword() {
		t.Fatal("password input should replace the actions")
	}
	if _, ok := c.Confirm(); ok {
		t.Error("Confirm must be refused while the password input is shown")
	}

	for _, k := range []string{"1", "2", "3"} {
		if !c.PressKey(k) {
			t.Fatalf("PressKey(%s) rejected", k)
		}
	}
	if len(rec.confirms) != 0 || c.PasswordFilled() != 3 {
		t.Fatalf("confirms=%d filled=%d", len(rec.confirms), c.PasswordFilled())
	}
	if c.PressKey("x") {
		t.Error("non-digit key accepted")
	}

	c.PressKey("4")
	if len(rec.confirms) != 1 {
		t.Fatalf("confirm emitted %d times", len(rec.confirms))
	}
	got := rec.confirms[0]
	if got.Password != "1234" || !got.HasPassword || got.Selections["pay"] != "balance" {
		t.Errorf("result = %+v", got)
	}
	if c.PasswordFilled() != 0 {
		t.Error("buffer should clear after confirming")
	}
}

func TestPassword_RemappedKeys(t *testing.T) {
	c, rec := passwordSheet(t, 4)
	if err := c.SetKeyboardMapping([]string{"9", "8", "7", "6", "5", "4", "3", "2", "1", "0"}); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"0", "1", "2", "3"} {
		c.PressKey(k)
	}
	if len(rec.confirms) != 1 || rec.confirms[0].Password != "9876" {
		t.Errorf("confirms = %+v", rec.confirms)
	}
	if err := c.SetKeyboardMapping([]string{"1"}); err == nil {
		t.Error("short table accepted")
	}
}

func TestPassword_SelectionChangeDiscardsBuffer(t *testing.T) {
	c, rec := passwordSheet(t, 6)
	c.PressKey("1")
	c.PressKey("2")
	if !c.Toggle(0, 1) {
		t.Fatal("toggle failed")
	}
	if c.PasswordFilled() != 0 {
		t.Errorf("filled = %d, want 0 after selection change", c.PasswordFilled())
	}
	if c.Toggle(0, 9) {
		t.Error("out-of-range toggle should be a no-op")
	}
	for _, k := range []string{"1", "2", "3", "4", "5", "6"} {
		c.PressKey(k)
	}
	if len(rec.confirms) != 1 || rec.confirms[0].Selections["pay"] != "card" {
		t.Errorf("confirms = %+v", rec.confirms)
	}
}

func TestPassword_Backspace(t *testing.T) {
	c, _ := passwordSheet(t, 4)
	if c.Backspace() {
		t.Error("backspace on empty buffer")
	}
	c.PressKey("1")
	c.PressKey("2")
	if !c.Backspace() || c.PasswordFilled() != 1 {
		t.Errorf("filled = %d", c.PasswordFilled())
	}
}

func TestPassword_DisablingClearsBuffer(t *testing.T) {
	c, _ := passwordSheet(t, 6)
	c.PressKey("1")
	c.Settings().SetConfig(config.Patch{PasswordEnabled: config.Ptr(false)})
	if c.PasswordFilled() != 0 || c.ShowPassword() {
		t.Error("disabling the password must drop the buffer")
	}
}

func TestGating_NothingSelectable(t *testing.T) {
	c := New()
	rec := record(t, c)
	c.Open(1)
	if c.ShowActions() || c.ShowPassword() || c.Interactive() {
		t.Error("nothing selectable: password and actions must be suppressed")
	}
	if _, ok := c.Confirm(); ok || len(rec.confirms) != 0 {
		t.Error("no confirm event may be produced")
	}

	c.Settings().SetAllowConfirmWithoutSelection(true)
	res, ok := c.Confirm()
	if !ok || len(res.Selections) != 0 || res.Method != nil {
		t.Errorf("confirm without selection = %+v, %v", res, ok)
	}
}

func TestRequiredSectionGatesConfirm(t *testing.T) {
	c := New()
	c.SetSections([]selection.Section{
		{Key: "extras", Multiple: true, Required: true, Items: []selection.Record{{"id": "a"}}},
	}, nil)
	c.Open(nil)
	if c.CanConfirm() {
		t.Error("required multi section with nothing selected should block confirm")
	}
	c.Toggle(0, 0)
	if !c.CanConfirm() {
		t.Error("confirm should be allowed once the required section has a selection")
	}
}

func TestDrag_Gating(t *testing.T) {
	t0 := time.Unix(0, 0)
	down := gesture.Sample{Y: 0, At: t0}

	c := New(WithTransitions())
	c.SetPanelHeight(400)
	c.Open(nil)
	if c.Phase() != PhaseOpening {
		t.Fatalf("phase = %s, want opening", c.Phase())
	}
	if c.PointerDown(mouse.SurfaceHandle, down) {
		t.Error("drag must not start while opening")
	}
	c.Settle()
	if !c.PointerDown(mouse.SurfaceHandle, down) {
		t.Fatal("drag should start once open")
	}
	c.CancelDrag()

	c.Settings().SetSwipeToDismiss(false)
	if c.PointerDown(mouse.SurfaceHandle, down) {
		t.Error("drag must not start with swipe disabled")
	}
	c.Settings().SetSwipeToDismiss(true)
	if c.PointerDown(mouse.SurfaceAction, down) {
		t.Error("action surface must pass through")
	}
}

func TestDrag_BounceReportsRestPosition(t *testing.T) {
	t0 := time.Unix(0, 0)
	c := New()
	c.SetPanelHeight(400)
	rec := record(t, c)
	c.Open(nil)

	c.PointerDown(mouse.SurfaceBody, gesture.Sample{Y: 0, At: t0})
	c.PointerMove(gesture.Sample{Y: 100, At: t0.Add(400 * time.Millisecond)})
	if off, op := c.DragView(); off != 100 || op != 0.75 {
		t.Errorf("drag view = (%v, %v), want (100, 0.75)", off, op)
	}
	if out := c.PointerUp(gesture.Sample{Y: 100, At: t0.Add(400 * time.Millisecond)}); out != gesture.OutcomeBounce {
		t.Fatalf("outcome = %v, want bounce", out)
	}
	if off, op := c.DragView(); off != 0 || op != 1 {
		t.Errorf("after bounce = (%v, %v)", off, op)
	}
	if rec.closes != 0 || !c.IsOpen() {
		t.Error("a bounce must not close or emit")
	}
}

func TestTree_DeferredGroupThroughController(t *testing.T) {
	calls := 0
	provider := func(context.Context) ([]selection.Record, error) {
		calls++
		return []selection.Record{{"id": "visa", "name": "Visa"}}, nil
	}
	c := New()
	c.SetMethods([]selection.Method{
		{Record: selection.Record{"name": "Cards"}, Children: selection.Deferred{Provider: provider}},
		{Record: selection.Record{"id": "cash", "name": "Cash"}},
	}, nil)
	c.Open(3)

	if r, _ := c.SelectedMethod(); r["id"] != "cash" {
		t.Fatalf("first leaf not auto-selected: %v", r)
	}

	load := c.ExpandGroup(0)
	if load == nil || !c.Store().IsLoading(0) {
		t.Fatal("deferred group should start loading")
	}
	if !c.CompleteLoad(load.Run(context.Background())) {
		t.Fatal("load should apply")
	}
	if !c.SelectMethod(selection.TreePath{Group: 0, Child: 0}) {
		t.Fatal("loaded child should be selectable")
	}

	res, ok := c.Confirm()
	if !ok || res.MethodValue != "visa" {
		t.Errorf("result = %+v, %v", res, ok)
	}
	if calls != 1 {
		t.Errorf("provider called %d times", calls)
	}
}

func TestText_TitleOverride(t *testing.T) {
	c := New()
	if c.Text().Title != "Confirm payment" {
		t.Errorf("default title = %q", c.Text().Title)
	}
	c.Settings().SetTitle("Checkout")
	c.Settings().SetLanguage("zh")
	if txt := c.Text(); txt.Title != "Checkout" || txt.Confirm != "确认" {
		t.Errorf("text = %+v", txt)
	}
}
