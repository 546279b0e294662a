package modal

import (
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/x/ansi"
	"github.com/wilbur182/paysheet/internal/markdown"
	"github.com/wilbur182/paysheet/internal/mouse"
	"github.com/wilbur182/paysheet/internal/selection"
	"github.com/wilbur182/paysheet/internal/session"
)

func newSheet(t *testing.T) (*Sheet, *session.Controller, *mouse.Handler) {
	t.Helper()
	c := session.New()
	c.SetSections([]selection.Section{
		{Title: "Pay with", Key: "pay", Items: []selection.Record{
			{"id": "balance", "name": "Balance", "icon": "¥"},
			{"id": "card", "name": "Card", "desc": "ends 4242"},
		}},
		{Title: "Extras", Key: "extras", Multiple: true, Items: []selection.Record{
			{"id": "insurance", "name": "Insurance"},
		}},
	}, nil)
	if err := c.Open("128.00"); err != nil {
		t.Fatal(err)
	}
	return New(c, markdown.NewRenderer(nil, nil)), c, mouse.NewHandler()
}

func region(t *testing.T, h *mouse.Handler, id string) mouse.Region {
	t.Helper()
	for _, r := range h.HitMap.Regions() {
		if r.ID == id {
			return r
		}
	}
	t.Fatalf("region %q not registered", id)
	return mouse.Region{}
}

func panelRows(s *Sheet, vs ViewState, h *mouse.Handler) int {
	s.View(vs, h)
	return s.PanelRows()
}

func TestView_FillsScreenAndAnchorsBottom(t *testing.T) {
	s, _, h := newSheet(t)
	out := s.View(ViewState{Width: 60, Height: 30, OverlayOpacity: 1}, h)

	lines := strings.Split(out, "\n")
	if len(lines) != 30 {
		t.Fatalf("rendered %d lines, want 30", len(lines))
	}
	for i, l := range lines {
		if w := ansi.StringWidth(l); w != 60 {
			t.Errorf("line %d width = %d, want 60", i, w)
		}
	}
	body := region(t, h, IDBody)
	if body.Rect.Y+body.Rect.H != 30 {
		t.Errorf("panel bottom = %d, want screen bottom 30", body.Rect.Y+body.Rect.H)
	}
	if body.Rect.H != s.PanelRows() {
		t.Errorf("body height %d != panel rows %d", body.Rect.H, s.PanelRows())
	}
	plain := ansi.Strip(out)
	for _, want := range []string{"Confirm payment", "128.00", "Balance", "ends 4242", "Insurance", "Confirm", "Cancel"} {
		if !strings.Contains(plain, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestView_Surfaces(t *testing.T) {
	s, _, h := newSheet(t)
	s.View(ViewState{Width: 60, Height: 30, OverlayOpacity: 1}, h)

	body := region(t, h, IDBody)
	tests := []struct {
		name string
		x, y int
		want mouse.Surface
	}{
		{"above panel", 1, 0, mouse.SurfaceOverlay},
		{"top border", body.Rect.X + 10, body.Rect.Y, mouse.SurfaceHandle},
		{"handle row", body.Rect.X + 10, body.Rect.Y + 1, mouse.SurfaceHandle},
		{"title row", body.Rect.X + 10, body.Rect.Y + 2, mouse.SurfaceHeader},
	}
	for _, tt := range tests {
		if got := h.HitMap.SurfaceAt(tt.x, tt.y); got != tt.want {
			t.Errorf("%s: SurfaceAt = %s, want %s", tt.name, got, tt.want)
		}
	}

	cl := region(t, h, IDClose)
	if got := h.HitMap.SurfaceAt(cl.Rect.X+1, cl.Rect.Y); got != mouse.SurfaceClose {
		t.Errorf("close glyph surface = %s", got)
	}

	item := region(t, h, itemID(0, 1))
	if item.Surface != mouse.SurfaceContent {
		t.Errorf("item surface = %s, want content", item.Surface)
	}
	if tg, ok := item.Data.(Target); !ok || tg.Kind != TargetItem || tg.Section != 0 || tg.Item != 1 {
		t.Errorf("item target = %+v", item.Data)
	}

	confirm := region(t, h, IDConfirm)
	if confirm.Surface != mouse.SurfaceAction {
		t.Errorf("confirm surface = %s, want action", confirm.Surface)
	}
	if tg := confirm.Data.(Target); tg.Kind != TargetConfirm {
		t.Errorf("confirm target = %+v", tg)
	}
}

func TestView_DragOffsetShiftsPanel(t *testing.T) {
	s, _, h := newSheet(t)
	s.View(ViewState{Width: 60, Height: 30, OverlayOpacity: 1}, h)
	rest := region(t, h, IDHeader).Rect.Y

	s.View(ViewState{Width: 60, Height: 30, OffsetRows: 4, OverlayOpacity: 0.4}, h)
	if got := region(t, h, IDHeader).Rect.Y; got != rest+4 {
		t.Errorf("header y = %d, want %d", got, rest+4)
	}
}

func TestMoveFocus_WrapsOverContentItems(t *testing.T) {
	s, _, h := newSheet(t)
	s.View(ViewState{Width: 60, Height: 30}, h)

	if s.FocusID() != itemID(0, 0) {
		t.Fatalf("initial focus = %q", s.FocusID())
	}
	s.MoveFocus(1)
	s.MoveFocus(1)
	if tg, _ := s.Focused(); tg.Section != 1 || tg.Item != 0 {
		t.Errorf("focus after two moves = %+v", tg)
	}
	s.MoveFocus(1)
	if s.FocusID() != itemID(0, 0) {
		t.Errorf("focus should wrap to first item, got %q", s.FocusID())
	}
	s.MoveFocus(-1)
	if s.FocusID() != itemID(1, 0) {
		t.Errorf("focus should wrap backwards, got %q", s.FocusID())
	}
}

func TestView_PasswordFooterRegistersKeypad(t *testing.T) {
	s, c, h := newSheet(t)
	c.Settings().SetPasswordEnabled(true)
	s.View(ViewState{Width: 60, Height: 30}, h)

	key := region(t, h, digitID("7"))
	if tg := key.Data.(Target); tg.Kind != TargetDigit || tg.Digit != "7" {
		t.Errorf("key 7 target = %+v", tg)
	}
	if tg := region(t, h, digitID("⌫")).Data.(Target); tg.Kind != TargetBackspace {
		t.Errorf("backspace target = %+v", tg)
	}
	for _, r := range h.HitMap.Regions() {
		if r.ID == IDConfirm {
			t.Error("actions must be hidden while the password input is shown")
		}
	}
}

func TestView_LongContentScrolls(t *testing.T) {
	c := session.New()
	items := make([]selection.Record, 40)
	for i := range items {
		items[i] = selection.Record{"id": i, "name": "Option"}
	}
	c.SetSections([]selection.Section{{Title: "Many", Items: items}}, nil)
	c.Open(1)
	s := New(c, nil)
	h := mouse.NewHandler()

	s.View(ViewState{Width: 50, Height: 20}, h)
	if s.PanelRows() > 20 {
		t.Errorf("panel rows = %d, exceeds screen", s.PanelRows())
	}
	for i := 0; i < 39; i++ {
		s.MoveFocus(1)
		s.View(ViewState{Width: 50, Height: 20}, h)
	}
	if s.ScrollOffset() == 0 {
		t.Error("focusing the last item should scroll the content")
	}
	last := region(t, h, itemID(0, 39))
	vp := region(t, h, IDContent)
	if last.Rect.Y < vp.Rect.Y || last.Rect.Y >= vp.Rect.Y+vp.Rect.H {
		t.Errorf("focused item at y=%d outside viewport %+v", last.Rect.Y, vp.Rect)
	}
}

func TestView_TreeLoadingSpinner(t *testing.T) {
	c := session.New()
	c.SetMethods([]selection.Method{
		{Record: selection.Record{"name": "Cards"}, Children: selection.Deferred{Provider: func(context.Context) ([]selection.Record, error) {
			return []selection.Record{{"id": "visa", "name": "Visa"}}, nil
		}}},
		{Record: selection.Record{"id": "cash", "name": "Cash"}},
	}, nil)
	c.Open(1)
	s := New(c, nil)
	h := mouse.NewHandler()

	load := c.ExpandGroup(0)
	s.View(ViewState{Width: 60, Height: 24}, h)
	if !s.SpinnerActive() {
		t.Error("spinner should run while a group loads")
	}
	if tg := region(t, h, groupID(0)).Data.(Target); tg.Kind != TargetGroup {
		t.Errorf("group target = %+v", tg)
	}

	c.CompleteLoad(load.Run(context.Background()))
	out := ansi.Strip(s.View(ViewState{Width: 60, Height: 24}, h))
	if s.SpinnerActive() {
		t.Error("spinner should stop after the load")
	}
	if !strings.Contains(out, "Visa") {
		t.Error("loaded child not rendered")
	}
	if tg := region(t, h, leafID(selection.TreePath{Group: 0, Child: 0})).Data.(Target); tg.Kind != TargetLeaf {
		t.Errorf("leaf target = %+v", tg)
	}
}

func TestView_EmptyShowsMessage(t *testing.T) {
	c := session.New()
	c.Open(1)
	s := New(c, nil)
	out := ansi.Strip(s.View(ViewState{Width: 60, Height: 24}, nil))
	if !strings.Contains(out, "No payment options") {
		t.Error("empty message missing")
	}
	if strings.Contains(out, "Cancel") {
		t.Error("actions must be suppressed when nothing is selectable")
	}
}

func TestView_HelpLineWraps(t *testing.T) {
	s, _, h := newSheet(t)
	vs := ViewState{Width: 30, Height: 60, OverlayOpacity: 1}
	without := panelRows(s, vs, h)

	s.SetHelp([]key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up", "up")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "hidden"), key.WithDisabled()),
	})
	out := ansi.Strip(s.View(vs, h))
	for _, want := range []string{" enter  confirm", " esc  cancel", " up  up"} {
		if !strings.Contains(out, want) {
			t.Errorf("help hint %q missing:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("disabled binding rendered")
	}
	if got := s.PanelRows(); got < without+2 {
		t.Errorf("panel rows = %d, want the hints wrapped onto at least two extra lines (was %d)", got, without)
	}
}
