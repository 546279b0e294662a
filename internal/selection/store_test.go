package selection

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func cards() []Record {
	return []Record{
		{"id": "visa", "name": "Visa ••42"},
		{"id": "mc", "name": "Mastercard ••17"},
		{"id": "amex", "name": "Amex ••01"},
	}
}

func TestSetSections_PreselectsFirstItem(t *testing.T) {
	s := NewStore()
	s.SetSections([]Section{{Title: "Card", Items: cards()[:2]}}, nil)

	if !s.IsSelected(0, 0) || s.IsSelected(0, 1) {
		t.Error("single-select section without default should select item[0]")
	}
}

func TestSetSections_PreselectsDefaultValue(t *testing.T) {
	s := NewStore()
	s.SetSections([]Section{{Title: "Card", DefaultValue: "mc", Items: cards()}}, nil)
	if !s.IsSelected(0, 1) {
		t.Error("defaultValue mc should be selected")
	}

	s.SetSections([]Section{{Title: "Card", DefaultValue: "nope", Items: cards()}}, nil)
	if !s.IsSelected(0, 0) {
		t.Error("unknown defaultValue should fall back to item[0]")
	}
}

func TestSetSections_DefaultValueNumericAcrossTypes(t *testing.T) {
	s := NewStore()
	items := []Record{{"id": 1, "name": "one"}, {"id": 2, "name": "two"}}
	s.SetSections([]Section{{DefaultValue: float64(2), Items: items}}, nil)
	if !s.IsSelected(0, 1) {
		t.Error("float64 default 2 should match int id 2")
	}
}

func TestSetSections_MultiNoPreselect(t *testing.T) {
	s := NewStore()
	s.SetSections([]Section{{Multiple: true, Items: cards()}}, nil)
	if len(s.Selections()) != 0 {
		t.Errorf("multi-select without default should select nothing, got %v", s.Selections())
	}
	s.SetSections([]Section{{Multiple: true, DefaultValue: []any{"visa", "amex"}, Items: cards()}}, nil)
	if !s.IsSelected(0, 0) || s.IsSelected(0, 1) || !s.IsSelected(0, 2) {
		t.Error("multi-select slice default should preselect visa and amex")
	}
}

func TestSetSections_NilResetsToFresh(t *testing.T) {
	fresh := NewStore()
	s := NewStore()
	s.SetSections([]Section{{Items: cards()}}, &FieldMapping{Title: "name"})
	s.SetSections(nil, nil)

	if s.Model() != nil || fresh.Model() != nil {
		t.Error("model should be empty after nil sections")
	}
	if !reflect.DeepEqual(s.Selections(), fresh.Selections()) {
		t.Errorf("selections = %v, want %v", s.Selections(), fresh.Selections())
	}
	if s.Mapping() != fresh.Mapping() {
		t.Errorf("mapping = %+v, want default", s.Mapping())
	}
	if s.HasSelectable() != fresh.HasSelectable() {
		t.Error("HasSelectable should match a fresh store")
	}
}

func TestToggle_SingleSelect(t *testing.T) {
	s := NewStore()
	s.SetSections([]Section{{Items: cards()}}, nil)

	s.Toggle(0, 0) // deselect preselected A
	if len(s.Selections()) != 0 {
		t.Fatal("toggling the selected item should clear the section")
	}

	s.Toggle(0, 0) // A
	s.Toggle(0, 1) // B
	if s.IsSelected(0, 0) || !s.IsSelected(0, 1) {
		t.Error("after A then B only B should be selected")
	}
	s.Toggle(0, 1)
	if len(s.Selections()) != 0 {
		t.Error("selecting B again should leave none selected")
	}
}

func TestToggle_MultiSelectIsOwnInverse(t *testing.T) {
	s := NewStore()
	s.SetSections([]Section{{Multiple: true, DefaultValue: "mc", Items: cards()}}, nil)
	before := s.Selections()

	s.Toggle(0, 2)
	if !s.IsSelected(0, 1) || !s.IsSelected(0, 2) {
		t.Error("multi toggle should add without removing others")
	}
	s.Toggle(0, 2)
	if !reflect.DeepEqual(s.Selections(), before) {
		t.Errorf("double toggle = %v, want %v", s.Selections(), before)
	}
}

func TestToggle_BadIndicesNoop(t *testing.T) {
	s := NewStore()
	s.SetSections([]Section{{Items: cards()}}, nil)
	for _, idx := range [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 3}} {
		if s.Toggle(idx[0], idx[1]) {
			t.Errorf("Toggle(%d,%d) should be a no-op", idx[0], idx[1])
		}
	}
	if !s.IsSelected(0, 0) {
		t.Error("selection should be untouched")
	}
}

func TestToggleItem_ByValue(t *testing.T) {
	s := NewStore()
	s.SetSections([]Section{{Items: cards()}}, nil)
	if !s.ToggleItem(0, Record{"id": "amex"}) {
		t.Fatal("ToggleItem should match by value")
	}
	if !s.IsSelected(0, 2) {
		t.Error("amex should be selected")
	}
	if s.ToggleItem(0, Record{"id": "unknown"}) {
		t.Error("unknown item should be a no-op")
	}
}

func TestSelections_KeyFallsBackToIndex(t *testing.T) {
	s := NewStore()
	s.SetSections([]Section{
		{Key: "card", Items: cards()},
		{Items: []Record{{"id": "x"}}},
	}, nil)
	sels := s.Selections()
	if len(sels) != 2 || sels[0].Key != "card" || sels[1].Key != "1" {
		t.Errorf("keys = %+v", sels)
	}
}

func TestMissingRequired(t *testing.T) {
	s := NewStore()
	s.SetSections([]Section{{Required: true, Multiple: true, Items: cards()}}, nil)
	if got := s.MissingRequired(); !reflect.DeepEqual(got, []int{0}) {
		t.Errorf("MissingRequired = %v", got)
	}
	s.Toggle(0, 0)
	if got := s.MissingRequired(); len(got) != 0 {
		t.Errorf("MissingRequired after toggle = %v", got)
	}
}

func TestHasSelectable(t *testing.T) {
	s := NewStore()
	if s.HasSelectable() {
		t.Error("empty store has nothing selectable")
	}
	s.SetSections([]Section{{Title: "empty"}}, nil)
	if s.HasSelectable() {
		t.Error("sections without items have nothing selectable")
	}
	s.SetSections([]Section{{Items: cards()[:1]}}, nil)
	if !s.HasSelectable() {
		t.Error("a section with items is selectable")
	}
	s.SetMethods(ParseMethods([]Record{{"name": "Bank", "children": []any{}}}), nil)
	if s.HasSelectable() {
		t.Error("a tree without leaves is not selectable")
	}
}

func TestSetMethods_ClearsSectionsAndSelectsFirstLeaf(t *testing.T) {
	s := NewStore()
	s.SetSections([]Section{{Items: cards()}}, nil)
	s.SetMethods(ParseMethods([]Record{
		{"name": "Banks", "children": []any{
			map[string]any{"id": "b1", "name": "First Bank"},
		}},
		{"id": "wallet", "name": "Wallet"},
	}), nil)

	if s.Sections() != nil {
		t.Error("SetMethods should clear sections")
	}
	rec, ok := s.SelectedMethod()
	if !ok || rec["id"] != "b1" {
		t.Errorf("SelectedMethod = %v, want first leaf b1 (depth-first)", rec)
	}
}

func TestSetSections_ClearsTree(t *testing.T) {
	s := NewStore()
	s.SetMethods(ParseMethods([]Record{{"id": "wallet"}}), nil)
	s.SetSections([]Section{{Items: cards()}}, nil)
	if s.Methods() != nil {
		t.Error("SetSections should clear the tree")
	}
	if _, ok := s.SelectedPath(); ok {
		t.Error("tree selection should be cleared")
	}
}

func deferredTree(calls *int, fail *bool) []Method {
	return []Method{
		{Record: Record{"id": "wallet"}},
		{Record: Record{"name": "Banks"}, Children: Deferred{Provider: func(context.Context) ([]Record, error) {
			*calls++
			if *fail {
				return nil, errors.New("offline")
			}
			return []Record{{"id": "b1"}, {"id": "b2"}}, nil
		}}},
	}
}

func TestExpandGroup_ProviderCalledOnce(t *testing.T) {
	calls := 0
	fail := false
	s := NewStore()
	s.SetMethods(deferredTree(&calls, &fail), nil)

	load := s.ExpandGroup(1)
	if load == nil {
		t.Fatal("deferred group should return a load")
	}
	if s.GroupState(1) != GroupLoading {
		t.Errorf("state = %s, want loading", s.GroupState(1))
	}
	if s.ExpandGroup(1) != nil {
		t.Error("expanding a loading group must not start another load")
	}
	if !s.CompleteLoad(load.Run(context.Background())) {
		t.Fatal("successful load should expand")
	}
	if s.GroupState(1) != GroupExpanded {
		t.Errorf("state = %s, want expanded", s.GroupState(1))
	}

	s.CollapseGroup(1)
	if s.IsExpanded(1) {
		t.Error("collapse should clear expanded")
	}
	if s.ExpandGroup(1) != nil {
		t.Error("cached group should expand synchronously")
	}
	if !s.IsExpanded(1) || len(s.Children(1)) != 2 {
		t.Error("cached children should be shown")
	}
	if calls != 1 {
		t.Errorf("provider calls = %d, want 1", calls)
	}
}

func TestExpandGroup_FailureStaysCollapsedAndRetries(t *testing.T) {
	calls := 0
	fail := true
	s := NewStore()
	s.SetMethods(deferredTree(&calls, &fail), nil)

	load := s.ExpandGroup(1)
	if s.CompleteLoad(load.Run(context.Background())) {
		t.Error("failed load should not expand")
	}
	if s.IsLoading(1) || s.IsExpanded(1) {
		t.Errorf("after failure: loading=%v expanded=%v", s.IsLoading(1), s.IsExpanded(1))
	}

	fail = false
	load = s.ExpandGroup(1)
	if load == nil {
		t.Fatal("failed group should be retryable")
	}
	s.CompleteLoad(load.Run(context.Background()))
	if !s.IsExpanded(1) || calls != 2 {
		t.Errorf("retry: expanded=%v calls=%d", s.IsExpanded(1), calls)
	}
}

func TestExpandGroup_RetryCooldown(t *testing.T) {
	calls := 0
	fail := true
	now := time.Unix(100, 0)
	s := NewStore(WithRetryPolicy(RetryPolicy{Cooldown: time.Second}), WithClock(func() time.Time { return now }))
	s.SetMethods(deferredTree(&calls, &fail), nil)

	s.CompleteLoad(s.ExpandGroup(1).Run(context.Background()))
	if s.ExpandGroup(1) != nil {
		t.Error("expansion inside the cooldown should be refused")
	}
	now = now.Add(2 * time.Second)
	if s.ExpandGroup(1) == nil {
		t.Error("expansion after the cooldown should load again")
	}
}

func TestCollapseWhileLoading_CachesLateResult(t *testing.T) {
	calls := 0
	fail := false
	s := NewStore()
	s.SetMethods(deferredTree(&calls, &fail), nil)

	load := s.ExpandGroup(1)
	s.CollapseGroup(1)
	if s.CompleteLoad(load.Run(context.Background())) {
		t.Error("group collapsed while loading should stay collapsed")
	}
	if s.IsExpanded(1) || s.IsLoading(1) {
		t.Error("expected collapsed and not loading")
	}
	if s.ExpandGroup(1) != nil || calls != 1 {
		t.Errorf("late result should be cached, calls=%d", calls)
	}
}

func TestCompleteLoad_StaleEpochDropped(t *testing.T) {
	calls := 0
	fail := false
	s := NewStore()
	s.SetMethods(deferredTree(&calls, &fail), nil)
	load := s.ExpandGroup(1)

	s.SetMethods(deferredTree(&calls, &fail), nil)
	if s.CompleteLoad(load.Run(context.Background())) {
		t.Error("load from a replaced tree must be dropped")
	}
	if len(s.Children(1)) != 0 {
		t.Error("stale children must not be cached")
	}
}

func TestLoad_RunOnce(t *testing.T) {
	calls := 0
	fail := false
	s := NewStore()
	s.SetMethods(deferredTree(&calls, &fail), nil)
	load := s.ExpandGroup(1)
	load.Run(context.Background())
	load.Run(context.Background())
	if calls != 1 {
		t.Errorf("Run called provider %d times", calls)
	}
}

func TestSelectMethod(t *testing.T) {
	calls := 0
	fail := false
	s := NewStore()
	s.SetMethods(deferredTree(&calls, &fail), nil)

	if s.SelectMethod(TreePath{Group: 1, Child: -1}) {
		t.Error("a group is not selectable")
	}
	if s.SelectMethod(TreePath{Group: 1, Child: 0}) {
		t.Error("unloaded children are not selectable")
	}
	s.CompleteLoad(s.ExpandGroup(1).Run(context.Background()))
	if !s.SelectMethod(TreePath{Group: 1, Child: 1}) {
		t.Fatal("loaded child should be selectable")
	}
	rec, _ := s.SelectedMethod()
	if rec["id"] != "b2" {
		t.Errorf("SelectedMethod = %v", rec)
	}
}
