// Package selection holds the selectable content of the sheet: either a list
// of single/multi-select sections, or the legacy payment-method tree whose
// groups may load their children on demand.
package selection

import (
	"log/slog"
	"time"
)

// Model is the active selection representation. Exactly one of Sections or
// Tree is active; a nil Model is the empty default.
type Model interface {
	isModel()
}

// Sections is the section-based model.
type Sections struct {
	Sections []Section
}

// Tree is the legacy grouped method tree.
type Tree struct {
	Methods []Method
}

func (Sections) isModel() {}
func (Tree) isModel()     {}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for load failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRetryPolicy sets the retry policy for failed loads.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(s *Store) { s.retry = p }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is the selection state machine. It is not safe for concurrent use;
// callers serialise mutations on their event loop.
type Store struct {
	logger *slog.Logger
	retry  RetryPolicy
	now    func() time.Time

	model   Model
	mapping FieldMapping

	selected map[int][]Record
	treeSel  *TreePath

	expanded        map[int]bool
	loading         map[int]bool
	collapsePending map[int]bool
	cache           map[int][]Method
	failedAt        map[int]time.Time

	// epoch increases whenever the model is replaced so completions of
	// loads started against an older tree are dropped.
	epoch uint64
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.clear()
	return s
}

func (s *Store) clear() {
	s.model = nil
	s.mapping = FieldMapping{}
	s.selected = make(map[int][]Record)
	s.treeSel = nil
	s.clearTreeState()
	s.epoch++
}

func (s *Store) clearTreeState() {
	s.expanded = make(map[int]bool)
	s.loading = make(map[int]bool)
	s.collapsePending = make(map[int]bool)
	s.cache = make(map[int][]Method)
	s.failedAt = make(map[int]time.Time)
}

// Reset restores the empty default state.
func (s *Store) Reset() { s.clear() }

// SetRetryPolicy replaces the retry policy.
func (s *Store) SetRetryPolicy(p RetryPolicy) { s.retry = p }

// Model returns the active model (nil when empty).
func (s *Store) Model() Model { return s.model }

// Mapping returns the active field mapping.
func (s *Store) Mapping() FieldMapping { return s.mapping }

// Epoch identifies the current model generation.
func (s *Store) Epoch() uint64 { return s.epoch }

// SetSections replaces the model with sections. A nil slice restores the
// empty default. Single-select sections are pre-selected.
func (s *Store) SetSections(sections []Section, mapping *FieldMapping) {
	s.clear()
	if sections == nil {
		return
	}
	if mapping != nil {
		s.mapping = *mapping
	}
	s.model = Sections{Sections: sections}
	for i, sec := range sections {
		if picked := sec.initialSelection(s.mapping); len(picked) > 0 {
			s.selected[i] = picked
		}
	}
}

// SetMethods replaces the model with a legacy tree and selects the first
// leaf. A nil slice restores the empty default.
func (s *Store) SetMethods(methods []Method, mapping *FieldMapping) {
	s.clear()
	if methods == nil {
		return
	}
	if mapping != nil {
		s.mapping = *mapping
	}
	s.model = Tree{Methods: methods}
	if path, _, ok := firstLeaf(methods); ok {
		s.treeSel = &path
	}
}

// Sections returns the active sections, or nil in tree or empty mode.
func (s *Store) Sections() []Section {
	if m, ok := s.model.(Sections); ok {
		return m.Sections
	}
	return nil
}

// Methods returns the active tree, or nil in section or empty mode.
func (s *Store) Methods() []Method {
	if m, ok := s.model.(Tree); ok {
		return m.Methods
	}
	return nil
}

// Toggle flips the item at itemIndex of section sectionIndex. It reports
// whether the selection changed; out-of-range indices are a no-op.
func (s *Store) Toggle(sectionIndex, itemIndex int) bool {
	secs := s.Sections()
	if sectionIndex < 0 || sectionIndex >= len(secs) {
		return false
	}
	sec := secs[sectionIndex]
	if itemIndex < 0 || itemIndex >= len(sec.Items) {
		return false
	}
	return s.toggle(sectionIndex, sec, sec.Items[itemIndex])
}

// ToggleItem flips item in section sectionIndex, matched by resolved value.
func (s *Store) ToggleItem(sectionIndex int, item Record) bool {
	secs := s.Sections()
	if sectionIndex < 0 || sectionIndex >= len(secs) {
		return false
	}
	sec := secs[sectionIndex]
	i := sec.indexOf(s.mapping, s.mapping.ValueOf(item))
	if i < 0 {
		return false
	}
	return s.toggle(sectionIndex, sec, sec.Items[i])
}

func (s *Store) toggle(sectionIndex int, sec Section, item Record) bool {
	value := s.mapping.ValueOf(item)
	current := s.selected[sectionIndex]
	pos := -1
	for i, r := range current {
		if SameValue(s.mapping.ValueOf(r), value) {
			pos = i
			break
		}
	}

	switch {
	case !sec.Multiple && pos >= 0:
		delete(s.selected, sectionIndex)
	case !sec.Multiple:
		s.selected[sectionIndex] = []Record{item}
	case pos >= 0:
		next := append(append([]Record(nil), current[:pos]...), current[pos+1:]...)
		if len(next) == 0 {
			delete(s.selected, sectionIndex)
		} else {
			s.selected[sectionIndex] = next
		}
	default:
		s.selected[sectionIndex] = append(append([]Record(nil), current...), item)
	}
	return true
}

// IsSelected reports whether the item at itemIndex of a section is selected.
func (s *Store) IsSelected(sectionIndex, itemIndex int) bool {
	secs := s.Sections()
	if sectionIndex < 0 || sectionIndex >= len(secs) {
		return false
	}
	items := secs[sectionIndex].Items
	if itemIndex < 0 || itemIndex >= len(items) {
		return false
	}
	value := s.mapping.ValueOf(items[itemIndex])
	for _, r := range s.selected[sectionIndex] {
		if SameValue(s.mapping.ValueOf(r), value) {
			return true
		}
	}
	return false
}

// Selections returns the non-empty section selections in section order.
func (s *Store) Selections() []SectionSelection {
	secs := s.Sections()
	var out []SectionSelection
	for i, sec := range secs {
		items := s.selected[i]
		if len(items) == 0 {
			continue
		}
		out = append(out, SectionSelection{
			Index:    i,
			Key:      sec.ResultKey(i),
			Multiple: sec.Multiple,
			Items:    append([]Record(nil), items...),
		})
	}
	return out
}

// MissingRequired returns the indices of required sections with nothing
// selected.
func (s *Store) MissingRequired() []int {
	var missing []int
	for i, sec := range s.Sections() {
		if sec.Required && len(s.selected[i]) == 0 {
			missing = append(missing, i)
		}
	}
	return missing
}

// SelectMethod selects the tree leaf at path. Groups and unloaded or
// out-of-range paths are a no-op.
func (s *Store) SelectMethod(path TreePath) bool {
	if _, ok := s.nodeAt(path); !ok {
		return false
	}
	if s.treeSel != nil && *s.treeSel == path {
		return false
	}
	p := path
	s.treeSel = &p
	return true
}

// SelectedPath returns the selected tree leaf path.
func (s *Store) SelectedPath() (TreePath, bool) {
	if s.treeSel == nil {
		return TreePath{}, false
	}
	return *s.treeSel, true
}

// nodeAt resolves a leaf path against the tree and loaded children.
func (s *Store) nodeAt(path TreePath) (Method, bool) {
	methods := s.Methods()
	if path.Group < 0 || path.Group >= len(methods) {
		return Method{}, false
	}
	group := methods[path.Group]
	if path.Child < 0 {
		return group, group.IsLeaf()
	}
	children := s.Children(path.Group)
	if path.Child >= len(children) {
		return Method{}, false
	}
	child := children[path.Child]
	return child, child.IsLeaf()
}

// SelectedMethod returns the first selected record: the selected tree leaf
// in tree mode, otherwise the first item of the first non-empty section.
func (s *Store) SelectedMethod() (Record, bool) {
	if s.treeSel != nil {
		if m, ok := s.nodeAt(*s.treeSel); ok {
			return m.Record, true
		}
		return nil, false
	}
	if sels := s.Selections(); len(sels) > 0 {
		return sels[0].Items[0], true
	}
	return nil, false
}

// HasSelectable reports whether anything can be selected: a section with
// items or a tree with at least one leaf.
func (s *Store) HasSelectable() bool {
	switch m := s.model.(type) {
	case Sections:
		for _, sec := range m.Sections {
			if len(sec.Items) > 0 {
				return true
			}
		}
	case Tree:
		if _, _, ok := firstLeaf(m.Methods); ok {
			return true
		}
		for _, children := range s.cache {
			for _, c := range children {
				if c.IsLeaf() {
					return true
				}
			}
		}
	}
	return false
}
