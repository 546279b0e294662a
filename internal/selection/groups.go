package selection

// GroupState is the expansion state of a tree group.
type GroupState int

const (
	GroupCollapsed GroupState = iota
	GroupLoading
	GroupExpanded
)

func (g GroupState) String() string {
	switch g {
	case GroupLoading:
		return "loading"
	case GroupExpanded:
		return "expanded"
	}
	return "collapsed"
}

func (s *Store) group(i int) (Method, bool) {
	methods := s.Methods()
	if i < 0 || i >= len(methods) || methods[i].IsLeaf() {
		return Method{}, false
	}
	return methods[i], true
}

// GroupState returns the state of group i.
func (s *Store) GroupState(i int) GroupState {
	switch {
	case s.loading[i]:
		return GroupLoading
	case s.expanded[i]:
		return GroupExpanded
	}
	return GroupCollapsed
}

// IsExpanded reports whether group i is expanded.
func (s *Store) IsExpanded(i int) bool { return s.expanded[i] }

// IsLoading reports whether group i is waiting on its provider.
func (s *Store) IsLoading(i int) bool { return s.loading[i] }

// Children returns the available children of group i: the in-memory list or
// the cached result of a finished load.
func (s *Store) Children(i int) []Method {
	g, ok := s.group(i)
	if !ok {
		return nil
	}
	if ready, ok := g.Children.(Ready); ok {
		return ready.Methods
	}
	return s.cache[i]
}

// ExpandGroup expands group i. In-memory and cached children expand at
// once and nil is returned. A deferred group without cached children is
// marked loading and the returned Load must be run by the caller and its
// result passed to CompleteLoad. Clicks on a loading group, leaves, bad
// indices and failed groups still cooling down return nil without change.
func (s *Store) ExpandGroup(i int) *Load {
	g, ok := s.group(i)
	if !ok || s.loading[i] {
		return nil
	}
	s.collapsePending[i] = false

	def, deferred := g.Children.(Deferred)
	if !deferred {
		s.expanded[i] = true
		return nil
	}
	if _, cached := s.cache[i]; cached {
		s.expanded[i] = true
		return nil
	}
	if t, failed := s.failedAt[i]; failed && s.retry.Cooldown > 0 {
		if s.now().Sub(t) < s.retry.Cooldown {
			s.logger.Debug("group load still cooling down", "group", i)
			return nil
		}
	}

	s.loading[i] = true
	s.expanded[i] = false
	return &Load{Group: i, Epoch: s.epoch, provider: def.Provider}
}

// CollapseGroup collapses group i, keeping any cached children. Collapsing
// a loading group does not abort the fetch; a late success is cached but the
// group stays collapsed.
func (s *Store) CollapseGroup(i int) {
	if s.loading[i] {
		s.collapsePending[i] = true
		return
	}
	delete(s.expanded, i)
}

// ToggleGroup expands a collapsed group or collapses an expanded one.
func (s *Store) ToggleGroup(i int) *Load {
	if s.loading[i] {
		return nil
	}
	if s.expanded[i] {
		s.CollapseGroup(i)
		return nil
	}
	return s.ExpandGroup(i)
}

// CompleteLoad applies the outcome of a Load. It reports whether the group
// ended expanded. Failures clear the loading flag and leave the group
// collapsed; results from a replaced tree are dropped.
func (s *Store) CompleteLoad(res LoadResult) bool {
	if res.Epoch != s.epoch {
		s.logger.Debug("dropping stale group load", "group", res.Group, "epoch", res.Epoch)
		return false
	}
	if !s.loading[res.Group] {
		return false
	}
	delete(s.loading, res.Group)
	pendingCollapse := s.collapsePending[res.Group]
	delete(s.collapsePending, res.Group)

	if res.Err != nil {
		s.failedAt[res.Group] = s.now()
		s.logger.Warn("group children failed to load", "group", res.Group, "err", res.Err)
		return false
	}

	delete(s.failedAt, res.Group)
	children := ParseMethods(res.Children)
	if children == nil {
		children = []Method{}
	}
	s.cache[res.Group] = children
	if pendingCollapse {
		return false
	}
	s.expanded[res.Group] = true
	return true
}
