package selection

import (
	"context"
	"errors"
	"sync"
)

// Provider loads the children of a deferred group.
type Provider func(ctx context.Context) ([]Record, error)

// ChildResult is the settled value of a pending children channel.
type ChildResult struct {
	Children []Record
	Err      error
}

// ChildSource is where a group's children come from: already available
// (Ready) or produced on first expansion (Deferred).
type ChildSource interface {
	isChildSource()
}

// Ready children are held in memory.
type Ready struct {
	Methods []Method
}

// Deferred children are produced by a provider on first expansion.
type Deferred struct {
	Provider Provider
}

func (Ready) isChildSource()    {}
func (Deferred) isChildSource() {}

// Method is a node of the legacy payment-method tree. A node with a nil
// Children source is a selectable leaf; any other node is a group.
type Method struct {
	Record   Record
	Children ChildSource
}

// IsLeaf reports whether the node is selectable.
func (m Method) IsLeaf() bool { return m.Children == nil }

// ErrNoChildren is returned by a promise provider whose channel closed
// without a value.
var ErrNoChildren = errors.New("children channel closed without a result")

// NormalizeChildren folds the shapes a host may supply for a node's
// children into a ChildSource: a plain list, a provider function, or a
// pending result channel. It returns nil, false for absent or unrecognised
// values, which make the node a leaf.
func NormalizeChildren(v any) (ChildSource, bool) {
	switch c := v.(type) {
	case nil:
		return nil, false
	case ChildSource:
		return c, true
	case []Method:
		return Ready{Methods: c}, true
	case []Record:
		return Ready{Methods: ParseMethods(c)}, true
	case []map[string]any:
		recs := make([]Record, len(c))
		for i, r := range c {
			recs[i] = Record(r)
		}
		return Ready{Methods: ParseMethods(recs)}, true
	case []any:
		return Ready{Methods: ParseMethods(recordsOf(c))}, true
	case Provider:
		return Deferred{Provider: c}, true
	case func(context.Context) ([]Record, error):
		return Deferred{Provider: c}, true
	case func() ([]Record, error):
		return Deferred{Provider: func(context.Context) ([]Record, error) { return c() }}, true
	case <-chan ChildResult:
		return Deferred{Provider: promise(c)}, true
	case chan ChildResult:
		return Deferred{Provider: promise(c)}, true
	}
	return nil, false
}

// promise adapts a one-shot result channel. The settled value is
// remembered, so a rejected promise stays rejected on retry.
func promise(ch <-chan ChildResult) Provider {
	var (
		once sync.Once
		res  ChildResult
		done = make(chan struct{})
	)
	return func(ctx context.Context) ([]Record, error) {
		go once.Do(func() {
			r, ok := <-ch
			if !ok {
				r = ChildResult{Err: ErrNoChildren}
			}
			res = r
			close(done)
		})
		select {
		case <-done:
			return res.Children, res.Err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func recordsOf(items []any) []Record {
	recs := make([]Record, 0, len(items))
	for _, it := range items {
		switch r := it.(type) {
		case Record:
			recs = append(recs, r)
		case map[string]any:
			recs = append(recs, Record(r))
		}
	}
	return recs
}

// ParseMethods builds tree nodes from loose records, reading each record's
// "children" field through NormalizeChildren.
func ParseMethods(recs []Record) []Method {
	if len(recs) == 0 {
		return nil
	}
	methods := make([]Method, 0, len(recs))
	for _, r := range recs {
		src, _ := NormalizeChildren(r["children"])
		methods = append(methods, Method{Record: r, Children: src})
	}
	return methods
}

// TreePath addresses a node: a top-level node when Child is -1, otherwise a
// child of group Group.
type TreePath struct {
	Group int
	Child int
}

// firstLeaf returns the first selectable node in depth-first order among the
// top-level nodes and their in-memory children.
func firstLeaf(methods []Method) (TreePath, Record, bool) {
	for gi, m := range methods {
		if m.IsLeaf() {
			return TreePath{Group: gi, Child: -1}, m.Record, true
		}
		ready, ok := m.Children.(Ready)
		if !ok {
			continue
		}
		for ci, child := range ready.Methods {
			if child.IsLeaf() {
				return TreePath{Group: gi, Child: ci}, child.Record, true
			}
		}
	}
	return TreePath{}, nil, false
}
