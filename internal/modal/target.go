package modal

import (
	"fmt"

	"github.com/wilbur182/paysheet/internal/selection"
)

// TargetKind is what a clickable element does.
type TargetKind int

const (
	TargetNone TargetKind = iota
	TargetOverlay
	TargetClose
	TargetItem
	TargetGroup
	TargetLeaf
	TargetDigit
	TargetBackspace
	TargetConfirm
	TargetCancel
)

// Target is the action bound to a hit region.
type Target struct {
	Kind    TargetKind
	Section int
	Item    int
	Path    selection.TreePath
	Digit   string
}

func itemID(section, item int) string { return fmt.Sprintf("item-%d-%d", section, item) }

func groupID(group int) string { return fmt.Sprintf("group-%d", group) }

func leafID(p selection.TreePath) string {
	if p.Child < 0 {
		return fmt.Sprintf("leaf-%d", p.Group)
	}
	return fmt.Sprintf("leaf-%d-%d", p.Group, p.Child)
}

func digitID(label string) string { return "key-" + label }

// Region IDs for fixed parts of the sheet.
const (
	IDOverlay = "overlay"
	IDBody    = "body"
	IDHandle  = "handle"
	IDHeader  = "header"
	IDClose   = "close"
	IDContent = "content"
	IDConfirm = "confirm"
	IDCancel  = "cancel"
)
