package nav

import "github.com/vanderheijden86/keynav/pkg/model"

// ViewportResolver is the sidenav viewport capability consulted by the
// engine's enter and exit. A nil resolver means Standard mode.
type ViewportResolver interface {
	// RegionEntry returns the first navigable descendant of the region the
	// vendor controls.
	RegionEntry(vendor *model.Node) (*model.Node, bool)
	// VendorFor returns the vendor controlling region.
	VendorFor(region *model.Node) (*model.Node, bool)
}

// Engine computes candidate cursor positions. Every method is a pure
// function of its input node and the engine's capability; "stay" (returning
// the input) is always a valid answer.
type Engine struct {
	Viewports ViewportResolver
}

// Step dispatches a navigation intent. Non-navigation intents stay.
func (e Engine) Step(cur *model.Node, intent model.Intent) *model.Node {
	switch intent {
	case model.IntentNext:
		return e.Next(cur)
	case model.IntentPrev:
		return e.Prev(cur)
	case model.IntentEnter:
		return e.Enter(cur)
	case model.IntentExit:
		return e.Exit(cur)
	default:
		return e.Stay(cur)
	}
}

// Stay returns cur.
func (e Engine) Stay(cur *model.Node) *model.Node {
	return cur
}

// Next moves to the following sibling. From the root it moves to the first
// child. At the last sibling it stays.
func (e Engine) Next(cur *model.Node) *model.Node {
	if cur == nil {
		return nil
	}
	if cur.Parent == nil {
		if len(cur.Children) > 0 {
			return cur.Children[0]
		}
		return cur
	}
	siblings := cur.Parent.Children
	idx := siblingIndex(cur)
	if idx < 0 || idx >= len(siblings)-1 {
		return cur
	}
	return siblings[idx+1]
}

// Prev moves to the preceding sibling. The root and the first sibling stay.
func (e Engine) Prev(cur *model.Node) *model.Node {
	if cur == nil || cur.Parent == nil {
		return cur
	}
	idx := siblingIndex(cur)
	if idx <= 0 {
		return cur
	}
	return cur.Parent.Children[idx-1]
}

// Enter descends a level. In sidenav viewport mode a vendor whose region has
// a navigable descendant jumps into that region first; otherwise an
// enterable node with children moves to its first child.
func (e Engine) Enter(cur *model.Node) *model.Node {
	if cur == nil {
		return nil
	}
	if e.Viewports != nil && cur.IsVendor() {
		if target, ok := e.Viewports.RegionEntry(cur); ok {
			return target
		}
	}
	if cur.Kind.CanEnter() && len(cur.Children) > 0 {
		return cur.Children[0]
	}
	return cur
}

// Exit ascends a level. In sidenav viewport mode a node whose parent is a
// viewport region returns to the vendor controlling that region; otherwise
// it moves to its parent.
func (e Engine) Exit(cur *model.Node) *model.Node {
	if cur == nil {
		return nil
	}
	if e.Viewports != nil && cur.Parent != nil && cur.Parent.Region {
		if vendor, ok := e.Viewports.VendorFor(cur.Parent); ok {
			return vendor
		}
	}
	if cur.Parent != nil {
		return cur.Parent
	}
	return cur
}

// siblingIndex returns n's index in its parent's children, or -1 when n is
// not listed there (the root, or a viewport region).
func siblingIndex(n *model.Node) int {
	for i, sibling := range n.Parent.Children {
		if sibling == n {
			return i
		}
	}
	return -1
}
