package nav

import "github.com/vanderheijden86/keynav/pkg/model"

// interceptFocused runs the focused sub-state's precedence rules for an
// intent arriving while n is focused. It reports whether the intent was
// consumed; the caller must not consult the engine when it was.
//
// A registered handler wins over everything, including exit. Without one,
// exit releases focus and the other navigation intents are swallowed. Raw
// keys with no handler pass through unconsumed.
func interceptFocused(n *model.Node, intent model.Intent, r Renderer) bool {
	if !n.IsFocused() {
		return false
	}
	if n.HandleKey(intent) {
		return true
	}
	switch intent {
	case model.IntentExit:
		n.State = model.StateBrowsing
		r.Activate(nil)
		return true
	case model.IntentNext, model.IntentPrev, model.IntentEnter, model.IntentStay:
		return true
	}
	return false
}

// canFocus reports whether an enter on cur that produced candidate should
// switch cur into the focused state instead of moving.
func canFocus(cur, candidate *model.Node, sidenav bool) bool {
	if cur == nil || candidate != cur {
		return false
	}
	if cur.Kind != model.KindItem || cur.IsFocused() {
		return false
	}
	// A vendor with an unresolvable region stays browsing in sidenav mode.
	if sidenav && cur.IsVendor() {
		return false
	}
	return true
}

// releaseFocus resets n to browsing without notifying anyone. Used when the
// node is about to be discarded by a rebuild.
func releaseFocus(n *model.Node) bool {
	if !n.IsFocused() {
		return false
	}
	n.State = model.StateBrowsing
	return true
}
