package model

import (
	"fmt"
	"slices"
)

// Kind classifies a node within a navigation tree
type Kind string

const (
	KindRoot      Kind = "root"      // Entry point of the tree, exactly one per snapshot
	KindContainer Kind = "container" // Has navigable descendants, eligible for enter
	KindItem      Kind = "item"      // Leaf, eligible for focus
)

// IsValid returns true if the kind is a recognized value
func (k Kind) IsValid() bool {
	switch k {
	case KindRoot, KindContainer, KindItem:
		return true
	}
	return false
}

// CanEnter returns true if nodes of this kind may descend into children
func (k Kind) CanEnter() bool {
	return k == KindRoot || k == KindContainer
}

// FocusState is the per-item browsing/focused sub-state
type FocusState string

const (
	StateBrowsing FocusState = "browsing" // Normal navigation between siblings
	StateFocused  FocusState = "focused"  // Entered an item, custom key handling
)

// IsValid returns true if the state is a recognized value
func (s FocusState) IsValid() bool {
	return s == StateBrowsing || s == StateFocused
}

// Intent is a symbolic key intent. The well-known intents drive the
// navigation engine; any other value is the raw key name of an unmapped key,
// which focused items may still bind handlers to.
type Intent string

const (
	IntentStay  Intent = "stay"
	IntentNext  Intent = "next"
	IntentPrev  Intent = "prev"
	IntentEnter Intent = "enter"
	IntentExit  Intent = "exit"
)

// IsNavigation returns true for the intents the navigation engine understands
func (i Intent) IsNavigation() bool {
	switch i {
	case IntentStay, IntentNext, IntentPrev, IntentEnter, IntentExit:
		return true
	}
	return false
}

// KeyIntent wraps a raw key name that has no entry in the key table. The
// prefix keeps raw keys from colliding with the navigation intents.
func KeyIntent(key string) Intent {
	return Intent("key:" + key)
}

// KeyHandler is invoked for an intent while its node is focused.
type KeyHandler func(n *Node)

// Node is the unit of navigation.
//
// A node owns its Children; Parent is a lookup-only back reference. Region
// nodes (viewport regions) keep their Parent link but are never listed in
// Parent.Children, so sibling movement cannot reach them.
type Node struct {
	ID          string     `json:"id"`
	Kind        Kind       `json:"kind"`
	Parent      *Node      `json:"-"`
	Children    []*Node    `json:"children,omitempty"`
	ViewportRef string     `json:"viewport,omitempty"`
	Region      bool       `json:"region,omitempty"`
	State       FocusState `json:"state"`

	// Presentation data copied from the source element
	Label   string   `json:"label,omitempty"`
	Body    string   `json:"-"`
	Classes []string `json:"classes,omitempty"`

	handlers map[Intent]KeyHandler
}

// NewNode creates a browsing node of the given kind
func NewNode(id string, kind Kind) *Node {
	return &Node{
		ID:    id,
		Kind:  kind,
		State: StateBrowsing,
	}
}

// Validate checks the node's own fields; it does not walk the tree.
func (n *Node) Validate() error {
	if n.ID == "" {
		return fmt.Errorf("node ID cannot be empty")
	}
	if !n.Kind.IsValid() {
		return fmt.Errorf("invalid node kind: %s", n.Kind)
	}
	if !n.State.IsValid() {
		return fmt.Errorf("invalid focus state: %s", n.State)
	}
	if n.Kind == KindRoot && n.Parent != nil {
		return fmt.Errorf("root node %s cannot have a parent", n.ID)
	}
	if n.Kind != KindRoot && n.Parent == nil {
		return fmt.Errorf("%s node %s has no parent", n.Kind, n.ID)
	}
	if n.Kind == KindItem && len(n.Children) > 0 {
		return fmt.Errorf("item node %s cannot have children", n.ID)
	}
	return nil
}

// IsVendor returns true if the node controls a viewport region
func (n *Node) IsVendor() bool {
	return n != nil && n.ViewportRef != ""
}

// IsFocused returns true if the node is in the focused sub-state
func (n *Node) IsFocused() bool {
	return n != nil && n.State == StateFocused
}

// HasClass reports whether the source element carried the class
func (n *Node) HasClass(class string) bool {
	return slices.Contains(n.Classes, class)
}

// SetHandler registers h for intent, replacing any earlier handler.
func (n *Node) SetHandler(intent Intent, h KeyHandler) {
	if n.handlers == nil {
		n.handlers = make(map[Intent]KeyHandler)
	}
	n.handlers[intent] = h
}

// RemoveHandler drops the handler for intent.
func (n *Node) RemoveHandler(intent Intent) {
	delete(n.handlers, intent)
}

// Handler returns the handler registered for intent, if any.
func (n *Node) Handler(intent Intent) (KeyHandler, bool) {
	h, ok := n.handlers[intent]
	return h, ok && h != nil
}

// HandlerCount returns the number of registered handlers
func (n *Node) HandlerCount() int {
	return len(n.handlers)
}

// HandleKey invokes the handler for intent when the node is focused.
// Returns true if the intent was handled.
func (n *Node) HandleKey(intent Intent) bool {
	if !n.IsFocused() {
		return false
	}
	h, ok := n.Handler(intent)
	if !ok {
		return false
	}
	h(n)
	return true
}

// DisplayName returns the label, falling back to the id
func (n *Node) DisplayName() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s(%s)", n.ID, n.Kind)
}
