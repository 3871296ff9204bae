package model

// Registry is the flattened id → node index of one tree snapshot.
// Iteration order is the build's depth-first pre-order.
type Registry struct {
	order []*Node
	byID  map[string]*Node
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Node)}
}

// Add registers a node. Returns false if the id is already taken.
func (r *Registry) Add(n *Node) bool {
	if _, exists := r.byID[n.ID]; exists {
		return false
	}
	r.byID[n.ID] = n
	r.order = append(r.order, n)
	return true
}

// Get returns the node with the given id
func (r *Registry) Get(id string) (*Node, bool) {
	if r == nil {
		return nil, false
	}
	n, ok := r.byID[id]
	return n, ok
}

// Has reports whether n is the node registered under n.ID.
func (r *Registry) Has(n *Node) bool {
	if n == nil {
		return false
	}
	got, ok := r.Get(n.ID)
	return ok && got == n
}

// Len returns the number of registered nodes
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.order)
}

// Nodes returns all nodes in registry order. The slice must not be modified.
func (r *Registry) Nodes() []*Node {
	if r == nil {
		return nil
	}
	return r.order
}

// Each calls fn for every node in registry order until fn returns false.
func (r *Registry) Each(fn func(n *Node) bool) {
	for _, n := range r.Nodes() {
		if !fn(n) {
			return
		}
	}
}

// Tree is one immutable snapshot: the root plus its registry.
type Tree struct {
	Root     *Node
	Registry *Registry
}

// Len returns the number of nodes in the snapshot
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return t.Registry.Len()
}

// Lookup returns the node with the given id
func (t *Tree) Lookup(id string) (*Node, bool) {
	if t == nil {
		return nil, false
	}
	return t.Registry.Get(id)
}

// IndexOf returns the sibling index of n within its parent's children,
// or -1 for the root and for region nodes.
func (t *Tree) IndexOf(n *Node) int {
	if n == nil || n.Parent == nil {
		return -1
	}
	for i, sibling := range n.Parent.Children {
		if sibling == n {
			return i
		}
	}
	return -1
}

// Depth returns the number of ancestors of n. The walk is bounded by the
// snapshot size so a cyclic parent chain cannot loop forever.
func (t *Tree) Depth(n *Node) int {
	depth := 0
	limit := t.Len()
	for cur := n.Parent; cur != nil && depth <= limit; cur = cur.Parent {
		depth++
	}
	return depth
}

// EnclosingRegion returns the nearest ancestor of n (or n itself) that is a
// viewport region, or nil.
func (t *Tree) EnclosingRegion(n *Node) *Node {
	limit := t.Len()
	for cur, steps := n, 0; cur != nil && steps <= limit; cur, steps = cur.Parent, steps+1 {
		if cur.Region {
			return cur
		}
	}
	return nil
}

// FirstDescendant returns the first node strictly below n in pre-order
// matching keep, or nil. Region descendants are visited at their source
// position.
func (t *Tree) FirstDescendant(n *Node, keep func(*Node) bool) *Node {
	if n == nil {
		return nil
	}
	// Registry order is pre-order, so the first registered node with n as an
	// ancestor is the first descendant.
	seen := false
	for _, cand := range t.Registry.Nodes() {
		if cand == n {
			seen = true
			continue
		}
		if !seen || !t.isAncestor(n, cand) {
			continue
		}
		if keep == nil || keep(cand) {
			return cand
		}
	}
	return nil
}

// isAncestor reports whether a is a strict ancestor of n.
func (t *Tree) isAncestor(a, n *Node) bool {
	limit := t.Len()
	for cur, steps := n.Parent, 0; cur != nil && steps <= limit; cur, steps = cur.Parent, steps+1 {
		if cur == a {
			return true
		}
	}
	return false
}
