package nav

import (
	"fmt"

	"github.com/vanderheijden86/keynav/pkg/model"
	"github.com/vanderheijden86/keynav/pkg/source"
)

// Result is the outcome of one resynchronization.
type Result struct {
	Tree     *model.Tree
	Document *source.Document
	Cursor   *model.Node
	// Relocated is true when the cursor was found again by id.
	Relocated bool
}

// Resync takes a fresh snapshot from src, rebuilds the tree from scratch and
// places the cursor. The previous cursor id is kept when it survives the
// rebuild; otherwise the initializer policy picks a new position. On error
// nothing is returned and the caller keeps its previous snapshot.
func Resync(src source.Source, opts Options, previousID string) (Result, error) {
	if src == nil {
		return Result{}, &BuildError{Phase: "load", Cause: ErrNoSource}
	}
	doc, err := src.Snapshot()
	if err != nil {
		return Result{}, &BuildError{Phase: "load", Cause: fmt.Errorf("%w: %w", ErrLoad, err)}
	}
	tree, err := Build(doc, opts)
	if err != nil {
		return Result{}, err
	}

	res := Result{Tree: tree, Document: doc}
	if previousID != "" {
		if n, ok := tree.Lookup(previousID); ok {
			n.State = model.StateBrowsing
			res.Cursor = n
			res.Relocated = true
			return res, nil
		}
	}
	res.Cursor = InitialNode(tree, opts.InitialItem)
	return res, nil
}

// InitialNode applies the initializer policy: the configured id, then the
// root's first vendor child, then the root's first child, then the first
// descendant that is a vendor or has children, then the root.
func InitialNode(tree *model.Tree, initialID string) *model.Node {
	if initialID != "" {
		if n, ok := tree.Lookup(initialID); ok {
			return n
		}
	}
	root := tree.Root
	for _, child := range root.Children {
		if child.IsVendor() {
			return child
		}
	}
	if len(root.Children) > 0 {
		return root.Children[0]
	}
	if n := tree.FirstDescendant(root, func(n *model.Node) bool {
		return n.IsVendor() || len(n.Children) > 0
	}); n != nil {
		return n
	}
	return root
}
