package nav

import (
	"github.com/vanderheijden86/keynav/pkg/model"
	"github.com/vanderheijden86/keynav/pkg/source"
)

// builder carries the state of one build pass.
type builder struct {
	opts        Options
	viewportSel source.Selector
	vendorSel   source.Selector
	reg         *model.Registry
	err         error
}

// Build converts a layout document into a navigation tree and registry.
//
// Descendants without an id are skipped unless they carry the auto class, in
// which case a generated id is written back into the element. Generated ids
// are derived from the element's position, so a freshly decoded copy of the
// same layout gets the same ids. Only Root and Container nodes get children.
func Build(doc *source.Document, opts Options) (*model.Tree, error) {
	opts = opts.withDefaults()

	if doc == nil || doc.Root == nil {
		return nil, &BuildError{Phase: "parse", Cause: ErrNoSource}
	}

	viewportSel, err := source.ParseSelector(opts.ViewportSelector)
	if err != nil {
		return nil, &BuildError{Phase: "options", Cause: err}
	}
	vendorSel, err := source.ParseSelector(opts.VendorSelector)
	if err != nil {
		return nil, &BuildError{Phase: "options", Cause: err}
	}

	doc.Link()
	b := &builder{
		opts:        opts,
		viewportSel: viewportSel,
		vendorSel:   vendorSel,
		reg:         model.NewRegistry(),
	}

	root := b.parseNode(doc.Root, nil)
	if b.err != nil {
		return nil, b.err
	}
	return &model.Tree{Root: root, Registry: b.reg}, nil
}

// parseNode builds the node for el, or returns nil to skip it.
func (b *builder) parseNode(el *source.Element, parent *model.Node) *model.Node {
	if b.err != nil {
		return nil
	}

	id := el.ID
	if parent == nil {
		if id == "" {
			id = RootID
		}
	} else if id == "" {
		if !el.HasClass(b.opts.AutoClass) {
			return nil
		}
		id = b.opts.NewID(el)
		el.ID = id
	}

	node := model.NewNode(id, b.classify(el, parent))
	node.Parent = parent
	node.Label = el.Label
	node.Body = el.Body
	if len(el.Classes) > 0 {
		node.Classes = append([]string(nil), el.Classes...)
	}
	if ref, ok := el.Attr(b.opts.ViewportAttr); ok && ref != "" && b.vendorSel.Match(el) {
		node.ViewportRef = ref
	}
	if parent != nil && b.opts.Mode == ModeSidenavViewport && b.viewportSel.Match(el) {
		node.Region = true
	}

	if !b.reg.Add(node) {
		b.err = &BuildError{Phase: "register", ID: id, Cause: ErrDuplicateID}
		return nil
	}

	if node.Kind.CanEnter() {
		for _, child := range el.Children {
			if child == nil {
				continue
			}
			childNode := b.parseNode(child, node)
			if childNode == nil {
				continue
			}
			// Regions hang off their parent but are not siblings of anything.
			if !childNode.Region {
				node.Children = append(node.Children, childNode)
			}
		}
	}
	return node
}

// classify applies the Root / Container / Item rule.
func (b *builder) classify(el *source.Element, parent *model.Node) model.Kind {
	if parent == nil {
		return model.KindRoot
	}
	if el.HasClass(b.opts.ContainerClass) || el.HasDescendant(b.navigable) {
		return model.KindContainer
	}
	return model.KindItem
}

// navigable reports whether an element will carry an id by the time its node
// is created: either it already has one or it is marked auto-navigable.
func (b *builder) navigable(el *source.Element) bool {
	return el.ID != "" || el.HasClass(b.opts.AutoClass)
}
