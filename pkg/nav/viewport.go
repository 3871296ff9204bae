package nav

import (
	"github.com/vanderheijden86/keynav/pkg/model"
	"github.com/vanderheijden86/keynav/pkg/source"
)

// RegionLookup returns the current document and tree. The coordinator asks
// for them on every call instead of caching anything on vendor nodes.
type RegionLookup func() (*source.Document, *model.Tree)

// Coordinator resolves vendor/region pairings for the sidenav viewport mode
// and keeps the renderer's visible region in step with the cursor.
type Coordinator struct {
	lookup   RegionLookup
	renderer Renderer
	shown    string
}

// NewCoordinator creates a coordinator reporting to r.
func NewCoordinator(lookup RegionLookup, r Renderer) *Coordinator {
	if r == nil {
		r = NopRenderer{}
	}
	return &Coordinator{lookup: lookup, renderer: r}
}

// RegionEntry returns the first registered node inside the region vendor
// points at. The region must still exist in the current document.
func (c *Coordinator) RegionEntry(vendor *model.Node) (*model.Node, bool) {
	if !vendor.IsVendor() {
		return nil, false
	}
	doc, tree := c.lookup()
	if doc.ElementByID(vendor.ViewportRef) == nil {
		return nil, false
	}
	region, ok := tree.Lookup(vendor.ViewportRef)
	if !ok {
		return nil, false
	}
	entry := tree.FirstDescendant(region, nil)
	return entry, entry != nil
}

// VendorFor returns the first vendor in registry order that references
// region. Later vendors pointing at the same region are never returned.
func (c *Coordinator) VendorFor(region *model.Node) (*model.Node, bool) {
	if region == nil {
		return nil, false
	}
	_, tree := c.lookup()
	var vendor *model.Node
	tree.Registry.Each(func(n *model.Node) bool {
		if n.ViewportRef == region.ID {
			vendor = n
			return false
		}
		return true
	})
	return vendor, vendor != nil
}

// RegionFor returns the id of the region that should be visible while the
// cursor is at n: the region a vendor controls, or the region enclosing n.
// Ids that no longer exist in the document resolve to "".
func (c *Coordinator) RegionFor(n *model.Node) string {
	if n == nil {
		return ""
	}
	doc, tree := c.lookup()
	id := ""
	if n.IsVendor() {
		id = n.ViewportRef
	} else if region := tree.EnclosingRegion(n); region != nil {
		id = region.ID
	}
	if id == "" || doc.ElementByID(id) == nil {
		return ""
	}
	return id
}

// Sync shows the region for n when it differs from the one last shown, or
// unconditionally when force is set.
func (c *Coordinator) Sync(n *model.Node, force bool) {
	id := c.RegionFor(n)
	if !force && id == c.shown {
		return
	}
	c.shown = id
	c.renderer.ShowRegion(id)
}

// Shown returns the region id last passed to the renderer.
func (c *Coordinator) Shown() string {
	return c.shown
}
