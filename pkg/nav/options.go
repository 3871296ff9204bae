// Package nav implements keyboard navigation over a tree of focusable
// regions: the tree builder, the navigation engine, the focused sub-state,
// the sidenav viewport coordinator, resynchronization after structural
// change, and the Controller that ties them together.
//
// The package is single-threaded by design. A Controller must only be used
// from one goroutine (the host's event loop); structural-change signals from
// other goroutines must be forwarded into that loop before calling
// NotifyStructureChanged.
package nav

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/vanderheijden86/keynav/pkg/model"
	"github.com/vanderheijden86/keynav/pkg/source"
)

// Mode selects the navigation variant
type Mode string

const (
	ModeStandard        Mode = "standard"
	ModeSidenavViewport Mode = "sidenav-viewport"
)

// IsValid returns true if the mode is a recognized value
func (m Mode) IsValid() bool {
	return m == ModeStandard || m == ModeSidenavViewport
}

// ParseMode accepts the canonical names plus a few common spellings.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "default":
		return ModeStandard, nil
	case "sidenav-viewport", "sidenav_viewport", "sidenavviewport", "sidenav", "viewport":
		return ModeSidenavViewport, nil
	}
	return "", fmt.Errorf("unknown navigation mode %q (want standard or sidenav-viewport)", s)
}

// Default policy values used by the tree builder
const (
	DefaultContainerClass   = "keynav-container"
	DefaultAutoClass        = "keynav-auto"
	DefaultViewportAttr     = "viewport"
	DefaultViewportSelector = ".viewport"
	DefaultVendorSelector   = "[viewport]"
	DefaultHistoryLimit     = 64

	// RootID is the registry key of a root element that has no id.
	RootID = "keynav-root"
)

// Options configures a navigation session.
type Options struct {
	Mode        Mode
	InitialItem string // Preferred starting node id

	// Build policy
	ContainerClass   string // Marks an element as a navigation container
	AutoClass        string // Marks an id-less element as navigable
	ViewportAttr     string // Attribute carrying a vendor's region id
	ViewportSelector string // Elements that are viewport regions (sidenav mode)
	VendorSelector   string // Elements whose ViewportAttr is honored

	AutoRefresh  bool   // Subscribe to structural-change notifications
	Keys         KeyMap // Whole key table; nil means DefaultKeyMap
	HistoryLimit int    // Accepted-cursor history length

	// NewID generates ids for auto-navigable elements. It must return the
	// same id for the same element position on every build.
	NewID func(el *source.Element) string
}

// DefaultOptions returns Standard-mode options with auto refresh enabled.
func DefaultOptions() Options {
	return Options{
		Mode:        ModeStandard,
		AutoRefresh: true,
	}.withDefaults()
}

// autoIDSpace namespaces the name-based uuids behind generated ids.
var autoIDSpace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("keynav"))

// NewAutoID derives an id for an auto-navigable element from its structural
// path and label. File sources decode a fresh document on every snapshot, so
// the id cannot depend on anything but the layout itself.
func NewAutoID(el *source.Element) string {
	return "keynav-" + uuid.NewSHA1(autoIDSpace, []byte(structuralPath(el))).String()[:8]
}

// structuralPath names el by the ids of its ancestors, falling back to the
// child index for id-less levels, followed by its own label. The document
// must be linked.
func structuralPath(el *source.Element) string {
	var parts []string
	for cur := el; cur != nil; cur = cur.Parent() {
		part := cur.ID
		if part == "" || cur == el {
			part = fmt.Sprintf("#%d", childIndex(cur))
		}
		parts = append(parts, part)
	}
	slices.Reverse(parts)
	return strings.Join(parts, "/") + "|" + el.Label
}

func childIndex(el *source.Element) int {
	parent := el.Parent()
	if parent == nil {
		return 0
	}
	return slices.Index(parent.Children, el)
}

// withDefaults fills unset policy fields. AutoRefresh is left alone because
// false is a meaningful setting.
func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = ModeStandard
	}
	if o.ContainerClass == "" {
		o.ContainerClass = DefaultContainerClass
	}
	if o.AutoClass == "" {
		o.AutoClass = DefaultAutoClass
	}
	if o.ViewportAttr == "" {
		o.ViewportAttr = DefaultViewportAttr
	}
	if o.ViewportSelector == "" {
		o.ViewportSelector = DefaultViewportSelector
	}
	if o.VendorSelector == "" {
		o.VendorSelector = "[" + o.ViewportAttr + "]"
	}
	if o.Keys == nil {
		o.Keys = DefaultKeyMap()
	}
	if o.HistoryLimit <= 0 {
		o.HistoryLimit = DefaultHistoryLimit
	}
	if o.NewID == nil {
		o.NewID = NewAutoID
	}
	return o
}

// Context is the per-session navigation context. It is replaced as a whole
// whenever a rebuild succeeds, never mutated in place.
type Context struct {
	Mode     Mode
	Tree     *model.Tree
	Document *source.Document
	Options  Options
}
