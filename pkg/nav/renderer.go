package nav

import "github.com/vanderheijden86/keynav/pkg/model"

// Renderer is notified of accepted state changes. Nodes passed to it are
// always members of the current registry.
type Renderer interface {
	// Highlight is called when the cursor moves to n.
	Highlight(n *model.Node)
	// Activate is called with the node entering the focused state, or with
	// nil when focus is released.
	Activate(n *model.Node)
	// ShowRegion reveals the viewport region with the given id and hides the
	// others. An empty id hides every region.
	ShowRegion(id string)
}

// NopRenderer ignores all notifications.
type NopRenderer struct{}

func (NopRenderer) Highlight(*model.Node) {}
func (NopRenderer) Activate(*model.Node)  {}
func (NopRenderer) ShowRegion(string)     {}

// ChangeSource delivers structural-change notifications to the host. The
// Controller only starts and stops it; delivery into the event loop is the
// host's job.
type ChangeSource interface {
	Start() error
	Stop()
}
