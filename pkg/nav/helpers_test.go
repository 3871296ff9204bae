package nav

import (
	"fmt"
	"slices"
	"testing"

	"github.com/vanderheijden86/keynav/pkg/model"
	"github.com/vanderheijden86/keynav/pkg/source"
)

// recorder is a Renderer that keeps every notification in order.
type recorder struct {
	events []string
}

func (r *recorder) Highlight(n *model.Node) { r.events = append(r.events, "highlight:"+nodeID(n)) }
func (r *recorder) Activate(n *model.Node)  { r.events = append(r.events, "activate:"+nodeID(n)) }
func (r *recorder) ShowRegion(id string)    { r.events = append(r.events, "show:"+id) }

func (r *recorder) reset() { r.events = nil }

func (r *recorder) has(event string) bool {
	return slices.Contains(r.events, event)
}

func (r *recorder) last(prefix string) string {
	for i := len(r.events) - 1; i >= 0; i-- {
		e := r.events[i]
		if len(e) >= len(prefix) && e[:len(prefix)] == prefix {
			return e[len(prefix):]
		}
	}
	return ""
}

func nodeID(n *model.Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.ID
}

// fakeChanges counts Start/Stop calls.
type fakeChanges struct {
	starts, stops int
	startErr      error
}

func (f *fakeChanges) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	f.starts++
	return nil
}

func (f *fakeChanges) Stop() { f.stops++ }

// flatRoot builds Root→[ids...].
func flatRoot(ids ...string) *source.Element {
	root := source.El("root")
	for _, id := range ids {
		root.Children = append(root.Children, source.El(id))
	}
	return root
}

// sidenavRoot builds a sidenav of vendors next to a main area holding their
// viewport regions.
func sidenavRoot() *source.Element {
	return source.El("app",
		source.El("sidenav",
			source.El("vendor1").WithAttr("viewport", "vp1").WithLabel("Vendor A"),
			source.El("vendor2").WithAttr("viewport", "vp2").WithLabel("Vendor B"),
			source.El("plain"),
		).WithClass(DefaultContainerClass),
		source.El("main",
			source.El("vp1", source.El("chart1"), source.El("chart2")).WithClass("viewport"),
			source.El("vp2", source.El("chart3")).WithClass("viewport"),
		),
	)
}

func sidenavOptions() Options {
	opts := DefaultOptions()
	opts.Mode = ModeSidenavViewport
	opts.InitialItem = "vendor1"
	return opts
}

func mustBuild(t *testing.T, root *source.Element, opts Options) *model.Tree {
	t.Helper()
	tree, err := Build(source.NewDocument(root), opts)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return tree
}

func mustNode(t *testing.T, tree *model.Tree, id string) *model.Node {
	t.Helper()
	n, ok := tree.Lookup(id)
	if !ok {
		t.Fatalf("node %q not in registry", id)
	}
	return n
}

// newTestController starts a controller over an in-memory source.
func newTestController(t *testing.T, root *source.Element, opts Options) (*Controller, *source.Static, *recorder) {
	t.Helper()
	src := source.NewStatic(root)
	rec := &recorder{}
	c, err := New(Config{Source: src, Options: opts, Renderer: rec})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c, src, rec
}

// counterIDs returns a deterministic id generator.
func counterIDs() func(*source.Element) string {
	n := 0
	return func(*source.Element) string {
		n++
		return fmt.Sprintf("auto-%d", n)
	}
}

func expectCursor(t *testing.T, c *Controller, want string) {
	t.Helper()
	if got := c.Current().ID; got != want {
		t.Errorf("expected cursor %q, got %q", want, got)
	}
}
