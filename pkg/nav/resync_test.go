package nav

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vanderheijden86/keynav/pkg/model"
	"github.com/vanderheijden86/keynav/pkg/source"
)

// Scenario: Root→[A, B] with the cursor on B; B disappears.
func TestResyncRemovedCursorFallsBack(t *testing.T) {
	opts := DefaultOptions()
	opts.InitialItem = "B"
	c, src, rec := newTestController(t, flatRoot("A", "B"), opts)
	expectCursor(t, c, "B")
	old := c.Current()

	src.Update(func(root *source.Element) {
		root.Children = root.Children[:1]
	})
	rec.reset()
	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	expectCursor(t, c, "A")
	if c.Tree().Registry.Has(old) {
		t.Error("expected stale node gone from the registry")
	}
	if rec.last("highlight:") != "A" {
		t.Errorf("expected highlight(A), got %v", rec.events)
	}
}

func TestResyncIdentity(t *testing.T) {
	c, _, _ := newTestController(t, sidenavRoot(), sidenavOptions())
	c.Dispatch(model.IntentEnter) // into vp1
	c.Dispatch(model.IntentNext)
	expectCursor(t, c, "chart2")
	before := c.Current()

	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	expectCursor(t, c, "chart2")
	if c.Current() == before {
		t.Error("expected a freshly built node, not the old pointer")
	}
}

func TestResyncIdentityFileAutoIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.layout.yaml")
	layout := "id: app\nchildren:\n  - label: Notes\n    class: [keynav-auto]\n  - id: b\n"
	if err := os.WriteFile(path, []byte(layout), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := New(Config{Source: source.File{Path: path}, Options: DefaultOptions()})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	notes := c.Current()
	if notes.Label != "Notes" {
		t.Fatalf("expected cursor on the auto item, got %s", notes)
	}
	called := 0
	if !c.AddKeyHandler(notes.ID, model.KeyIntent("y"), func(*model.Node) { called++ }) {
		t.Fatal("AddKeyHandler failed")
	}

	if err := c.Refresh(); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	expectCursor(t, c, notes.ID)

	c.Dispatch(model.IntentEnter)
	c.HandleKey("y")
	if called != 1 {
		t.Errorf("expected handler to survive the reload, called %d times", called)
	}
}

func TestResyncResetsFocus(t *testing.T) {
	opts := DefaultOptions()
	opts.InitialItem = "a"
	c, _, rec := newTestController(t, flatRoot("a", "b"), opts)
	c.Dispatch(model.IntentEnter)
	rec.reset()

	if err := c.Refresh(); err != nil {
		t.Fatal(err)
	}
	if c.Current().IsFocused() {
		t.Error("expected focus not to survive a rebuild")
	}
	if !rec.has("activate:<nil>") {
		t.Errorf("expected deactivation notice, got %v", rec.events)
	}
}

func TestResyncFailureKeepsSnapshot(t *testing.T) {
	opts := DefaultOptions()
	opts.InitialItem = "b"
	c, src, _ := newTestController(t, flatRoot("a", "b"), opts)
	tree := c.Tree()

	src.Update(func(root *source.Element) {
		root.Children = append(root.Children, source.El("a"))
	})
	err := c.NotifyStructureChanged()
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
	if c.Tree() != tree {
		t.Error("expected previous tree kept")
	}
	expectCursor(t, c, "b")
	if !c.Tree().Registry.Has(c.Current()) {
		t.Error("expected cursor to stay in the kept registry")
	}
}

type failingSource struct{ err error }

func (f failingSource) Snapshot() (*source.Document, error) { return nil, f.err }

func TestResyncLoadError(t *testing.T) {
	cause := errors.New("disk gone")
	_, err := Resync(failingSource{err: cause}, DefaultOptions(), "")
	if !errors.Is(err, ErrLoad) || !errors.Is(err, cause) {
		t.Errorf("expected load error wrapping cause, got %v", err)
	}
	var be *BuildError
	if !errors.As(err, &be) || be.Phase != "load" {
		t.Errorf("expected load phase, got %v", err)
	}
}

func TestInitialNodePolicy(t *testing.T) {
	tests := []struct {
		name    string
		root    *source.Element
		initial string
		want    string
	}{
		{
			name:    "configured id",
			root:    flatRoot("a", "b"),
			initial: "b",
			want:    "b",
		},
		{
			name:    "configured id missing",
			root:    flatRoot("a", "b"),
			initial: "zzz",
			want:    "a",
		},
		{
			name: "vendor child preferred",
			root: source.El("root", source.El("a"), source.El("v").WithAttr("viewport", "vp")),
			want: "v",
		},
		{
			name: "first child",
			root: flatRoot("a", "b"),
			want: "a",
		},
		{
			name: "id-less subtree",
			root: source.El("root", source.El("", source.El("", source.El("x")))),
			want: "root",
		},
		{
			name: "root only",
			root: source.El("root"),
			want: "root",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := mustBuild(t, tt.root, DefaultOptions())
			if got := InitialNode(tree, tt.initial); got.ID != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got.ID)
			}
		})
	}
}

func TestInitialNodeDescendantRule(t *testing.T) {
	// Every root child is a region, so the root lists no children and the
	// policy falls through to the pre-order descendant scan.
	root := source.El("app",
		source.El("vp1", source.El("panel", source.El("p1"))).WithClass("viewport"),
	)
	opts := DefaultOptions()
	opts.Mode = ModeSidenavViewport
	tree := mustBuild(t, root, opts)

	if len(tree.Root.Children) != 0 {
		t.Fatalf("expected no listed root children, got %v", tree.Root.Children)
	}
	if got := InitialNode(tree, ""); got.ID != "vp1" {
		t.Errorf("expected first descendant with children, got %s", got.ID)
	}
}

func TestResyncHandlersSurviveRebuild(t *testing.T) {
	opts := DefaultOptions()
	opts.InitialItem = "a"
	c, _, _ := newTestController(t, flatRoot("a"), opts)

	fired := 0
	c.AddKeyHandler("a", model.IntentNext, func(*model.Node) { fired++ })
	if err := c.Refresh(); err != nil {
		t.Fatal(err)
	}
	if c.Current().HandlerCount() != 1 {
		t.Fatal("expected handler reapplied to rebuilt node")
	}
	c.Dispatch(model.IntentEnter)
	c.Dispatch(model.IntentNext)
	if fired != 1 {
		t.Errorf("expected reapplied handler to fire, got %d", fired)
	}

	if c.AddKeyHandler("missing", model.IntentNext, func(*model.Node) {}) {
		t.Error("expected registration on unknown id to fail")
	}
}
