package nav

import (
	"errors"
	"strings"
	"testing"

	"github.com/vanderheijden86/keynav/pkg/model"
	"github.com/vanderheijden86/keynav/pkg/source"
)

func TestBuildClassification(t *testing.T) {
	root := source.El("app",
		source.El("leaf"),
		source.El("group", source.El("g1"), source.El("g2")),
		source.El("marked").WithClass(DefaultContainerClass),
		source.El("", source.El("hidden")),
		source.El("decorated", source.El(""), source.El("")),
	)
	tree := mustBuild(t, root, DefaultOptions())

	tests := []struct {
		id   string
		kind model.Kind
	}{
		{"app", model.KindRoot},
		{"leaf", model.KindItem},
		{"group", model.KindContainer},
		{"g1", model.KindItem},
		{"marked", model.KindContainer},
		{"decorated", model.KindItem},
	}
	for _, tt := range tests {
		if got := mustNode(t, tree, tt.id).Kind; got != tt.kind {
			t.Errorf("%s: expected kind %s, got %s", tt.id, tt.kind, got)
		}
	}

	if _, ok := tree.Lookup("hidden"); ok {
		t.Error("expected subtree of id-less element to be skipped")
	}
	if tree.Len() != 7 {
		t.Errorf("expected 7 registered nodes, got %d", tree.Len())
	}
	if len(tree.Root.Children) != 4 {
		t.Errorf("expected 4 root children, got %d", len(tree.Root.Children))
	}
	for _, n := range tree.Registry.Nodes() {
		if err := n.Validate(); err != nil {
			t.Errorf("invalid node: %v", err)
		}
	}
}

func TestBuildRootWithoutID(t *testing.T) {
	root := source.El("", source.El("a"))
	tree := mustBuild(t, root, DefaultOptions())

	if tree.Root.ID != RootID {
		t.Errorf("expected root id %q, got %q", RootID, tree.Root.ID)
	}
	if root.ID != "" {
		t.Errorf("expected source root to stay untouched, got %q", root.ID)
	}
}

func TestBuildAutoIDsAreWrittenBack(t *testing.T) {
	auto := source.El("").WithClass(DefaultAutoClass)
	root := source.El("root", source.El("a"), auto)
	opts := DefaultOptions()
	opts.NewID = counterIDs()

	tree := mustBuild(t, root, opts)
	if auto.ID != "auto-1" {
		t.Fatalf("expected generated id written to element, got %q", auto.ID)
	}
	if _, ok := tree.Lookup("auto-1"); !ok {
		t.Error("expected auto node registered")
	}

	// A second build sees the written id and generates nothing new.
	tree = mustBuild(t, root, opts)
	if _, ok := tree.Lookup("auto-1"); !ok {
		t.Error("expected auto id stable across rebuilds")
	}
	if tree.Len() != 3 {
		t.Errorf("expected 3 nodes, got %d", tree.Len())
	}
}

func TestBuildAutoIDsDeterministic(t *testing.T) {
	layout := func() *source.Element {
		return source.El("root",
			source.El("",
				source.El("").WithClass(DefaultAutoClass).WithLabel("first"),
				source.El("").WithClass(DefaultAutoClass).WithLabel("second"),
			).WithClass(DefaultAutoClass),
			source.El("b"),
		)
	}

	ids := func() []string {
		tree := mustBuild(t, layout(), DefaultOptions())
		var out []string
		for _, n := range tree.Registry.Nodes() {
			out = append(out, n.ID)
		}
		return out
	}

	first, second := ids(), ids()
	if strings.Join(first, ",") != strings.Join(second, ",") {
		t.Errorf("expected identical ids from identical layouts:\n%v\n%v", first, second)
	}
	if len(first) != 5 {
		t.Fatalf("expected 5 nodes, got %v", first)
	}
	if first[2] == first[3] {
		t.Errorf("expected distinct ids for sibling auto elements, got %v", first)
	}
}

func TestBuildAutoClassMakesContainer(t *testing.T) {
	root := source.El("root", source.El("wrap", source.El("").WithClass(DefaultAutoClass)))
	tree := mustBuild(t, root, DefaultOptions())

	wrap := mustNode(t, tree, "wrap")
	if wrap.Kind != model.KindContainer || len(wrap.Children) != 1 {
		t.Errorf("expected container with one auto child, got %s with %d children", wrap.Kind, len(wrap.Children))
	}
	if !strings.HasPrefix(wrap.Children[0].ID, "keynav-") {
		t.Errorf("expected default auto id prefix, got %q", wrap.Children[0].ID)
	}
}

func TestBuildDuplicateID(t *testing.T) {
	root := source.El("root", source.El("a"), source.El("b", source.El("a")))
	_, err := Build(source.NewDocument(root), DefaultOptions())
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	var be *BuildError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BuildError, got %T", err)
	}
	if be.Phase != "register" || be.ID != "a" {
		t.Errorf("unexpected build error fields: %+v", be)
	}
}

func TestBuildNoSource(t *testing.T) {
	for name, doc := range map[string]*source.Document{
		"nil document": nil,
		"nil root":     {},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Build(doc, DefaultOptions())
			if !errors.Is(err, ErrNoSource) || !IsBuildError(err) {
				t.Errorf("expected ErrNoSource build error, got %v", err)
			}
		})
	}
}

func TestBuildInvalidSelector(t *testing.T) {
	opts := DefaultOptions()
	opts.ViewportSelector = "div > p"
	_, err := Build(source.NewDocument(flatRoot("a")), opts)

	var be *BuildError
	if !errors.As(err, &be) || be.Phase != "options" {
		t.Errorf("expected options build error, got %v", err)
	}
}

func TestBuildRegionsInSidenavMode(t *testing.T) {
	tree := mustBuild(t, sidenavRoot(), sidenavOptions())

	main := mustNode(t, tree, "main")
	vp1 := mustNode(t, tree, "vp1")
	if !vp1.Region {
		t.Fatal("expected vp1 to be a region")
	}
	if vp1.Parent != main {
		t.Errorf("expected region parent main, got %v", vp1.Parent)
	}
	if len(main.Children) != 0 {
		t.Errorf("expected regions kept out of main's children, got %v", main.Children)
	}
	if main.Kind != model.KindContainer {
		t.Errorf("expected main to stay a container, got %s", main.Kind)
	}
	if tree.IndexOf(vp1) != -1 {
		t.Error("expected region to have no sibling index")
	}

	var ids []string
	for _, n := range tree.Registry.Nodes() {
		ids = append(ids, n.ID)
	}
	want := "app sidenav vendor1 vendor2 plain main vp1 chart1 chart2 vp2 chart3"
	if got := strings.Join(ids, " "); got != want {
		t.Errorf("registry order:\n got %s\nwant %s", got, want)
	}
}

func TestBuildStandardModeHasNoRegions(t *testing.T) {
	opts := sidenavOptions()
	opts.Mode = ModeStandard
	tree := mustBuild(t, sidenavRoot(), opts)

	if mustNode(t, tree, "vp1").Region {
		t.Error("expected no regions in standard mode")
	}
	if got := len(mustNode(t, tree, "main").Children); got != 2 {
		t.Errorf("expected main to list both viewports, got %d", got)
	}
	if ref := mustNode(t, tree, "vendor1").ViewportRef; ref != "vp1" {
		t.Errorf("expected vendor ref recorded in all modes, got %q", ref)
	}
}

func TestBuildVendorSelectorFiltersRefs(t *testing.T) {
	root := source.El("root",
		source.El("a").WithAttr("viewport", "vp1"),
		source.El("b").WithAttr("viewport", "vp2").WithClass("vendor"),
	)
	opts := DefaultOptions()
	opts.VendorSelector = ".vendor"
	tree := mustBuild(t, root, opts)

	if mustNode(t, tree, "a").IsVendor() {
		t.Error("expected a to be ignored by vendor selector")
	}
	if !mustNode(t, tree, "b").IsVendor() {
		t.Error("expected b to be a vendor")
	}
}

func TestBuildCopiesPresentation(t *testing.T) {
	el := source.El("a").WithLabel("Alpha").WithClass("x")
	el.Body = "# Alpha"
	tree := mustBuild(t, source.El("root", el), DefaultOptions())

	a := mustNode(t, tree, "a")
	if a.Label != "Alpha" || a.Body != "# Alpha" || !a.HasClass("x") {
		t.Errorf("presentation not copied: %+v", a)
	}
}
