package nav

import (
	"fmt"
	"log"
	"slices"

	"github.com/vanderheijden86/keynav/pkg/model"
	"github.com/vanderheijden86/keynav/pkg/source"
)

// Config wires a Controller to its collaborators.
type Config struct {
	Source   source.Source
	Options  Options
	Renderer Renderer     // Defaults to NopRenderer
	Changes  ChangeSource // Optional; required for auto refresh
}

// Controller owns one navigation session: the current snapshot, the cursor
// and the registered focus handlers. It is not safe for concurrent use.
type Controller struct {
	src      source.Source
	opts     Options
	renderer Renderer
	changes  ChangeSource
	watching bool

	ctx       Context
	cursor    *model.Node
	engine    Engine
	viewports *Coordinator

	// Handler registrations by node id, reapplied after every rebuild
	handlers map[string]map[model.Intent]model.KeyHandler
	history  []string
}

// New builds the first snapshot, places the cursor with the initializer
// policy and notifies the renderer. When auto refresh is enabled and a
// change source is configured it is started.
func New(cfg Config) (*Controller, error) {
	opts := cfg.Options.withDefaults()
	if !opts.Mode.IsValid() {
		return nil, &BuildError{Phase: "options", Cause: fmt.Errorf("invalid mode %q", opts.Mode)}
	}
	if cfg.Source == nil {
		return nil, &BuildError{Phase: "load", Cause: ErrNoSource}
	}

	c := &Controller{
		src:      cfg.Source,
		opts:     opts,
		renderer: cfg.Renderer,
		changes:  cfg.Changes,
		handlers: make(map[string]map[model.Intent]model.KeyHandler),
	}
	if c.renderer == nil {
		c.renderer = NopRenderer{}
	}
	if opts.Mode == ModeSidenavViewport {
		c.viewports = NewCoordinator(c.current, c.renderer)
		c.engine.Viewports = c.viewports
	}

	res, err := Resync(c.src, c.opts, "")
	if err != nil {
		return nil, err
	}
	c.install(res)
	c.record(c.cursor.ID)
	c.renderer.Highlight(c.cursor)
	c.syncRegion(true)

	if opts.AutoRefresh && c.changes != nil {
		if err := c.EnableAutoRefresh(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// current is the coordinator's view of the live snapshot.
func (c *Controller) current() (*source.Document, *model.Tree) {
	return c.ctx.Document, c.ctx.Tree
}

// install swaps in a successful resync result.
func (c *Controller) install(res Result) {
	c.ctx = Context{
		Mode:     c.opts.Mode,
		Tree:     res.Tree,
		Document: res.Document,
		Options:  c.opts,
	}
	c.cursor = res.Cursor
	for id, hs := range c.handlers {
		n, ok := res.Tree.Lookup(id)
		if !ok {
			continue
		}
		for intent, h := range hs {
			n.SetHandler(intent, h)
		}
	}
}

// Current returns the cursor node
func (c *Controller) Current() *model.Node {
	return c.cursor
}

// Context returns the active navigation context
func (c *Controller) Context() Context {
	return c.ctx
}

// Tree returns the active snapshot
func (c *Controller) Tree() *model.Tree {
	return c.ctx.Tree
}

// Document returns the source document the active snapshot was built from
func (c *Controller) Document() *source.Document {
	return c.ctx.Document
}

// Options returns the effective options
func (c *Controller) Options() Options {
	return c.opts
}

// Region returns the id of the viewport region currently shown, or "".
func (c *Controller) Region() string {
	if c.viewports == nil {
		return ""
	}
	return c.viewports.Shown()
}

// History returns accepted cursor ids, oldest first.
func (c *Controller) History() []string {
	return slices.Clone(c.history)
}

// HandleKey maps a key name through the key table and dispatches it.
// Returns true when the key was consumed.
func (c *Controller) HandleKey(key string) bool {
	return c.Dispatch(c.opts.Keys.Resolve(key))
}

// Dispatch runs one intent through the focus sub-state and, when it is not
// intercepted, the navigation engine. Returns true when the intent was
// consumed; unmapped raw keys without a focused handler are not.
func (c *Controller) Dispatch(intent model.Intent) bool {
	cur := c.cursor
	if cur.IsFocused() {
		return interceptFocused(cur, intent, c.renderer)
	}
	if !intent.IsNavigation() {
		return false
	}

	next := c.engine.Step(cur, intent)
	if intent == model.IntentEnter && canFocus(cur, next, c.viewports != nil) {
		cur.State = model.StateFocused
		c.renderer.Activate(cur)
		return true
	}
	c.accept(next)
	return true
}

// accept moves the cursor to next and notifies the renderer.
func (c *Controller) accept(next *model.Node) {
	if next == nil || next == c.cursor {
		return
	}
	if !c.ctx.Tree.Registry.Has(next) {
		log.Printf("warning: navigation produced %s outside the current tree", next)
		return
	}
	c.cursor = next
	c.record(next.ID)
	c.renderer.Highlight(next)
	c.syncRegion(false)
}

func (c *Controller) syncRegion(force bool) {
	if c.viewports != nil {
		c.viewports.Sync(c.cursor, force)
	}
}

func (c *Controller) record(id string) {
	if n := len(c.history); n > 0 && c.history[n-1] == id {
		return
	}
	c.history = append(c.history, id)
	if over := len(c.history) - c.opts.HistoryLimit; over > 0 {
		c.history = slices.Delete(c.history, 0, over)
	}
}

// AddKeyHandler registers h for intent on the node with the given id,
// replacing any earlier handler for the pair. A nil h removes the
// registration instead. The registration outlives rebuilds as long as a node
// with that id exists. Returns false only when the id is not in the current
// tree.
func (c *Controller) AddKeyHandler(id string, intent model.Intent, h model.KeyHandler) bool {
	n, ok := c.ctx.Tree.Lookup(id)
	if !ok {
		return false
	}
	if h == nil {
		delete(c.handlers[id], intent)
		n.RemoveHandler(intent)
		return true
	}
	if c.handlers[id] == nil {
		c.handlers[id] = make(map[model.Intent]model.KeyHandler)
	}
	c.handlers[id][intent] = h
	n.SetHandler(intent, h)
	return true
}

// Refresh rebuilds from the source and relocates the cursor. On error the
// previous snapshot and cursor stay in use and the error is returned.
func (c *Controller) Refresh() error {
	res, err := Resync(c.src, c.opts, c.cursor.ID)
	if err != nil {
		return err
	}
	wasFocused := releaseFocus(c.cursor)
	c.install(res)
	if wasFocused {
		c.renderer.Activate(nil)
	}
	c.record(c.cursor.ID)
	c.renderer.Highlight(c.cursor)
	c.syncRegion(true)
	return nil
}

// NotifyStructureChanged is the entry point for change notifications.
// A failed rebuild is logged and the last good snapshot kept.
func (c *Controller) NotifyStructureChanged() error {
	err := c.Refresh()
	if err != nil {
		log.Printf("warning: rebuild after structural change failed: %v", err)
	}
	return err
}

// EnableAutoRefresh starts the change source. Calling it while already
// enabled is a no-op.
func (c *Controller) EnableAutoRefresh() error {
	if c.changes == nil {
		return ErrNoChangeSource
	}
	if c.watching {
		return nil
	}
	if err := c.changes.Start(); err != nil {
		return fmt.Errorf("start change source: %w", err)
	}
	c.watching = true
	return nil
}

// DisableAutoRefresh stops the change source. Returns false if it was not
// running.
func (c *Controller) DisableAutoRefresh() bool {
	if !c.watching {
		return false
	}
	c.changes.Stop()
	c.watching = false
	return true
}

// AutoRefresh reports whether the change source is running
func (c *Controller) AutoRefresh() bool {
	return c.watching
}
