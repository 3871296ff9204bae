// Package source provides the structural source the navigation tree is
// built from: a hierarchical document of elements loaded from YAML or JSON
// layout files, or assembled in memory.
package source

import "slices"

// Element is one node of a layout document.
type Element struct {
	ID       string            `yaml:"id,omitempty" json:"id,omitempty"`
	Tag      string            `yaml:"tag,omitempty" json:"tag,omitempty"`
	Label    string            `yaml:"label,omitempty" json:"label,omitempty"`
	Body     string            `yaml:"body,omitempty" json:"body,omitempty"`
	Classes  []string          `yaml:"class,omitempty" json:"class,omitempty"`
	Attrs    map[string]string `yaml:"attrs,omitempty" json:"attrs,omitempty"`
	Children []*Element        `yaml:"children,omitempty" json:"children,omitempty"`

	parent *Element
}

// El is a small constructor for in-memory sources.
func El(id string, children ...*Element) *Element {
	return &Element{ID: id, Children: children}
}

// WithClass appends classes and returns e for chaining.
func (e *Element) WithClass(classes ...string) *Element {
	e.Classes = append(e.Classes, classes...)
	return e
}

// WithAttr sets an attribute and returns e for chaining.
func (e *Element) WithAttr(key, value string) *Element {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[key] = value
	return e
}

// WithLabel sets the display label and returns e for chaining.
func (e *Element) WithLabel(label string) *Element {
	e.Label = label
	return e
}

// Parent returns the enclosing element, or nil for the document root.
// Valid after the owning Document has been linked.
func (e *Element) Parent() *Element {
	return e.parent
}

// HasClass reports whether the element carries the class
func (e *Element) HasClass(class string) bool {
	return slices.Contains(e.Classes, class)
}

// Attr returns an attribute value
func (e *Element) Attr(key string) (string, bool) {
	v, ok := e.Attrs[key]
	return v, ok
}

// HasDescendant reports whether any element below e satisfies pred.
func (e *Element) HasDescendant(pred func(*Element) bool) bool {
	for _, child := range e.Children {
		if child == nil {
			continue
		}
		if pred(child) || child.HasDescendant(pred) {
			return true
		}
	}
	return false
}

// Document is a layout snapshot rooted at Root.
type Document struct {
	Root *Element `yaml:"root" json:"root"`
}

// NewDocument wraps root and links parent pointers.
func NewDocument(root *Element) *Document {
	d := &Document{Root: root}
	d.Link()
	return d
}

// Link sets parent pointers throughout the document. It must be called after
// the element structure changes.
func (d *Document) Link() {
	if d == nil || d.Root == nil {
		return
	}
	d.Root.parent = nil
	var walk func(e *Element)
	walk = func(e *Element) {
		for _, child := range e.Children {
			if child == nil {
				continue
			}
			child.parent = e
			walk(child)
		}
	}
	walk(d.Root)
}

// ElementByID finds an element by id with a fresh walk of the document.
// Nothing is cached, so the answer always reflects the current structure.
func (d *Document) ElementByID(id string) *Element {
	if d == nil || d.Root == nil || id == "" {
		return nil
	}
	var found *Element
	var walk func(e *Element) bool
	walk = func(e *Element) bool {
		if e.ID == id {
			found = e
			return true
		}
		for _, child := range e.Children {
			if child != nil && walk(child) {
				return true
			}
		}
		return false
	}
	walk(d.Root)
	return found
}

// Count returns the number of elements in the document
func (d *Document) Count() int {
	if d == nil || d.Root == nil {
		return 0
	}
	var count func(e *Element) int
	count = func(e *Element) int {
		total := 1
		for _, child := range e.Children {
			if child != nil {
				total += count(child)
			}
		}
		return total
	}
	return count(d.Root)
}
