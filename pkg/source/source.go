package source

import "sync"

// Source hands out the current structural snapshot. The tree builder queries
// it synchronously on every build.
type Source interface {
	Snapshot() (*Document, error)
}

// Static serves an in-memory document. Callers may mutate the element tree
// between snapshots; each Snapshot relinks parent pointers first.
type Static struct {
	mu  sync.Mutex
	doc *Document
}

// NewStatic wraps root in a Static source.
func NewStatic(root *Element) *Static {
	return &Static{doc: NewDocument(root)}
}

// Snapshot implements Source.
func (s *Static) Snapshot() (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Link()
	return s.doc, nil
}

// Replace swaps the root element, as a wholesale structural change.
func (s *Static) Replace(root *Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = NewDocument(root)
}

// Update runs fn against the current root under the source lock, for
// in-place structural edits.
func (s *Static) Update(fn func(root *Element)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.doc.Root)
	s.doc.Link()
}

// File reads the layout from disk on every snapshot.
type File struct {
	Path string
}

// Snapshot implements Source.
func (f File) Snapshot() (*Document, error) {
	return LoadFile(f.Path)
}
