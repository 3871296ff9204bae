// Package ui is the terminal front end for keynav: a bubbletea model that
// feeds key presses and layout changes into a navigation controller and
// draws the resulting tree, cursor and viewport region.
package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/keynav/pkg/model"
	"github.com/vanderheijden86/keynav/pkg/nav"
	"github.com/vanderheijden86/keynav/pkg/source"
	"github.com/vanderheijden86/keynav/pkg/watcher"
)

// Layout constants
const (
	minPaneWidth    = 24
	sidebarFraction = 0.4
	chromeHeight    = 4 // Header, status, help and spacing
)

// structureChangedMsg is delivered when the watcher reports a layout change.
type structureChangedMsg struct{}

// clipboardMsg reports the outcome of a copy handler.
type clipboardMsg struct {
	text string
	err  error
}

// viewState receives controller notifications. It is the model's
// nav.Renderer; the View reads it back when drawing.
type viewState struct {
	highlighted string
	active      string
	region      string
	marked      map[string]bool
	pendingCopy string
}

func (s *viewState) Highlight(n *model.Node) {
	s.highlighted = ""
	if n != nil {
		s.highlighted = n.ID
	}
}

func (s *viewState) Activate(n *model.Node) {
	s.active = ""
	if n != nil {
		s.active = n.ID
	}
}

func (s *viewState) ShowRegion(id string) {
	s.region = id
}

// Config configures the terminal model.
type Config struct {
	Source  source.Source
	Options nav.Options
	Watcher *watcher.Watcher // Optional change source
	Title   string
}

// Model is the bubbletea model.
type Model struct {
	ctrl    *nav.Controller
	state   *viewState
	changes <-chan struct{}

	theme      Theme
	keys       KeyMap
	help       help.Model
	tree       *TreeView
	regionTree *TreeView
	pane       viewport.Model
	md         *MarkdownRenderer

	title     string
	width     int
	height    int
	showHelp  bool
	status    string
	statusErr bool
}

// NewModel builds the controller and the view around it.
func NewModel(cfg Config) (Model, error) {
	st := &viewState{marked: make(map[string]bool)}

	var changes nav.ChangeSource
	var ch <-chan struct{}
	if cfg.Watcher != nil {
		changes = cfg.Watcher
		ch = cfg.Watcher.Changed()
	}
	ctrl, err := nav.New(nav.Config{
		Source:   cfg.Source,
		Options:  cfg.Options,
		Renderer: st,
		Changes:  changes,
	})
	if err != nil {
		return Model{}, err
	}

	theme := DefaultTheme(lipgloss.DefaultRenderer())
	title := cfg.Title
	if title == "" {
		title = "keynav"
	}
	m := Model{
		ctrl:       ctrl,
		state:      st,
		changes:    ch,
		theme:      theme,
		keys:       NewKeyMap(ctrl.Options().Keys),
		help:       help.New(),
		tree:       NewTreeView(theme),
		regionTree: NewTreeView(theme),
		pane:       viewport.New(40, 10),
		md:         NewMarkdownRenderer(40, theme),
		title:      title,
	}
	m.registerItemHandlers()
	m.syncPane()
	return m, nil
}

// registerItemHandlers binds the copy and mark keys on every item. The
// controller keeps registrations by id, so this only adds ids that are new
// since the last rebuild.
func (m Model) registerItemHandlers() {
	st := m.state
	for _, n := range m.ctrl.Tree().Registry.Nodes() {
		if n.Kind != model.KindItem || n.HandlerCount() > 0 {
			continue
		}
		m.ctrl.AddKeyHandler(n.ID, model.KeyIntent(keyCopy), func(n *model.Node) {
			st.pendingCopy = n.ID
		})
		m.ctrl.AddKeyHandler(n.ID, model.KeyIntent(keyToggle), func(n *model.Node) {
			st.marked[n.ID] = !st.marked[n.ID]
		})
	}
}

// Controller exposes the navigation controller
func (m Model) Controller() *nav.Controller {
	return m.ctrl
}

// Status returns the status line text
func (m Model) Status() string {
	return m.status
}

// Marked reports whether the item was toggled with the mark key
func (m Model) Marked(id string) bool {
	return m.state.marked[id]
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return waitForChange(m.changes)
}

// waitForChange blocks on the watcher channel off the event loop and turns
// a signal into a message, so rebuilds run inside Update.
func waitForChange(ch <-chan struct{}) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return structureChangedMsg{}
	}
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardMsg{text: text, err: clipboard.WriteAll(text)}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		return m, nil

	case structureChangedMsg:
		m.rebuild()
		return m, waitForChange(m.changes)

	case clipboardMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("copy failed: %v", msg.err))
		} else {
			m.setStatus("copied " + msg.text)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	if k == keyForce {
		return m, tea.Quit
	}
	if m.showHelp {
		if k == keyHelp || k == "esc" {
			m.showHelp = false
		}
		return m, nil
	}
	// The controller gets first refusal on everything except ctrl+c; host
	// keys only see what it leaves unconsumed, focused or not.
	if !m.ctrl.HandleKey(k) {
		if cmd, ok := m.hostKey(k); ok {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	if id := m.state.pendingCopy; id != "" {
		m.state.pendingCopy = ""
		cmd = copyToClipboard(id)
	}
	m.syncPane()
	return m, cmd
}

// hostKey handles the model's own keys. Reports false for keys it does not
// own.
func (m *Model) hostKey(k string) (tea.Cmd, bool) {
	switch k {
	case keyQuit:
		return tea.Quit, true
	case keyHelp:
		m.showHelp = true
		return nil, true
	case keyRefresh:
		m.rebuild()
		return nil, true
	}
	return nil, false
}

func (m *Model) rebuild() {
	if err := m.ctrl.NotifyStructureChanged(); err != nil {
		m.setError(fmt.Sprintf("rebuild failed, keeping last layout: %v", err))
	} else {
		m.setStatus(fmt.Sprintf("rebuilt %d nodes", m.ctrl.Tree().Len()))
		m.registerItemHandlers()
	}
	m.syncPane()
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

// layout distributes the window between the tree and the detail pane.
func (m *Model) layout() {
	bodyHeight := max(m.height-chromeHeight, 3)
	treeWidth := max(int(float64(m.width)*sidebarFraction), minPaneWidth)
	paneWidth := max(m.width-treeWidth-4, minPaneWidth)

	m.tree.SetSize(treeWidth, bodyHeight)
	m.regionTree.SetSize(paneWidth, bodyHeight)
	m.pane.Width = paneWidth
	m.pane.Height = bodyHeight
	m.md.SetWidth(paneWidth)
	m.help.Width = m.width
	m.syncPane()
}

// detailNode is the node whose content fills the right pane: the visible
// viewport region, or else the cursor itself.
func (m Model) detailNode() *model.Node {
	if m.state.region != "" {
		if n, ok := m.ctrl.Tree().Lookup(m.state.region); ok {
			return n
		}
	}
	return m.ctrl.Current()
}

func (m *Model) syncPane() {
	n := m.detailNode()
	if n == nil {
		m.pane.SetContent("")
		return
	}

	r := m.theme.Renderer
	var sb strings.Builder
	sb.WriteString(r.NewStyle().Bold(true).Foreground(m.theme.Primary).Render(n.DisplayName()))
	sb.WriteString("\n")
	if n.Body != "" {
		body, err := m.md.Render(n.Body)
		if err != nil {
			body = n.Body
		}
		sb.WriteString(body)
	}
	if n.Region || len(n.Children) > 0 {
		sb.WriteString("\n")
		sb.WriteString(m.regionTree.Render(n, m.state))
	}
	m.pane.SetContent(sb.String())
}

func (m Model) helpContext() Context {
	switch {
	case m.ctrl.Current().IsFocused():
		return ContextFocused
	case m.state.region != "":
		return ContextRegion
	default:
		return ContextBrowse
	}
}

// breadcrumb renders the path from the root to the cursor.
func (m Model) breadcrumb() string {
	var names []string
	limit := m.ctrl.Tree().Len()
	for cur, steps := m.ctrl.Current(), 0; cur != nil && steps <= limit; cur, steps = cur.Parent, steps+1 {
		names = append([]string{cur.DisplayName()}, names...)
	}
	return strings.Join(names, " › ")
}

// View implements tea.Model.
func (m Model) View() string {
	width, height := m.width, m.height
	if width == 0 {
		width, height = 100, 30
	}
	if m.showHelp {
		return RenderContextHelp(m.helpContext(), m.theme, width, height)
	}

	r := m.theme.Renderer
	header := r.NewStyle().Bold(true).Foreground(m.theme.Primary).Render(m.title) +
		r.NewStyle().Foreground(m.theme.Muted).Render(fmt.Sprintf("  %s  ", m.ctrl.Context().Mode)) +
		r.NewStyle().Foreground(m.theme.Subtext).Render(m.breadcrumb())

	left := m.theme.Pane.Render(m.tree.Render(m.ctrl.Tree().Root, m.state))
	right := m.theme.Pane.Render(m.pane.View())
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	status := m.status
	if m.ctrl.Current().IsFocused() {
		status = "FOCUSED " + m.ctrl.Current().DisplayName() + "  " + status
	}
	statusStyle := r.NewStyle().Foreground(m.theme.Subtext)
	if m.statusErr {
		statusStyle = statusStyle.Foreground(m.theme.Error)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		body,
		statusStyle.Render(status),
		m.help.View(m.keys),
	)
}
