package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/vanderheijden86/keynav/pkg/model"
	"github.com/vanderheijden86/keynav/pkg/nav"
)

// Keys handled by the model itself rather than the navigation controller.
const (
	keyQuit    = "q"
	keyForce   = "ctrl+c"
	keyHelp    = "?"
	keyRefresh = "r"
	keyCopy    = "y"
	keyToggle  = "x"
)

// KeyMap is the help-line view of the active bindings.
type KeyMap struct {
	Next    key.Binding
	Prev    key.Binding
	Enter   key.Binding
	Exit    key.Binding
	Copy    key.Binding
	Toggle  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// NewKeyMap derives help bindings from the navigation key table, so a
// replaced table shows up in the help line.
func NewKeyMap(km nav.KeyMap) KeyMap {
	return KeyMap{
		Next:    intentBinding(km, model.IntentNext, "next"),
		Prev:    intentBinding(km, model.IntentPrev, "prev"),
		Enter:   intentBinding(km, model.IntentEnter, "enter/focus"),
		Exit:    intentBinding(km, model.IntentExit, "exit/unfocus"),
		Copy:    key.NewBinding(key.WithKeys(keyCopy), key.WithHelp(keyCopy, "copy id (focused)")),
		Toggle:  key.NewBinding(key.WithKeys(keyToggle), key.WithHelp(keyToggle, "toggle (focused)")),
		Refresh: key.NewBinding(key.WithKeys(keyRefresh), key.WithHelp(keyRefresh, "rebuild")),
		Help:    key.NewBinding(key.WithKeys(keyHelp), key.WithHelp(keyHelp, "help")),
		Quit:    key.NewBinding(key.WithKeys(keyQuit, keyForce), key.WithHelp(keyQuit, "quit")),
	}
}

func intentBinding(km nav.KeyMap, intent model.Intent, desc string) key.Binding {
	keys := km.KeysFor(intent)
	if len(keys) == 0 {
		b := key.NewBinding(key.WithHelp("", desc))
		b.SetEnabled(false)
		return b
	}
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(displayKeys(keys), desc))
}

var keySymbols = map[string]string{
	"up":    "↑",
	"down":  "↓",
	"left":  "←",
	"right": "→",
	"enter": "⏎",
}

func displayKeys(keys []string) string {
	out := make([]string, len(keys))
	for i, k := range keys {
		if sym, ok := keySymbols[k]; ok {
			out[i] = sym
		} else {
			out[i] = k
		}
	}
	return strings.Join(out, "/")
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Enter, k.Exit, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Enter, k.Exit},
		{k.Copy, k.Toggle},
		{k.Refresh, k.Help, k.Quit},
	}
}
