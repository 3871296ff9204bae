package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/keynav/pkg/model"
	"github.com/vanderheijden86/keynav/pkg/nav"
)

func TestNewKeyMapFollowsNavTable(t *testing.T) {
	km := NewKeyMap(nav.DefaultKeyMap())

	if got := km.Next.Help().Key; got != "↓/→" {
		t.Errorf("next help key = %q, want %q", got, "↓/→")
	}
	if got := km.Exit.Help().Key; got != "esc" {
		t.Errorf("exit help key = %q, want %q", got, "esc")
	}

	custom := nav.KeyMap{"j": model.IntentNext, "k": model.IntentPrev}
	km = NewKeyMap(custom)
	if got := km.Next.Help().Key; got != "j" {
		t.Errorf("custom next help key = %q", got)
	}
	if km.Enter.Enabled() {
		t.Error("expected enter binding disabled when the table has no enter key")
	}
}

func TestDisplayKeys(t *testing.T) {
	if got := displayKeys([]string{"left", "h", "enter"}); got != "←/h/⏎" {
		t.Errorf("displayKeys = %q", got)
	}
}

func TestFullHelpGroups(t *testing.T) {
	groups := NewKeyMap(nav.DefaultKeyMap()).FullHelp()
	if len(groups) != 3 {
		t.Fatalf("expected 3 help groups, got %d", len(groups))
	}
	if len(groups[0]) != 4 {
		t.Errorf("expected 4 navigation bindings, got %d", len(groups[0]))
	}
}

func TestGetContextHelp(t *testing.T) {
	tests := []struct {
		ctx  Context
		want string
	}{
		{ContextBrowse, "Browsing"},
		{ContextFocused, "Focused Item"},
		{ContextRegion, "Viewport Region"},
		{Context("unknown"), "keynav"},
	}
	for _, tt := range tests {
		if got := GetContextHelp(tt.ctx); !strings.Contains(got, tt.want) {
			t.Errorf("GetContextHelp(%s) missing %q", tt.ctx, tt.want)
		}
	}
}

func TestRenderContextHelpNarrowTerminal(t *testing.T) {
	theme := DefaultTheme(lipgloss.NewRenderer(nil))
	out := RenderContextHelp(ContextFocused, theme, 10, 0)
	if !strings.Contains(out, "Quick Reference") {
		t.Errorf("expected title in narrow modal, got:\n%s", out)
	}
}
