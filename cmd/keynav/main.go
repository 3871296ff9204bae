package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	json "github.com/goccy/go-json"
	"golang.org/x/term"

	"github.com/vanderheijden86/keynav/pkg/config"
	"github.com/vanderheijden86/keynav/pkg/model"
	"github.com/vanderheijden86/keynav/pkg/nav"
	"github.com/vanderheijden86/keynav/pkg/source"
	"github.com/vanderheijden86/keynav/pkg/ui"
	"github.com/vanderheijden86/keynav/pkg/watcher"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

var errNoLayout = errors.New("no layout file found")

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	layoutFlag := flag.String("layout", "", "Layout file to navigate (default: configured or discovered layout)")
	modeFlag := flag.String("mode", "", "Navigation mode: standard or sidenav-viewport")
	initialFlag := flag.String("initial", "", "Id of the node to start on")
	dump := flag.Bool("dump", false, "Print the navigation tree as JSON and exit")
	keys := flag.String("keys", "", "Replay comma-separated keys headlessly and print the cursor path")
	noWatch := flag.Bool("no-watch", false, "Do not rebuild when the layout file changes")
	list := flag.Bool("list", false, "List discovered layout files and exit")
	flag.Parse()

	if *help {
		fmt.Println("Usage: keynav [options]")
		fmt.Println("\nKeyboard navigation over hierarchical layout files.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("keynav %s\n", version)
		os.Exit(0)
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error getting current directory: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *modeFlag != "" {
		cfg.Mode = *modeFlag
	}
	if *initialFlag != "" {
		cfg.InitialItem = *initialFlag
	}
	if *noWatch {
		cfg.AutoRefresh = false
	}

	if *list {
		for _, l := range config.DiscoverLayouts(cfg) {
			fmt.Printf("%-24s %s\n", l.Name, l.Path)
		}
		os.Exit(0)
	}

	layoutPath, err := resolveLayout(cfg, *layoutFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts, err := cfg.NavOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	src := source.File{Path: layoutPath}

	if *dump {
		if err := dumpTree(os.Stdout, src, opts); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *keys != "" {
		if err := replayKeys(os.Stdout, src, opts, splitKeys(*keys)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdout is not a terminal; use --dump or --keys for headless output")
		os.Exit(1)
	}

	// Controller warnings go through the standard logger, which would
	// otherwise draw over the alternate screen.
	if os.Getenv("KEYNAV_DEBUG") != "" {
		f, err := tea.LogToFile("keynav-debug.log", "keynav")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	var w *watcher.Watcher
	if cfg.AutoRefresh {
		w, err = watcher.NewWatcher(layoutPath, watcher.WithDebounceDuration(cfg.Debounce))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: live reload disabled: %v\n", err)
			w = nil
		}
	}
	if w != nil {
		defer w.Stop()
	}

	m, err := ui.NewModel(ui.Config{
		Source:  src,
		Options: opts,
		Watcher: w,
		Title:   config.LayoutName(layoutPath),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running keynav: %v\n", err)
		os.Exit(1)
	}
}

// resolveLayout picks the layout to open: the flag, else the first
// configured or discovered layout.
func resolveLayout(cfg config.Config, flagPath string) (string, error) {
	if flagPath != "" {
		if _, err := os.Stat(flagPath); err != nil {
			return "", fmt.Errorf("layout %s: %w", flagPath, err)
		}
		return flagPath, nil
	}
	layouts := config.DiscoverLayouts(cfg)
	if len(layouts) == 0 {
		return "", fmt.Errorf("%w (looked in %s)", errNoLayout, strings.Join(cfg.Discovery.ScanPaths, ", "))
	}
	return layouts[0].Path, nil
}

func splitKeys(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// dumpNode is the JSON shape of --dump.
type dumpNode struct {
	ID       string      `json:"id"`
	Kind     model.Kind  `json:"kind"`
	Label    string      `json:"label,omitempty"`
	Viewport string      `json:"viewport,omitempty"`
	Region   bool        `json:"region,omitempty"`
	Children []*dumpNode `json:"children,omitempty"`
}

func toDump(n *model.Node) *dumpNode {
	d := &dumpNode{
		ID:       n.ID,
		Kind:     n.Kind,
		Label:    n.Label,
		Viewport: n.ViewportRef,
		Region:   n.Region,
	}
	for _, child := range n.Children {
		d.Children = append(d.Children, toDump(child))
	}
	return d
}

type dumpOutput struct {
	Mode    nav.Mode    `json:"mode"`
	Nodes   int         `json:"nodes"`
	Root    *dumpNode   `json:"root"`
	Regions []*dumpNode `json:"regions,omitempty"`
}

func dumpTree(w io.Writer, src source.Source, opts nav.Options) error {
	doc, err := src.Snapshot()
	if err != nil {
		return err
	}
	tree, err := nav.Build(doc, opts)
	if err != nil {
		return err
	}

	out := dumpOutput{Mode: opts.Mode, Nodes: tree.Len(), Root: toDump(tree.Root)}
	// Regions are not listed as children, so they are dumped separately.
	for _, n := range tree.Registry.Nodes() {
		if n.Region {
			out.Regions = append(out.Regions, toDump(n))
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

// replayKeys drives a controller without a terminal and prints one line per
// key: the key, the cursor id and its focus state.
func replayKeys(w io.Writer, src source.Source, opts nav.Options, keys []string) error {
	opts.AutoRefresh = false
	ctrl, err := nav.New(nav.Config{Source: src, Options: opts})
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "start %s\n", ctrl.Current().ID)
	for _, k := range keys {
		ctrl.HandleKey(k)
		cur := ctrl.Current()
		line := fmt.Sprintf("%-6s %s", k, cur.ID)
		if cur.IsFocused() {
			line += " (focused)"
		}
		if region := ctrl.Region(); region != "" {
			line += " [" + region + "]"
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
