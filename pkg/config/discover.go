package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Layout is a layout file found on disk or named in config.
type Layout struct {
	Name string
	Path string
}

// DiscoverLayouts returns the configured layout followed by layout files
// found under the discovery scan paths. Paths are deduplicated.
func DiscoverLayouts(cfg Config) []Layout {
	seen := make(map[string]bool)
	var result []Layout

	if cfg.Layout != "" {
		p := filepath.Clean(cfg.Layout)
		seen[p] = true
		result = append(result, Layout{Name: LayoutName(p), Path: p})
	}

	maxDepth := cfg.Discovery.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	for _, scanPath := range cfg.Discovery.ScanPaths {
		for _, f := range scanForLayouts(scanPath, maxDepth) {
			if !seen[f] {
				seen[f] = true
				result = append(result, Layout{Name: LayoutName(f), Path: f})
			}
		}
	}
	return result
}

// IsLayoutFile reports whether name looks like a layout document.
func IsLayoutFile(name string) bool {
	name = strings.ToLower(name)
	for _, ext := range []string{".layout.yaml", ".layout.yml", ".layout.json"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// LayoutName strips the directory and layout suffix: "a/b/app.layout.yaml"
// becomes "app".
func LayoutName(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(strings.ToLower(base), ".layout."); i > 0 {
		return base[:i]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// scanForLayouts walks a directory tree up to maxDepth levels deep, looking
// for layout files. Hidden directories are skipped.
func scanForLayouts(root string, maxDepth int) []string {
	root = expandHome(root)
	var results []string

	rootDepth := strings.Count(filepath.Clean(root), string(filepath.Separator))

	_ = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return filepath.SkipDir
		}
		currentDepth := strings.Count(filepath.Clean(path), string(filepath.Separator)) - rootDepth

		if d.IsDir() {
			if currentDepth > maxDepth {
				return filepath.SkipDir
			}
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if IsLayoutFile(d.Name()) {
			results = append(results, filepath.Clean(path))
		}
		return nil
	})

	return results
}

// DetectProjectRoot finds the nearest directory at or above the working
// directory that holds a .keynav/ directory.
func DetectProjectRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	return findProjectRoot(dir)
}

// findProjectRoot walks up from dir looking for a .keynav/ directory.
func findProjectRoot(dir string) (string, bool) {
	home, _ := os.UserHomeDir()

	for {
		if info, err := os.Stat(filepath.Join(dir, DirName)); err == nil && info.IsDir() {
			return dir, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // Reached filesystem root
		}
		// Don't go above home directory
		if home != "" && dir == home {
			break
		}
		dir = parent
	}
	return "", false
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
