// Package config loads keynav settings from .keynav/config.yaml and
// KEYNAV_ environment variables, and discovers layout files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vanderheijden86/keynav/pkg/model"
	"github.com/vanderheijden86/keynav/pkg/nav"
	"github.com/vanderheijden86/keynav/pkg/watcher"
)

const (
	// DirName is the per-project settings directory.
	DirName = ".keynav"
	// EnvConfig overrides the config file location.
	EnvConfig = "KEYNAV_CONFIG"
	// DefaultMaxDepth bounds layout discovery.
	DefaultMaxDepth = 3
)

// Config holds application configuration.
type Config struct {
	Mode             string              `mapstructure:"mode"`
	InitialItem      string              `mapstructure:"initial_item"`
	ViewportSelector string              `mapstructure:"viewport_selector"`
	VendorSelector   string              `mapstructure:"vendor_selector"`
	ContainerClass   string              `mapstructure:"container_class"`
	AutoClass        string              `mapstructure:"auto_class"`
	AutoRefresh      bool                `mapstructure:"auto_refresh"`
	Debounce         time.Duration       `mapstructure:"debounce"`
	Layout           string              `mapstructure:"layout"`
	Keys             map[string][]string `mapstructure:"keys"` // intent → keys, replaces the default table
	Discovery        DiscoveryConfig     `mapstructure:"discovery"`

	// File is the config file that was read, if any
	File string `mapstructure:"-"`
}

// DiscoveryConfig controls layout file discovery.
type DiscoveryConfig struct {
	ScanPaths []string `mapstructure:"scan_paths"`
	MaxDepth  int      `mapstructure:"max_depth"`
}

// Load reads configuration for the project containing dir. The config file
// is $KEYNAV_CONFIG when set, else .keynav/config.yaml in the nearest
// ancestor holding a .keynav/ directory. A missing file is not an error.
// Environment overrides use the KEYNAV_ prefix (KEYNAV_MODE, KEYNAV_LAYOUT).
func Load(dir string) (Config, error) {
	v := viper.New()

	v.SetDefault("mode", string(nav.ModeStandard))
	v.SetDefault("initial_item", "")
	v.SetDefault("viewport_selector", nav.DefaultViewportSelector)
	v.SetDefault("vendor_selector", nav.DefaultVendorSelector)
	v.SetDefault("container_class", nav.DefaultContainerClass)
	v.SetDefault("auto_class", nav.DefaultAutoClass)
	v.SetDefault("auto_refresh", true)
	v.SetDefault("debounce", watcher.DefaultDebounce)
	v.SetDefault("layout", "")
	v.SetDefault("discovery.max_depth", DefaultMaxDepth)

	v.SetConfigType("yaml")
	cfgPath := os.Getenv(EnvConfig)
	base := dir
	if cfgPath == "" {
		if root, ok := findProjectRoot(dir); ok {
			candidate := filepath.Join(root, DirName, "config.yaml")
			if _, err := os.Stat(candidate); err == nil {
				cfgPath = candidate
			}
			base = root
		}
	} else {
		base = filepath.Dir(filepath.Dir(cfgPath))
	}

	v.SetEnvPrefix("KEYNAV")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", cfgPath, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.File = cfgPath

	if c.Layout != "" {
		c.Layout = resolvePath(base, c.Layout)
	}
	if len(c.Discovery.ScanPaths) == 0 {
		c.Discovery.ScanPaths = []string{base}
	}
	for i, p := range c.Discovery.ScanPaths {
		c.Discovery.ScanPaths[i] = resolvePath(base, p)
	}
	return c, c.Validate()
}

func resolvePath(base, p string) string {
	p = expandHome(p)
	if filepath.IsAbs(p) || base == "" {
		return p
	}
	return filepath.Join(base, p)
}

// Validate checks the fields that nav would otherwise reject late.
func (c Config) Validate() error {
	if _, err := nav.ParseMode(c.Mode); err != nil {
		return err
	}
	if c.Debounce < 0 {
		return fmt.Errorf("debounce must not be negative, got %v", c.Debounce)
	}
	if len(c.Keys) > 0 {
		if _, err := c.keyMap(); err != nil {
			return err
		}
	}
	return nil
}

func (c Config) keyMap() (nav.KeyMap, error) {
	bindings := make(map[model.Intent][]string, len(c.Keys))
	for intent, keys := range c.Keys {
		bindings[model.Intent(strings.ToLower(intent))] = keys
	}
	return nav.KeyMapFromBindings(bindings)
}

// NavOptions converts the config into controller options.
func (c Config) NavOptions() (nav.Options, error) {
	mode, err := nav.ParseMode(c.Mode)
	if err != nil {
		return nav.Options{}, err
	}
	opts := nav.DefaultOptions()
	opts.Mode = mode
	opts.InitialItem = c.InitialItem
	opts.AutoRefresh = c.AutoRefresh
	if c.ViewportSelector != "" {
		opts.ViewportSelector = c.ViewportSelector
	}
	if c.VendorSelector != "" {
		opts.VendorSelector = c.VendorSelector
	}
	if c.ContainerClass != "" {
		opts.ContainerClass = c.ContainerClass
	}
	if c.AutoClass != "" {
		opts.AutoClass = c.AutoClass
	}
	if len(c.Keys) > 0 {
		km, err := c.keyMap()
		if err != nil {
			return nav.Options{}, err
		}
		opts.Keys = km
	}
	return opts, nil
}
