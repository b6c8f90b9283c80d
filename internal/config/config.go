// Package config loads the shortcuts configuration file.
//
// The file is HCL:
//
//	profile_dir     = "/home/kodi/.kodi/userdata"
//	install_dir     = "/usr/share/kodi"
//	skin_dir        = "/home/kodi/.kodi/addons/skin.estuary/shortcuts"
//	library_content = ["movies", "tvshows"]
//
//	requirement "widgetName" {
//	  requires = "widget"
//	}
//
// Every setting is optional. Unset paths are derived from profile_dir.
//
// Visibility conditions are only evaluated once library_content or addons
// is set. Until then every view is shown, or hidden when condition_default
// is false. condition_default also decides predicates the evaluator does
// not know and defaults to true.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentic-research/shortcuts/api"
	"github.com/agentic-research/shortcuts/internal/condition"
	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

const (
	AddonID         = "script.skinshortcuts"
	DefaultRPC      = "http://localhost:8080/jsonrpc"
	DefaultInstall  = "/usr/share/kodi"
	DefaultLogLevel = "info"
)

// Requirement is a requirement block.
type Requirement struct {
	Property string `hcl:"property,label"`
	Requires string `hcl:"requires"`
}

// Config is the decoded configuration.
type Config struct {
	ProfileDir       string        `hcl:"profile_dir,optional"`
	InstallDir       string        `hcl:"install_dir,optional"`
	DataDir          string        `hcl:"data_dir,optional"`
	SkinDir          string        `hcl:"skin_dir,optional"`
	Database         string        `hcl:"database,optional"`
	ControlFile      string        `hcl:"control_file,optional"`
	RPCEndpoint      string        `hcl:"rpc_endpoint,optional"`
	LogLevel         string        `hcl:"log_level,optional"`
	LibraryContent   []string      `hcl:"library_content,optional"`
	Addons           []string      `hcl:"addons,optional"`
	ConditionDefault *bool         `hcl:"condition_default,optional"`
	Requirements     []Requirement `hcl:"requirement,block"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	c := &Config{}
	c.fill()
	return c
}

func (c *Config) fill() {
	if c.ProfileDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		c.ProfileDir = filepath.Join(home, ".kodi", "userdata")
	}
	if c.InstallDir == "" {
		c.InstallDir = DefaultInstall
	}
	if c.DataDir == "" {
		c.DataDir = filepath.Join(c.ProfileDir, "addon_data", AddonID)
	}
	if c.Database == "" {
		c.Database = filepath.Join(c.DataDir, "properties.db")
	}
	if c.ControlFile == "" {
		c.ControlFile = filepath.Join(c.DataDir, "reload.ctl")
	}
	if c.RPCEndpoint == "" {
		c.RPCEndpoint = DefaultRPC
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.ConditionDefault == nil {
		show := true
		c.ConditionDefault = &show
	}
}

// Load decodes path. An empty path or a missing file yields Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	var c Config
	if err := hclsimple.DecodeFile(path, nil, &c); err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	c.fill()
	return &c, nil
}

// DefaultPath is $XDG_CONFIG_HOME/shortcuts/config.hcl or its home
// directory equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "shortcuts", "config.hcl")
}

// UserLibrary is the user-custom view hierarchy.
func (c *Config) UserLibrary() string {
	return filepath.Join(c.ProfileDir, "library")
}

// SystemLibrary is the system-default view hierarchy.
func (c *Config) SystemLibrary() string {
	return filepath.Join(c.InstallDir, "system", "library")
}

// PropertyRequirements returns the requirement blocks in file order.
func (c *Config) PropertyRequirements() []api.Requirement {
	out := make([]api.Requirement, 0, len(c.Requirements))
	for _, r := range c.Requirements {
		out = append(out, api.Requirement{Property: r.Property, Requires: r.Requires})
	}
	return out
}

// Evaluator builds the visibility evaluator from library_content and addons.
func (c *Config) Evaluator() condition.Evaluator {
	dflt := c.ConditionDefault == nil || *c.ConditionDefault
	if c.LibraryContent == nil && c.Addons == nil {
		return condition.Constant(dflt)
	}
	return condition.NewLibrary(c.LibraryContent, c.Addons, dflt)
}

// Logger builds the process logger writing to w.
func (c *Config) Logger(w io.Writer) (*log.Logger, error) {
	level, err := log.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "shortcuts",
		Level:  level,
	}), nil
}
