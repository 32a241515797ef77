package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"

	"github.com/LFroesch/rove/internal/logger"
)

// Opener maps one file extension to a command and a listing color.
type Opener struct {
	Opener string `toml:"opener"`
	Color  string `toml:"color"`
	// Terminal openers take over the terminal until they exit (editors,
	// pagers). Others are started in the background.
	Terminal bool `toml:"terminal,omitempty"`
}

// Settings are the [settings] table.
type Settings struct {
	ShowHidden     bool     `toml:"show_hidden"`
	Preview        bool     `toml:"preview"`
	Responsive     bool     `toml:"responsive"` // 16ms tick instead of 100ms
	Highlight      bool     `toml:"highlight"`
	HighlightStyle string   `toml:"highlight_style"`
	Pager          []string `toml:"pager"`
	TodoFile       string   `toml:"todo_file"`
}

// Config holds all rove configuration
type Config struct {
	Settings Settings          `toml:"settings"`
	Openers  map[string]Opener `toml:"openers"`

	// Path is the file the config was read from.
	Path string `toml:"-"`
}

// ConfigError reports a configuration that could not be loaded. It is the
// only error that stops rove from starting.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Dir returns ~/.config/rove.
func Dir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		logger.Error("Failed to get home directory: %v", err)
		homeDir = "."
	}
	return filepath.Join(homeDir, ".config", "rove")
}

// DefaultPath returns ~/.config/rove/opener.toml
func DefaultPath() string {
	return filepath.Join(Dir(), "opener.toml")
}

// Default returns the configuration used as a base for every load.
func Default() *Config {
	return &Config{
		Settings: Settings{
			Preview:        true,
			Highlight:      true,
			HighlightStyle: "nord",
			Pager:          []string{"batcat", "bat"},
			TodoFile:       filepath.Join(Dir(), "todos.json"),
		},
		Openers: map[string]Opener{},
	}
}

// Load reads the TOML config at path. A missing or malformed file is a
// *ConfigError. Unknown keys are logged and ignored.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: err}
	}

	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if !errors.As(err, &strict) {
			return nil, &ConfigError{Path: path, Err: describe(err)}
		}
		logger.Warn("Unknown keys in %s:\n%s", path, strict.String())
		cfg = Default()
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, &ConfigError{Path: path, Err: describe(err)}
		}
	}

	if _, ok := decodeRaw(data)["openers"]; !ok {
		return nil, &ConfigError{Path: path, Err: errors.New("missing [openers] table")}
	}

	cfg.Path = path
	cfg.validate()
	return cfg, nil
}

func decodeRaw(data []byte) map[string]any {
	raw := map[string]any{}
	_ = toml.Unmarshal(data, &raw)
	return raw
}

// describe adds the row and column of a TOML syntax error.
func describe(err error) error {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Errorf("line %d column %d: %w", row, col, err)
	}
	return err
}

func (c *Config) validate() {
	if c.Openers == nil {
		c.Openers = map[string]Opener{}
	}

	for ext, o := range c.Openers {
		if strings.HasPrefix(ext, ".") {
			logger.Warn("Opener key %q has a leading dot, using %q", ext, strings.TrimPrefix(ext, "."))
			delete(c.Openers, ext)
			c.Openers[strings.TrimPrefix(ext, ".")] = o
		}
		if o.Color != "" {
			if _, ok := palette[strings.ToLower(o.Color)]; !ok {
				logger.Warn("Unknown color %q for .%s, using white", o.Color, ext)
			}
		}
	}

	pagers := c.Settings.Pager[:0]
	for _, p := range c.Settings.Pager {
		if p = strings.TrimSpace(p); p != "" {
			pagers = append(pagers, p)
		}
	}
	c.Settings.Pager = pagers

	c.Settings.TodoFile = ExpandHome(c.Settings.TodoFile)
	if c.Settings.TodoFile == "" {
		c.Settings.TodoFile = Default().Settings.TodoFile
	}
	if c.Settings.HighlightStyle == "" {
		c.Settings.HighlightStyle = "nord"
	}
}

// Save writes cfg to path as TOML, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logger.Error("Failed to create config directory %s: %v", filepath.Dir(path), err)
		return fmt.Errorf("cannot create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("cannot marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		logger.Error("Failed to write config file %s: %v", path, err)
		return fmt.Errorf("cannot write config file: %w", err)
	}
	return nil
}

// Sample is written by --init-config.
func Sample() *Config {
	cfg := Default()
	cfg.Openers = map[string]Opener{
		"txt": {Opener: "nvim", Color: "green", Terminal: true},
		"md":  {Opener: "nvim", Color: "cyan", Terminal: true},
		"go":  {Opener: "nvim", Color: "lightblue", Terminal: true},
		"pdf": {Opener: "xdg-open", Color: "red"},
		"png": {Opener: "xdg-open", Color: "magenta"},
	}
	return cfg
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(homeDir, strings.TrimPrefix(path, "~"))
}

// Ext returns the extension used for opener lookup: everything after the
// last dot, case preserved. Names without a dot, and dotfiles like
// ".bashrc", have no extension.
func Ext(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return ""
	}
	return strings.TrimPrefix(ext, ".")
}

// Lookup returns the opener configured for name's extension.
func (c *Config) Lookup(name string) (Opener, bool) {
	ext := Ext(name)
	if ext == "" {
		return Opener{}, false
	}
	o, ok := c.Openers[ext]
	return o, ok
}

// Color returns the listing color for name, or nil if its extension is not
// mapped.
func (c *Config) Color(name string) lipgloss.TerminalColor {
	o, ok := c.Lookup(name)
	if !ok {
		return nil
	}
	return ParseColor(o.Color)
}

var palette = map[string]lipgloss.TerminalColor{
	"green":        lipgloss.ANSIColor(2),
	"blue":         lipgloss.ANSIColor(4),
	"red":          lipgloss.ANSIColor(1),
	"cyan":         lipgloss.ANSIColor(6),
	"magenta":      lipgloss.ANSIColor(5),
	"yellow":       lipgloss.ANSIColor(3),
	"orange":       lipgloss.Color("#FFA500"),
	"purple":       lipgloss.Color("#800080"),
	"pink":         lipgloss.Color("#FFC0CB"),
	"brown":        lipgloss.Color("#A52A2A"),
	"gray":         lipgloss.ANSIColor(7),
	"darkgray":     lipgloss.ANSIColor(8),
	"lightblue":    lipgloss.Color("#ADD8E6"),
	"lightgreen":   lipgloss.Color("#90EE90"),
	"lightred":     lipgloss.Color("#FFB6C1"),
	"lightyellow":  lipgloss.Color("#FFFFE0"),
	"lightcyan":    lipgloss.Color("#E0FFFF"),
	"lightmagenta": lipgloss.Color("#FFE0FF"),
	"lightorange":  lipgloss.Color("#FFC896"),
}

// White is used for mapped extensions with an unknown color name.
var White lipgloss.TerminalColor = lipgloss.ANSIColor(15)

// ParseColor maps a palette name to a terminal color.
func ParseColor(name string) lipgloss.TerminalColor {
	if c, ok := palette[strings.ToLower(name)]; ok {
		return c
	}
	return White
}
