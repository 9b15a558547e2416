// Package config loads widgetdemo settings from a YAML file, a .env file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// FileName is the config file looked up in the working directory when
	// no path is given.
	FileName = "widgetdemo.yaml"

	DefaultAddr = ":8080"

	EnvAddr = "WIDGETDEMO_ADDR"
	EnvPort = "PORT"
	EnvDev  = "WIDGETDEMO_DEV"
)

// Panel names in page order.
var Panels = []string{"basics", "layout", "data", "charts", "interactive", "styling", "guide"}

// Progress configures the progress simulation.
type Progress struct {
	Steps    int           `yaml:"steps"`
	Interval time.Duration `yaml:"interval"`
}

// Upload configures the file uploader.
type Upload struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

// Charts configures chart rendering.
type Charts struct {
	// Disabled lists chart kinds whose renderer is not registered.
	Disabled []string `yaml:"disabled,omitempty"`
}

// Theme holds the page colours and font.
type Theme struct {
	PrimaryColor             string `yaml:"primary_color"`
	BackgroundColor          string `yaml:"background_color"`
	SecondaryBackgroundColor string `yaml:"secondary_background_color"`
	TextColor                string `yaml:"text_color"`
	Font                     string `yaml:"font"`
}

// Config represents the widgetdemo configuration
type Config struct {
	Addr              string   `yaml:"addr"`
	DevMode           bool     `yaml:"dev_mode"`
	WebSocketDisabled bool     `yaml:"websocket_disabled"`
	Progress          Progress `yaml:"progress"`
	Upload            Upload   `yaml:"upload"`
	Charts            Charts   `yaml:"charts"`
	ExpandedPanels    []string `yaml:"expanded_panels"`
	Theme             Theme    `yaml:"theme"`

	// ActionsPerSecond limits actions per connection. Zero disables the limit.
	ActionsPerSecond float64 `yaml:"actions_per_second"`

	// SessionTTL is how long an idle HTTP session keeps its widget state.
	SessionTTL time.Duration `yaml:"session_ttl"`
}

// DefaultTheme returns the light theme.
func DefaultTheme() Theme {
	return Theme{
		PrimaryColor:             "#F63366",
		BackgroundColor:          "#FFFFFF",
		SecondaryBackgroundColor: "#F0F2F6",
		TextColor:                "#262730",
		Font:                     "sans serif",
	}
}

// DarkTheme returns the dark variant used by the theme toggle.
func DarkTheme() Theme {
	return Theme{
		PrimaryColor:             "#FF4B4B",
		BackgroundColor:          "#0E1117",
		SecondaryBackgroundColor: "#262730",
		TextColor:                "#FAFAFA",
		Font:                     "sans serif",
	}
}

// DefaultConfig returns a new Config with default values
func DefaultConfig() *Config {
	return &Config{
		Addr: DefaultAddr,
		Progress: Progress{
			Steps:    100,
			Interval: 20 * time.Millisecond,
		},
		Upload: Upload{
			MaxBytes: 5 << 20,
		},
		ExpandedPanels:   []string{"basics"},
		Theme:            DefaultTheme(),
		ActionsPerSecond: 50,
		SessionTTL:       24 * time.Hour,
	}
}

// Load reads the config at path, then applies .env and environment
// overrides. An empty path means FileName in the working directory; a
// missing file there is not an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadDotEnv sets variables from a .env file without overriding ones that
// are already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// ApplyEnv applies WIDGETDEMO_ADDR, PORT and WIDGETDEMO_DEV. WIDGETDEMO_ADDR
// wins over PORT.
func (c *Config) ApplyEnv() error {
	if port := os.Getenv(EnvPort); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvPort, port, err)
		}
		c.Addr = ":" + port
	}
	if addr := os.Getenv(EnvAddr); addr != "" {
		c.Addr = addr
	}
	if dev := os.Getenv(EnvDev); dev != "" {
		v, err := strconv.ParseBool(dev)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", EnvDev, dev, err)
		}
		c.DevMode = v
	}
	return nil
}

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.Progress.Steps <= 0 {
		return fmt.Errorf("progress.steps must be positive, got %d", c.Progress.Steps)
	}
	if c.Progress.Interval < 0 {
		return fmt.Errorf("progress.interval must not be negative, got %v", c.Progress.Interval)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive, got %d", c.Upload.MaxBytes)
	}
	if c.ActionsPerSecond < 0 {
		return fmt.Errorf("actions_per_second must not be negative, got %v", c.ActionsPerSecond)
	}
	if c.SessionTTL < 0 {
		return fmt.Errorf("session_ttl must not be negative, got %v", c.SessionTTL)
	}

	for _, kind := range c.Charts.Disabled {
		switch kind {
		case "line", "bar", "area", "scatter":
		default:
			return fmt.Errorf("charts.disabled: unknown chart kind %q", kind)
		}
	}

	for _, name := range c.ExpandedPanels {
		if !IsPanel(name) {
			return fmt.Errorf("expanded_panels: unknown panel %q", name)
		}
	}

	colors := map[string]string{
		"theme.primary_color":              c.Theme.PrimaryColor,
		"theme.background_color":           c.Theme.BackgroundColor,
		"theme.secondary_background_color": c.Theme.SecondaryBackgroundColor,
		"theme.text_color":                 c.Theme.TextColor,
	}
	for key, value := range colors {
		if value != "" && !hexColor.MatchString(value) {
			return fmt.Errorf("%s: %q is not a hex colour", key, value)
		}
	}
	return nil
}

// IsPanel reports whether name is a known panel.
func IsPanel(name string) bool {
	for _, p := range Panels {
		if p == name {
			return true
		}
	}
	return false
}

// Expanded reports whether a panel starts expanded.
func (c *Config) Expanded(name string) bool {
	for _, p := range c.ExpandedPanels {
		if strings.EqualFold(p, name) {
			return true
		}
	}
	return false
}

// ChartDisabled reports whether a chart kind is switched off.
func (c *Config) ChartDisabled(kind string) bool {
	for _, k := range c.Charts.Disabled {
		if k == kind {
			return true
		}
	}
	return false
}

// Save writes the configuration to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Init writes a default config to path unless a file already exists there.
func Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}
	return Save(path, DefaultConfig())
}

// themeFile is the shape of the theme snippet shown on the styling panel.
type themeFile struct {
	Theme Theme `yaml:"theme"`
}

// ThemeYAML renders t as a config snippet.
func ThemeYAML(t Theme) (string, error) {
	data, err := yaml.Marshal(themeFile{Theme: t})
	if err != nil {
		return "", fmt.Errorf("failed to marshal theme: %w", err)
	}
	return string(data), nil
}
