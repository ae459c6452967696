// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jonathan/emission-renderer/internal/types"
)

// Config represents the renderer configuration that can be loaded from a
// JSON or YAML file. All fields are optional; missing values use defaults.
type Config struct {
	// Page geometry
	PageSize      string         `json:"page_size,omitempty" yaml:"page_size,omitempty"`             // A4, A5, Letter or Legal
	Margins       *types.Margins `json:"margins,omitempty" yaml:"margins,omitempty"`                 // millimetres
	Scale         float64        `json:"scale,omitempty" yaml:"scale,omitempty"`                     // device scale factor of the raster
	LabelFontSize float64        `json:"label_font_size,omitempty" yaml:"label_font_size,omitempty"` // page label size in pt

	// Rasterizer
	Engine        string `json:"raster_engine,omitempty" yaml:"raster_engine,omitempty"`   // chromedp or rod
	BrowserPath   string `json:"browser_path,omitempty" yaml:"browser_path,omitempty"`     // Chrome/Chromium binary
	NoSandbox     bool   `json:"no_sandbox,omitempty" yaml:"no_sandbox,omitempty"`         // pass --no-sandbox (containers)
	RenderTimeout string `json:"render_timeout,omitempty" yaml:"render_timeout,omitempty"` // Go duration, e.g. "60s"

	// Content
	Locale        string `json:"locale,omitempty" yaml:"locale,omitempty"`             // pt or en
	SignerName    string `json:"signer_name,omitempty" yaml:"signer_name,omitempty"`   // default signer name
	SignerTitle   string `json:"signer_title,omitempty" yaml:"signer_title,omitempty"` // default signer title
	LogoMaxWidth  int    `json:"logo_max_width,omitempty" yaml:"logo_max_width,omitempty"`
	LogoMaxHeight int    `json:"logo_max_height,omitempty" yaml:"logo_max_height,omitempty"`
	InlineLogo    bool   `json:"inline_logo,omitempty" yaml:"inline_logo,omitempty"` // embed remote logos as data URIs

	// Output and services
	OutputDir   string `json:"output_dir,omitempty" yaml:"output_dir,omitempty"`     // where the CLI writes PDFs
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	Port        int    `json:"port,omitempty" yaml:"port,omitempty"`                 // HTTP port for serve
	Workers     int    `json:"workers,omitempty" yaml:"workers,omitempty"`           // concurrent renders in batches
	Verbose     bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`           // debug logging
}

// Defaults used by MergeWithDefaults when neither the file nor the
// environment sets a value.
const (
	DefaultPageSize      = "A4"
	DefaultScale         = 2.0
	DefaultLabelFontSize = 8.0
	DefaultEngine        = "chromedp"
	DefaultRenderTimeout = "60s"
	DefaultLocale        = "pt"
	DefaultOutputDir     = "out"
	DefaultPort          = 8080
	DefaultWorkers       = 4
)

// Default returns the built-in configuration.
func Default() Config {
	margins := types.DefaultMargins
	return Config{
		PageSize:      DefaultPageSize,
		Margins:       &margins,
		Scale:         DefaultScale,
		LabelFontSize: DefaultLabelFontSize,
		Engine:        DefaultEngine,
		RenderTimeout: DefaultRenderTimeout,
		Locale:        DefaultLocale,
		OutputDir:     DefaultOutputDir,
		Port:          DefaultPort,
		Workers:       DefaultWorkers,
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Environment variables read by ApplyEnv.
const (
	EnvDatabaseURL = "DATABASE_URL"
	EnvLocale      = "RENDER_LOCALE"
	EnvEngine      = "RENDER_ENGINE"
	EnvBrowserPath = "CHROME_PATH"
	EnvOutputDir   = "RENDER_OUTPUT_DIR"
	EnvPort        = "PORT"
	EnvWorkers     = "RENDER_WORKERS"
)

// ApplyEnv overrides fields from the environment. Unparseable numbers are
// reported rather than ignored.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	setString := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	setString(&c.DatabaseURL, EnvDatabaseURL)
	setString(&c.Locale, EnvLocale)
	setString(&c.Engine, EnvEngine)
	setString(&c.BrowserPath, EnvBrowserPath)
	setString(&c.OutputDir, EnvOutputDir)

	setInt := func(dst *int, key string) error {
		v := strings.TrimSpace(getenv(key))
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: %s must be an integer: %w", key, err)
		}
		*dst = n
		return nil
	}
	if err := setInt(&c.Port, EnvPort); err != nil {
		return err
	}
	return setInt(&c.Workers, EnvWorkers)
}

// Validate checks that the configuration has valid values.
// Empty fields are allowed; they are filled by MergeWithDefaults.
func (c *Config) Validate() error {
	if c.PageSize != "" {
		if _, ok := types.LookupPageSize(c.PageSize); !ok {
			return fmt.Errorf("config error: unknown page_size %q", c.PageSize)
		}
	}

	if c.Margins != nil {
		size := types.PageA4
		if s, ok := types.LookupPageSize(c.PageSize); ok {
			size = s
		}
		if err := (types.PageSetup{Size: size, Margins: *c.Margins}).Validate(); err != nil {
			return fmt.Errorf("config error: invalid margins: %w", err)
		}
	}

	// Validate numeric ranges
	if c.Scale < 0 || c.Scale > 4 {
		return fmt.Errorf("config error: 'scale' must be between 0 and 4")
	}
	if c.LabelFontSize < 0 {
		return fmt.Errorf("config error: 'label_font_size' must be non-negative")
	}
	if c.LogoMaxWidth < 0 || c.LogoMaxHeight < 0 {
		return fmt.Errorf("config error: logo size limits must be non-negative")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}

	switch strings.ToLower(c.Engine) {
	case "", "chromedp", "rod":
	default:
		return fmt.Errorf("config error: 'raster_engine' must be chromedp or rod, got %q", c.Engine)
	}

	if c.RenderTimeout != "" {
		d, err := time.ParseDuration(c.RenderTimeout)
		if err != nil {
			return fmt.Errorf("config error: invalid 'render_timeout': %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("config error: 'render_timeout' must be positive")
		}
	}

	if c.BrowserPath != "" {
		if _, err := os.Stat(c.BrowserPath); os.IsNotExist(err) {
			return fmt.Errorf("config error: browser not found: %s", c.BrowserPath)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.PageSize == "" {
		result.PageSize = defaults.PageSize
	}
	if result.Engine == "" {
		result.Engine = defaults.Engine
	}
	if result.BrowserPath == "" {
		result.BrowserPath = defaults.BrowserPath
	}
	if result.RenderTimeout == "" {
		result.RenderTimeout = defaults.RenderTimeout
	}
	if result.Locale == "" {
		result.Locale = defaults.Locale
	}
	if result.SignerName == "" {
		result.SignerName = defaults.SignerName
	}
	if result.SignerTitle == "" {
		result.SignerTitle = defaults.SignerTitle
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Pointer fields: unset means default, an explicit zero margin is kept
	if result.Margins == nil && defaults.Margins != nil {
		m := *defaults.Margins
		result.Margins = &m
	}

	// Numeric fields: use default if zero
	if result.Scale == 0 {
		result.Scale = defaults.Scale
	}
	if result.LabelFontSize == 0 {
		result.LabelFontSize = defaults.LabelFontSize
	}
	if result.LogoMaxWidth == 0 {
		result.LogoMaxWidth = defaults.LogoMaxWidth
	}
	if result.LogoMaxHeight == 0 {
		result.LogoMaxHeight = defaults.LogoMaxHeight
	}
	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// PageSetup returns the page geometry. Unknown sizes fall back to A4.
func (c *Config) PageSetup() types.PageSetup {
	setup := types.DefaultPageSetup()
	if s, ok := types.LookupPageSize(c.PageSize); ok {
		setup.Size = s
	}
	if c.Margins != nil {
		setup.Margins = *c.Margins
	}
	return setup
}

// Timeout returns the parsed render timeout, or zero when unset or invalid.
func (c *Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RenderTimeout)
	if err != nil {
		return 0
	}
	return d
}
