package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonathan/emission-renderer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_ValidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{
		"page_size": "Letter",
		"margins": {"top": 20, "right": 15, "bottom": 25, "left": 15},
		"raster_engine": "rod",
		"locale": "en",
		"workers": 8,
		"verbose": true
	}`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "Letter", cfg.PageSize)
	require.NotNil(t, cfg.Margins)
	assert.Equal(t, types.Margins{Top: 20, Right: 15, Bottom: 25, Left: 15}, *cfg.Margins)
	assert.Equal(t, "rod", cfg.Engine)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, 8, cfg.Workers)
	assert.True(t, cfg.Verbose)
}

func TestLoadConfig_ValidYAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
page_size: A5
scale: 1.5
render_timeout: 90s
signer_name: A Vereadora
margins:
  top: 8
  right: 8
  bottom: 12
  left: 8
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "A5", cfg.PageSize)
	assert.Equal(t, 1.5, cfg.Scale)
	assert.Equal(t, 90*time.Second, cfg.Timeout())
	assert.Equal(t, "A Vereadora", cfg.SignerName)
	assert.Equal(t, 12.0, cfg.Margins.Bottom)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	path := writeFile(t, "config.json", `{ invalid json }`)

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	path := writeFile(t, "config.yml", "page_size: [unclosed")

	cfg, err := LoadConfig(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config YAML")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvDatabaseURL: "postgres://localhost/emissions",
		EnvLocale:      "en",
		EnvEngine:      "rod",
		EnvPort:        "9090",
		EnvWorkers:     " 3 ",
	}
	cfg := &Config{Locale: "pt", Port: 8080}

	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, "postgres://localhost/emissions", cfg.DatabaseURL)
	assert.Equal(t, "en", cfg.Locale)
	assert.Equal(t, "rod", cfg.Engine)
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 3, cfg.Workers)
	assert.Empty(t, cfg.BrowserPath)
}

func TestApplyEnv_BadNumber(t *testing.T) {
	cfg := &Config{}
	err := cfg.ApplyEnv(func(k string) string {
		if k == EnvPort {
			return "eighty"
		}
		return ""
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvPort)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty is valid", cfg: Config{}},
		{name: "defaults are valid", cfg: Default()},
		{name: "unknown page size", cfg: Config{PageSize: "B5"}, wantErr: "unknown page_size"},
		{name: "negative margin", cfg: Config{Margins: &types.Margins{Top: -1}}, wantErr: "invalid margins"},
		{name: "margins swallow page", cfg: Config{PageSize: "A5", Margins: &types.Margins{Left: 80, Right: 80}}, wantErr: "invalid margins"},
		{name: "scale too large", cfg: Config{Scale: 8}, wantErr: "'scale'"},
		{name: "negative workers", cfg: Config{Workers: -2}, wantErr: "'workers'"},
		{name: "bad port", cfg: Config{Port: 70000}, wantErr: "'port'"},
		{name: "bad engine", cfg: Config{Engine: "wkhtmltopdf"}, wantErr: "'raster_engine'"},
		{name: "bad timeout", cfg: Config{RenderTimeout: "soon"}, wantErr: "'render_timeout'"},
		{name: "negative timeout", cfg: Config{RenderTimeout: "-5s"}, wantErr: "must be positive"},
		{name: "missing browser", cfg: Config{BrowserPath: "/nonexistent/chrome"}, wantErr: "browser not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	zero := types.Margins{}
	cfg := Config{
		PageSize: "Letter",
		Margins:  &zero,
		Workers:  1,
	}

	merged := cfg.MergeWithDefaults(Default())

	assert.Equal(t, "Letter", merged.PageSize)
	assert.Equal(t, types.Margins{}, *merged.Margins, "explicit zero margins are kept")
	assert.Equal(t, 1, merged.Workers)
	assert.Equal(t, DefaultScale, merged.Scale)
	assert.Equal(t, DefaultEngine, merged.Engine)
	assert.Equal(t, DefaultLocale, merged.Locale)
	assert.Equal(t, DefaultPort, merged.Port)
	assert.Equal(t, 60*time.Second, merged.Timeout())

	// original untouched
	assert.Equal(t, 0.0, cfg.Scale)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := Config{Locale: "en"}
	merged := cfg.MergeWithDefaults(Config{})

	assert.Equal(t, "en", merged.Locale)
	assert.Nil(t, merged.Margins)
	assert.Equal(t, types.DefaultPageSetup(), merged.PageSetup())
	assert.Equal(t, time.Duration(0), merged.Timeout())
}

func TestMergeWithDefaults_DoesNotAliasDefaultMargins(t *testing.T) {
	defaults := Default()
	merged := (&Config{}).MergeWithDefaults(defaults)
	merged.Margins.Top = 99

	assert.Equal(t, types.DefaultMargins.Top, defaults.Margins.Top)
}

func TestPageSetup(t *testing.T) {
	cfg := Config{PageSize: "letter", Margins: &types.Margins{Top: 5, Right: 5, Bottom: 5, Left: 5}}
	setup := cfg.PageSetup()

	assert.Equal(t, types.PageLetter, setup.Size)
	assert.InDelta(t, 205.9, setup.ContentWidth(), 1e-9)
}
