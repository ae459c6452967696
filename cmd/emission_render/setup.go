package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/emission-renderer/internal/assembly"
	"github.com/jonathan/emission-renderer/internal/config"
	"github.com/jonathan/emission-renderer/internal/fetch"
	"github.com/jonathan/emission-renderer/internal/layout"
	"github.com/jonathan/emission-renderer/internal/pipeline"
	"github.com/jonathan/emission-renderer/internal/raster"
	"github.com/jonathan/emission-renderer/internal/rendering"
	"github.com/jonathan/emission-renderer/internal/variables"
)

// loadConfig layers the config file, then the environment, over the
// built-in defaults and validates the result.
func loadConfig(path string, getenv func(string) string) (config.Config, error) {
	loaded := &config.Config{}
	if path != "" {
		fromFile, err := config.LoadConfig(path)
		if err != nil {
			return config.Config{}, err
		}
		loaded = fromFile
	}
	if err := loaded.ApplyEnv(getenv); err != nil {
		return config.Config{}, err
	}
	if err := loaded.Validate(); err != nil {
		return config.Config{}, err
	}
	return loaded.MergeWithDefaults(config.Default()), nil
}

// engineOptions maps the configuration onto the pipeline.
func engineOptions(c config.Config, log *zap.Logger) pipeline.Options {
	asm := assembly.DefaultOptions()
	asm.Setup = c.PageSetup()
	asm.Lang = c.Locale

	opts := pipeline.Options{
		Context: variables.Options{
			Locale:      c.Locale,
			SignerName:  c.SignerName,
			SignerTitle: c.SignerTitle,
		},
		Assembly: asm,
		Logo: layout.LogoOptions{
			MaxWidth:  c.LogoMaxWidth,
			MaxHeight: c.LogoMaxHeight,
		},
		Logger: log,
	}
	if c.InlineLogo {
		opts.FetchLogo = fetchLogo
	}
	return opts
}

// fetchLogo downloads a remote logo and returns it as a data URI.
func fetchLogo(ctx context.Context, url string) (string, error) {
	asset, err := fetch.Image(ctx, url, nil)
	if err != nil {
		return "", err
	}
	return asset.DataURI(), nil
}

// newPaginator builds the raster paginator for the configured engine.
func newPaginator(c config.Config, log *zap.Logger) (*rendering.RasterPaginator, error) {
	rasterizer, err := raster.New(raster.Config{
		Engine:      c.Engine,
		BrowserPath: c.BrowserPath,
		NoSandbox:   c.NoSandbox,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create rasterizer: %w", err)
	}

	return &rendering.RasterPaginator{
		Rasterizer: rasterizer,
		Setup:      c.PageSetup(),
		Scale:      c.Scale,
		Timeout:    c.Timeout(),
		PDF:        rendering.PDFOptions{LabelFontSize: c.LabelFontSize},
		Logger:     log,
	}, nil
}

// newEngine returns a rendering engine, or a preview-only engine when
// withBrowser is false.
func newEngine(c config.Config, log *zap.Logger, withBrowser bool, onProgress pipeline.ProgressCallback) (*pipeline.Engine, error) {
	opts := engineOptions(c, log)
	opts.OnProgress = onProgress
	if !withBrowser {
		return pipeline.NewEngine(nil, opts), nil
	}
	paginator, err := newPaginator(c, log)
	if err != nil {
		return nil, err
	}
	return pipeline.NewEngine(paginator, opts), nil
}
