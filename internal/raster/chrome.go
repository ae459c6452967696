package raster

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// Chrome rasterizes with headless Chrome driven by chromedp.
type Chrome struct {
	ExecPath  string // empty uses chromedp's lookup
	NoSandbox bool
	Logger    *zap.Logger
}

// Name implements Rasterizer.
func (c *Chrome) Name() string { return EngineChromedp }

// Rasterize loads the staged document at the viewport width and takes a
// full-page PNG screenshot at the configured scale.
func (c *Chrome) Rasterize(ctx context.Context, document string, opts Options) (*Surface, error) {
	opts = opts.withDefaults()
	logger := c.logger()
	start := time.Now()

	fileURL, cleanup, err := stage(document)
	defer cleanup()
	if err != nil {
		return nil, &RasterError{Engine: c.Name(), Message: "failed to stage document", Cause: err}
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
	)
	if c.NoSandbox {
		allocOpts = append(allocOpts, chromedp.NoSandbox)
	}
	if c.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	tabCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	tabCtx, cancel = context.WithTimeout(tabCtx, opts.Timeout)
	defer cancel()

	logger.Debug("rasterizing document",
		zap.String("engine", c.Name()),
		zap.Int("viewport_width", opts.ViewportWidth),
		zap.Float64("scale", opts.Scale),
	)

	var buf []byte
	err = chromedp.Run(tabCtx,
		chromedp.EmulateViewport(int64(opts.ViewportWidth), 1, chromedp.EmulateScale(opts.Scale)),
		// screen media keeps the footer in flow at the end of the document
		emulation.SetEmulatedMedia().WithMedia("screen"),
		chromedp.Navigate(fileURL),
		chromedp.WaitReady("body"),
		chromedp.FullScreenshot(&buf, 100),
	)
	if err != nil {
		return nil, &RasterError{Engine: c.Name(), Message: "browser rendering failed", Cause: err}
	}

	surface, err := DecodeSurface(buf, opts.Scale)
	if err != nil {
		return nil, &RasterError{Engine: c.Name(), Message: "screenshot is not a PNG", Cause: err}
	}

	logger.Debug("document rasterized",
		zap.Int("width_px", surface.Width),
		zap.Int("height_px", surface.Height),
		zap.Duration("elapsed", time.Since(start)),
	)
	return surface, nil
}

func (c *Chrome) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}
