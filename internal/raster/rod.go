package raster

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// Rod rasterizes with a browser launched and driven by go-rod.
type Rod struct {
	BrowserPath string // empty lets the launcher find or download a browser
	NoSandbox   bool
	Logger      *zap.Logger
}

// Name implements Rasterizer.
func (r *Rod) Name() string { return EngineRod }

// Rasterize mirrors Chrome.Rasterize on a rod-controlled browser.
func (r *Rod) Rasterize(ctx context.Context, document string, opts Options) (*Surface, error) {
	opts = opts.withDefaults()
	logger := r.logger()
	start := time.Now()

	fileURL, cleanup, err := stage(document)
	defer cleanup()
	if err != nil {
		return nil, &RasterError{Engine: r.Name(), Message: "failed to stage document", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	l := launcher.New().Context(ctx).Headless(true).NoSandbox(r.NoSandbox).Set("disable-gpu")
	if r.BrowserPath != "" {
		l = l.Bin(r.BrowserPath)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, &RasterError{Engine: r.Name(), Message: "failed to launch browser", Cause: err}
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, &RasterError{Engine: r.Name(), Message: "failed to connect to browser", Cause: err}
	}
	defer func() { _ = browser.Close() }()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, &RasterError{Engine: r.Name(), Message: "failed to open tab", Cause: err}
	}
	defer func() { _ = page.Close() }()

	logger.Debug("rasterizing document",
		zap.String("engine", r.Name()),
		zap.Int("viewport_width", opts.ViewportWidth),
		zap.Float64("scale", opts.Scale),
	)

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.ViewportWidth,
		Height:            1,
		DeviceScaleFactor: opts.Scale,
	})
	if err != nil {
		return nil, &RasterError{Engine: r.Name(), Message: "failed to set viewport", Cause: err}
	}
	if err := (proto.EmulationSetEmulatedMedia{Media: "screen"}).Call(page); err != nil {
		return nil, &RasterError{Engine: r.Name(), Message: "failed to emulate screen media", Cause: err}
	}
	if err := page.Navigate(fileURL); err != nil {
		return nil, &RasterError{Engine: r.Name(), Message: "failed to load document", Cause: err}
	}
	if err := page.WaitLoad(); err != nil {
		return nil, &RasterError{Engine: r.Name(), Message: "document did not finish loading", Cause: err}
	}

	buf, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, &RasterError{Engine: r.Name(), Message: "screenshot failed", Cause: err}
	}

	surface, err := DecodeSurface(buf, opts.Scale)
	if err != nil {
		return nil, &RasterError{Engine: r.Name(), Message: "screenshot is not a PNG", Cause: err}
	}

	logger.Debug("document rasterized",
		zap.Int("width_px", surface.Width),
		zap.Int("height_px", surface.Height),
		zap.Duration("elapsed", time.Since(start)),
	)
	return surface, nil
}

func (r *Rod) logger() *zap.Logger {
	if r.Logger == nil {
		return zap.NewNop()
	}
	return r.Logger
}
