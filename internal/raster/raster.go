package raster

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Rasterization defaults.
const (
	DefaultScale   = 2.0
	DefaultTimeout = 60 * time.Second
)

// Engine names accepted by New.
const (
	EngineChromedp = "chromedp"
	EngineRod      = "rod"
)

// Options controls one rasterization.
type Options struct {
	// ViewportWidth is the layout width in CSS pixels, normally the page
	// content width.
	ViewportWidth int
	// Scale is the device scale factor; the surface is Scale times wider
	// than the viewport.
	Scale   float64
	Timeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Surface is the full rendered document as one PNG image.
type Surface struct {
	PNG    []byte
	Width  int // device pixels
	Height int // device pixels
	Scale  float64
}

// Rasterizer renders an HTML document to a Surface.
// Implementations own their staging file and browser tab for the duration
// of one call and release both before returning.
type Rasterizer interface {
	Rasterize(ctx context.Context, document string, opts Options) (*Surface, error)
	Name() string
}

// Config selects and configures a Rasterizer.
type Config struct {
	Engine      string
	BrowserPath string
	NoSandbox   bool
}

// New returns the rasterizer for an engine name. An empty name selects chromedp.
func New(cfg Config, logger *zap.Logger) (Rasterizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Engine)) {
	case "", EngineChromedp:
		return &Chrome{ExecPath: cfg.BrowserPath, NoSandbox: cfg.NoSandbox, Logger: logger}, nil
	case EngineRod:
		return &Rod{BrowserPath: cfg.BrowserPath, NoSandbox: cfg.NoSandbox, Logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown raster engine %q (want %s or %s)", cfg.Engine, EngineChromedp, EngineRod)
	}
}

// DecodeSurface reads the pixel size of a PNG screenshot.
func DecodeSurface(data []byte, scale float64) (*Surface, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &Surface{PNG: data, Width: cfg.Width, Height: cfg.Height, Scale: scale}, nil
}

// stage writes the document to a temporary HTML file and returns its file://
// URL and a cleanup func that removes it. Cleanup is safe to call more than once.
func stage(document string) (string, func(), error) {
	f, err := os.CreateTemp("", "emission-*.html")
	if err != nil {
		return "", func() {}, err
	}
	path := f.Name()
	cleanup := func() { _ = os.Remove(path) }

	if _, err := f.WriteString(document); err != nil {
		_ = f.Close()
		cleanup()
		return "", func() {}, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", func() {}, err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		cleanup()
		return "", func() {}, err
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), cleanup, nil
}
