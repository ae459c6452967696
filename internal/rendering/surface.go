package rendering

import (
	"fmt"

	"github.com/jonathan/emission-renderer/internal/raster"
)

// Minimum surface size, in device pixels, accepted for pagination.
// Anything smaller means the browser produced no real layout.
const (
	MinSurfaceWidth  = 16
	MinSurfaceHeight = 16
)

// CheckSurface rejects missing or implausibly small surfaces.
func CheckSurface(s *raster.Surface) error {
	if s == nil || len(s.PNG) == 0 {
		return &RenderError{Message: "rasterizer returned no image"}
	}
	if s.Width < MinSurfaceWidth || s.Height < MinSurfaceHeight {
		return &RenderError{Message: fmt.Sprintf("implausible surface size %dx%d px", s.Width, s.Height)}
	}
	return nil
}

// SurfaceHeight converts the surface height to millimetres, given that the
// surface width spans contentWidth millimetres.
func SurfaceHeight(s *raster.Surface, contentWidth float64) float64 {
	return float64(s.Height) * contentWidth / float64(s.Width)
}
