// Package raster turns an assembled HTML document into a single image surface
// using a headless browser.
package raster

import "fmt"

// RasterError represents a failure to produce a surface.
type RasterError struct {
	Engine  string
	Message string
	Cause   error
}

func (e *RasterError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("raster error (%s): %s: %v", e.Engine, e.Message, e.Cause)
	}
	return fmt.Sprintf("raster error (%s): %s", e.Engine, e.Message)
}

func (e *RasterError) Unwrap() error {
	return e.Cause
}
