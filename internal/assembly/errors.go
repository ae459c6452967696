// Package assembly combines filled template fragments into a printable HTML document.
package assembly

import "fmt"

// RenderError represents a document that cannot be assembled.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// ErrEmptyBodyMessage is the message of the RenderError returned for a blank body.
const ErrEmptyBodyMessage = "empty body"
