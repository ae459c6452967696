// Package layout injects presentational elements into filled template fragments.
package layout

import "fmt"

// ParseError represents a fragment that could not be parsed as HTML.
// InjectLogo never returns it; HasLogoSlot reports it for diagnostics.
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("layout parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("layout parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
