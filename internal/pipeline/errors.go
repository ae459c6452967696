// Package pipeline orchestrates rendering an emission against its template:
// context building, placeholder filling, logo injection, assembly and
// pagination.
package pipeline

import "fmt"

// MissingTemplateError is returned before any rendering when the template,
// or its body fragment, is absent.
type MissingTemplateError struct {
	Message string
	Cause   error
}

func (e *MissingTemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("missing template: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("missing template: %s", e.Message)
}

func (e *MissingTemplateError) Unwrap() error {
	return e.Cause
}
