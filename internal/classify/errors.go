// Package classify turns a template's variable declarations into the ordered,
// deduplicated field list that drives the emission data-entry form.
package classify

import (
	"fmt"

	"github.com/jonathan/emission-renderer/internal/types"
)

// ClassificationWarning reports a declared variable that could not be placed
// in a specific category. The variable is kept under "other", never dropped.
type ClassificationWarning struct {
	Name    string
	Region  types.Region
	Message string
}

func (w *ClassificationWarning) Error() string {
	return fmt.Sprintf("classification warning: %s (%s): %s", w.Name, w.Region, w.Message)
}
