package db

import (
	"fmt"

	"github.com/google/uuid"
)

// NotFoundError is returned by writes that target a missing row.
// Reads return nil, nil instead.
type NotFoundError struct {
	Kind string
	ID   uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// LifecycleError is returned when a write is not allowed in the emission's
// current status, e.g. editing or re-rendering an issued emission.
type LifecycleError struct {
	EmissionID uuid.UUID
	Status     string
	Message    string
}

func (e *LifecycleError) Error() string {
	return fmt.Sprintf("emission %s is %s: %s", e.EmissionID, e.Status, e.Message)
}
