package types

import (
	"github.com/google/uuid"
)

// EmissionStatus tracks the lifecycle of an emission.
type EmissionStatus string

// Emission lifecycle states.
const (
	StatusDraft  EmissionStatus = "draft"
	StatusIssued EmissionStatus = "issued"
)

// Emission is a record being produced from a TemplateDocument.
type Emission struct {
	ID             uuid.UUID      `json:"id,omitempty" yaml:"id,omitempty"`
	TemplateID     uuid.UUID      `json:"template_id,omitempty" yaml:"template_id,omitempty"`
	Subject        string         `json:"subject,omitempty" yaml:"subject,omitempty" validate:"max=500"`
	EmissionNumber string         `json:"emission_number,omitempty" yaml:"emission_number,omitempty" validate:"max=64"`
	EmissionDate   string         `json:"emission_date,omitempty" yaml:"emission_date,omitempty"` // ISO date; free text is kept verbatim
	RecipientData  DataBag        `json:"recipient_data,omitempty" yaml:"recipient_data,omitempty"`
	CustomData     DataBag        `json:"custom_data,omitempty" yaml:"custom_data,omitempty"`
	Status         EmissionStatus `json:"status,omitempty" yaml:"status,omitempty" validate:"omitempty,oneof=draft issued"`
}

// IsEditable reports whether the emission may still be modified.
// An empty status is treated as draft.
func (e *Emission) IsEditable() bool {
	return e.Status == "" || e.Status == StatusDraft
}

// Bag returns the data bag backing a target section.
func (e *Emission) Bag(section Section) DataBag {
	if e == nil {
		return nil
	}
	switch section {
	case SectionRecipient:
		return e.RecipientData
	case SectionCustom:
		return e.CustomData
	default:
		return nil
	}
}

// Validate validates the Emission using the validator.
func (e *Emission) Validate() error {
	return newValidator().Struct(e)
}
