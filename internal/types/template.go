// Package types provides type definitions for the templates, emissions and
// render artifacts shared across the emission renderer.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Region identifies one of the three template fragments.
type Region string

// Template regions, in document order.
const (
	RegionHeader Region = "header"
	RegionBody   Region = "body"
	RegionFooter Region = "footer"
)

// Regions returns the template regions in document order.
func Regions() []Region {
	return []Region{RegionHeader, RegionBody, RegionFooter}
}

// identifierPattern matches the characters allowed inside a placeholder name.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// VariableDeclaration describes one variable a template expects.
// Required is authoritative: it is always read from here, never inferred.
type VariableDeclaration struct {
	Name         string `json:"name" yaml:"name" validate:"required,identifier"`
	TypeHint     string `json:"type,omitempty" yaml:"type,omitempty"`
	Required     bool   `json:"required" yaml:"required"`
	DefaultValue string `json:"default_value,omitempty" yaml:"default_value,omitempty"`
	Label        string `json:"label,omitempty" yaml:"label,omitempty"`
	Description  string `json:"description,omitempty" yaml:"description,omitempty"`
}

// VariableDeclarations partitions declarations by template region.
type VariableDeclarations struct {
	Header []VariableDeclaration `json:"header,omitempty" yaml:"header,omitempty" validate:"dive"`
	Body   []VariableDeclaration `json:"body,omitempty" yaml:"body,omitempty" validate:"dive"`
	Footer []VariableDeclaration `json:"footer,omitempty" yaml:"footer,omitempty" validate:"dive"`
}

// InRegion returns the declarations of a single region.
func (v VariableDeclarations) InRegion(r Region) []VariableDeclaration {
	switch r {
	case RegionHeader:
		return v.Header
	case RegionBody:
		return v.Body
	case RegionFooter:
		return v.Footer
	default:
		return nil
	}
}

// Len returns the total number of declarations across all regions.
func (v VariableDeclarations) Len() int {
	return len(v.Header) + len(v.Body) + len(v.Footer)
}

// TemplateDocument is the immutable definition an emission is rendered against.
type TemplateDocument struct {
	ID             uuid.UUID            `json:"id,omitempty" yaml:"id,omitempty"`
	Code           string               `json:"code,omitempty" yaml:"code,omitempty" validate:"max=64"`
	Version        string               `json:"version,omitempty" yaml:"version,omitempty" validate:"max=32"`
	HeaderFragment string               `json:"header,omitempty" yaml:"header,omitempty"`
	BodyFragment   string               `json:"body" yaml:"body"`
	FooterFragment string               `json:"footer,omitempty" yaml:"footer,omitempty"`
	LogoReference  string               `json:"logo,omitempty" yaml:"logo,omitempty" validate:"omitempty,uri"`
	Variables      VariableDeclarations `json:"variables" yaml:"variables"`
}

// Fragment returns the raw fragment of a region.
func (t *TemplateDocument) Fragment(r Region) string {
	switch r {
	case RegionHeader:
		return t.HeaderFragment
	case RegionBody:
		return t.BodyFragment
	case RegionFooter:
		return t.FooterFragment
	default:
		return ""
	}
}

// HasBody reports whether the template carries a non-blank body fragment.
func (t *TemplateDocument) HasBody() bool {
	return t != nil && strings.TrimSpace(t.BodyFragment) != ""
}

// Validate validates the TemplateDocument using the validator.
// A missing body is not reported here; rendering raises MissingTemplateError for it.
func (t *TemplateDocument) Validate() error {
	return newValidator().Struct(t)
}

// newValidator returns a validator with the placeholder identifier rule registered.
func newValidator() *validator.Validate {
	validate := validator.New()
	_ = validate.RegisterValidation("identifier", func(fl validator.FieldLevel) bool {
		return identifierPattern.MatchString(fl.Field().String())
	})
	return validate
}
