package types

// Section names the emission data bag a form field writes into.
type Section string

// Target sections.
const (
	SectionRecipient Section = "recipient_data"
	SectionCustom    Section = "custom_data"
)

// Category groups fields for the data-entry form.
type Category string

// Semantic categories, in form order.
const (
	CategoryAddressee       Category = "addressee"
	CategoryReference       Category = "reference"
	CategoryRequester       Category = "requester"
	CategorySignature       Category = "signature"
	CategorySignatureDetail Category = "signature_detail"
	CategoryOther           Category = "other"
)

// Categories returns the semantic categories in form order.
func Categories() []Category {
	return []Category{
		CategoryAddressee,
		CategoryReference,
		CategoryRequester,
		CategorySignature,
		CategorySignatureDetail,
		CategoryOther,
	}
}

// FieldDescriptor is the classified, deduplicated form of one template variable.
type FieldDescriptor struct {
	TargetField      string   `json:"target_field"`
	TargetSection    Section  `json:"target_section"`
	Required         bool     `json:"required"`
	DocumentRegion   Region   `json:"document_region"`
	SemanticCategory Category `json:"semantic_category"`
	DisplayOrder     int      `json:"display_order"`

	SourceName   string   `json:"source_name"`
	Aliases      []string `json:"aliases,omitempty"` // later declarations folded into this field
	Label        string   `json:"label,omitempty"`
	TypeHint     string   `json:"type,omitempty"`
	DefaultValue string   `json:"default_value,omitempty"`
}
