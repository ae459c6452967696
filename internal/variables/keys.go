// Package variables builds the resolved variable context used to fill templates.
package variables

import "strings"

// Auto-generated keys, written from the emission and template themselves.
const (
	KeyNumber          = "NUMERO"
	KeyNumberEmission  = "NUMERO_EMISSAO"
	KeyNumberShort     = "N_EMISSAO"
	KeyDate            = "DATA"
	KeyDateEmission    = "DATA_EMISSAO"
	KeyDateCurrent     = "DATA_ATUAL"
	KeySubject         = "ASSUNTO"
	KeySubjectEmission = "ASSUNTO_EMISSAO"
	KeyVersion         = "VERSAO"
	KeyTemplateCode    = "CODIGO_TEMPLATE"
)

// Signer keys. KeySignerName and KeySignerNameAlt are aliases of one another.
const (
	KeySignerName    = "SIGNATARIO"
	KeySignerNameAlt = "NOME_SIGNATARIO"
	KeySignerTitle   = "CARGO_SIGNATARIO"
)

// Placeholders used when the emission lacks a value.
const (
	PlaceholderNumber  = "[NÚMERO]"
	PlaceholderSubject = "[ASSUNTO]"
)

// autoGenerated is the fixed set of names the engine fills on its own.
var autoGenerated = map[string]struct{}{
	KeyNumber:          {},
	KeyNumberEmission:  {},
	KeyNumberShort:     {},
	KeyDate:            {},
	KeyDateEmission:    {},
	KeyDateCurrent:     {},
	KeySubject:         {},
	KeySubjectEmission: {},
	KeyVersion:         {},
	KeyTemplateCode:    {},
}

// IsAutoGenerated reports whether a variable name is filled by the engine.
func IsAutoGenerated(name string) bool {
	_, ok := autoGenerated[strings.ToUpper(strings.TrimSpace(name))]
	return ok
}

// AutoGeneratedKeys returns the auto-generated names in declaration order.
func AutoGeneratedKeys() []string {
	return []string{
		KeyNumber, KeyNumberEmission, KeyNumberShort,
		KeyDate, KeyDateEmission, KeyDateCurrent,
		KeySubject, KeySubjectEmission,
		KeyVersion, KeyTemplateCode,
	}
}
