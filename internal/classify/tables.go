package classify

import (
	"strings"

	"github.com/jonathan/emission-renderer/internal/types"
	"github.com/jonathan/emission-renderer/internal/variables"
)

// target is where a declared variable is stored on the emission.
type target struct {
	Field   string
	Section types.Section
}

// Canonical target fields referenced by the category rules.
const (
	FieldSignerName  = "signatario"
	FieldSignerTitle = "cargo_signatario"
)

// aliasTable maps known variable names to their canonical target.
// Names not listed here fall back to their own lower-cased form.
var aliasTable = map[string]target{
	// recipient identity and address
	"NOME":          {"nome", types.SectionRecipient},
	"NOME_COMPLETO": {"nome", types.SectionRecipient},
	"EMAIL":         {"email", types.SectionRecipient},
	"E_MAIL":        {"email", types.SectionRecipient},
	"TELEFONE":      {"telefone", types.SectionRecipient},
	"NIF":           {"nif", types.SectionRecipient},
	"CONTRIBUINTE":  {"nif", types.SectionRecipient},
	"MORADA":        {"morada", types.SectionRecipient},
	"ENDERECO":      {"morada", types.SectionRecipient},
	"RUA":           {"morada", types.SectionRecipient},
	"CODIGO_POSTAL": {"codigo_postal", types.SectionRecipient},
	"CP":            {"codigo_postal", types.SectionRecipient},
	"LOCALIDADE":    {"localidade", types.SectionRecipient},
	"CIDADE":        {"localidade", types.SectionRecipient},

	// requester
	"REQUERENTE":        {"requerente", types.SectionRecipient},
	"NOME_REQUERENTE":   {"requerente", types.SectionRecipient},
	"MORADA_REQUERENTE": {"morada_requerente", types.SectionRecipient},
	"LOCAL_OBRA":        {"local_obra", types.SectionRecipient},

	// signer
	variables.KeySignerName:    {FieldSignerName, types.SectionCustom},
	variables.KeySignerNameAlt: {FieldSignerName, types.SectionCustom},
	"ASSINATURA":               {FieldSignerName, types.SectionCustom},
	variables.KeySignerTitle:   {FieldSignerTitle, types.SectionCustom},
	"CARGO":                    {FieldSignerTitle, types.SectionCustom},

	// destination / addressee
	"DESTINATARIO":               {"destinatario", types.SectionCustom},
	"NOME_DESTINATARIO":          {"destinatario", types.SectionCustom},
	"ENTIDADE":                   {"entidade", types.SectionCustom},
	"MORADA_DESTINATARIO":        {"morada_destinatario", types.SectionCustom},
	"CODIGO_POSTAL_DESTINATARIO": {"codigo_postal_destinatario", types.SectionCustom},
	"CP_DESTINATARIO":            {"codigo_postal_destinatario", types.SectionCustom},
	"LOCALIDADE_DESTINATARIO":    {"localidade_destinatario", types.SectionCustom},
	"EMAIL_DESTINATARIO":         {"email_destinatario", types.SectionCustom},
	"A_ATENCAO":                  {"a_atencao", types.SectionCustom},
	"AO_CUIDADO_DE":              {"a_atencao", types.SectionCustom},

	// references
	"REFERENCIA":       {"sua_referencia", types.SectionCustom},
	"SUA_REFERENCIA":   {"sua_referencia", types.SectionCustom},
	"SUA_REF":          {"sua_referencia", types.SectionCustom},
	"NOSSA_REFERENCIA": {"nossa_referencia", types.SectionCustom},
	"NOSSA_REF":        {"nossa_referencia", types.SectionCustom},
	"DATA_REFERENCIA":  {"data_referencia", types.SectionCustom},
	"SUA_DATA":         {"data_referencia", types.SectionCustom},
	"PROCESSO":         {"processo", types.SectionCustom},
	"N_PROCESSO":       {"processo", types.SectionCustom},
}

// referenceFields is the reference-keyword set: reference numbers and dates.
var referenceFields = map[string]struct{}{
	"sua_referencia":   {},
	"nossa_referencia": {},
	"data_referencia":  {},
	"processo":         {},
}

// addressShapes marks a name as address, postal code or locality.
// Header variables with one of these shapes always target custom_data.
var addressShapes = []string{"MORADA", "ENDERECO", "RUA", "CODIGO_POSTAL", "CP", "LOCALIDADE", "CIDADE"}

// requesterMarker routes a variable to the requester group regardless of region.
const requesterMarker = "REQUERENTE"

// priorityOrder orders fields inside the addressee and requester groups.
// A field is ranked by the substring that starts earliest in its name, so
// "localidade_destinatario" ranks as a locality, not as the addressee name.
var priorityOrder = []string{"nome", "destinatario", "requerente", "email", "morada", "rua", "codigo_postal", "localidade"}

// categoryOrder is the position of each category in the output list.
var categoryOrder = func() map[types.Category]int {
	m := make(map[types.Category]int)
	for i, c := range types.Categories() {
		m[c] = i
	}
	return m
}()

// lookupTarget resolves the canonical target for a declared name.
func lookupTarget(name string, region types.Region) target {
	upper := strings.ToUpper(strings.TrimSpace(name))

	t, known := aliasTable[upper]
	if !known {
		t = target{Field: strings.ToLower(upper), Section: defaultSection(region)}
	}

	if region == types.RegionHeader && isAddressShaped(upper) {
		t.Section = types.SectionCustom
	}
	return t
}

// defaultSection is the section of unmapped names: body fields describe the
// recipient, header and footer fields are custom data.
func defaultSection(region types.Region) types.Section {
	if region == types.RegionBody {
		return types.SectionRecipient
	}
	return types.SectionCustom
}

// isAddressShaped matches names whose underscore-separated parts include an
// address shape, e.g. MORADA, MORADA_2, CP_DESTINO or CODIGO_POSTAL.
func isAddressShaped(upper string) bool {
	padded := "_" + upper + "_"
	for _, shape := range addressShapes {
		if strings.Contains(padded, "_"+shape+"_") {
			return true
		}
	}
	return false
}

// priorityRank returns the priorityOrder index of the earliest substring in
// field, or len(priorityOrder) when none matches.
func priorityRank(field string) int {
	rank, at := len(priorityOrder), len(field)+1
	for i, p := range priorityOrder {
		if pos := strings.Index(field, p); pos >= 0 && pos < at {
			rank, at = i, pos
		}
	}
	return rank
}
