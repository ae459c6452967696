package classify

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jonathan/emission-renderer/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decl(name string, required bool) types.VariableDeclaration {
	return types.VariableDeclaration{Name: name, Required: required}
}

func fieldsByTarget(fields []types.FieldDescriptor) map[string]types.FieldDescriptor {
	m := make(map[string]types.FieldDescriptor, len(fields))
	for _, f := range fields {
		m[f.TargetField] = f
	}
	return m
}

func TestClassify_DuplicateAcrossRegionsFirstWins(t *testing.T) {
	res := Classify(types.VariableDeclarations{
		Header: []types.VariableDeclaration{decl("NOME", true)},
		Body:   []types.VariableDeclaration{decl("NOME", false)},
	})

	require.Len(t, res.Fields, 1)
	f := res.Fields[0]
	assert.Equal(t, "nome", f.TargetField)
	assert.True(t, f.Required)
	assert.Equal(t, types.RegionHeader, f.DocumentRegion)
	assert.Empty(t, f.Aliases)
}

func TestClassify_AutoGeneratedExcluded(t *testing.T) {
	res := Classify(types.VariableDeclarations{
		Header: []types.VariableDeclaration{decl("numero", true), decl("DATA_EMISSAO", true)},
		Body:   []types.VariableDeclaration{decl("ASSUNTO", true), decl("N_EMISSAO", false), decl("NIF", true)},
		Footer: []types.VariableDeclaration{decl("CODIGO_TEMPLATE", false), decl("VERSAO", false)},
	})

	require.Len(t, res.Fields, 1)
	assert.Equal(t, "nif", res.Fields[0].TargetField)
}

func TestClassify_DefaultSections(t *testing.T) {
	res := Classify(types.VariableDeclarations{
		Header: []types.VariableDeclaration{decl("GABINETE", false)},
		Body:   []types.VariableDeclaration{decl("PRAZO", false)},
		Footer: []types.VariableDeclaration{decl("RODAPE_EXTRA", false)},
	})

	got := fieldsByTarget(res.Fields)
	assert.Equal(t, types.SectionCustom, got["gabinete"].TargetSection)
	assert.Equal(t, types.SectionRecipient, got["prazo"].TargetSection)
	assert.Equal(t, types.SectionCustom, got["rodape_extra"].TargetSection)
}

func TestClassify_HeaderAddressForcedToCustomData(t *testing.T) {
	res := Classify(types.VariableDeclarations{
		Header: []types.VariableDeclaration{decl("MORADA", true), decl("CODIGO_POSTAL", true), decl("LOCALIDADE_2", false)},
		Body:   []types.VariableDeclaration{decl("CIDADE", false)},
	})

	got := fieldsByTarget(res.Fields)
	assert.Equal(t, types.SectionCustom, got["morada"].TargetSection)
	assert.Equal(t, types.SectionCustom, got["codigo_postal"].TargetSection)
	assert.Equal(t, types.SectionCustom, got["localidade_2"].TargetSection)
	assert.Equal(t, types.SectionRecipient, got["localidade"].TargetSection, "body address keeps the alias-table section")
}

func TestClassify_AliasesFoldIntoOneField(t *testing.T) {
	res := Classify(types.VariableDeclarations{
		Body:   []types.VariableDeclaration{decl("NOME", false), decl("nome_completo", true)},
		Footer: []types.VariableDeclaration{decl("NOME_SIGNATARIO", false), decl("SIGNATARIO", true)},
	})

	got := fieldsByTarget(res.Fields)
	require.Len(t, res.Fields, 2)
	assert.Equal(t, []string{"NOME_COMPLETO"}, got["nome"].Aliases)
	assert.False(t, got["nome"].Required, "required comes from the first declaration only")
	assert.Equal(t, "NOME_SIGNATARIO", got[FieldSignerName].SourceName)
	assert.Equal(t, []string{"SIGNATARIO"}, got[FieldSignerName].Aliases)
}

func TestClassify_RequiredCopiedVerbatim(t *testing.T) {
	decls := types.VariableDeclarations{
		Header: []types.VariableDeclaration{decl("DESTINATARIO", false), decl("MORADA_DESTINATARIO", true)},
		Body:   []types.VariableDeclaration{decl("REQUERENTE", true), decl("PRAZO", false)},
		Footer: []types.VariableDeclaration{decl("CARGO", true)},
	}
	res := Classify(decls)

	want := map[string]bool{
		"DESTINATARIO":        false,
		"MORADA_DESTINATARIO": true,
		"REQUERENTE":          true,
		"PRAZO":               false,
		"CARGO":               true,
	}
	require.Len(t, res.Fields, len(want))
	for _, f := range res.Fields {
		assert.Equal(t, want[f.SourceName], f.Required, f.SourceName)
	}
}

func TestClassify_Categories(t *testing.T) {
	res := Classify(types.VariableDeclarations{
		Header: []types.VariableDeclaration{decl("DESTINATARIO", false), decl("SUA_REF", false), decl("SIGNATARIO", false)},
		Body:   []types.VariableDeclaration{decl("REQUERENTE", false), decl("PROCESSO", false)},
		Footer: []types.VariableDeclaration{decl("CARGO_SIGNATARIO", false), decl("TELEFONE_SERVICO", false), decl("MORADA_REQUERENTE", false)},
	})

	got := fieldsByTarget(res.Fields)
	assert.Equal(t, types.CategoryAddressee, got["destinatario"].SemanticCategory)
	assert.Equal(t, types.CategoryReference, got["sua_referencia"].SemanticCategory)
	assert.Equal(t, types.CategorySignature, got[FieldSignerName].SemanticCategory, "signer name is never an addressee field")
	assert.Equal(t, types.CategoryRequester, got["requerente"].SemanticCategory)
	assert.Equal(t, types.CategoryReference, got["processo"].SemanticCategory)
	assert.Equal(t, types.CategorySignatureDetail, got[FieldSignerTitle].SemanticCategory)
	assert.Equal(t, types.CategorySignatureDetail, got["telefone_servico"].SemanticCategory)
	assert.Equal(t, types.CategoryRequester, got["morada_requerente"].SemanticCategory, "requester marker beats the footer fallback")
	assert.Empty(t, res.Warnings)
}

func TestClassify_UnmappedNamesUseRegionFallback(t *testing.T) {
	res := Classify(types.VariableDeclarations{
		Header: []types.VariableDeclaration{decl("XYZ_CABECALHO", false)},
		Body:   []types.VariableDeclaration{decl("XYZ_CORPO", false)},
		Footer: []types.VariableDeclaration{decl("XYZ_RODAPE", false)},
	})

	got := fieldsByTarget(res.Fields)
	assert.Equal(t, types.CategoryAddressee, got["xyz_cabecalho"].SemanticCategory)
	assert.Equal(t, types.CategoryRequester, got["xyz_corpo"].SemanticCategory)
	assert.Equal(t, types.CategorySignatureDetail, got["xyz_rodape"].SemanticCategory)
	assert.Empty(t, res.Warnings)
}

func TestCategorize_UnknownRegionFallsToOther(t *testing.T) {
	category, ok := categorize("X", "x", types.Region("sidebar"))
	assert.Equal(t, types.CategoryOther, category)
	assert.False(t, ok)
}

func TestClassify_OrderingWithinGroups(t *testing.T) {
	res := Classify(types.VariableDeclarations{
		Header: []types.VariableDeclaration{
			decl("A_ATENCAO", false),
			decl("LOCALIDADE_DESTINATARIO", false),
			decl("EMAIL_DESTINATARIO", false),
			decl("MORADA_DESTINATARIO", false),
			decl("DESTINATARIO", true),
			decl("CP_DESTINATARIO", false),
		},
		Body: []types.VariableDeclaration{
			decl("LOCAL_OBRA", false),
			decl("MORADA_REQUERENTE", false),
			decl("REQUERENTE", true),
		},
		Footer: []types.VariableDeclaration{decl("SIGNATARIO", false)},
	})

	var order []string
	for _, f := range res.Fields {
		order = append(order, f.TargetField)
	}
	want := []string{
		"destinatario", "email_destinatario", "morada_destinatario",
		"codigo_postal_destinatario", "localidade_destinatario", "a_atencao",
		"requerente", "morada_requerente", "local_obra",
		FieldSignerName,
	}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("field order mismatch (-want +got):\n%s", diff)
	}

	for i, f := range res.Fields {
		assert.Equal(t, i+1, f.DisplayOrder)
	}
}

func TestClassify_CoversEveryDeclaredName(t *testing.T) {
	decls := types.VariableDeclarations{
		Header: []types.VariableDeclaration{decl("NOME", true), decl("MORADA", false), decl("DATA", true)},
		Body:   []types.VariableDeclaration{decl("nome", false), decl("ENDERECO", true), decl("PRAZO", true)},
		Footer: []types.VariableDeclaration{decl("SIGNATARIO", false), decl("NOME_SIGNATARIO", false)},
	}
	res := Classify(decls)

	covered := make(map[string]int)
	for _, f := range res.Fields {
		covered[f.SourceName]++
		for _, a := range f.Aliases {
			covered[a]++
		}
	}
	want := map[string]int{"NOME": 1, "MORADA": 1, "ENDERECO": 1, "PRAZO": 1, "SIGNATARIO": 1, "NOME_SIGNATARIO": 1}
	assert.Equal(t, want, covered)

	seen := make(map[string]bool)
	for _, f := range res.Fields {
		assert.False(t, seen[f.TargetField], "duplicate target %s", f.TargetField)
		seen[f.TargetField] = true
	}
}

func TestClassify_CopiesDeclarationMetadata(t *testing.T) {
	res := Classify(types.VariableDeclarations{
		Body: []types.VariableDeclaration{{
			Name: "prazo", TypeHint: "number", Label: "Prazo (dias)", DefaultValue: "10", Required: true,
		}},
	})

	want := types.FieldDescriptor{
		TargetField:      "prazo",
		TargetSection:    types.SectionRecipient,
		Required:         true,
		DocumentRegion:   types.RegionBody,
		SemanticCategory: types.CategoryRequester,
		DisplayOrder:     1,
		SourceName:       "PRAZO",
		Label:            "Prazo (dias)",
		TypeHint:         "number",
		DefaultValue:     "10",
	}
	if diff := cmp.Diff([]types.FieldDescriptor{want}, res.Fields, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("descriptor mismatch (-want +got):\n%s", diff)
	}
}

func TestClassify_Empty(t *testing.T) {
	res := Classify(types.VariableDeclarations{})
	assert.Empty(t, res.Fields)
	assert.Empty(t, res.Warnings)
}

func TestGroup(t *testing.T) {
	res := Classify(types.VariableDeclarations{
		Header: []types.VariableDeclaration{decl("DESTINATARIO", false), decl("EMAIL_DESTINATARIO", false)},
		Footer: []types.VariableDeclaration{decl("SIGNATARIO", false)},
	})

	groups := Group(res.Fields)
	assert.Len(t, groups[types.CategoryAddressee], 2)
	assert.Len(t, groups[types.CategorySignature], 1)
	assert.Empty(t, groups[types.CategoryOther])
}

func TestMissingRequired(t *testing.T) {
	res := Classify(types.VariableDeclarations{
		Header: []types.VariableDeclaration{decl("DESTINATARIO", true)},
		Body:   []types.VariableDeclaration{decl("NOME", true), decl("NOME_COMPLETO", false), decl("PRAZO", true), decl("NIF", false)},
	})

	emission := &types.Emission{
		RecipientData: types.DataBag{"NOME_COMPLETO": "Ana Silva", "prazo": "   "},
		CustomData:    types.DataBag{"destinatario": "Câmara Municipal"},
	}

	missing := MissingRequired(res.Fields, emission)
	require.Len(t, missing, 1)
	assert.Equal(t, "prazo", missing[0].TargetField)

	assert.Len(t, MissingRequired(res.Fields, nil), 3)
}

func TestLookupTarget_AddressShape(t *testing.T) {
	assert.True(t, isAddressShaped("MORADA"))
	assert.True(t, isAddressShaped("CP_DESTINO"))
	assert.True(t, isAddressShaped("CODIGO_POSTAL"))
	assert.False(t, isAddressShaped("CPF"))
	assert.False(t, isAddressShaped("RUAS"))
	assert.Equal(t, types.SectionRecipient, lookupTarget("MORADA", types.RegionBody).Section)
	assert.Equal(t, types.SectionCustom, lookupTarget("morada", types.RegionHeader).Section)
}

func TestPriorityRank(t *testing.T) {
	assert.Less(t, priorityRank("destinatario"), priorityRank("email_destinatario"))
	assert.Less(t, priorityRank("morada_destinatario"), priorityRank("localidade_destinatario"))
	assert.Equal(t, len(priorityOrder), priorityRank("a_atencao"))
}
