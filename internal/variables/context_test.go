package variables

import (
	"testing"
	"time"

	"github.com/jonathan/emission-renderer/internal/types"
	"github.com/stretchr/testify/assert"
)

func fixedClock() time.Time {
	return time.Date(2026, time.October, 16, 9, 30, 0, 0, time.UTC)
}

func testOptions() Options {
	return Options{Locale: LocalePortuguese, Now: fixedClock}
}

func TestBuild_NilInputsDegradeToPlaceholders(t *testing.T) {
	ctx := Build(nil, nil, testOptions())

	assert.Equal(t, PlaceholderNumber, ctx[KeyNumber])
	assert.Equal(t, PlaceholderNumber, ctx[KeyNumberEmission])
	assert.Equal(t, PlaceholderSubject, ctx[KeySubject])
	assert.Equal(t, "16 de outubro de 2026", ctx[KeyDate])
	assert.Equal(t, "", ctx[KeyVersion])
	assert.Equal(t, "", ctx[KeyTemplateCode])
	assert.Equal(t, DefaultSignerName, ctx[KeySignerName])
	assert.Equal(t, DefaultSignerName, ctx[KeySignerNameAlt])
	assert.Equal(t, DefaultSignerTitle, ctx[KeySignerTitle])
}

func TestBuild_AutoGeneratedFromEmission(t *testing.T) {
	emission := &types.Emission{
		EmissionNumber: "OF/2026/17",
		Subject:        "Licença de obras",
		EmissionDate:   "2026-03-05",
	}
	tmpl := &types.TemplateDocument{Code: "OF-01", Version: "3"}

	ctx := Build(emission, tmpl, testOptions())

	assert.Equal(t, "OF/2026/17", ctx[KeyNumber])
	assert.Equal(t, "OF/2026/17", ctx[KeyNumberShort])
	assert.Equal(t, "Licença de obras", ctx[KeySubject])
	assert.Equal(t, "5 de março de 2026", ctx[KeyDateEmission])
	assert.Equal(t, "16 de outubro de 2026", ctx[KeyDateCurrent])
	assert.Equal(t, "3", ctx[KeyVersion])
	assert.Equal(t, "OF-01 v3", ctx[KeyTemplateCode])
}

func TestBuild_UnparseableDateKeptVerbatim(t *testing.T) {
	ctx := Build(&types.Emission{EmissionDate: "Páscoa de 2026"}, nil, testOptions())
	assert.Equal(t, "Páscoa de 2026", ctx[KeyDate])
}

func TestBuild_EnglishLocale(t *testing.T) {
	opts := testOptions()
	opts.Locale = "en-GB"
	ctx := Build(&types.Emission{EmissionDate: "2026-03-05"}, nil, opts)
	assert.Equal(t, "March 5, 2026", ctx[KeyDate])
}

func TestBuild_LaterLayersOverwrite(t *testing.T) {
	tmpl := &types.TemplateDocument{
		Variables: types.VariableDeclarations{
			Body: []types.VariableDeclaration{
				{Name: "prazo", DefaultValue: "10 dias"},
				{Name: "nome", DefaultValue: "Munícipe"},
			},
		},
	}
	emission := &types.Emission{
		RecipientData: types.DataBag{"nome": "Ana", "cargo_signatario": "Vereador"},
		CustomData:    types.DataBag{"Nome": "Ana Silva"},
	}

	ctx := Build(emission, tmpl, testOptions())

	assert.Equal(t, "10 dias", ctx["PRAZO"], "declaration default applies when no data overrides it")
	assert.Equal(t, "Ana Silva", ctx["NOME"], "custom_data wins over recipient_data and defaults")
	assert.Equal(t, "Vereador", ctx[KeySignerTitle], "recipient_data overrides the static default")
}

func TestBuild_KeysAreUpperCased(t *testing.T) {
	ctx := Build(&types.Emission{RecipientData: types.DataBag{"  morada ": "Rua A"}}, nil, testOptions())

	v, ok := ctx.Lookup("Morada")
	assert.True(t, ok)
	assert.Equal(t, "Rua A", v)
	_, lower := ctx["morada"]
	assert.False(t, lower)
}

func TestBuild_CaseVariantKeysAreDeterministic(t *testing.T) {
	emission := &types.Emission{
		RecipientData: types.DataBag{"nome": "minúsculas", "Nome": "misto", "NOME": "maiúsculas"},
		CustomData:    types.DataBag{"local": "b", "Local": "a"},
	}
	for i := 0; i < 50; i++ {
		ctx := Build(emission, nil, testOptions())
		assert.Equal(t, "maiúsculas", ctx["NOME"])
		assert.Equal(t, "a", ctx["LOCAL"])
	}
}

func TestBuild_SignerAliasReconciliation(t *testing.T) {
	tests := []struct {
		name      string
		data      types.DataBag
		wantName  string
		wantAlias string
	}{
		{"primary only", types.DataBag{"SIGNATARIO": "Rui"}, "Rui", "Rui"},
		{"alias only", types.DataBag{"nome_signatario": "Eva"}, "Eva", "Eva"},
		{"both kept", types.DataBag{"SIGNATARIO": "Rui", "NOME_SIGNATARIO": "Eva"}, "Rui", "Eva"},
		{"blank counts as absent", types.DataBag{"SIGNATARIO": "  "}, DefaultSignerName, DefaultSignerName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := Build(&types.Emission{CustomData: tt.data}, nil, testOptions())
			assert.Equal(t, tt.wantName, ctx[KeySignerName])
			assert.Equal(t, tt.wantAlias, ctx[KeySignerNameAlt])
		})
	}
}

func TestBuild_ConfiguredSignerDefaults(t *testing.T) {
	opts := testOptions()
	opts.SignerName = "A Diretora"
	opts.SignerTitle = "Diretora de Serviços"

	ctx := Build(nil, nil, opts)
	assert.Equal(t, "A Diretora", ctx[KeySignerNameAlt])
	assert.Equal(t, "Diretora de Serviços", ctx[KeySignerTitle])
}

func TestBuild_IsPure(t *testing.T) {
	emission := &types.Emission{RecipientData: types.DataBag{"nome": "Ana"}}
	first := Build(emission, nil, testOptions())
	second := Build(emission, nil, testOptions())

	assert.Equal(t, first, second)
	assert.Equal(t, types.DataBag{"nome": "Ana"}, emission.RecipientData)
}

func TestIsAutoGenerated(t *testing.T) {
	for _, k := range AutoGeneratedKeys() {
		assert.True(t, IsAutoGenerated(k), k)
	}
	assert.True(t, IsAutoGenerated(" data_emissao "))
	assert.False(t, IsAutoGenerated("NOME"))
}
