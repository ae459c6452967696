package filling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFill_SimpleSubstitution(t *testing.T) {
	result := Fill("Hello {{NAME}}", map[string]string{"NAME": "Ana"})
	assert.Equal(t, "Hello Ana", result)
}

func TestFill_CaseAndWhitespaceInsensitive(t *testing.T) {
	ctx := map[string]string{"NAME": "Ana"}

	for _, fragment := range []string{"{{name}}", "{{NAME}}", "{{ Name }}", "{{\tnAmE\n}}"} {
		assert.Equal(t, "Ana", Fill(fragment, ctx), fragment)
	}
}

func TestFill_MissingNameRemoved(t *testing.T) {
	result := Fill("<p>Caro {{ TITULO }} {{NOME}}</p>", map[string]string{"NOME": "Rui"})
	assert.Equal(t, "<p>Caro  Rui</p>", result)
}

func TestFill_NoPlaceholdersUnchanged(t *testing.T) {
	fragments := []string{
		"<p>Plain text</p>",
		"{ NAME }",
		"{{ two words }}",
		"{{NAME-WITH-DASH}}",
		"}}{{",
	}
	ctx := map[string]string{"NAME": "x", "TWO": "y"}

	for _, fragment := range fragments {
		assert.Equal(t, fragment, Fill(fragment, ctx), fragment)
	}
}

func TestFill_BlankFragment(t *testing.T) {
	assert.Equal(t, "", Fill("", map[string]string{"A": "b"}))
	assert.Equal(t, "", Fill("  \n\t", map[string]string{"A": "b"}))
}

func TestFill_Idempotent(t *testing.T) {
	ctx := map[string]string{"NOME": "Ana", "MORADA": "Rua Direita, 1"}
	once := Fill("{{NOME}} - {{ morada }} - {{FALTA}}", ctx)
	twice := Fill(once, ctx)

	assert.Equal(t, once, twice)
	assert.Equal(t, "Ana - Rua Direita, 1 - ", once)
}

func TestFill_NoRecursiveExpansion(t *testing.T) {
	ctx := map[string]string{"A": "{{B}}", "B": "boom"}
	assert.Equal(t, "x {{B}} x", Fill("x {{A}} x", ctx))
}

func TestFill_RepeatedPlaceholder(t *testing.T) {
	result := Fill("{{N}}{{n}}{{ N }}", map[string]string{"N": "1"})
	assert.Equal(t, "111", result)
}

func TestPlaceholders(t *testing.T) {
	names := Placeholders("{{b}} {{ A }} {{B}} {{not valid}}")
	assert.Equal(t, []string{"A", "B"}, names)
	assert.Empty(t, Placeholders("none"))
}

func TestUnresolved(t *testing.T) {
	missing := Unresolved("{{NOME}} {{morada}} {{DATA}}", map[string]string{"NOME": "", "DATA": "hoje"})
	assert.Equal(t, []string{"MORADA"}, missing)
}
