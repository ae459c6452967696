package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDataBag_UnmarshalJSON_CoercesScalars(t *testing.T) {
	var bag DataBag
	err := json.Unmarshal([]byte(`{"nome":"Ana","porta":12,"ativo":true,"nada":null,"valor":1.5}`), &bag)
	require.NoError(t, err)

	assert.Equal(t, "Ana", bag["nome"])
	assert.Equal(t, "12", bag["porta"])
	assert.Equal(t, "true", bag["ativo"])
	assert.Equal(t, "", bag["nada"])
	assert.Equal(t, "1.5", bag["valor"])
}

func TestDataBag_UnmarshalJSON_NestedValueKeepsJSON(t *testing.T) {
	var bag DataBag
	err := json.Unmarshal([]byte(`{"lista":[1,2]}`), &bag)
	require.NoError(t, err)
	assert.Equal(t, "[1,2]", bag["lista"])
}

func TestDataBag_UnmarshalJSON_Null(t *testing.T) {
	var e Emission
	err := json.Unmarshal([]byte(`{"recipient_data":null}`), &e)
	require.NoError(t, err)
	assert.Nil(t, e.RecipientData)
}

func TestDataBag_UnmarshalJSON_RejectsArray(t *testing.T) {
	var bag DataBag
	err := json.Unmarshal([]byte(`["a"]`), &bag)
	assert.Error(t, err)
}

func TestDataBag_UnmarshalYAML(t *testing.T) {
	var e Emission
	err := yaml.Unmarshal([]byte("custom_data:\n  processo: 42\n  urgente: false\n  vazio: null\n"), &e)
	require.NoError(t, err)
	assert.Equal(t, "42", e.CustomData["processo"])
	assert.Equal(t, "false", e.CustomData["urgente"])
	assert.Equal(t, "", e.CustomData["vazio"])
}

func TestDataBag_GetIsCaseInsensitive(t *testing.T) {
	bag := DataBag{"Morada": "Rua Direita"}

	v, ok := bag.Get("MORADA")
	assert.True(t, ok)
	assert.Equal(t, "Rua Direita", v)

	_, ok = bag.Get("localidade")
	assert.False(t, ok)
}

func TestDataBag_GetCaseVariantsAreDeterministic(t *testing.T) {
	bag := DataBag{"nome": "minúsculas", "Nome": "misto", "NOME": "maiúsculas"}
	for i := 0; i < 50; i++ {
		v, ok := bag.Get("nome")
		assert.True(t, ok)
		assert.Equal(t, "maiúsculas", v)
	}

	mixed := DataBag{"nome": "a", "Nome": "b"}
	v, _ := mixed.Get("NOME")
	assert.Equal(t, "b", v, "\"Nome\" sorts before \"nome\"")
}

func TestPreferKey(t *testing.T) {
	assert.True(t, PreferKey("NOME", "nome"))
	assert.False(t, PreferKey("nome", "NOME"))
	assert.True(t, PreferKey("Nome", "nome"))
	assert.False(t, PreferKey("nome", "nome"))
}

func TestCoerceString(t *testing.T) {
	assert.Equal(t, "", CoerceString(nil))
	assert.Equal(t, "7", CoerceString(7))
	assert.Equal(t, "7.25", CoerceString(7.25))
	assert.Equal(t, "true", CoerceString(true))
	assert.Equal(t, `{"a":1}`, CoerceString(map[string]int{"a": 1}))
}
