package schemas

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemas_ValidJSON(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			data, err := Schema(name)
			require.NoError(t, err)

			var v map[string]any
			require.NoError(t, json.Unmarshal(data, &v))
			assert.Equal(t, name, v["$id"])
		})
	}

	_, err := Schema("missing.schema.json")
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateTemplate(t *testing.T) {
	valid := `{
		"code": "OF-01",
		"header": "<table><tr><td></td></tr></table>",
		"body": "Exmo. Sr. {{NOME}}",
		"variables": {"body": [{"name": "NOME", "required": true}]}
	}`
	assert.NoError(t, ValidateTemplate([]byte(valid)))

	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing body", doc: `{"code": "OF-01"}`},
		{name: "empty body", doc: `{"body": ""}`},
		{name: "bad variable name", doc: `{"body": "x", "variables": {"body": [{"name": "NO ME"}]}}`},
		{name: "unknown region", doc: `{"body": "x", "variables": {"sidebar": []}}`},
		{name: "required not bool", doc: `{"body": "x", "variables": {"header": [{"name": "A", "required": "yes"}]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTemplate([]byte(tt.doc))
			require.Error(t, err)
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.NotEmpty(t, validationErr.Errors)
		})
	}
}

func TestValidateEmission(t *testing.T) {
	valid := `{
		"emission_number": "OF/12/2026",
		"recipient_data": {"nome": "Ana", "idade": 41, "ativo": true, "obs": null},
		"custom_data": null,
		"status": "draft"
	}`
	assert.NoError(t, ValidateEmission([]byte(valid)))

	err := ValidateEmission([]byte(`{"status": "archived"}`))
	require.Error(t, err)

	err = ValidateEmission([]byte(`{"recipient_data": {"morada": {"rua": "x"}}}`))
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Errors[0].Field, "recipient_data")
}

func TestValidate_RenderRequest(t *testing.T) {
	assert.NoError(t, Validate(SchemaRenderRequest, []byte(`{"template": {"body": "x"}}`)))
	assert.Error(t, Validate(SchemaRenderRequest, []byte(`{"emission": {}}`)))
}

func TestValidate_MalformedDocument(t *testing.T) {
	err := ValidateTemplate([]byte(`{ not json`))
	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateJSON_Files(t *testing.T) {
	dir := t.TempDir()
	schemaPath := filepath.Join(dir, "schema.json")
	validPath := filepath.Join(dir, "valid.json")
	invalidPath := filepath.Join(dir, "invalid.json")

	schema, err := Schema(SchemaEmission)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(schemaPath, schema, 0644))
	require.NoError(t, os.WriteFile(validPath, []byte(`{"subject": "Licença"}`), 0644))
	require.NoError(t, os.WriteFile(invalidPath, []byte(`{"subject": 42}`), 0644))

	assert.NoError(t, ValidateJSON(schemaPath, validPath))

	err = ValidateJSON(schemaPath, invalidPath)
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Equal(t, "subject", validationErr.Errors[0].Field)
}

func TestValidateJSON_NonExistentFiles(t *testing.T) {
	err := ValidateJSON("testdata/nonexistent_schema.json", "testdata/nonexistent.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "Ana"}`))

	err := ValidateJSONString(schema, `{}`)
	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Errors: []FieldError{
		{Field: "body", Message: "String length must be greater than or equal to 1"},
		{Field: "code", Message: "Invalid type"},
	}}
	msg := err.Error()
	assert.Contains(t, msg, "validation failed:")
	assert.Contains(t, msg, "1. body: String length must be greater than or equal to 1")
	assert.Contains(t, msg, "2. code: Invalid type")
}
