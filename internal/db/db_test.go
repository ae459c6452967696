package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSchema_DeclaresTables(t *testing.T) {
	schema := Schema()
	for _, table := range []string{"templates", "emissions", "emission_artifacts"} {
		assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS "+table)
	}
	assert.Contains(t, schema, "CHECK (status IN ('draft', 'issued'))")
}

func TestErrors(t *testing.T) {
	id := uuid.MustParse("0d6a8a2e-6a43-4c61-8a7f-5f7c6f0b9e21")

	nf := &NotFoundError{Kind: "emission", ID: id}
	assert.Equal(t, "emission not found: 0d6a8a2e-6a43-4c61-8a7f-5f7c6f0b9e21", nf.Error())

	le := &LifecycleError{EmissionID: id, Status: "issued", Message: "re-render requires force"}
	assert.Equal(t, "emission 0d6a8a2e-6a43-4c61-8a7f-5f7c6f0b9e21 is issued: re-render requires force", le.Error())
}

func TestMarshalBags_NilBecomesEmptyObject(t *testing.T) {
	r, c, err := marshalBags(nil, map[string]string{"processo": "12/2026"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{}`, string(r))
	assert.JSONEq(t, `{"processo":"12/2026"}`, string(c))
}
