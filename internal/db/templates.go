package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/emission-renderer/internal/types"
)

// GetTemplate loads a template by ID. Returns nil, nil when it does not exist.
func (db *DB) GetTemplate(ctx context.Context, id uuid.UUID) (*types.TemplateDocument, error) {
	var t types.TemplateDocument
	var variables []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, code, version, header_fragment, body_fragment, footer_fragment, logo_reference, variables
		 FROM templates WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Code, &t.Version, &t.HeaderFragment, &t.BodyFragment, &t.FooterFragment, &t.LogoReference, &variables)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get template %s: %w", id, err)
	}

	if err := json.Unmarshal(variables, &t.Variables); err != nil {
		return nil, fmt.Errorf("failed to unmarshal variables of template %s: %w", id, err)
	}
	return &t, nil
}

// SaveTemplate inserts or replaces a template and returns its ID.
// A nil ID is assigned by the database.
func (db *DB) SaveTemplate(ctx context.Context, t *types.TemplateDocument) (uuid.UUID, error) {
	variables, err := json.Marshal(t.Variables)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to marshal template variables: %w", err)
	}

	id := t.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO templates (id, code, version, header_fragment, body_fragment, footer_fragment, logo_reference, variables)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
		     code = $2,
		     version = $3,
		     header_fragment = $4,
		     body_fragment = $5,
		     footer_fragment = $6,
		     logo_reference = $7,
		     variables = $8,
		     updated_at = NOW()
		 RETURNING id`,
		id, t.Code, t.Version, t.HeaderFragment, t.BodyFragment, t.FooterFragment, t.LogoReference, variables,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save template: %w", err)
	}
	return id, nil
}
