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

// GetEmission loads an emission by ID. Returns nil, nil when it does not exist.
func (db *DB) GetEmission(ctx context.Context, id uuid.UUID) (*types.Emission, error) {
	var e types.Emission
	var status string
	var recipient, custom []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, template_id, subject, emission_number, emission_date, recipient_data, custom_data, status
		 FROM emissions WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.TemplateID, &e.Subject, &e.EmissionNumber, &e.EmissionDate, &recipient, &custom, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get emission %s: %w", id, err)
	}

	e.Status = types.EmissionStatus(status)
	if err := json.Unmarshal(recipient, &e.RecipientData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal recipient_data of emission %s: %w", id, err)
	}
	if err := json.Unmarshal(custom, &e.CustomData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal custom_data of emission %s: %w", id, err)
	}
	return &e, nil
}

// CreateEmission inserts a draft emission and returns its ID.
func (db *DB) CreateEmission(ctx context.Context, e *types.Emission) (uuid.UUID, error) {
	recipient, custom, err := marshalBags(e.RecipientData, e.CustomData)
	if err != nil {
		return uuid.Nil, err
	}

	id := e.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	err = db.pool.QueryRow(ctx,
		`INSERT INTO emissions (id, template_id, subject, emission_number, emission_date, recipient_data, custom_data, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 'draft')
		 RETURNING id`,
		id, e.TemplateID, e.Subject, e.EmissionNumber, e.EmissionDate, recipient, custom,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create emission: %w", err)
	}
	return id, nil
}

// UpdateEmissionData replaces the data bags of a draft emission.
// Issued emissions are immutable and yield a LifecycleError.
func (db *DB) UpdateEmissionData(ctx context.Context, id uuid.UUID, recipient, custom types.DataBag) error {
	recipientJSON, customJSON, err := marshalBags(recipient, custom)
	if err != nil {
		return err
	}

	result, err := db.pool.Exec(ctx,
		`UPDATE emissions SET recipient_data = $2, custom_data = $3, updated_at = NOW()
		 WHERE id = $1 AND status = 'draft'`,
		id, recipientJSON, customJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to update emission %s: %w", id, err)
	}
	if result.RowsAffected() > 0 {
		return nil
	}

	var status string
	err = db.pool.QueryRow(ctx, `SELECT status FROM emissions WHERE id = $1`, id).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return &NotFoundError{Kind: "emission", ID: id}
	}
	if err != nil {
		return fmt.Errorf("failed to check emission %s: %w", id, err)
	}
	return &LifecycleError{EmissionID: id, Status: status, Message: "data can only change while draft"}
}

func marshalBags(recipient, custom types.DataBag) ([]byte, []byte, error) {
	if recipient == nil {
		recipient = types.DataBag{}
	}
	if custom == nil {
		custom = types.DataBag{}
	}
	r, err := json.Marshal(recipient)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal recipient_data: %w", err)
	}
	c, err := json.Marshal(custom)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal custom_data: %w", err)
	}
	return r, c, nil
}
