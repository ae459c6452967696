package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/emission-renderer/internal/types"
)

// SaveArtifact stores a rendered PDF and marks the emission issued, in one
// transaction. An already issued emission is only re-rendered with force.
func (db *DB) SaveArtifact(ctx context.Context, emissionID uuid.UUID, input *ArtifactInput, force bool) (*Artifact, error) {
	if input == nil || len(input.PDF) == 0 {
		return nil, fmt.Errorf("refusing to save empty artifact for emission %s", emissionID)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM emissions WHERE id = $1 FOR UPDATE`, emissionID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Kind: "emission", ID: emissionID}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock emission %s: %w", emissionID, err)
	}
	if status == string(types.StatusIssued) && !force {
		return nil, &LifecycleError{EmissionID: emissionID, Status: status, Message: "re-render requires force"}
	}

	a := Artifact{
		EmissionID:  emissionID,
		Filename:    input.Filename,
		ContentType: ContentTypePDF,
		PageCount:   input.PageCount,
		SizeBytes:   len(input.PDF),
		Engine:      input.Engine,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO emission_artifacts (emission_id, filename, content_type, page_count, size_bytes, engine, content)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id, created_at`,
		emissionID, a.Filename, a.ContentType, a.PageCount, a.SizeBytes, a.Engine, input.PDF,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert artifact: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE emissions SET status = 'issued', issued_at = NOW(), updated_at = NOW() WHERE id = $1`,
		emissionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to mark emission issued: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit artifact: %w", err)
	}
	return &a, nil
}

// GetLatestArtifact returns the newest artifact of an emission, content
// included. Returns nil, nil when none exists.
func (db *DB) GetLatestArtifact(ctx context.Context, emissionID uuid.UUID) (*Artifact, error) {
	var a Artifact
	err := db.pool.QueryRow(ctx,
		`SELECT id, emission_id, filename, content_type, page_count, size_bytes, engine, created_at, content
		 FROM emission_artifacts
		 WHERE emission_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		emissionID,
	).Scan(&a.ID, &a.EmissionID, &a.Filename, &a.ContentType, &a.PageCount, &a.SizeBytes, &a.Engine, &a.CreatedAt, &a.Content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get artifact for emission %s: %w", emissionID, err)
	}
	return &a, nil
}

// ListArtifacts lists an emission's artifacts, newest first, without content.
func (db *DB) ListArtifacts(ctx context.Context, emissionID uuid.UUID) ([]Artifact, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, emission_id, filename, content_type, page_count, size_bytes, engine, created_at
		 FROM emission_artifacts
		 WHERE emission_id = $1
		 ORDER BY created_at DESC`,
		emissionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.ID, &a.EmissionID, &a.Filename, &a.ContentType, &a.PageCount, &a.SizeBytes, &a.Engine, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return artifacts, nil
}
