package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// ArtifactRef returns the stored upload reference for a consultant's CV
// version, or "" when the CV has never been uploaded.
func (db *DB) ArtifactRef(ctx context.Context, consultantID int64, cvID string) (string, error) {
	var ref string
	err := db.pool.QueryRow(ctx,
		`SELECT artifact_ref FROM cv_artifacts
		 WHERE consultant_id = $1 AND cv_id = $2`,
		consultantID, cvID,
	).Scan(&ref)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get artifact ref: %w", err)
	}
	return ref, nil
}

// SaveArtifactRef upserts the upload reference for a CV version.
// Concurrent writers for the same CV overwrite each other; the ref is a
// cache, so last write wins is fine.
func (db *DB) SaveArtifactRef(ctx context.Context, consultantID int64, cvID, ref string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO cv_artifacts (consultant_id, cv_id, artifact_ref, uploaded_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (consultant_id, cv_id) DO UPDATE SET artifact_ref = $3, uploaded_at = NOW()`,
		consultantID, cvID, ref,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact ref: %w", err)
	}
	return nil
}
