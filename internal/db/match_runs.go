package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/thomasandersen77/candidate-match/internal/match"
)

// SaveRun writes a match run and its candidate results in one
// transaction. When replace is true, prior runs for the same project
// request are deleted first; their results go with them via cascade.
func (db *DB) SaveRun(ctx context.Context, run *match.MatchRun, replace bool) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if replace {
		if _, err := tx.Exec(ctx,
			`DELETE FROM match_runs WHERE project_request_id = $1`,
			run.ProjectRequestID,
		); err != nil {
			return fmt.Errorf("failed to delete prior match runs: %w", err)
		}
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO match_runs (id, project_request_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4)`,
		run.ID, run.ProjectRequestID, run.CreatedAt, run.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert match run: %w", err)
	}

	for _, result := range run.Results {
		if _, err := tx.Exec(ctx,
			`INSERT INTO match_candidate_results (id, match_run_id, consultant_id, match_score, explanation, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			result.ID, run.ID, result.ConsultantID, result.MatchScore, result.Explanation, result.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert candidate result: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit match run: %w", err)
	}
	return nil
}

// LatestRun returns the most recently created run with its results, or
// nil when the project request has never been matched.
func (db *DB) LatestRun(ctx context.Context, projectRequestID int64) (*match.MatchRun, error) {
	var run match.MatchRun
	err := db.pool.QueryRow(ctx,
		`SELECT id, project_request_id, created_at, updated_at
		 FROM match_runs
		 WHERE project_request_id = $1
		 ORDER BY created_at DESC
		 LIMIT 1`,
		projectRequestID,
	).Scan(&run.ID, &run.ProjectRequestID, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get match run: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, consultant_id, match_score, explanation, created_at
		 FROM match_candidate_results
		 WHERE match_run_id = $1
		 ORDER BY match_score DESC`,
		run.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var result match.CandidateResult
		if err := rows.Scan(&result.ID, &result.ConsultantID, &result.MatchScore, &result.Explanation, &result.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan candidate result: %w", err)
		}
		run.Results = append(run.Results, result)
	}
	return &run, nil
}
