package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/thomasandersen77/candidate-match/internal/match"
)

// ProjectRequest loads a project request with its requirement lines and
// declared skills. Unknown ids return match.ErrProjectNotFound.
func (db *DB) ProjectRequest(ctx context.Context, id int64) (*match.ProjectRequest, error) {
	var project match.ProjectRequest
	err := db.pool.QueryRow(ctx,
		`SELECT id, customer_name, title, COALESCE(summary, ''),
		        COALESCE(start_date, ''), COALESCE(end_date, '')
		 FROM project_requests WHERE id = $1`,
		id,
	).Scan(&project.ID, &project.CustomerName, &project.Title, &project.Summary,
		&project.StartDate, &project.EndDate)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, match.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project request: %w", err)
	}

	rows, err := db.pool.Query(ctx,
		`SELECT text, must_have
		 FROM project_request_requirements
		 WHERE project_request_id = $1
		 ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var req match.Requirement
		if err := rows.Scan(&req.Text, &req.MustHave); err != nil {
			return nil, fmt.Errorf("failed to scan requirement: %w", err)
		}
		project.Requirements = append(project.Requirements, req)
	}

	skillRows, err := db.pool.Query(ctx,
		`SELECT skill FROM project_request_skills WHERE project_request_id = $1 ORDER BY skill`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list project skills: %w", err)
	}
	defer skillRows.Close()

	for skillRows.Next() {
		var skill string
		if err := skillRows.Scan(&skill); err != nil {
			return nil, fmt.Errorf("failed to scan project skill: %w", err)
		}
		project.Skills = append(project.Skills, skill)
	}

	return &project, nil
}
