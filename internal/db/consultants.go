package db

import (
	"context"
	"fmt"

	"github.com/thomasandersen77/candidate-match/internal/scoring"
)

// FindBySkills returns active consultants holding at least one of the
// given skills, ordered by how many of them they hold, capped at limit.
// Skills are stored uppercased, so matching is exact.
func (db *DB) FindBySkills(ctx context.Context, skills []string, limit int) ([]scoring.CandidateSnapshot, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c.id, c.name, cv.cv_id, cv.cv_text, cv.quality_score,
		        ARRAY(SELECT s.skill FROM consultant_skills s WHERE s.consultant_id = c.id ORDER BY s.skill)
		 FROM consultants c
		 JOIN consultant_cvs cv ON cv.consultant_id = c.id AND cv.active
		 WHERE c.active
		   AND EXISTS (
		       SELECT 1 FROM consultant_skills s
		       WHERE s.consultant_id = c.id AND s.skill = ANY($1)
		   )
		 ORDER BY (
		       SELECT COUNT(*) FROM consultant_skills s
		       WHERE s.consultant_id = c.id AND s.skill = ANY($1)
		 ) DESC, c.id
		 LIMIT $2`,
		skills, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to find consultants by skills: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// ActiveWithCV returns active consultants that have a current CV,
// capped at limit.
func (db *DB) ActiveWithCV(ctx context.Context, limit int) ([]scoring.CandidateSnapshot, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c.id, c.name, cv.cv_id, cv.cv_text, cv.quality_score,
		        ARRAY(SELECT s.skill FROM consultant_skills s WHERE s.consultant_id = c.id ORDER BY s.skill)
		 FROM consultants c
		 JOIN consultant_cvs cv ON cv.consultant_id = c.id AND cv.active
		 WHERE c.active
		 ORDER BY c.id
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active consultants: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// DisplayNames resolves consultant ids to display names. Unknown ids
// are simply absent from the result.
func (db *DB) DisplayNames(ctx context.Context, ids []int64) (map[int64]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name FROM consultants WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve consultant names: %w", err)
	}
	defer rows.Close()

	names := make(map[int64]string, len(ids))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("failed to scan consultant name: %w", err)
		}
		names[id] = name
	}
	return names, nil
}

// QualityScores returns CV-quality scores (0-100) for the given
// consultants. Consultants without a scored CV are absent from the map.
func (db *DB) QualityScores(ctx context.Context, consultantIDs []int64) (map[int64]int, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT consultant_id, quality_score
		 FROM consultant_cvs
		 WHERE consultant_id = ANY($1) AND active AND quality_score IS NOT NULL`,
		consultantIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get quality scores: %w", err)
	}
	defer rows.Close()

	scores := make(map[int64]int, len(consultantIDs))
	for rows.Next() {
		var id int64
		var score int
		if err := rows.Scan(&id, &score); err != nil {
			return nil, fmt.Errorf("failed to scan quality score: %w", err)
		}
		scores[id] = score
	}
	return scores, nil
}

type snapshotRows interface {
	Next() bool
	Scan(dest ...any) error
}

func scanSnapshots(rows snapshotRows) ([]scoring.CandidateSnapshot, error) {
	var snapshots []scoring.CandidateSnapshot
	for rows.Next() {
		var snap scoring.CandidateSnapshot
		if err := rows.Scan(&snap.ID, &snap.Name, &snap.CVID, &snap.CVText, &snap.Quality, &snap.Skills); err != nil {
			return nil, fmt.Errorf("failed to scan consultant: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}
