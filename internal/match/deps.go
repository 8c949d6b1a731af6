package match

import (
	"context"
	"errors"

	"github.com/thomasandersen77/candidate-match/internal/ai"
	"github.com/thomasandersen77/candidate-match/internal/scoring"
)

// ErrProjectNotFound signals that the referenced project request does not
// exist. It is surfaced to the caller as an explicit failure, never as a
// silently empty result.
var ErrProjectNotFound = errors.New("project request not found")

// ProjectRequestReader loads project requests. Implementations return
// ErrProjectNotFound for unknown ids.
type ProjectRequestReader interface {
	ProjectRequest(ctx context.Context, id int64) (*ProjectRequest, error)
}

// CandidatePoolReader selects consultant snapshots for a run.
type CandidatePoolReader interface {
	// FindBySkills returns consultants ranked by skill relevance, at
	// most limit entries.
	FindBySkills(ctx context.Context, skills []string, limit int) ([]scoring.CandidateSnapshot, error)
	// ActiveWithCV returns active consultants with a current CV, capped
	// at limit, for runs where no skills are known.
	ActiveWithCV(ctx context.Context, limit int) ([]scoring.CandidateSnapshot, error)
	// DisplayNames resolves consultant ids to display names for the
	// read view.
	DisplayNames(ctx context.Context, ids []int64) (map[int64]string, error)
}

// QualityScoreReader returns CV-quality scores (0-100) for a batch of
// consultants. Missing entries mean "unscored".
type QualityScoreReader interface {
	QualityScores(ctx context.Context, consultantIDs []int64) (map[int64]int, error)
}

// ArtifactResolver maps a consultant snapshot to an uploaded CV artifact
// reference, uploading on first use.
type ArtifactResolver interface {
	Resolve(ctx context.Context, snap scoring.CandidateSnapshot) (string, error)
}

// Ranker performs the single batched AI ranking call. It degrades to an
// empty list on any failure.
type Ranker interface {
	Rank(ctx context.Context, projectRequestID, projectDescription string, candidates []ai.BatchCandidate, topN int) []ai.RankedCandidate
}

// RunStore persists MatchRuns as aggregates: a run and its results are
// written in one transaction.
type RunStore interface {
	// SaveRun writes the run and its results atomically. When replace is
	// true, prior runs for the same project request are deleted in the
	// same transaction.
	SaveRun(ctx context.Context, run *MatchRun, replace bool) error
	// LatestRun returns the most recently created run with its results,
	// or nil when none exists.
	LatestRun(ctx context.Context, projectRequestID int64) (*MatchRun, error)
}
