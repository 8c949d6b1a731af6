// Package match orchestrates the matching pipeline: pre-filtering and
// scoring of candidates, artifact resolution, batched AI ranking, and
// idempotent persistence of results per project request.
package match

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// noExplanation is stored when the provider returned no reasons for a
// candidate.
const noExplanation = "No explanation provided."

// MatchRun is one matching computation attempt for a project request. It
// owns its CandidateResults; deleting a run deletes its results. Runs are
// superseded, never mutated.
type MatchRun struct {
	ID               uuid.UUID
	ProjectRequestID int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
	Results          []CandidateResult
}

// CandidateResult is one consultant's ranked outcome within a MatchRun.
type CandidateResult struct {
	ID           uuid.UUID
	ConsultantID int64
	MatchScore   float64
	Explanation  string
	CreatedAt    time.Time
}

// NewMatchRun builds an empty run for a project request.
func NewMatchRun(projectRequestID int64) *MatchRun {
	now := time.Now().UTC()
	return &MatchRun{
		ID:               uuid.New(),
		ProjectRequestID: projectRequestID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// TopCandidates returns at most n results sorted by score descending,
// ties broken by createdAt descending.
func (r *MatchRun) TopCandidates(n int) []CandidateResult {
	sorted := make([]CandidateResult, len(r.Results))
	copy(sorted, r.Results)

	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].MatchScore != sorted[j].MatchScore {
			return sorted[i].MatchScore > sorted[j].MatchScore
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// ProjectRequest is the customer's staffing need as returned by the
// project-request reader.
type ProjectRequest struct {
	ID           int64
	CustomerName string
	Title        string
	Summary      string
	Skills       []string
	Requirements []Requirement
	StartDate    string
	EndDate      string
}

// Requirement is one requirement line; MustHave distinguishes MUST from
// SHOULD requirements in the ranking instruction.
type Requirement struct {
	Text     string
	MustHave bool
}

// MatchedCandidate is one entry of the read-only matches view, joined
// with live consultant display data.
type MatchedCandidate struct {
	ConsultantID   int64   `json:"consultantId"`
	ConsultantName string  `json:"consultantName"`
	MatchScore     float64 `json:"matchScore"`
	Explanation    string  `json:"explanation"`
}

// Result is the read-only view over the most recent MatchRun for a
// project request.
type Result struct {
	ProjectRequestID int64              `json:"projectRequestId"`
	ComputedAt       time.Time          `json:"computedAt"`
	Candidates       []MatchedCandidate `json:"candidates"`
}

// Status values reported for a project request.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
)
