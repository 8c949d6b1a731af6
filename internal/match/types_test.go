package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopCandidates_SortsByScoreThenRecency(t *testing.T) {
	older := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	newer := older.Add(time.Hour)

	run := NewMatchRun(1)
	run.Results = []CandidateResult{
		{ConsultantID: 1, MatchScore: 0.5, CreatedAt: older},
		{ConsultantID: 2, MatchScore: 0.9, CreatedAt: older},
		{ConsultantID: 3, MatchScore: 0.5, CreatedAt: newer},
		{ConsultantID: 4, MatchScore: 0.7, CreatedAt: older},
	}

	top := run.TopCandidates(10)

	require.Len(t, top, 4)
	assert.Equal(t, int64(2), top[0].ConsultantID)
	assert.Equal(t, int64(4), top[1].ConsultantID)
	// Equal scores: the newer result wins.
	assert.Equal(t, int64(3), top[2].ConsultantID)
	assert.Equal(t, int64(1), top[3].ConsultantID)
}

func TestTopCandidates_TruncatesToN(t *testing.T) {
	run := NewMatchRun(1)
	for i := 0; i < 5; i++ {
		run.Results = append(run.Results, CandidateResult{
			ConsultantID: int64(i + 1),
			MatchScore:   float64(i) / 10,
			CreatedAt:    run.CreatedAt,
		})
	}

	top := run.TopCandidates(2)

	require.Len(t, top, 2)
	assert.Equal(t, int64(5), top[0].ConsultantID)
	assert.Equal(t, int64(4), top[1].ConsultantID)
}

func TestTopCandidates_DoesNotMutateRun(t *testing.T) {
	run := NewMatchRun(1)
	run.Results = []CandidateResult{
		{ConsultantID: 1, MatchScore: 0.1},
		{ConsultantID: 2, MatchScore: 0.9},
	}

	_ = run.TopCandidates(1)

	assert.Equal(t, int64(1), run.Results[0].ConsultantID)
	assert.Equal(t, int64(2), run.Results[1].ConsultantID)
}
