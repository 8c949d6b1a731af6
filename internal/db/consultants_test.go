package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thomasandersen77/candidate-match/internal/scoring"
)

type fakeRows struct {
	rows [][]any
	idx  int
	err  error
}

func (f *fakeRows) Next() bool {
	if f.idx >= len(f.rows) {
		return false
	}
	f.idx++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	if f.err != nil {
		return f.err
	}
	row := f.rows[f.idx-1]
	*dest[0].(*int64) = row[0].(int64)
	*dest[1].(*string) = row[1].(string)
	*dest[2].(*string) = row[2].(string)
	*dest[3].(*string) = row[3].(string)
	*dest[4].(**int) = row[4].(*int)
	*dest[5].(*[]string) = row[5].([]string)
	return nil
}

func TestScanSnapshots(t *testing.T) {
	quality := 85
	rows := &fakeRows{rows: [][]any{
		{int64(7), "Alice", "cv-7", "Backend work", &quality, []string{"GO", "KOTLIN"}},
		{int64(3), "Bob", "cv-3", "Frontend work", (*int)(nil), []string{"REACT"}},
	}}

	snapshots, err := scanSnapshots(rows)

	require.NoError(t, err)
	require.Len(t, snapshots, 2)
	assert.Equal(t, scoring.CandidateSnapshot{
		ID: 7, Name: "Alice", CVID: "cv-7", CVText: "Backend work",
		Quality: &quality, Skills: []string{"GO", "KOTLIN"},
	}, snapshots[0])
	assert.Nil(t, snapshots[1].Quality)
}

func TestScanSnapshots_ScanError(t *testing.T) {
	rows := &fakeRows{rows: [][]any{{int64(1)}}, err: errors.New("bad column")}

	_, err := scanSnapshots(rows)

	assert.Error(t, err)
}

func TestScanSnapshots_Empty(t *testing.T) {
	snapshots, err := scanSnapshots(&fakeRows{})

	require.NoError(t, err)
	assert.Empty(t, snapshots)
}
