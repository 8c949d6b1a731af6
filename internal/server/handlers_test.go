package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/thomasandersen77/candidate-match/internal/match"
)

type fakeMatchService struct {
	triggered     []int64
	forced        []bool
	result        *match.Result
	resultErr     error
	status        string
	statusErr     error
	gotLimit      int
	gotResultCall int64
}

func (f *fakeMatchService) TriggerMatching(projectRequestID int64, forceRecompute bool) {
	f.triggered = append(f.triggered, projectRequestID)
	f.forced = append(f.forced, forceRecompute)
}

func (f *fakeMatchService) MatchesForProject(_ context.Context, projectRequestID int64, limit int) (*match.Result, error) {
	f.gotResultCall = projectRequestID
	f.gotLimit = limit
	return f.result, f.resultErr
}

func (f *fakeMatchService) Status(_ context.Context, _ int64) (string, error) {
	return f.status, f.statusErr
}

func newTestServer(svc MatchService) *Server {
	return New(Config{Port: 0}, svc, zap.NewNop())
}

func do(s *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleTrigger_Accepted(t *testing.T) {
	svc := &fakeMatchService{}
	s := newTestServer(svc)

	rec := do(s, http.MethodPost, "/matches/42/trigger")

	assert.Equal(t, http.StatusAccepted, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "accepted", body["status"])
	require.Len(t, svc.triggered, 1)
	assert.Equal(t, int64(42), svc.triggered[0])
	assert.False(t, svc.forced[0])
}

func TestHandleTrigger_ForceFlag(t *testing.T) {
	svc := &fakeMatchService{}
	s := newTestServer(svc)

	rec := do(s, http.MethodPost, "/matches/42/trigger?force=true")

	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, svc.forced, 1)
	assert.True(t, svc.forced[0])
}

func TestHandleTrigger_InvalidID(t *testing.T) {
	svc := &fakeMatchService{}
	s := newTestServer(svc)

	rec := do(s, http.MethodPost, "/matches/not-a-number/trigger")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.triggered)
}

func TestHandleGetMatches_ReturnsResult(t *testing.T) {
	svc := &fakeMatchService{result: &match.Result{
		ProjectRequestID: 42,
		ComputedAt:       time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		Candidates: []match.MatchedCandidate{
			{ConsultantID: 7, ConsultantName: "Alice", MatchScore: 0.88, Explanation: "Strong fit"},
		},
	}}
	s := newTestServer(svc)

	rec := do(s, http.MethodGet, "/matches/42?limit=5")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, svc.gotLimit)
	assert.Equal(t, int64(42), svc.gotResultCall)

	var body match.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int64(42), body.ProjectRequestID)
	require.Len(t, body.Candidates, 1)
	assert.Equal(t, "Alice", body.Candidates[0].ConsultantName)
}

func TestHandleGetMatches_DefaultLimit(t *testing.T) {
	svc := &fakeMatchService{result: &match.Result{}}
	s := newTestServer(svc)

	do(s, http.MethodGet, "/matches/42")

	assert.Equal(t, defaultMatchLimit, svc.gotLimit)
}

func TestHandleGetMatches_NotFoundWithoutRun(t *testing.T) {
	svc := &fakeMatchService{}
	s := newTestServer(svc)

	rec := do(s, http.MethodGet, "/matches/42")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleGetMatches_BadLimit(t *testing.T) {
	svc := &fakeMatchService{}
	s := newTestServer(svc)

	rec := do(s, http.MethodGet, "/matches/42?limit=zero")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetMatches_ServiceError(t *testing.T) {
	svc := &fakeMatchService{resultErr: errors.New("db down")}
	s := newTestServer(svc)

	rec := do(s, http.MethodGet, "/matches/42")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleStatus(t *testing.T) {
	svc := &fakeMatchService{status: match.StatusPending}
	s := newTestServer(svc)

	rec := do(s, http.MethodGet, "/matches/42/status")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "pending", body["status"])
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&fakeMatchService{})

	rec := do(s, http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
