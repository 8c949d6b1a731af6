package server

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

const defaultMatchLimit = 10

// handleTrigger accepts a matching request and returns 202 immediately.
// The computation runs in the background; a missing project request
// surfaces through the status endpoint staying pending.
func (s *Server) handleTrigger(w http.ResponseWriter, r *http.Request) {
	id, ok := s.projectRequestID(w, r)
	if !ok {
		return
	}
	force := r.URL.Query().Get("force") == "true"

	s.matches.TriggerMatching(id, force)
	s.log.Info("matching triggered",
		zap.Int64("project_request_id", id),
		zap.Bool("force", force))
	s.jsonResponse(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// handleGetMatches returns the most recent match result, or 404 when no
// run exists yet.
func (s *Server) handleGetMatches(w http.ResponseWriter, r *http.Request) {
	id, ok := s.projectRequestID(w, r)
	if !ok {
		return
	}

	limit := defaultMatchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	result, err := s.matches.MatchesForProject(r.Context(), id, limit)
	if err != nil {
		s.log.Error("failed to load matches", zap.Int64("project_request_id", id), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to load matches")
		return
	}
	if result == nil {
		s.errorResponse(w, http.StatusNotFound, "no match result for project request")
		return
	}

	s.jsonResponse(w, http.StatusOK, result)
}

// handleStatus reports whether a match result exists.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.projectRequestID(w, r)
	if !ok {
		return
	}

	status, err := s.matches.Status(r.Context(), id)
	if err != nil {
		s.log.Error("failed to load match status", zap.Int64("project_request_id", id), zap.Error(err))
		s.errorResponse(w, http.StatusInternalServerError, "failed to load status")
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"status": status})
}

func (s *Server) projectRequestID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("projectRequestId"), 10, 64)
	if err != nil || id <= 0 {
		s.errorResponse(w, http.StatusBadRequest, "invalid project request id")
		return 0, false
	}
	return id, true
}
