package adapthttp

import (
	"errors"
	"net/http"

	"weighttracker/internal/domain"
)

func (s *Server) handleGoalGet(w http.ResponseWriter, r *http.Request) {
	owner := identityFrom(r.Context()).Subject
	goal, err := s.goals.Get(r.Context(), owner)
	if err != nil {
		s.serverError(w, r, "get_goal", msgDBQueryFailed, err)
		return
	}
	// A nil *WeightGoal encodes as null.
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "goal": goal})
}

func (s *Server) handleGoalSet(w http.ResponseWriter, r *http.Request) {
	b, err := parseBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}
	value, err := b.measure("value")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidValue)
		return
	}
	at, err := b.timestamp("at")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidAt)
		return
	}

	owner := identityFrom(r.Context()).Subject
	res, err := s.goals.Set(r.Context(), owner, value, at)
	if errors.Is(err, domain.ErrInvalidTimestamp) {
		writeError(w, http.StatusBadRequest, msgInvalidAt)
		return
	}
	if err != nil {
		s.serverError(w, r, "upsert_goal", msgDBUpsertFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "created": res.Created})
}

func (s *Server) handleGoalDelete(w http.ResponseWriter, r *http.Request) {
	owner := identityFrom(r.Context()).Subject
	deleted, err := s.goals.Delete(r.Context(), owner)
	if err != nil {
		s.serverError(w, r, "delete_goal", msgDBDeleteFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": deleted})
}
