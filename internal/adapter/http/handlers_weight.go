package adapthttp

import (
	"errors"
	"net/http"

	"weighttracker/internal/domain"
)

func (s *Server) handleWeightCreate(w http.ResponseWriter, r *http.Request) {
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
	at, err := b.timestamp("recorded_at", "at")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRecordedAt)
		return
	}

	owner := identityFrom(r.Context()).Subject
	id, err := s.weights.Record(r.Context(), owner, value, at)
	if errors.Is(err, domain.ErrInvalidTimestamp) {
		writeError(w, http.StatusBadRequest, msgInvalidRecordedAt)
		return
	}
	if err != nil {
		s.serverError(w, r, "insert_entry", msgDBInsertFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

func (s *Server) handleWeightList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := domain.NewPage(q.Get("limit"), q.Get("offset"))

	owner := identityFrom(r.Context()).Subject
	items, err := s.weights.List(r.Context(), owner, page)
	if err != nil {
		s.serverError(w, r, "list_entries", msgDBQueryFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "items": items})
}

// handleWeightUpdate writes only the fields present in the body; an explicit
// 0 is a value like any other.
func (s *Server) handleWeightUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}
	b, err := parseBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	hasValue := b.has("value")
	hasAt := b.has("recorded_at") || b.has("at")
	if !hasValue && !hasAt {
		writeError(w, http.StatusBadRequest, msgNothingToUpdate)
		return
	}

	var value *domain.Measure
	if hasValue {
		v, err := b.measure("value")
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidValue)
			return
		}
		value = &v
	}

	// A null timestamp counts as not sent; with nothing else present the
	// update changes no rows.
	var at *string
	if hasAt {
		at, err = b.timestamp("recorded_at", "at")
		if err != nil {
			writeError(w, http.StatusBadRequest, msgInvalidRecordedAt)
			return
		}
	}

	owner := identityFrom(r.Context()).Subject
	updated, err := s.weights.Update(r.Context(), owner, id, value, at)
	if errors.Is(err, domain.ErrInvalidTimestamp) {
		writeError(w, http.StatusBadRequest, msgInvalidRecordedAt)
		return
	}
	if err != nil {
		s.serverError(w, r, "update_entry", msgDBUpdateFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "updated": updated})
}

func (s *Server) handleWeightDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidID)
		return
	}

	owner := identityFrom(r.Context()).Subject
	deleted, err := s.weights.Delete(r.Context(), owner, id)
	if err != nil {
		s.serverError(w, r, "delete_entry", msgDBDeleteFailed, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": deleted})
}
