package adapthttp

import "net/http"

// handleTest echoes input together with the caller's identity, so clients can
// check the token round-trip.
func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	b, err := parseBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	id := identityFrom(r.Context())
	resp := map[string]any{
		"ok":       true,
		"received": b.text("input"),
		"sub":      id.Subject,
	}
	// Claims the token does not carry are left out rather than sent empty.
	if v, ok := id.Claims["preferred_username"]; ok {
		resp["username"] = v
	}
	if v, ok := id.Claims["scope"]; ok {
		resp["scope"] = v
	}
	writeJSON(w, http.StatusOK, resp)
}
