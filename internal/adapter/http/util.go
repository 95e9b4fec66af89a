package adapthttp

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"weighttracker/internal/domain"
	"weighttracker/internal/metrics"
)

const maxBodyBytes = 1 << 20

// Stable client-facing error strings.
const (
	msgInvalidValue      = "Invalid value"
	msgInvalidID         = "Invalid id"
	msgInvalidRecordedAt = "Invalid recorded_at"
	msgInvalidAt         = "Invalid at timestamp"
	msgNothingToUpdate   = "Nothing to update"
	msgInvalidJSON       = "Invalid JSON"
	msgNotFound          = "Not found"
	msgInternal          = "Internal server error"
	msgDBInsertFailed    = "DB insert failed"
	msgDBQueryFailed     = "DB query failed"
	msgDBUpdateFailed    = "DB update failed"
	msgDBDeleteFailed    = "DB delete failed"
	msgDBUpsertFailed    = "DB upsert failed"
	codeMissingBearer    = "missing_bearer"
	codeInvalidToken     = "invalid_token"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}

// serverError logs err in full and answers with msg only.
func (s *Server) serverError(w http.ResponseWriter, r *http.Request, op, msg string, err error) {
	s.log.Error(msg,
		zap.String("op", op),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
	metrics.StorageErrors.WithLabelValues(op).Inc()
	writeError(w, http.StatusInternalServerError, msg)
}

// body is a decoded JSON object kept as raw members, so handlers can tell an
// absent key from an explicit zero or null.
type body map[string]json.RawMessage

// parseBody reads a JSON object. An empty body or a literal null reads as {}.
func parseBody(w http.ResponseWriter, r *http.Request) (body, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	b := body{}
	if len(bytes.TrimSpace(data)) == 0 {
		return b, nil
	}
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	if b == nil {
		b = body{}
	}
	return b, nil
}

func (b body) has(key string) bool {
	_, ok := b[key]
	return ok
}

// present reports whether key holds a non-null value.
func (b body) present(key string) bool {
	raw, ok := b[key]
	return ok && !isNull(raw)
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// measure reads key as a weight value; absent, null and non-numeric values
// are all invalid.
func (b body) measure(key string) (domain.Measure, error) {
	raw, ok := b[key]
	if !ok {
		return 0, domain.ErrInvalidValue
	}
	return domain.MeasureFromJSON(raw)
}

// timestamp returns the text of the first non-null key among keys, or nil
// when none is set. Strings yield their content. Numbers are epoch
// milliseconds and come back as RFC 3339. Any other JSON type is an invalid
// timestamp.
func (b body) timestamp(keys ...string) (*string, error) {
	for _, k := range keys {
		if !b.present(k) {
			continue
		}
		raw := bytes.TrimSpace(b[k])
		switch {
		case raw[0] == '"':
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, domain.ErrInvalidTimestamp
			}
			return &s, nil
		case raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9'):
			t, err := domain.ParseEpochMillis(string(raw))
			if err != nil {
				return nil, err
			}
			s := t.Format(time.RFC3339)
			return &s, nil
		default:
			return nil, domain.ErrInvalidTimestamp
		}
	}
	return nil, nil
}

// text renders key the way a loosely typed client would print it: strings
// as-is, absent or null as empty, anything else as its JSON text.
func (b body) text(key string) string {
	raw, ok := b[key]
	if !ok || isNull(raw) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(bytes.TrimSpace(raw))
}

// pathID reads the {id} route parameter as a positive integer.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
