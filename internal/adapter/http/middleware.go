package adapthttp

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"weighttracker/internal/domain"
	"weighttracker/internal/metrics"
)

type contextKey string

const identityContextKey contextKey = "identity"

// identityFrom returns the caller resolved by authMiddleware.
func identityFrom(ctx context.Context) *domain.Identity {
	id, _ := ctx.Value(identityContextKey).(*domain.Identity)
	return id
}

// authMiddleware verifies the bearer token and stores the caller in the
// request context. Rejections never reach the handler.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.authn.Authenticate(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			code := codeInvalidToken
			if errors.Is(err, domain.ErrMissingBearer) {
				code = codeMissingBearer
			}
			metrics.AuthFailures.WithLabelValues(code).Inc()
			writeError(w, http.StatusUnauthorized, code)
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware writes one access log line per request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info("http",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", status(ww)),
			zap.Duration("dur", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// recoverer turns a handler panic into a logged 500.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.log.Error("panic",
				zap.Any("reason", rec),
				zap.ByteString("stack", debug.Stack()),
				zap.String("path", r.URL.Path),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
			writeError(w, http.StatusInternalServerError, msgInternal)
		}()
		next.ServeHTTP(w, r)
	})
}

// instrument records request count and latency per route pattern.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(status(ww))).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// status treats a handler that never wrote a header as 200.
func status(ww middleware.WrapResponseWriter) int {
	if ww.Status() == 0 {
		return http.StatusOK
	}
	return ww.Status()
}
