package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/ctxlog"
	"github.com/secmon-lab/buddyguard/pkg/domain/types"
	"github.com/secmon-lab/buddyguard/pkg/service/metrics"
	"github.com/secmon-lab/buddyguard/pkg/usecase"
)

// SessionHeader carries the session ID returned by POST /api/sessions
const SessionHeader = "X-Session-ID"

type sessionCtxKey struct{}

// CORS middleware adds CORS headers
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+SessionHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireSession resolves the session header and stores the session in the request context
func RequireSession(sessions *usecase.SessionUseCase) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(SessionHeader)
			if id == "" {
				writeMessage(w, r, http.StatusUnauthorized, "missing "+SessionHeader+" header")
				return
			}

			active, err := sessions.Get(types.SessionID(id))
			if err != nil {
				ctxlog.From(r.Context()).Debug("Session lookup failed", "error", err, "sessionID", id)
				writeMessage(w, r, http.StatusUnauthorized, "unknown session")
				return
			}

			logger := ctxlog.From(r.Context()).With("session_id", id, "role", active.Session.Role)
			ctx := ctxlog.With(r.Context(), logger)
			ctx = context.WithValue(ctx, sessionCtxKey{}, active)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFrom(ctx context.Context) *usecase.ActiveSession {
	active, _ := ctx.Value(sessionCtxKey{}).(*usecase.ActiveSession)
	return active
}

// LoggingMiddleware creates a chi-compatible logging middleware
func LoggingMiddleware(ctx context.Context) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger := ctxlog.From(ctx).With("request_id", middleware.GetReqID(r.Context()))
			r = r.WithContext(ctxlog.With(r.Context(), logger))

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		})
	}
}

// MetricsMiddleware records request count and latency by route pattern
func MetricsMiddleware(m *metrics.Service) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.ObserveHTTPRequest(r.Method, path, status, time.Since(start))
		})
	}
}
