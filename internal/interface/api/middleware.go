package api

import (
	"context"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type sessionKey struct{}

// sessionFrom returns the session attached by requireRole
func sessionFrom(ctx context.Context) *entity.DashboardSession {
	sess, _ := ctx.Value(sessionKey{}).(*entity.DashboardSession)
	return sess
}

// actorFrom is the dashboard user behind the request
func actorFrom(r *http.Request) entity.Actor {
	if sess := sessionFrom(r.Context()); sess != nil {
		return sess.Actor()
	}
	return entity.Actor{Name: "Dashboard"}
}

// requireRole rejects requests without a role-bearing session: 401 without a
// valid cookie, 403 when the user lacks the role
func (s *Server) requireRole(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.signer.FromRequest(r)
		if sess == nil {
			writeError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		if !sess.HasRole {
			writeError(w, http.StatusForbidden, "Missing required role")
			return
		}
		ctx := context.WithValue(r.Context(), sessionKey{}, sess)
		ctx = usecase.WithSource(ctx, usecase.SourceDashboard)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// recoverer reports panics under a reference code instead of dropping the connection
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
			action := r.Method + " " + r.URL.Path
			ref := s.reporter.ReportPanic(r.Context(), actorFrom(r), action, rec, debug.Stack())
			writeJSON(w, http.StatusInternalServerError, map[string]string{
				"detail":    "Internal error",
				"reference": ref,
			})
		}()
		next.ServeHTTP(w, r)
	})
}

// observe records request latency by route pattern
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.RequestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}

// cors allows the configured origins, credentials included
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowedOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization")
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allowedOrigin echoes origin back when it is allowed. Credentialed requests
// cannot use a literal "*", so a wildcard entry echoes any origin.
func (s *Server) allowedOrigin(origin string) string {
	if origin == "" {
		return ""
	}
	for _, o := range s.cfg.CORSOrigins {
		o = strings.TrimSpace(o)
		if o == "*" || strings.EqualFold(o, origin) {
			return origin
		}
	}
	return ""
}
