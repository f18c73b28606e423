package api

import (
	"net/http"
	"path/filepath"
	"time"

	"flightdesk-service/internal/domain/entity"
	"flightdesk-service/internal/infrastructure/session"

	"github.com/google/uuid"
)

const (
	stateCookie   = "oauth_state"
	stateLifetime = 10 * time.Minute
)

const oauthNotConfigured = "<h2>OAuth not configured</h2>" +
	"<p>Set DISCORD_CLIENT_ID, DISCORD_CLIENT_SECRET and DISCORD_REDIRECT_URI.</p>"

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauth == nil {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(oauthNotConfigured))
		return
	}

	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/auth",
		MaxAge:   int(stateLifetime.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.oauth.GenerateAuthURL(state), http.StatusFound)
}

func loginError(w http.ResponseWriter, r *http.Request, reason string) {
	http.Redirect(w, r, "/login.html?error="+reason, http.StatusFound)
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauth == nil {
		loginError(w, r, "cancelled")
		return
	}

	q := r.URL.Query()
	code := q.Get("code")
	if q.Get("error") != "" || code == "" {
		loginError(w, r, "cancelled")
		return
	}
	c, err := r.Cookie(stateCookie)
	if err != nil || c.Value == "" || c.Value != q.Get("state") {
		s.logger.Warn("OAuth state mismatch", "remote_addr", r.RemoteAddr)
		loginError(w, r, "cancelled")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/auth", MaxAge: -1})

	token, err := s.oauth.ExchangeCode(r.Context(), code)
	if err != nil {
		s.logger.Warn("OAuth code exchange failed", "error", err)
		loginError(w, r, "token_failed")
		return
	}
	identity, err := s.oauth.FetchIdentity(r.Context(), token)
	if err != nil {
		s.logger.Warn("OAuth user lookup failed", "error", err)
		loginError(w, r, "user_failed")
		return
	}

	hasRole := identity.HasRole(s.cfg.RoleRequired)
	if !hasRole {
		s.logger.Info("Dashboard login without required role", "user_id", identity.UserID, "username", identity.Username)
		loginError(w, r, "no_role")
		return
	}

	sess := entity.DashboardSession{
		UserID:   identity.UserID,
		Username: identity.Username,
		Avatar:   identity.Avatar,
		HasRole:  hasRole,
	}
	if err := s.signer.SetCookie(w, sess); err != nil {
		s.logger.Error("Failed to sign dashboard session", "error", err)
		loginError(w, r, "token_failed")
		return
	}
	s.logger.Info("Dashboard login", "user_id", identity.UserID, "username", identity.Username)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session.ClearCookie(w)
	http.Redirect(w, r, "/login.html", http.StatusFound)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := s.signer.FromRequest(r)
	if sess == nil {
		writeJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"has_role":      sess.HasRole,
		"user_id":       sess.UserID,
		"username":      sess.Username,
		"avatar":        sess.Avatar,
	})
}

func (s *Server) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	if sess := s.signer.FromRequest(r); sess == nil || !sess.HasRole {
		http.Redirect(w, r, "/login.html", http.StatusFound)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.cfg.DashboardDir, "dashboard.html"))
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if sess := s.signer.FromRequest(r); sess != nil && sess.HasRole {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	http.ServeFile(w, r, filepath.Join(s.cfg.DashboardDir, "login.html"))
}
