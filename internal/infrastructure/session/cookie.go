package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"flightdesk-service/internal/domain/entity"
)

// CookieName is the dashboard session cookie
const CookieName = "aic_session"

// DefaultTTL is how long a signed session stays valid
const DefaultTTL = 24 * time.Hour

var (
	ErrMalformed = errors.New("malformed session token")
	ErrSignature = errors.New("invalid session signature")
	ErrExpired   = errors.New("session expired")
)

// Signer issues and verifies HMAC-signed session tokens of the form
// base64url(json) "." hex(hmac-sha256(base64url(json)))
type Signer struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewSigner creates a signer. A non-positive ttl selects DefaultTTL.
func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Signer{key: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Signer) mac(payload string) string {
	h := hmac.New(sha256.New, s.key)
	h.Write([]byte(payload))
	return hex.EncodeToString(h.Sum(nil))
}

// Sign stamps the expiry on sess and returns its token
func (s *Signer) Sign(sess entity.DashboardSession) (string, error) {
	sess.Exp = s.now().Add(s.ttl).Unix()
	raw, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	payload := base64.URLEncoding.EncodeToString(raw)
	return payload + "." + s.mac(payload), nil
}

// Verify checks the signature and expiry of token
func (s *Signer) Verify(token string) (*entity.DashboardSession, error) {
	idx := strings.LastIndexByte(token, '.')
	if idx <= 0 {
		return nil, ErrMalformed
	}
	payload, sig := token[:idx], token[idx+1:]
	if !hmac.Equal([]byte(sig), []byte(s.mac(payload))) {
		return nil, ErrSignature
	}

	raw, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrMalformed
	}
	var sess entity.DashboardSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, ErrMalformed
	}
	if sess.Exp < s.now().Unix() {
		return nil, ErrExpired
	}
	return &sess, nil
}

// FromRequest returns the verified session of r, or nil
func (s *Signer) FromRequest(r *http.Request) *entity.DashboardSession {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	sess, err := s.Verify(c.Value)
	if err != nil {
		return nil
	}
	return sess
}

// SetCookie signs sess into the response
func (s *Signer) SetCookie(w http.ResponseWriter, sess entity.DashboardSession) error {
	token, err := s.Sign(sess)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// ClearCookie removes the session cookie
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
