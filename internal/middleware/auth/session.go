package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// SessionCookieName is the cookie carrying a participant session.
const SessionCookieName = "tasting_session"

var (
	ErrMissingSecret  = errors.New("session secret must not be empty")
	ErrInvalidSession = errors.New("invalid session")
	ErrExpiredSession = errors.New("session has expired")
)

// Session binds a participant to a tasting.
type Session struct {
	TastingID     string `json:"tastingId"`
	ParticipantID string `json:"participantId"`
	IssuedAt      int64  `json:"iat,omitempty"`
	ExpiresAt     int64  `json:"exp,omitempty"`
}

// SessionSigner issues and verifies session tokens of the form
// base64url(json payload) + "." + base64url(HMAC-SHA256(payload)).
type SessionSigner struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSessionSigner fails on an empty secret.
func NewSessionSigner(secret string, ttl time.Duration) (*SessionSigner, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}
	return &SessionSigner{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (s *SessionSigner) TTL() time.Duration { return s.ttl }

// Sign stamps the session with issue and expiry times and returns the token.
func (s *SessionSigner) Sign(sess Session) (string, error) {
	now := s.now()
	sess.IssuedAt = now.Unix()
	if s.ttl > 0 {
		sess.ExpiresAt = now.Add(s.ttl).Unix()
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	payload := base64.RawURLEncoding.EncodeToString(raw)
	return payload + "." + s.signature(payload), nil
}

// Verify checks the signature in constant time and decodes the payload.
func (s *SessionSigner) Verify(token string) (Session, error) {
	payload, sig, ok := strings.Cut(token, ".")
	if !ok || payload == "" || sig == "" {
		return Session{}, ErrInvalidSession
	}
	if !hmac.Equal([]byte(sig), []byte(s.signature(payload))) {
		return Session{}, ErrInvalidSession
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return Session{}, ErrInvalidSession
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, ErrInvalidSession
	}
	if sess.TastingID == "" || sess.ParticipantID == "" {
		return Session{}, ErrInvalidSession
	}
	if sess.ExpiresAt != 0 && s.now().Unix() >= sess.ExpiresAt {
		return Session{}, ErrExpiredSession
	}
	return sess, nil
}

func (s *SessionSigner) signature(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
