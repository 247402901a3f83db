package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSigner(t *testing.T, secret string, ttl time.Duration) *SessionSigner {
	t.Helper()
	s, err := NewSessionSigner(secret, ttl)
	require.NoError(t, err)
	return s
}

func fixedSigner(t *testing.T, secret string, ttl time.Duration, at time.Time) *SessionSigner {
	t.Helper()
	s := newSigner(t, secret, ttl)
	s.now = func() time.Time { return at }
	return s
}

func TestSessionSigner_RoundTrip(t *testing.T) {
	at := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	s := fixedSigner(t, "session-secret-0123456789", time.Hour, at)

	token, err := s.Sign(Session{TastingID: "t1", ParticipantID: "p1"})
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(token, "."))

	sess, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "t1", sess.TastingID)
	assert.Equal(t, "p1", sess.ParticipantID)
	assert.Equal(t, at.Unix(), sess.IssuedAt)
	assert.Equal(t, at.Add(time.Hour).Unix(), sess.ExpiresAt)
}

func TestSessionSigner_RejectsTampering(t *testing.T) {
	s := newSigner(t, "session-secret-0123456789", time.Hour)
	token, err := s.Sign(Session{TastingID: "t1", ParticipantID: "p1"})
	require.NoError(t, err)

	payload, sig, _ := strings.Cut(token, ".")
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"tastingId":"t1","participantId":"admin"}`))

	tests := map[string]string{
		"empty":           "",
		"no separator":    payload,
		"swapped payload": forged + "." + sig,
		"truncated sig":   payload + "." + sig[:len(sig)-2],
		"other secret":    mustSign(t, newSigner(t, "another-secret-0123456", time.Hour)),
		"garbage payload": "!!!." + sig,
		"empty signature": payload + ".",
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := s.Verify(tok)
			assert.ErrorIs(t, err, ErrInvalidSession)
		})
	}
}

func TestSessionSigner_Expiry(t *testing.T) {
	at := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	s := fixedSigner(t, "session-secret-0123456789", time.Minute, at)
	token, err := s.Sign(Session{TastingID: "t1", ParticipantID: "p1"})
	require.NoError(t, err)

	s.now = func() time.Time { return at.Add(2 * time.Minute) }
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrExpiredSession)
}

func TestSessionSigner_RequiresBinding(t *testing.T) {
	s := newSigner(t, "session-secret-0123456789", time.Hour)
	token, err := s.Sign(Session{TastingID: "t1"})
	require.NoError(t, err)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestNewSessionSigner_RejectsEmptySecret(t *testing.T) {
	s, err := NewSessionSigner("", time.Hour)
	assert.ErrorIs(t, err, ErrMissingSecret)
	assert.Nil(t, s)
}

// A token minted with an empty key must not verify under a real signer.
func TestSessionSigner_RejectsEmptyKeyForgery(t *testing.T) {
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"tastingId":"victim-tasting","participantId":"victim-participant"}`))
	mac := hmac.New(sha256.New, nil)
	mac.Write([]byte(payload))
	forged := payload + "." + base64.RawURLEncoding.EncodeToString(mac.Sum(nil))

	s := newSigner(t, "session-secret-0123456789", time.Hour)
	_, err := s.Verify(forged)
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func mustSign(t *testing.T, s *SessionSigner) string {
	t.Helper()
	token, err := s.Sign(Session{TastingID: "t1", ParticipantID: "p1"})
	require.NoError(t, err)
	return token
}
