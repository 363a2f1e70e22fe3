package jwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEdManager(t *testing.T) *Manager {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	m, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodEd25519,
		PrivateKey:    priv,
		PublicKey:     pub,
		Issuer:        "authcase-test",
	})
	require.NoError(t, err)
	return m
}

func TestIssueParseRoundTripEd25519(t *testing.T) {
	m := newEdManager(t)

	token, err := m.Issue("alice", "sid-1")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "authcase-test", claims.Issuer)
}

func TestIssueParseRoundTripHS256(t *testing.T) {
	m, err := NewManager(Config{
		TTL:           time.Minute,
		SigningMethod: MethodHS256,
		PrivateKey:    []byte("0123456789abcdef0123456789abcdef"),
		Audience:      "app",
	})
	require.NoError(t, err)

	token, err := m.Issue("bob", "")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Subject)
}

func TestParseExpiredReturnsErrExpired(t *testing.T) {
	m := newEdManager(t)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := m.Issue("alice", "sid-1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Parse(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExpired))
	assert.False(t, errors.Is(err, ErrInvalid))
}

func TestParseGarbageReturnsErrInvalid(t *testing.T) {
	m := newEdManager(t)

	_, err := m.Parse("not-a-token")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestParseRejectsForeignKey(t *testing.T) {
	issuer := newEdManager(t)
	verifier := newEdManager(t)

	token, err := issuer.Issue("alice", "sid-1")
	require.NoError(t, err)

	_, err = verifier.Parse(token)
	assert.True(t, errors.Is(err, ErrInvalid))
}

func TestNewManagerRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{name: "zero ttl", cfg: Config{SigningMethod: MethodHS256, PrivateKey: []byte("k")}},
		{name: "leeway too large", cfg: Config{TTL: time.Minute, Leeway: time.Hour, SigningMethod: MethodHS256, PrivateKey: []byte("k")}},
		{name: "hs256 without key", cfg: Config{TTL: time.Minute, SigningMethod: MethodHS256}},
		{name: "ed25519 without public key", cfg: Config{TTL: time.Minute, SigningMethod: MethodEd25519}},
		{name: "unknown method", cfg: Config{TTL: time.Minute, SigningMethod: "rs256"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewManager(tt.cfg)
			assert.Error(t, err)
		})
	}
}

func TestIssueWithoutPrivateKeyFails(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	m, err := NewManager(Config{TTL: time.Minute, SigningMethod: MethodEd25519, PublicKey: pub})
	require.NoError(t, err)

	_, err = m.Issue("alice", "sid")
	assert.Error(t, err)
}
