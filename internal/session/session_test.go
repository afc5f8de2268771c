package session

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func newTestManager(now time.Time, ttl time.Duration) *Manager {
	m := NewManager(testSecret, ttl)
	m.now = func() time.Time { return now }
	return m
}

func TestIssueAndHydrate(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	m := newTestManager(now, time.Hour)

	token, err := m.Issue("c1", "Jordan Reed", "jordan@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	s, err := m.Hydrate(token)
	require.NoError(t, err)
	assert.Equal(t, "c1", s.CustomerID)
	assert.Equal(t, "Jordan Reed", s.Name)
	assert.Equal(t, "jordan@example.com", s.Email)
	assert.Equal(t, now, s.IssuedAt)
	assert.Equal(t, now.Add(time.Hour), s.ExpiresAt)
}

func TestHydrate_ExpiredToken(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	m := newTestManager(now, time.Hour)

	token, err := m.Issue("c1", "", "")
	require.NoError(t, err)

	m.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = m.Hydrate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestHydrate_WrongSecret(t *testing.T) {
	now := time.Now()
	m := newTestManager(now, time.Hour)

	other := NewManager([]byte("other-secret"), time.Hour)
	token, err := other.Issue("c1", "", "")
	require.NoError(t, err)

	_, err = m.Hydrate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestHydrate_RejectsUnsignedToken(t *testing.T) {
	m := newTestManager(time.Now(), time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "c1"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.Hydrate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestHydrate_EmptySubject(t *testing.T) {
	now := time.Now()
	m := newTestManager(now, time.Hour)

	token, err := m.Issue("", "Nameless", "")
	require.NoError(t, err)

	_, err = m.Hydrate(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestHydrate_Garbage(t *testing.T) {
	m := newTestManager(time.Now(), time.Hour)

	_, err := m.Hydrate("not.a.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, FromContext(ctx))

	s := &Session{CustomerID: "c1"}
	ctx = WithSession(ctx, s)
	assert.Same(t, s, FromContext(ctx))

	ctx = Clear(ctx)
	assert.Nil(t, FromContext(ctx))
}
