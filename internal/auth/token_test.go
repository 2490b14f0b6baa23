package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-chars"

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestManager(t *testing.T, clock *fakeClock) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(TokenConfig{Secret: testSecret, Lifetime: time.Hour}, clock.Now)
	require.NoError(t, err)
	return m
}

func TestTokenManager_RoundTrip(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	token, expiresAt, err := m.Issue(42)
	require.NoError(t, err)
	assert.WithinDuration(t, clock.t.Add(time.Hour), expiresAt, time.Second)

	id, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	other, _, err := m.Issue(42)
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "jti makes every token unique")
}

func TestTokenManager_Expiry(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	token, _, err := m.Issue(7)
	require.NoError(t, err)

	clock.t = clock.t.Add(59 * time.Minute)
	_, err = m.Verify(token)
	assert.NoError(t, err)

	clock.t = clock.t.Add(2 * time.Minute)
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_NotYetValid(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	token, _, err := m.Issue(7)
	require.NoError(t, err)

	clock.t = clock.t.Add(-time.Hour)
	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Tampering(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	token, _, err := m.Issue(42)
	require.NoError(t, err)

	// Flipping any single character must invalidate the token.
	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		replacement := byte('A')
		if token[i] == 'A' {
			replacement = 'B'
		}
		mutated := token[:i] + string(replacement) + token[i+1:]
		if mutated == token {
			continue
		}
		_, err := m.Verify(mutated)
		// The final base64 character of the signature may carry padding bits
		// only; decoding then yields identical bytes.
		if err == nil && i == len(token)-1 {
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidToken, "mutation at %d accepted", i)
	}
}

func TestTokenManager_Rejects(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	m := newTestManager(t, clock)

	sign := func(method jwt.SigningMethod, key interface{}, claims jwt.Claims) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}
	valid := func() jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   "42",
			Issuer:    DefaultIssuer,
			Audience:  jwt.ClaimStrings{DefaultAudience},
			IssuedAt:  jwt.NewNumericDate(clock.t),
			ExpiresAt: jwt.NewNumericDate(clock.t.Add(time.Hour)),
		}
	}

	tests := []struct {
		name  string
		token string
	}{
		{"Empty", ""},
		{"Garbage", "not.a.jwt"},
		{"Wrong secret", sign(jwt.SigningMethodHS256, []byte("another-secret-another-secret-123"), valid())},
		{"None algorithm", func() string {
			s, err := jwt.NewWithClaims(jwt.SigningMethodNone, valid()).SignedString(jwt.UnsafeAllowNoneSignatureType)
			require.NoError(t, err)
			return s
		}()},
		{"Wrong issuer", func() string {
			c := valid()
			c.Issuer = "someone-else"
			return sign(jwt.SigningMethodHS256, []byte(testSecret), c)
		}()},
		{"Wrong audience", func() string {
			c := valid()
			c.Audience = jwt.ClaimStrings{"other-client"}
			return sign(jwt.SigningMethodHS256, []byte(testSecret), c)
		}()},
		{"Missing expiry", func() string {
			c := valid()
			c.ExpiresAt = nil
			return sign(jwt.SigningMethodHS256, []byte(testSecret), c)
		}()},
		{"Non numeric subject", func() string {
			c := valid()
			c.Subject = "admin"
			return sign(jwt.SigningMethodHS256, []byte(testSecret), c)
		}()},
		{"HS512 instead of HS256", sign(jwt.SigningMethodHS512, []byte(testSecret), valid())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewTokenManager_Validation(t *testing.T) {
	_, err := NewTokenManager(TokenConfig{Lifetime: time.Hour}, nil)
	assert.Error(t, err)

	_, err = NewTokenManager(TokenConfig{Secret: testSecret}, nil)
	assert.Error(t, err)

	m, err := NewTokenManager(TokenConfig{Secret: testSecret, Lifetime: 7 * 24 * time.Hour}, nil)
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, m.Lifetime())

	token, _, err := m.Issue(1)
	require.NoError(t, err)
	assert.Equal(t, 3, len(strings.Split(token, ".")))
}
