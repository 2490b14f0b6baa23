package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"
)

// ResetTokenBytes is the entropy of a raw reset token.
const ResetTokenBytes = 32

// DefaultResetTTL is how long a reset link stays valid.
const DefaultResetTTL = 5 * time.Minute

// ResetTokens generates and validates one-time password-reset tokens.
// Only the SHA-256 hash of a token is ever persisted.
type ResetTokens struct {
	ttl time.Duration
	now func() time.Time
}

// NewResetTokens returns a generator with the given ttl. now may be nil.
func NewResetTokens(ttl time.Duration, now func() time.Time) *ResetTokens {
	if ttl <= 0 {
		ttl = DefaultResetTTL
	}
	if now == nil {
		now = time.Now
	}
	return &ResetTokens{ttl: ttl, now: now}
}

// Now returns the generator's current time.
func (r *ResetTokens) Now() time.Time {
	return r.now()
}

// TTL is the validity window of generated tokens.
func (r *ResetTokens) TTL() time.Duration {
	return r.ttl
}

// Generate returns a URL-safe raw token, its hash and its expiry.
func (r *ResetTokens) Generate() (raw, hash string, expiresAt time.Time, err error) {
	buf := make([]byte, ResetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to read random bytes: %w", err)
	}
	raw = hex.EncodeToString(buf)
	return raw, HashResetToken(raw), r.now().Add(r.ttl), nil
}

// HashResetToken returns the hex SHA-256 digest stored for raw.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Validate reports whether raw matches storedHash and now is before storedExpiry.
// Missing stored values never validate.
func (r *ResetTokens) Validate(raw string, storedHash *string, storedExpiry *time.Time, now time.Time) bool {
	if raw == "" || storedHash == nil || *storedHash == "" || storedExpiry == nil {
		return false
	}
	presented := HashResetToken(raw)
	if subtle.ConstantTimeCompare([]byte(presented), []byte(*storedHash)) != 1 {
		return false
	}
	return now.Before(*storedExpiry)
}
