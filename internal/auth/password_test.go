package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher(t *testing.T) {
	h := &BcryptHasher{Cost: 4}

	digest, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", digest)
	assert.True(t, h.Verify("Secret123", digest))
	assert.False(t, h.Verify("secret123", digest))

	again, err := h.Hash("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, digest, again, "salt must differ per call")

	assert.False(t, h.Verify("Secret123", ""))
	assert.False(t, h.Verify("Secret123", "not-a-bcrypt-digest"))
}

func TestNewBcryptHasher_DefaultCost(t *testing.T) {
	assert.Equal(t, BcryptCost, NewBcryptHasher().Cost)
}
