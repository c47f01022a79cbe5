package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCompare(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("correct-horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct-horse", hash)

	assert.NoError(t, h.Compare(hash, "correct-horse"))
	assert.ErrorIs(t, h.Compare(hash, "wrong"), ErrPasswordMismatch)
}

func TestHashesAreSalted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	first, err := h.Hash("correct-horse")
	require.NoError(t, err)
	second, err := h.Hash("correct-horse")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestInvalidCostFallsBackToDefault(t *testing.T) {
	h := NewBcryptHasher(-1).(*bcryptHasher)
	assert.Equal(t, DefaultCost, h.cost)

	h = NewBcryptHasher(bcrypt.MaxCost + 1).(*bcryptHasher)
	assert.Equal(t, DefaultCost, h.cost)
}
