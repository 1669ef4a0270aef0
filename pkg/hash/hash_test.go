package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("password", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "password", h)

	assert.True(t, CheckPassword(h, "password"))
	assert.False(t, CheckPassword(h, "Password"))
}

func TestCheckPassword_Blank(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("password", bcrypt.MinCost)
	require.NoError(t, err)

	assert.False(t, CheckPassword("", "password"))
	assert.False(t, CheckPassword(h, ""))
}

func TestHashPassword_InvalidCostFallsBack(t *testing.T) {
	t.Parallel()

	h, err := HashPassword("password", 99)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(h))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
