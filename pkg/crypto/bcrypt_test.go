// pkg/crypto/bcrypt_test.go

package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("Tr0ub4dor&3", bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$2a$04$"))
	assert.True(t, ComparePassword(hash, "Tr0ub4dor&3"))
	assert.False(t, ComparePassword(hash, "tr0ub4dor&3"))
}

func TestHashPassword_DefaultCost(t *testing.T) {
	hash, err := HashPassword("x", 0)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestHashPassword_Rejects(t *testing.T) {
	_, err := HashPassword("x", 3)
	assert.Error(t, err)
	_, err = HashPassword("x", 32)
	assert.Error(t, err)
	_, err = HashPassword(strings.Repeat("a", BcryptMaxBytes+1), bcrypt.MinCost)
	assert.Error(t, err)

	_, err = HashPassword(strings.Repeat("a", BcryptMaxBytes), bcrypt.MinCost)
	assert.NoError(t, err)
}

func TestComparePassword_BadHash(t *testing.T) {
	assert.False(t, ComparePassword("not-a-hash", "x"))
}
