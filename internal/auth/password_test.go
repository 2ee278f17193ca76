package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHash_RoundTrip(t *testing.T) {
	hash, err := GeneratePasswordHash("admin123")
	require.NoError(t, err)
	assert.NotEqual(t, "admin123", hash)

	assert.NoError(t, ComparePasswordHash([]byte(hash), "admin123"))
	assert.Error(t, ComparePasswordHash([]byte(hash), "admin124"))
}
