package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, IsPasswordHash(hash))
	assert.False(t, IsPasswordHash("s3cret"))
	assert.NoError(t, CheckPassword("s3cret", hash))
	assert.Error(t, CheckPassword("wrong", hash))
}
