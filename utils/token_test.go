package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("StrongPass1!")
	require.NoError(t, err)
	assert.NotEqual(t, "StrongPass1!", hashed)

	assert.True(t, ComparePassword(hashed, "StrongPass1!"))
	assert.False(t, ComparePassword(hashed, "wrong"))
	assert.False(t, ComparePassword("", "StrongPass1!"))
}

func TestGenerateState(t *testing.T) {
	a, err := GenerateState()
	require.NoError(t, err)
	b, err := GenerateState()
	require.NoError(t, err)

	assert.Len(t, a, 22)
	assert.NotEqual(t, a, b)
}
