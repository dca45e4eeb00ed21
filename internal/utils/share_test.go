package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShareToken(t *testing.T) {
	t.Parallel()

	tok, err := NewShareToken()
	require.NoError(t, err)
	assert.Len(t, tok, 32) // 16 random bytes, hex-encoded

	_, err = hex.DecodeString(tok)
	assert.NoError(t, err)

	other, err := NewShareToken()
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)
}
