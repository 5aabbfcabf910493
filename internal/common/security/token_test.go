package security

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionToken(t *testing.T) {
	token, hash, err := GenerateSessionToken()
	require.NoError(t, err)

	raw, err := hex.DecodeString(token)
	require.NoError(t, err, "token is hex encoded")
	assert.Len(t, raw, SessionTokenBytes, "token carries the full 256 bits of entropy")
	assert.Equal(t, HashSessionToken(token), hash)

	other, _, err := GenerateSessionToken()
	require.NoError(t, err)
	assert.NotEqual(t, token, other)
}

func TestVerifySessionToken(t *testing.T) {
	token, hash, err := GenerateSessionToken()
	require.NoError(t, err)

	assert.True(t, VerifySessionToken(token, hash))
	assert.False(t, VerifySessionToken("tampered", hash))
	assert.False(t, VerifySessionToken("", hash))
	assert.False(t, VerifySessionToken(token, ""))
}
