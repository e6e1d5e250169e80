package helpers

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewResetToken(t *testing.T) {
	plain, digest, err := NewResetToken()
	require.NoError(t, err)

	raw, err := hex.DecodeString(plain)
	require.NoError(t, err)
	assert.Len(t, raw, ResetTokenBytes)

	assert.NotEqual(t, plain, digest)
	assert.Equal(t, DigestToken(plain), digest)
	assert.Len(t, digest, 64)
}

func TestNewResetToken_Unique(t *testing.T) {
	a, _, err := NewResetToken()
	require.NoError(t, err)
	b, _, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestDigestToken_Deterministic(t *testing.T) {
	assert.Equal(t, DigestToken("abc"), DigestToken("abc"))
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", DigestToken("abc"))
}
