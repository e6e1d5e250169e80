package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/natours-auth/pkg/apperror"
)

func TestJWTManager_GenerateAndParse(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	tok, exp, err := m.GenerateToken("user-1", "sid-1")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ParseToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.WithinDuration(t, time.Now(), claims.IssuedAtTime(), 5*time.Second)
}

func TestJWTManager_Expired(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }
	tok, _, err := m.GenerateToken("user-1", "")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseToken(tok)

	var te *apperror.TokenError
	require.ErrorAs(t, err, &te)
	assert.True(t, te.Expired)
	assert.Equal(t, apperror.KindTokenExpired, te.Kind())
}

func TestJWTManager_Invalid(t *testing.T) {
	signer := NewJWTManager("right-secret", time.Hour)
	tok, _, err := signer.GenerateToken("user-1", "")
	require.NoError(t, err)

	tests := map[string]string{
		"wrong secret": tok,
		"garbage":      "not.a.jwt",
		"empty":        "",
	}
	verifier := NewJWTManager("wrong-secret", time.Hour)
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := verifier.ParseToken(in)
			var te *apperror.TokenError
			require.ErrorAs(t, err, &te)
			assert.False(t, te.Expired)
		})
	}
}

func TestJWTManager_RejectsNoneAlgorithm(t *testing.T) {
	claims := &Claims{UserID: "user-1", RegisteredClaims: jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Hour).ParseToken(tok)
	var te *apperror.TokenError
	assert.ErrorAs(t, err, &te)
}

func TestJWTManager_MissingUserID(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	tok, _, err := m.GenerateToken("", "")
	require.NoError(t, err)
	_, err = m.ParseToken(tok)
	var te *apperror.TokenError
	assert.ErrorAs(t, err, &te)
}
