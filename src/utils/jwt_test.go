package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/golang-jwt/jwt/v5"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("64f0c2aa00000000000000aa", "jane@actserv.example", "user")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "64f0c2aa00000000000000aa", claims.UserID)
	assert.Equal(t, "jane@actserv.example", claims.Email)
	assert.Equal(t, "user", claims.Role)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestParseJWTRejectsGarbage(t *testing.T) {
	_, err := ParseJWT("")
	assert.Error(t, err)

	_, err = ParseJWT("not.a.token")
	assert.Error(t, err)
}

func TestParseJWTRejectsWrongKey(t *testing.T) {
	claims := JWTClaims{
		UserID: "x",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-key"))
	require.NoError(t, err)

	_, err = ParseJWT(forged)
	assert.Error(t, err)
}

func TestParseJWTRejectsExpired(t *testing.T) {
	claims := JWTClaims{
		UserID: "x",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(getJWTSecret())
	require.NoError(t, err)

	_, err = ParseJWT(expired)
	assert.Error(t, err)
}
