package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/receptive/reviews-backend/internal/httperr"
)

func TestMain(m *testing.M) {
	InitAuth("test-secret")
	m.Run()
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.True(t, VerifyPassword("password123", hash))
	assert.False(t, VerifyPassword("password124", hash))
}

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("64f1c0a2b3d4e5f60718293a")
	require.NoError(t, err)

	userID, err := VerifyJWT(token)
	require.NoError(t, err)
	assert.Equal(t, "64f1c0a2b3d4e5f60718293a", userID)
}

func TestVerifyJWTRejectsGarbage(t *testing.T) {
	_, err := VerifyJWT("not.a.token")
	require.Error(t, err)
	assert.ErrorIs(t, err, httperr.ErrAuth)
}

func TestVerifyJWTRejectsExpired(t *testing.T) {
	claims := jwt.MapClaims{
		"id":  "64f1c0a2b3d4e5f60718293a",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	require.NoError(t, err)

	_, err = VerifyJWT(expired)
	assert.ErrorIs(t, err, httperr.ErrAuth)
}

func TestVerifyJWTRejectsWrongSecret(t *testing.T) {
	claims := jwt.MapClaims{
		"id":  "64f1c0a2b3d4e5f60718293a",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = VerifyJWT(forged)
	assert.ErrorIs(t, err, httperr.ErrAuth)
}

func TestVerifyJWTRejectsMissingID(t *testing.T) {
	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
	require.NoError(t, err)

	_, err = VerifyJWT(token)
	assert.ErrorIs(t, err, httperr.ErrAuth)
}

func TestTokenCarriesSevenDayExpiry(t *testing.T) {
	token, err := GenerateJWT("64f1c0a2b3d4e5f60718293a")
	require.NoError(t, err)

	parsed, err := jwt.Parse(token, func(*jwt.Token) (interface{}, error) { return jwtSecret, nil })
	require.NoError(t, err)

	exp, err := parsed.Claims.GetExpirationTime()
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(tokenTTL), exp.Time, time.Minute)
}
