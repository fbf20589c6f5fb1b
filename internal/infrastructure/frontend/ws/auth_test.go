package ws

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTAuth_GenerateThenAuthenticateRoundTrips(t *testing.T) {
	auth := NewJWTAuth("test-secret")

	token, err := auth.GenerateToken("user-42", time.Now().Add(time.Hour))
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Authorization", "Bearer "+token)

	userID, err := auth.Authenticate(r)
	require.NoError(t, err)
	assert.Equal(t, "user-42", userID)
}

func TestJWTAuth_AuthenticateAcceptsTokenQueryParam(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	token, err := auth.GenerateToken("user-7", time.Now().Add(time.Hour))
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/ws?token="+token, nil)

	userID, err := auth.Authenticate(r)
	require.NoError(t, err)
	assert.Equal(t, "user-7", userID)
}

func TestJWTAuth_AuthenticateAcceptsSubprotocol(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	token, err := auth.GenerateToken("user-9", time.Now().Add(time.Hour))
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/ws", nil)
	r.Header.Set("Sec-WebSocket-Protocol", "other, auth-"+token)

	userID, err := auth.Authenticate(r)
	require.NoError(t, err)
	assert.Equal(t, "user-9", userID)
}

func TestJWTAuth_AuthenticateRejectsMissingToken(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)

	_, err := auth.Authenticate(r)
	assert.ErrorIs(t, err, ErrMissingToken)
}

func TestJWTAuth_ValidateTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewJWTAuth("secret-a")
	token, err := issuer.GenerateToken("user-1", time.Now().Add(time.Hour))
	require.NoError(t, err)

	verifier := NewJWTAuth("secret-b")
	_, err = verifier.validateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTAuth_ValidateTokenRejectsExpiredToken(t *testing.T) {
	auth := NewJWTAuth("test-secret")
	token, err := auth.GenerateToken("user-1", time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = auth.validateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTAuth_ValidateTokenRejectsUnsignedAlgNone(t *testing.T) {
	auth := NewJWTAuth("test-secret")

	claims := JWTClaims{UserID: "user-1"}
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = auth.validateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNoAuth_UsesUserIDQueryParamWhenPresent(t *testing.T) {
	auth := NewNoAuth()
	r := httptest.NewRequest(http.MethodGet, "/ws?user_id=carol", nil)

	userID, err := auth.Authenticate(r)
	require.NoError(t, err)
	assert.Equal(t, "carol", userID)
}

func TestNoAuth_DefaultsToAnonymous(t *testing.T) {
	auth := NewNoAuth()
	r := httptest.NewRequest(http.MethodGet, "/ws", nil)

	userID, err := auth.Authenticate(r)
	require.NoError(t, err)
	assert.Equal(t, "anonymous", userID)
}
