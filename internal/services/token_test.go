package services

import (
	"testing"
	"time"

	"spotless/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokenService() *TokenService {
	return NewTokenService(config.Config{AuthTokenSecret: "test-secret"})
}

func TestTokenService_IssueAndValidate(t *testing.T) {
	service := newTestTokenService()

	token, err := service.Issue(Identity{
		Subject: "ext-123",
		Email:   "owner@acme.example",
		Name:    "Acme Owner",
	}, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := service.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "ext-123", identity.Subject)
	assert.Equal(t, "owner@acme.example", identity.Email)
	assert.Equal(t, "Acme Owner", identity.Name)
}

func TestTokenService_Validate_RejectsExpired(t *testing.T) {
	service := newTestTokenService()

	token, err := service.Issue(Identity{Subject: "ext-123"}, -time.Minute)
	require.NoError(t, err)

	_, err = service.Validate(token)
	assert.Error(t, err)
}

func TestTokenService_Validate_RejectsWrongSecret(t *testing.T) {
	other := NewTokenService(config.Config{AuthTokenSecret: "other-secret"})
	token, err := other.Issue(Identity{Subject: "ext-123"}, time.Hour)
	require.NoError(t, err)

	_, err = newTestTokenService().Validate(token)
	assert.Error(t, err)
}

func TestTokenService_Validate_RejectsUnsignedAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "ext-123"})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = newTestTokenService().Validate(token)
	assert.Error(t, err)
}

func TestTokenService_Validate_RejectsMissingSubject(t *testing.T) {
	service := newTestTokenService()

	claims := jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = service.Validate(token)
	assert.Error(t, err)
}
