package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/hostelhub/internal/pkg/apperrors"
)

func newTestJWT(ttl time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:   "test-secret",
		TTL:         ttl,
		TokenIssuer: "hostelhub.test",
	})
}

func TestSessionProvider_IssuedTokenAuthenticates(t *testing.T) {
	jwtService := newTestJWT(time.Hour)
	identity := &Identity{Email: "200101001@iiitdmj.ac.in", Subject: "g-123", Provider: ProviderGoogle}

	session, token, err := jwtService.IssueSession(identity)
	require.NoError(t, err)
	assert.True(t, session.Authenticated())

	provider := NewSessionProvider(jwtService)
	restored, err := provider.Session(token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, restored.ID)
	assert.Equal(t, "200101001@iiitdmj.ac.in", restored.Email())
	assert.Equal(t, ProviderGoogle, restored.Identity.Provider)
	assert.True(t, restored.Authenticated())
}

func TestValidateToken_Expired(t *testing.T) {
	jwtService := newTestJWT(-time.Minute)

	_, token, err := jwtService.IssueSession(&Identity{Email: "a1@iiitdmj.ac.in"})
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	_, token, err := newTestJWT(time.Hour).IssueSession(&Identity{Email: "a1@iiitdmj.ac.in"})
	require.NoError(t, err)

	other := NewJWTService(JWTConfig{SecretKey: "another", TTL: time.Hour, TokenIssuer: "hostelhub.test"})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestIssueSession_RequiresEmail(t *testing.T) {
	_, _, err := newTestJWT(time.Hour).IssueSession(&Identity{})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSession_NilIsUnauthenticated(t *testing.T) {
	var session *Session
	assert.False(t, session.Authenticated())
	assert.Equal(t, "", session.Email())
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer aaa.bbb.ccc")
	require.NoError(t, err)
	assert.Equal(t, "aaa.bbb.ccc", token)

	token, err = ExtractBearerToken("\"aaa.bbb.ccc\"")
	require.NoError(t, err)
	assert.Equal(t, "aaa.bbb.ccc", token)

	_, err = ExtractBearerToken("Bearer not-a-jwt")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}
