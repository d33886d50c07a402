package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/auth"
)

type fakeOAuthProvider struct {
	enabled  bool
	email    string
	err      error
	codeSeen string
}

func (p *fakeOAuthProvider) Name() string { return "fake" }
func (p *fakeOAuthProvider) Enabled() bool { return p.enabled }
func (p *fakeOAuthProvider) AuthCodeURL(state string) string { return "https://accounts.example/auth?state=" + state }

func (p *fakeOAuthProvider) Exchange(ctx context.Context, code string) (string, error) {
	p.codeSeen = code
	return "id-token-for-" + code, nil
}

func (p *fakeOAuthProvider) Authenticate(ctx context.Context, credential string) (*auth.Identity, error) {
	if p.err != nil {
		return nil, p.err
	}
	return &auth.Identity{Email: p.email, Subject: "sub-1", Provider: "fake"}, nil
}

func newTestAuthService(provider *fakeOAuthProvider, roles *fakeRoleStore) *AuthService {
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "0123456789abcdef0123456789abcdef",
		TTL:         time.Hour,
		TokenIssuer: "hostelhub-test",
	})
	resolver := NewRoleResolver(roles, testDomain, testLogger)
	return NewAuthService(provider, jwtService, resolver, testLogger)
}

func TestAuthService_SignInWithCode(t *testing.T) {
	roles := newFakeRoleStore()
	roles.roles["warden@iiitdmj.ac.in"] = models.RoleAdmin
	provider := &fakeOAuthProvider{enabled: true, email: "warden@iiitdmj.ac.in"}
	svc := newTestAuthService(provider, roles)

	result, err := svc.SignInWithCode(context.Background(), "abc")
	require.NoError(t, err)

	assert.Equal(t, "abc", provider.codeSeen)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "warden@iiitdmj.ac.in", result.Session.Email())
	assert.Equal(t, PathAdmin, result.Destination.Path)
}

func TestAuthService_RejectsForeignDomain(t *testing.T) {
	provider := &fakeOAuthProvider{enabled: true, email: "someone@gmail.com"}
	svc := newTestAuthService(provider, newFakeRoleStore())

	result, err := svc.SignInWithIDToken(context.Background(), "token")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrDomainNotAllowed)
}

func TestAuthService_ProviderDisabled(t *testing.T) {
	svc := newTestAuthService(&fakeOAuthProvider{}, newFakeRoleStore())

	_, err := svc.LoginURL("state")
	assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)

	_, err = svc.SignInWithCode(context.Background(), "abc")
	assert.ErrorIs(t, err, apperrors.ErrProviderUnavailable)
}

func TestAuthService_InvalidToken(t *testing.T) {
	provider := &fakeOAuthProvider{enabled: true, err: errors.Join(apperrors.ErrTokenInvalid, errors.New("bad signature"))}
	svc := newTestAuthService(provider, newFakeRoleStore())

	_, err := svc.SignInWithIDToken(context.Background(), "forged")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestAuthService_LoginURL(t *testing.T) {
	svc := newTestAuthService(&fakeOAuthProvider{enabled: true}, newFakeRoleStore())

	url, err := svc.LoginURL("xyz")
	require.NoError(t, err)
	assert.Contains(t, url, "state=xyz")
}
