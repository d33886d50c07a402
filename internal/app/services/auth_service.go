package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/auth"
)

// OAuthProvider is an identity provider reached through the OAuth code flow
type OAuthProvider interface {
	auth.IdentityProvider
	Enabled() bool
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
}

// SessionIssuer signs new sessions
type SessionIssuer interface {
	IssueSession(identity *auth.Identity) (*auth.Session, string, error)
}

// SignInResult is a freshly issued session and where it should land
type SignInResult struct {
	Session     *auth.Session
	Token       string
	Destination Destination
}

// AuthService signs users in through the identity provider
type AuthService struct {
	provider OAuthProvider
	sessions SessionIssuer
	resolver *RoleResolver
	logger   zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(provider OAuthProvider, sessions SessionIssuer, resolver *RoleResolver, logger zerolog.Logger) *AuthService {
	return &AuthService{
		provider: provider,
		sessions: sessions,
		resolver: resolver,
		logger:   logger,
	}
}

// LoginURL returns the provider consent URL for state
func (s *AuthService) LoginURL(state string) (string, error) {
	if !s.provider.Enabled() {
		return "", apperrors.ErrProviderUnavailable
	}
	return s.provider.AuthCodeURL(state), nil
}

// SignInWithCode completes the OAuth code flow
func (s *AuthService) SignInWithCode(ctx context.Context, code string) (*SignInResult, error) {
	if !s.provider.Enabled() {
		return nil, apperrors.ErrProviderUnavailable
	}

	idToken, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.logger.Warn().Err(err).Msg("OAuth code exchange failed")
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUnauthorized, err)
	}
	return s.SignInWithIDToken(ctx, idToken)
}

// SignInWithIDToken signs in with a provider-issued ID token
func (s *AuthService) SignInWithIDToken(ctx context.Context, idToken string) (*SignInResult, error) {
	if !s.provider.Enabled() {
		return nil, apperrors.ErrProviderUnavailable
	}

	identity, err := s.provider.Authenticate(ctx, idToken)
	if err != nil {
		s.logger.Warn().Err(err).Str("provider", s.provider.Name()).Msg("Identity verification failed")
		return nil, err
	}
	return s.SignIn(ctx, identity)
}

// SignIn issues a session for a verified identity. Non-institutional
// identities never get a session.
func (s *AuthService) SignIn(ctx context.Context, identity *auth.Identity) (*SignInResult, error) {
	if !s.resolver.Allowed(identity.Email) {
		s.logger.Warn().Str("email", identity.Email).Msg("Sign-in rejected: email outside institutional domain")
		return nil, apperrors.ErrDomainNotAllowed
	}

	session, token, err := s.sessions.IssueSession(identity)
	if err != nil {
		return nil, err
	}

	dest := s.resolver.Resolve(ctx, session, nil)
	s.logger.Info().Str("email", identity.Email).Str("role", string(dest.Role)).Msg("User signed in")

	return &SignInResult{Session: session, Token: token, Destination: dest}, nil
}
