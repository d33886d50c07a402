package auth

import (
	"context"
	"time"

	"github.com/yigit/hostelhub/internal/pkg/validation"
)

// Provider names
const (
	ProviderGoogle  = "google"
	ProviderSession = "session"
)

// Identity is what every identity provider yields: a verified email.
type Identity struct {
	Email    string
	Subject  string
	Provider string
}

// Session is one authenticated session. A nil *Session means "signed out".
type Session struct {
	ID        string
	Identity  *Identity
	ExpiresAt time.Time
}

// Authenticated reports whether there is a live session with an email.
func (s *Session) Authenticated() bool {
	return s != nil && s.Identity != nil && s.Identity.Email != "" &&
		(s.ExpiresAt.IsZero() || time.Now().Before(s.ExpiresAt))
}

// Email returns the session email, empty when unauthenticated.
func (s *Session) Email() string {
	if s == nil || s.Identity == nil {
		return ""
	}
	return s.Identity.Email
}

// IdentityProvider turns a provider credential into a verified identity.
type IdentityProvider interface {
	Name() string
	Authenticate(ctx context.Context, credential string) (*Identity, error)
}

// SessionProvider authenticates our own signed session tokens.
type SessionProvider struct {
	jwt *JWTService
}

// NewSessionProvider creates a SessionProvider
func NewSessionProvider(jwtService *JWTService) *SessionProvider {
	return &SessionProvider{jwt: jwtService}
}

// Name implements IdentityProvider
func (p *SessionProvider) Name() string {
	return ProviderSession
}

// Authenticate implements IdentityProvider
func (p *SessionProvider) Authenticate(ctx context.Context, credential string) (*Identity, error) {
	session, err := p.Session(credential)
	if err != nil {
		return nil, err
	}
	return session.Identity, nil
}

// Session validates a token and rebuilds the session it describes
func (p *SessionProvider) Session(token string) (*Session, error) {
	claims, err := p.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}

	session := &Session{
		ID: claims.ID,
		Identity: &Identity{
			Email:    validation.NormalizeEmail(claims.Email),
			Subject:  claims.Subject,
			Provider: claims.Provider,
		},
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}
