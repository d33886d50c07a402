package auth

import (
	"context"
	"errors"
	"fmt"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/validation"
)

// GoogleConfig holds the OAuth client registered with Google
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GoogleProvider signs users in with Google and verifies their ID tokens.
type GoogleProvider struct {
	oauth    *oauth2.Config
	clientID string
}

// NewGoogleProvider creates a GoogleProvider
func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		clientID: cfg.ClientID,
	}
}

// Name implements IdentityProvider
func (p *GoogleProvider) Name() string {
	return ProviderGoogle
}

// Enabled reports whether a client id is configured
func (p *GoogleProvider) Enabled() bool {
	return p.clientID != ""
}

// AuthCodeURL returns the Google consent URL carrying state
func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades an authorization code for the raw ID token
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (string, error) {
	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("google code exchange failed: %w", err)
	}

	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		return "", errors.New("google token response has no id_token")
	}
	return idToken, nil
}

// Authenticate implements IdentityProvider; credential is a Google ID token.
func (p *GoogleProvider) Authenticate(ctx context.Context, credential string) (*Identity, error) {
	if !p.Enabled() {
		return nil, errors.New("google sign-in is not configured")
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(credential, []string{p.clientID}); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}

	claimSet, err := googleAuthIDTokenVerifier.Decode(credential)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTokenInvalid, err)
	}
	return identityFromClaims(claimSet)
}

// identityFromClaims accepts only claims carrying an email Google has verified
func identityFromClaims(claimSet *googleAuthIDTokenVerifier.ClaimSet) (*Identity, error) {
	if claimSet == nil || claimSet.Email == "" {
		return nil, fmt.Errorf("%w: id token carries no email", apperrors.ErrTokenInvalid)
	}
	if !claimSet.EmailVerified {
		return nil, fmt.Errorf("%w: email %s is not verified", apperrors.ErrTokenInvalid, claimSet.Email)
	}

	return &Identity{
		Email:    validation.NormalizeEmail(claimSet.Email),
		Subject:  claimSet.Sub,
		Provider: ProviderGoogle,
	}, nil
}
