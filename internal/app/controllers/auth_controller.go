package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/app/services"
	"github.com/yigit/hostelhub/internal/middleware"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/auth"
)

const (
	oauthStateCookie = "hostel_oauth_state"
	oauthStateTTL    = 10 * time.Minute
)

// SignInService signs users in through the identity provider
type SignInService interface {
	LoginURL(state string) (string, error)
	SignInWithCode(ctx context.Context, code string) (*services.SignInResult, error)
	SignInWithIDToken(ctx context.Context, idToken string) (*services.SignInResult, error)
}

// DestinationResolver decides where a session lands
type DestinationResolver interface {
	Resolve(ctx context.Context, session *auth.Session, signOut services.SignOutFunc) services.Destination
}

// AuthController handles sign-in, sign-out and session routing
type AuthController struct {
	authService SignInService
	resolver    DestinationResolver
	sessions    *middleware.AuthMiddleware
	frontendURL string
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController. When frontendURL is set
// the OAuth callback redirects there instead of answering with JSON.
func NewAuthController(authService SignInService, resolver DestinationResolver, sessions *middleware.AuthMiddleware, frontendURL string, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		resolver:    resolver,
		sessions:    sessions,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		logger:      logger,
	}
}

// GoogleLogin starts the Google OAuth flow
// @Summary Start Google sign-in
// @Description Redirects to the Google consent screen
// @Tags auth
// @Success 302
// @Failure 503 {object} dto.APIResponse "Google sign-in not configured"
// @Router /auth/google/login [get]
func (c *AuthController) GoogleLogin(ctx *gin.Context) {
	state := uuid.New().String()

	url, err := c.authService.LoginURL(state)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(oauthStateCookie, state, int(oauthStateTTL.Seconds()), "/", "", ctx.Request.TLS != nil, true)
	ctx.Redirect(http.StatusFound, url)
}

// GoogleCallback completes the Google OAuth flow
// @Summary Google OAuth callback
// @Description Exchanges the authorization code, issues a session and sends the user to their dashboard
// @Tags auth
// @Param code query string true "Authorization code"
// @Param state query string true "OAuth state"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse}
// @Success 302
// @Failure 400 {object} dto.APIResponse "Invalid OAuth state"
// @Failure 403 {object} dto.APIResponse "Non-institutional email"
// @Router /auth/google/callback [get]
func (c *AuthController) GoogleCallback(ctx *gin.Context) {
	expected, cookieErr := ctx.Cookie(oauthStateCookie)
	ctx.SetCookie(oauthStateCookie, "", -1, "/", "", ctx.Request.TLS != nil, true)

	state := ctx.Query("state")
	if cookieErr != nil || state == "" || state != expected {
		c.logger.Warn().Msg("OAuth callback with mismatched state")
		middleware.AbortWithError(ctx, http.StatusBadRequest, dto.ErrorCodeInvalidOAuthState, "Invalid OAuth state")
		return
	}

	if reason := ctx.Query("error"); reason != "" {
		c.logger.Info().Str("reason", reason).Msg("Google sign-in cancelled")
		c.signInFailed(ctx, apperrors.ErrUnauthorized)
		return
	}

	code := ctx.Query("code")
	if code == "" {
		middleware.AbortWithError(ctx, http.StatusBadRequest, dto.ErrorCodeInvalidRequest, "Missing authorization code")
		return
	}

	result, err := c.authService.SignInWithCode(ctx.Request.Context(), code)
	if err != nil {
		c.signInFailed(ctx, err)
		return
	}

	c.sessions.SetSessionCookie(ctx, result.Token)
	if c.frontendURL != "" {
		ctx.Redirect(http.StatusFound, c.frontendURL+result.Destination.Path)
		return
	}
	respondOK(ctx, newSessionResponse(result), "Signed in")
}

// signInFailed sends the browser back to the sign-in page when a frontend
// is configured, and answers with the mapped error otherwise.
func (c *AuthController) signInFailed(ctx *gin.Context, err error) {
	if c.frontendURL == "" {
		middleware.HandleAPIError(ctx, err)
		return
	}

	reason := "failed"
	if errors.Is(err, apperrors.ErrDomainNotAllowed) {
		reason = "domain"
	}
	ctx.Redirect(http.StatusFound, c.frontendURL+services.PathSignIn+"?error="+reason)
}

// GoogleToken signs in with a Google ID token obtained by the client
// @Summary Sign in with a Google ID token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.GoogleTokenRequest true "Google ID token"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse}
// @Failure 401 {object} dto.APIResponse "Invalid token"
// @Failure 403 {object} dto.APIResponse "Non-institutional email"
// @Router /auth/google/token [post]
func (c *AuthController) GoogleToken(ctx *gin.Context) {
	var req dto.GoogleTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	result, err := c.authService.SignInWithIDToken(ctx.Request.Context(), req.IDToken)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.sessions.SetSessionCookie(ctx, result.Token)
	respondOK(ctx, newSessionResponse(result), "Signed in")
}

// Resolve tells the client which dashboard the current session belongs on.
// A non-institutional session is signed out here.
// @Summary Resolve the current session's destination
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.DestinationResponse}
// @Router /auth/resolve [get]
func (c *AuthController) Resolve(ctx *gin.Context) {
	session, err := c.sessions.CurrentSession(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Discarding invalid session token")
		c.sessions.ClearSessionCookie(ctx)
		session = nil
	}

	signOut := func(context.Context) error {
		c.sessions.ClearSessionCookie(ctx)
		return nil
	}
	dest := c.resolver.Resolve(ctx.Request.Context(), session, signOut)

	respondOK(ctx, dto.DestinationResponse{
		Redirect:  dest.Path,
		Role:      string(dest.Role),
		Message:   dest.Message,
		SignedOut: dest.SignedOut,
	}, "")
}

// Me describes the signed-in session
// @Summary Current session
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.MeResponse}
// @Failure 401 {object} dto.APIResponse
// @Router /auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	resp := dto.MeResponse{
		Email:  actor.Email,
		Role:   string(actor.Role),
		RollNo: actor.RollNo(),
	}
	if session, ok := middleware.GetSession(ctx); ok {
		resp.Provider = session.Identity.Provider
		resp.ExpiresAt = session.ExpiresAt.Unix()
	}
	respondOK(ctx, resp, "")
}

// Logout ends the session
// @Summary Sign out
// @Tags auth
// @Success 200 {object} dto.APIResponse
// @Router /auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	c.sessions.ClearSessionCookie(ctx)
	respondOK(ctx, dto.DestinationResponse{Redirect: services.PathSignIn, SignedOut: true}, "Signed out")
}

func newSessionResponse(result *services.SignInResult) dto.SessionResponse {
	expiresIn := int64(time.Until(result.Session.ExpiresAt).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}
	return dto.SessionResponse{
		AccessToken: result.Token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresIn,
		Email:       result.Session.Email(),
		Role:        string(result.Destination.Role),
		Redirect:    result.Destination.Path,
	}
}
