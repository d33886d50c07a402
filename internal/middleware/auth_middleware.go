package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	appAuth "github.com/yigit/hostelhub/internal/app/auth"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/app/services"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/auth"
)

// Context keys set by SessionRequired
const (
	ContextActorKey   = "actor"
	ContextSessionKey = "session"
)

// SessionSource rebuilds a session from its signed token
type SessionSource interface {
	Session(token string) (*auth.Session, error)
}

// CookieConfig describes the session cookie
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	sessions SessionSource
	resolver *services.RoleResolver
	cookie   CookieConfig
	logger   zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(sessions SessionSource, resolver *services.RoleResolver, cookie CookieConfig, logger zerolog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		resolver: resolver,
		cookie:   cookie,
		logger:   logger,
	}
}

// SessionToken returns the session token from the cookie or the
// Authorization header, cookie first.
func (m *AuthMiddleware) SessionToken(c *gin.Context) string {
	if token, err := c.Cookie(m.cookie.Name); err == nil && token != "" {
		return token
	}
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token
		}
	}
	return ""
}

// CurrentSession returns the validated session of the request, or nil
func (m *AuthMiddleware) CurrentSession(c *gin.Context) (*auth.Session, error) {
	token := m.SessionToken(c)
	if token == "" {
		return nil, nil
	}
	return m.sessions.Session(token)
}

// SessionRequired rejects requests without a valid institutional session
// and puts the resolved Actor on the context.
func (m *AuthMiddleware) SessionRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := m.CurrentSession(c)
		if err != nil {
			code, message := dto.ErrorCodeInvalidToken, "Invalid session"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				code, message = dto.ErrorCodeExpiredToken, "Session expired"
			}
			m.ClearSessionCookie(c)
			AbortWithError(c, http.StatusUnauthorized, code, message)
			return
		}
		if !session.Authenticated() {
			AbortWithError(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		email := session.Email()
		if !m.resolver.Allowed(email) {
			m.logger.Warn().Str("email", email).Msg("Rejected non-institutional session")
			m.ClearSessionCookie(c)
			AbortWithError(c, http.StatusForbidden, dto.ErrorCodeDomainNotAllowed, services.DomainRejectedMessage)
			return
		}

		actor := appAuth.Actor{
			Email: email,
			Role:  m.resolver.ResolveRole(c.Request.Context(), email),
		}
		c.Set(ContextSessionKey, session)
		c.Set(ContextActorKey, actor)
		c.Next()
	}
}

// RoleRequired middleware to check the actor holds one of roles
func (m *AuthMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			AbortWithError(c, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required")
			return
		}

		for _, role := range roles {
			if actor.Role == role {
				c.Next()
				return
			}
		}

		detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
			WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewFailureResponse(detail))
	}
}

// SetSessionCookie stores token in an HTTP-only cookie
func (m *AuthMiddleware) SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, token, int(m.cookie.TTL.Seconds()), "/", "", m.cookie.Secure, true)
}

// ClearSessionCookie expires the session cookie
func (m *AuthMiddleware) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, "", -1, "/", "", m.cookie.Secure, true)
}

// GetActor returns the actor set by SessionRequired
func GetActor(c *gin.Context) (appAuth.Actor, bool) {
	value, exists := c.Get(ContextActorKey)
	if !exists {
		return appAuth.Actor{}, false
	}
	actor, ok := value.(appAuth.Actor)
	return actor, ok
}

// GetSession returns the session set by SessionRequired
func GetSession(c *gin.Context) (*auth.Session, bool) {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil, false
	}
	session, ok := value.(*auth.Session)
	return session, ok
}
