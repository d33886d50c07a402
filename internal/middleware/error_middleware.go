package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/pkg/apperrors"
	"github.com/yigit/hostelhub/internal/pkg/logger"
)

// --- Central Error Handling ---

// HandleAPIError maps an error returned by the service layer to a JSON
// response. A conflict (409, RES_004) is never reported as a validation
// failure (400, VAL_001).
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorDetailFor(err)

	if status >= http.StatusInternalServerError {
		logger.FromContext(c.Request.Context()).Error().Err(err).
			Str("path", c.FullPath()).
			Msg("Request failed")
	}

	c.AbortWithStatusJSON(status, dto.NewFailureResponse(detail))
}

func errorDetailFor(err error) (int, *dto.ErrorDetail) {
	var custom *apperrors.CustomError
	hasCustom := errors.As(err, &custom)

	message := func(fallback string) string {
		if hasCustom && custom.Message != "" {
			return custom.Message
		}
		return fallback
	}

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message("Validation failed"))
		if hasCustom {
			detail.WithField(custom.Field)
			if custom.Details != nil {
				detail.WithDetails(custom.Details)
			}
		}
		return http.StatusBadRequest, detail
	case errors.Is(err, apperrors.ErrResourceNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, message("Resource not found"))
	case errors.Is(err, apperrors.ErrInvalidTransition):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeInvalidTransition, message("Invalid status transition"))
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, message("Conflict"))
	case errors.Is(err, apperrors.ErrDomainNotAllowed):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeDomainNotAllowed, "Please sign in with your institutional email address")
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, message("Permission denied"))
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Session expired")
	case errors.Is(err, apperrors.ErrTokenInvalid):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
	case errors.Is(err, apperrors.ErrProviderUnavailable):
		return http.StatusServiceUnavailable, dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "Sign-in provider is not configured")
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
	}
}

// AbortWithError writes a failure envelope with the given status and code
func AbortWithError(c *gin.Context, status int, code dto.ErrorCode, message string) {
	c.AbortWithStatusJSON(status, dto.NewFailureResponse(dto.NewErrorDetail(code, message)))
}
