// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	appAuth "github.com/yigit/hostelhub/internal/app/auth"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/middleware"
)

// currentActor returns the caller set by the session middleware, answering
// 401 when it is missing.
func currentActor(ctx *gin.Context) (appAuth.Actor, bool) {
	actor, ok := middleware.GetActor(ctx)
	if !ok {
		middleware.AbortWithError(ctx, http.StatusUnauthorized, dto.ErrorCodeUnauthorized, "Authentication required")
		return appAuth.Actor{}, false
	}
	return actor, true
}

// parseIDParam reads a positive int64 path parameter, answering 400 otherwise
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		detail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid "+name).WithField(name)
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewFailureResponse(detail))
		return 0, false
	}
	return id, true
}

func respondOK(ctx *gin.Context, data interface{}, message string) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(data, message))
}

func respondCreated(ctx *gin.Context, data interface{}, message string) {
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(data, message))
}
