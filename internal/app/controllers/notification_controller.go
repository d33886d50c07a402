package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/app/services"
	"github.com/yigit/hostelhub/internal/middleware"
)

// NotificationService is the notification operations the controller needs
type NotificationService interface {
	Send(ctx context.Context, input services.NotificationInput) (*models.Notification, error)
	List(ctx context.Context) ([]*models.Notification, error)
}

// NotificationFeed streams notifications addressed to email over a websocket
type NotificationFeed interface {
	Serve(w http.ResponseWriter, r *http.Request, email string) error
}

// NotificationController handles the notification log
type NotificationController struct {
	notifications NotificationService
	feed          NotificationFeed
	logger        zerolog.Logger
}

// NewNotificationController creates a new NotificationController. feed may
// be nil, in which case the live stream answers 503.
func NewNotificationController(notifications NotificationService, feed NotificationFeed, logger zerolog.Logger) *NotificationController {
	return &NotificationController{notifications: notifications, feed: feed, logger: logger}
}

// List returns the notification log, most recent first
// @Summary List notifications
// @Tags notifications
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Notification}
// @Router /notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	notifications, err := c.notifications.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, notifications, "")
}

// Send logs a notification and emails it
// @Summary Send a notification
// @Tags notifications
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SendNotificationRequest true "Notification"
// @Success 201 {object} dto.APIResponse{data=models.Notification}
// @Failure 400 {object} dto.APIResponse
// @Router /notifications [post]
func (c *NotificationController) Send(ctx *gin.Context) {
	var req dto.SendNotificationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	notification, err := c.notifications.Send(ctx.Request.Context(), services.NotificationInput{
		Subject:    req.Subject,
		Message:    req.Message,
		Recipients: req.Recipients,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, notification, "Notification sent")
}

// Stream upgrades to a websocket that receives each new notification
// addressed to the caller
// @Summary Live notification feed
// @Tags notifications
// @Security BearerAuth
// @Success 101 "Switching protocols"
// @Failure 503 {object} dto.APIResponse
// @Router /notifications/stream [get]
func (c *NotificationController) Stream(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	if c.feed == nil {
		middleware.AbortWithError(ctx, http.StatusServiceUnavailable, dto.ErrorCodeExternalServiceError, "Live notifications are not available")
		return
	}

	// The upgrader writes its own error response
	if err := c.feed.Serve(ctx.Writer, ctx.Request, actor.Email); err != nil {
		c.logger.Debug().Err(err).Str("email", actor.Email).Msg("Notification stream not opened")
	}
}
