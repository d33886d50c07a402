package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/app/services"
	"github.com/yigit/hostelhub/internal/middleware"
	"github.com/yigit/hostelhub/internal/pkg/validation"
)

// RoomChangeService is the room change operations the controller needs
type RoomChangeService interface {
	CheckAvailability(ctx context.Context, room string) (bool, error)
	Submit(ctx context.Context, input services.SubmitRoomChangeInput) (*models.RoomChangeRequest, error)
	Approve(ctx context.Context, id int64) (*models.RoomChangeRequest, error)
	Reject(ctx context.Context, id int64) (*models.RoomChangeRequest, error)
	ListPending(ctx context.Context) ([]*models.RoomChangeRequest, error)
	ListFor(ctx context.Context, rollNo string) ([]*models.RoomChangeRequest, error)
}

// RoomChangeController handles room availability and room change requests
type RoomChangeController struct {
	requests RoomChangeService
	logger   zerolog.Logger
}

// NewRoomChangeController creates a new RoomChangeController
func NewRoomChangeController(requests RoomChangeService, logger zerolog.Logger) *RoomChangeController {
	return &RoomChangeController{requests: requests, logger: logger}
}

// Availability reports whether a room is free right now
// @Summary Check room availability
// @Description Advisory only; a later request for the room can still conflict
// @Tags rooms
// @Security BearerAuth
// @Produce json
// @Param room path string true "Room number"
// @Success 200 {object} dto.APIResponse{data=dto.RoomAvailabilityResponse}
// @Router /rooms/{room}/availability [get]
func (c *RoomChangeController) Availability(ctx *gin.Context) {
	room := ctx.Param("room")

	available, err := c.requests.CheckAvailability(ctx.Request.Context(), room)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.RoomAvailabilityResponse{Room: validation.NormalizeRoom(room), Available: available}, "")
}

// Submit files a room change request for the signed-in student
// @Summary Request a room change
// @Tags rooms
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.SubmitRoomChangeRequest true "Preferred room and reason"
// @Success 201 {object} dto.APIResponse{data=models.RoomChangeRequest}
// @Failure 400 {object} dto.APIResponse "Invalid room or reason"
// @Failure 409 {object} dto.APIResponse "Room taken or already requested"
// @Router /room-change-requests [post]
func (c *RoomChangeController) Submit(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req dto.SubmitRoomChangeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	request, err := c.requests.Submit(ctx.Request.Context(), services.SubmitRoomChangeInput{
		RollNo:        actor.RollNo(),
		PreferredRoom: req.PreferredRoom,
		Reason:        req.Reason,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, request, "Room change requested")
}

// List returns the caller's requests, or the pending queue for an admin
// @Summary List room change requests
// @Tags rooms
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.RoomChangeRequest}
// @Router /room-change-requests [get]
func (c *RoomChangeController) List(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var (
		requests []*models.RoomChangeRequest
		err      error
	)
	if actor.IsAdmin() {
		requests, err = c.requests.ListPending(ctx.Request.Context())
	} else {
		requests, err = c.requests.ListFor(ctx.Request.Context(), actor.RollNo())
	}
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, requests, "")
}

// Approve moves the student into the requested room
// @Summary Approve a room change
// @Tags rooms
// @Security BearerAuth
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=models.RoomChangeRequest}
// @Failure 409 {object} dto.APIResponse "Room occupied or request already decided"
// @Router /room-change-requests/{id}/approve [post]
func (c *RoomChangeController) Approve(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	request, err := c.requests.Approve(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, request, "Room change approved")
}

// Reject declines a room change request
// @Summary Reject a room change
// @Tags rooms
// @Security BearerAuth
// @Produce json
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=models.RoomChangeRequest}
// @Failure 409 {object} dto.APIResponse "Request already decided"
// @Router /room-change-requests/{id}/reject [post]
func (c *RoomChangeController) Reject(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	request, err := c.requests.Reject(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, request, "Room change rejected")
}
