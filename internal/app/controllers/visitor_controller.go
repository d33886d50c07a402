package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/app/services"
	"github.com/yigit/hostelhub/internal/middleware"
	"github.com/yigit/hostelhub/internal/pkg/helpers"
)

// VisitorService is the visitor log operations the controller needs
type VisitorService interface {
	CheckIn(ctx context.Context, input services.VisitorInput, guardEmail string) (*models.VisitorLog, error)
	CheckOut(ctx context.Context, id int64) (*models.VisitorLog, error)
	ListActive(ctx context.Context) ([]*models.VisitorLog, error)
	List(ctx context.Context, page, size int) ([]*models.VisitorLog, int64, error)
}

// VisitorController handles the guard-desk visitor log
type VisitorController struct {
	visitors VisitorService
	logger   zerolog.Logger
}

// NewVisitorController creates a new VisitorController
func NewVisitorController(visitors VisitorService, logger zerolog.Logger) *VisitorController {
	return &VisitorController{visitors: visitors, logger: logger}
}

// CheckIn records a visitor arriving
// @Summary Check a visitor in
// @Tags visitors
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CheckInVisitorRequest true "Visitor"
// @Success 201 {object} dto.APIResponse{data=models.VisitorLog}
// @Router /visitors [post]
func (c *VisitorController) CheckIn(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req dto.CheckInVisitorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	visit, err := c.visitors.CheckIn(ctx.Request.Context(), services.VisitorInput{
		VisitorName:   req.VisitorName,
		VisitorPhone:  req.VisitorPhone,
		StudentRollNo: req.StudentRollNo,
		Purpose:       req.Purpose,
	}, actor.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, visit, "Visitor checked in")
}

// CheckOut records a visitor leaving
// @Summary Check a visitor out
// @Tags visitors
// @Security BearerAuth
// @Produce json
// @Param id path int true "Visit ID"
// @Success 200 {object} dto.APIResponse{data=models.VisitorLog}
// @Failure 409 {object} dto.APIResponse "Already checked out"
// @Router /visitors/{id}/checkout [put]
func (c *VisitorController) CheckOut(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	visit, err := c.visitors.CheckOut(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, visit, "Visitor checked out")
}

// List returns visitors inside with ?active=true, otherwise a page of the log
// @Summary List visitors
// @Tags visitors
// @Security BearerAuth
// @Produce json
// @Param active query bool false "Only visitors still inside"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /visitors [get]
func (c *VisitorController) List(ctx *gin.Context) {
	if ctx.Query("active") == "true" {
		visits, err := c.visitors.ListActive(ctx.Request.Context())
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respondOK(ctx, visits, "")
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	visits, total, err := c.visitors.List(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.PaginatedResponse{
		Items:      visits,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, "")
}
