package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	appAuth "github.com/yigit/hostelhub/internal/app/auth"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/app/services"
	"github.com/yigit/hostelhub/internal/middleware"
	"github.com/yigit/hostelhub/internal/pkg/helpers"
)

// ComplaintService is the complaint operations the controller needs
type ComplaintService interface {
	File(ctx context.Context, input services.FileComplaintInput) (*models.Complaint, error)
	ListFor(ctx context.Context, rollNo string) ([]*models.Complaint, error)
	ListAll(ctx context.Context, input services.ComplaintListInput) ([]*models.Complaint, int64, error)
	Get(ctx context.Context, id int64) (*models.Complaint, error)
	Transition(ctx context.Context, id int64, input services.TransitionInput) (*models.Complaint, error)
}

// ComplaintController handles complaint endpoints
type ComplaintController struct {
	complaints ComplaintService
	logger     zerolog.Logger
}

// NewComplaintController creates a new ComplaintController
func NewComplaintController(complaints ComplaintService, logger zerolog.Logger) *ComplaintController {
	return &ComplaintController{complaints: complaints, logger: logger}
}

// File records a complaint for the signed-in student
// @Summary File a complaint
// @Tags complaints
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param type formData string false "infrastructure, cleanliness, technical or other" default(infrastructure)
// @Param description formData string true "What is wrong"
// @Param photo formData file false "Optional photo"
// @Success 201 {object} dto.APIResponse{data=dto.ComplaintResponse}
// @Failure 400 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse "No student record for this email"
// @Router /complaints [post]
func (c *ComplaintController) File(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var form dto.FileComplaintForm
	if err := ctx.ShouldBind(&form); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	photo, err := ctx.FormFile("photo")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		c.logger.Warn().Err(err).Msg("Unreadable complaint photo")
		detail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Could not read the uploaded photo").WithField("photo")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.NewFailureResponse(detail))
		return
	}

	complaint, err := c.complaints.File(ctx.Request.Context(), services.FileComplaintInput{
		RollNo:      actor.RollNo(),
		Type:        form.Type,
		Description: form.Description,
		Photo:       photo,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, dto.NewComplaintResponse(complaint), "Complaint filed")
}

// List returns the caller's complaints, or every complaint for an admin
// @Summary List complaints
// @Description Students get their own complaints. Admins get all complaints, optionally filtered.
// @Tags complaints
// @Security BearerAuth
// @Produce json
// @Param rollNo query string false "Filter by roll number (admin)"
// @Param status query string false "Filter by status (admin)"
// @Param type query string false "Filter by type (admin)"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /complaints [get]
func (c *ComplaintController) List(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	if !actor.IsAdmin() {
		complaints, err := c.complaints.ListFor(ctx.Request.Context(), actor.RollNo())
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		respondOK(ctx, dto.NewComplaintResponses(complaints), "")
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	complaints, total, err := c.complaints.ListAll(ctx.Request.Context(), services.ComplaintListInput{
		RollNo: ctx.Query("rollNo"),
		Status: ctx.Query("status"),
		Type:   ctx.Query("type"),
		Page:   page,
		Size:   size,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, dto.PaginatedResponse{
		Items:      dto.NewComplaintResponses(complaints),
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, "")
}

// Get returns one complaint to its owner or an admin
// @Summary Get a complaint
// @Tags complaints
// @Security BearerAuth
// @Produce json
// @Param id path int true "Complaint ID"
// @Success 200 {object} dto.APIResponse{data=dto.ComplaintResponse}
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /complaints/{id} [get]
func (c *ComplaintController) Get(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	complaint, err := c.complaints.Get(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if err := appAuth.ValidateComplaintAccess(actor, complaint); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.NewComplaintResponse(complaint), "")
}

// UpdateStatus moves a complaint to resolved or closed
// @Summary Change complaint status
// @Tags complaints
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Complaint ID"
// @Param request body dto.ComplaintStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=dto.ComplaintResponse}
// @Failure 400 {object} dto.APIResponse "Resolution info missing"
// @Failure 409 {object} dto.APIResponse "Transition not allowed or status changed concurrently"
// @Router /complaints/{id}/status [put]
func (c *ComplaintController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ComplaintStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	complaint, err := c.complaints.Transition(ctx.Request.Context(), id, services.TransitionInput{
		Status:         req.Status,
		ResolutionInfo: req.ResolutionInfo,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.NewComplaintResponse(complaint), "Complaint updated")
}
