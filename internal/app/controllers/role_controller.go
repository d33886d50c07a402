package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/middleware"
)

// RoleService is the role administration the controller needs
type RoleService interface {
	Assign(ctx context.Context, email, role string) (*models.RoleAssignment, error)
	List(ctx context.Context) ([]*models.RoleAssignment, error)
}

// RoleController handles role administration
type RoleController struct {
	roles  RoleService
	logger zerolog.Logger
}

// NewRoleController creates a new RoleController
func NewRoleController(roles RoleService, logger zerolog.Logger) *RoleController {
	return &RoleController{roles: roles, logger: logger}
}

// List returns every role assignment
// @Summary List role assignments
// @Tags roles
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.RoleAssignment}
// @Router /roles [get]
func (c *RoleController) List(ctx *gin.Context) {
	assignments, err := c.roles.List(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, assignments, "")
}

// Assign gives an email a role
// @Summary Assign a role
// @Tags roles
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.AssignRoleRequest true "Email and role"
// @Success 200 {object} dto.APIResponse{data=models.RoleAssignment}
// @Failure 400 {object} dto.APIResponse
// @Router /roles [put]
func (c *RoleController) Assign(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	var req dto.AssignRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	assignment, err := c.roles.Assign(ctx.Request.Context(), req.Email, req.Role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("by", actor.Email).Str("email", assignment.Email).Str("role", string(assignment.Role)).Msg("Role changed over HTTP")
	respondOK(ctx, assignment, "Role assigned")
}
