package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	appAuth "github.com/yigit/hostelhub/internal/app/auth"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/app/models/dto"
	"github.com/yigit/hostelhub/internal/app/services"
	"github.com/yigit/hostelhub/internal/middleware"
	"github.com/yigit/hostelhub/internal/pkg/helpers"
)

// StudentService is the student operations the controller needs
type StudentService interface {
	GetByRoll(ctx context.Context, rollNo string) (*models.Student, error)
	Me(ctx context.Context, email string) (*models.Student, error)
	Create(ctx context.Context, input services.CreateStudentInput) (*models.Student, error)
	Update(ctx context.Context, rollNo string, input services.UpdateStudentInput) (*models.Student, error)
	AssignRoom(ctx context.Context, rollNo, room string) (*models.Student, error)
	List(ctx context.Context, page, size int) ([]*models.Student, int64, error)
}

// StudentController handles student record endpoints
type StudentController struct {
	students StudentService
	logger   zerolog.Logger
}

// NewStudentController creates a new StudentController
func NewStudentController(students StudentService, logger zerolog.Logger) *StudentController {
	return &StudentController{students: students, logger: logger}
}

// Me returns the caller's own student record
// @Summary My student record
// @Tags students
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 404 {object} dto.APIResponse "No student record for this email"
// @Router /students/me [get]
func (c *StudentController) Me(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	student, err := c.students.Me(ctx.Request.Context(), actor.Email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, student, "")
}

// GetByRoll returns one student
// @Summary Get a student by roll number
// @Tags students
// @Security BearerAuth
// @Produce json
// @Param rollNo path string true "Roll number"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 403 {object} dto.APIResponse
// @Failure 404 {object} dto.APIResponse
// @Router /students/{rollNo} [get]
func (c *StudentController) GetByRoll(ctx *gin.Context) {
	actor, ok := currentActor(ctx)
	if !ok {
		return
	}

	rollNo := ctx.Param("rollNo")
	if err := appAuth.ValidateStudentAccess(actor, rollNo); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	student, err := c.students.GetByRoll(ctx.Request.Context(), rollNo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, student, "")
}

// List returns a page of students
// @Summary List students
// @Tags students
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse}
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	students, total, err := c.students.List(ctx.Request.Context(), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondOK(ctx, dto.PaginatedResponse{
		Items:      students,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, "")
}

// Create registers a student
// @Summary Register a student
// @Tags students
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Student"
// @Success 201 {object} dto.APIResponse{data=models.Student}
// @Failure 400 {object} dto.APIResponse
// @Failure 409 {object} dto.APIResponse "Roll number, email or room already taken"
// @Router /students [post]
func (c *StudentController) Create(ctx *gin.Context) {
	var req dto.CreateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	student, err := c.students.Create(ctx.Request.Context(), services.CreateStudentInput{
		RollNo:           req.RollNo,
		Email:            req.Email,
		FullName:         req.FullName,
		Department:       req.Department,
		Batch:            req.Batch,
		RoomNumber:       req.RoomNumber,
		HostelBlock:      req.HostelBlock,
		FeesPaid:         req.FeesPaid,
		EmergencyContact: req.EmergencyContact,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondCreated(ctx, student, "Student created")
}

// Update patches a student's profile
// @Summary Update a student
// @Tags students
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param rollNo path string true "Roll number"
// @Param request body dto.UpdateStudentRequest true "Fields to change"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Router /students/{rollNo} [put]
func (c *StudentController) Update(ctx *gin.Context) {
	var req dto.UpdateStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	student, err := c.students.Update(ctx.Request.Context(), ctx.Param("rollNo"), services.UpdateStudentInput{
		FullName:         req.FullName,
		Department:       req.Department,
		Batch:            req.Batch,
		HostelBlock:      req.HostelBlock,
		FeesPaid:         req.FeesPaid,
		EmergencyContact: req.EmergencyContact,
	})
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, student, "Student updated")
}

// AssignRoom moves a student directly, bypassing the request workflow
// @Summary Assign a room
// @Tags students
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param rollNo path string true "Roll number"
// @Param request body dto.AssignRoomRequest true "Room; empty vacates"
// @Success 200 {object} dto.APIResponse{data=models.Student}
// @Failure 409 {object} dto.APIResponse "Room occupied"
// @Router /students/{rollNo}/room [put]
func (c *StudentController) AssignRoom(ctx *gin.Context) {
	var req dto.AssignRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindError(ctx, err)
		return
	}

	student, err := c.students.AssignRoom(ctx.Request.Context(), ctx.Param("rollNo"), req.RoomNumber)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, student, "Room assigned")
}
