package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/hostelhub/internal/app/controllers"
	"github.com/yigit/hostelhub/internal/app/models"
	"github.com/yigit/hostelhub/internal/middleware"
)

// Controllers bundles every HTTP controller the router mounts
type Controllers struct {
	Auth         *controllers.AuthController
	Student      *controllers.StudentController
	Complaint    *controllers.ComplaintController
	RoomChange   *controllers.RoomChangeController
	Notification *controllers.NotificationController
	Visitor      *controllers.VisitorController
	Role         *controllers.RoleController
	Health       *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/health", ctrl.Health.Health)

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.GET("/google/login", ctrl.Auth.GoogleLogin)
		auth.GET("/google/callback", ctrl.Auth.GoogleCallback)
		auth.POST("/google/token", ctrl.Auth.GoogleToken)
		auth.GET("/resolve", ctrl.Auth.Resolve) // reads the session itself; signs out foreign domains
		auth.POST("/logout", ctrl.Auth.Logout)
	}

	// --- Authenticated Routes Group ---
	// SessionRequired applies the institutional domain gate to every route below
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.SessionRequired())

	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)
	studentOnly := authMiddleware.RoleRequired(models.RoleStudent)
	staffOnly := authMiddleware.RoleRequired(models.RoleAdmin, models.RoleGuard)

	authenticated.GET("/auth/me", ctrl.Auth.Me)

	students := authenticated.Group("/students")
	{
		students.GET("/me", ctrl.Student.Me)
		students.GET("/:rollNo", ctrl.Student.GetByRoll) // owner or staff, checked in the controller

		students.GET("", adminOnly, ctrl.Student.List)
		students.POST("", adminOnly, ctrl.Student.Create)
		students.PUT("/:rollNo", adminOnly, ctrl.Student.Update)
		students.PUT("/:rollNo/room", adminOnly, ctrl.Student.AssignRoom)
	}

	complaints := authenticated.Group("/complaints")
	{
		complaints.GET("", ctrl.Complaint.List) // own for students, all for admins
		complaints.GET("/:id", ctrl.Complaint.Get)
		complaints.POST("", studentOnly, ctrl.Complaint.File)
		complaints.PUT("/:id/status", adminOnly, ctrl.Complaint.UpdateStatus)
	}

	authenticated.GET("/rooms/:room/availability", ctrl.RoomChange.Availability)

	roomChanges := authenticated.Group("/room-change-requests")
	{
		roomChanges.GET("", ctrl.RoomChange.List) // own for students, pending queue for admins
		roomChanges.POST("", studentOnly, ctrl.RoomChange.Submit)
		roomChanges.POST("/:id/approve", adminOnly, ctrl.RoomChange.Approve)
		roomChanges.POST("/:id/reject", adminOnly, ctrl.RoomChange.Reject)
	}

	notifications := authenticated.Group("/notifications")
	{
		notifications.GET("", ctrl.Notification.List)
		notifications.GET("/stream", ctrl.Notification.Stream)
		notifications.POST("", adminOnly, ctrl.Notification.Send)
	}

	visitors := authenticated.Group("/visitors", staffOnly)
	{
		visitors.GET("", ctrl.Visitor.List)
		visitors.POST("", ctrl.Visitor.CheckIn)
		visitors.PUT("/:id/checkout", ctrl.Visitor.CheckOut)
	}

	roles := authenticated.Group("/roles", adminOnly)
	{
		roles.GET("", ctrl.Role.List)
		roles.PUT("", ctrl.Role.Assign)
	}
}
