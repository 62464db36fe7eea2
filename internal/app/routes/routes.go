package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/thesismatch/internal/app/controllers"
	"github.com/yigit/thesismatch/internal/app/models"
	"github.com/yigit/thesismatch/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth        *controllers.AuthController
	Matching    *controllers.MatchingController
	Supervisors *controllers.SupervisorController
	Students    *controllers.StudentController
	Workflow    *controllers.WorkflowController
	Documents   *controllers.DocumentController
	Stats       *controllers.StatsController
	Health      *controllers.HealthController
	Events      *controllers.EventsController
	Theses      *controllers.ThesisController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.GET("/health", c.Health.Health)
	v1.POST("/auth/login", c.Auth.Login)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	adminOnly := authMiddleware.RoleRequired(models.RoleAdmin)

	auth := authenticated.Group("/auth")
	{
		auth.GET("/me", c.Auth.Me)
		auth.PUT("/password", c.Auth.ChangePassword)
		auth.POST("/register", adminOnly, c.Auth.Register)
	}

	// Suggestions are scoped in the service, assignments are admin only
	matching := authenticated.Group("/matching")
	{
		matching.GET("/:studentId", c.Matching.Suggest)
		matching.POST("/assign", adminOnly, c.Matching.Assign)
		matching.DELETE("/assign/:studentId", adminOnly, c.Matching.Unassign)
		matching.POST("/reconcile", adminOnly, c.Matching.Reconcile)
	}

	supervisors := authenticated.Group("/supervisors")
	{
		supervisors.GET("", c.Supervisors.GetAllSupervisors)
		supervisors.GET("/:id", c.Supervisors.GetSupervisorByID)
		supervisors.PUT("/:id", authMiddleware.RoleRequired(models.RoleAdmin, models.RoleSupervisor), c.Supervisors.UpdateSupervisor)
		supervisors.POST("", adminOnly, c.Supervisors.CreateSupervisor)
		supervisors.DELETE("/:id", adminOnly, c.Supervisors.DeleteSupervisor)
	}

	students := authenticated.Group("/students")
	{
		students.GET("", c.Students.GetAllStudents)
		students.GET("/:id", c.Students.GetStudentByID)
		students.PUT("/:id", c.Students.UpdateStudent)
		students.POST("", adminOnly, c.Students.CreateStudent)
		students.DELETE("/:id", adminOnly, c.Students.DeleteStudent)
	}

	workflow := authenticated.Group("/workflow")
	{
		workflow.GET("/stages", c.Workflow.GetStages)
		workflow.GET("/stages/:id", c.Workflow.GetStageByID)
		workflow.PUT("/students/:studentId/stage", authMiddleware.RoleRequired(models.RoleAdmin, models.RoleSupervisor), c.Workflow.AdvanceStudent)

		stages := workflow.Group("/stages")
		stages.Use(adminOnly)
		{
			stages.POST("", c.Workflow.CreateStage)
			stages.PUT("/:id", c.Workflow.UpdateStage)
			stages.DELETE("/:id", c.Workflow.DeleteStage)
		}
	}

	documents := authenticated.Group("/documents")
	{
		documents.POST("/:studentId", c.Documents.UploadDocument)
		documents.GET("/student/:studentId", c.Documents.GetStudentDocuments)
		documents.GET("/:id/download", c.Documents.DownloadDocument)
		documents.DELETE("/:id", c.Documents.DeleteDocument)
	}

	stats := authenticated.Group("/stats")
	stats.Use(adminOnly)
	{
		stats.GET("", c.Stats.GetOverview)
		stats.GET("/supervisors", c.Stats.GetSupervisorLoads)
		stats.GET("/domains", c.Stats.GetDomains)
	}

	theses := authenticated.Group("/theses")
	{
		theses.GET("", c.Theses.GetAllTheses)
		theses.GET("/:id", c.Theses.GetThesisByID)
		theses.POST("", adminOnly, c.Theses.CreateThesis)
		theses.POST("/import", adminOnly, c.Theses.ImportTheses)
		theses.PUT("/:id", adminOnly, c.Theses.UpdateThesis)
		theses.DELETE("/:id", adminOnly, c.Theses.DeleteThesis)
	}

	authenticated.GET("/events/ws", c.Events.Stream)
}
