package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/yukikurage/business-management-api/internal/access"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/metrics"
	"github.com/yukikurage/business-management-api/internal/middleware"
	"github.com/yukikurage/business-management-api/internal/services"
	"github.com/yukikurage/business-management-api/internal/utils"
	"go.uber.org/zap"
)

// Services bundles the business services served over HTTP.
type Services struct {
	Auth          *services.AuthService
	Users         *services.UserService
	Organizations *services.OrganizationService
	Departments   *services.DepartmentService
	Meetings      *services.MeetingService
	Tasks         *services.TaskService
	AI            *services.AIService
}

// RouterConfig carries the cross-cutting pieces of the HTTP stack.
// AuthLimiter and Health are optional.
type RouterConfig struct {
	Log         *zap.Logger
	Gate        *access.Gate
	UserLoader  access.UserLoader
	AuthLimiter gin.HandlerFunc
	Health      func(ctx context.Context) error
}

// NewRouter wires middleware and every /api/v1 route.
func NewRouter(cfg RouterConfig, svc Services) (*gin.Engine, error) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := utils.RegisterValidators(v); err != nil {
			return nil, fmt.Errorf("failed to register validators: %w", err)
		}
	}

	authHandler := NewAuthHandler(svc.Auth)
	userHandler := NewUserHandler(svc.Users, svc.Tasks)
	orgHandler := NewOrganizationHandler(svc.Organizations)
	deptHandler := NewDepartmentHandler(svc.Departments)
	meetingHandler := NewMeetingHandler(svc.Meetings)
	taskHandler := NewTaskHandler(svc.Tasks, svc.AI)

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(cfg.Log),
		middleware.Recovery(cfg.Log),
		metrics.Middleware(),
	)
	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "")
	})

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		if cfg.Health != nil {
			if err := cfg.Health(c.Request.Context()); err != nil {
				cfg.Log.Warn("health check failed", zap.Error(err))
				apierrors.ServiceUnavailable(c, "")
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Business Management API is running",
		})
	})
	r.GET("/metrics", metrics.Handler())

	requireAuth := middleware.RequireAuth(cfg.Gate, cfg.UserLoader)
	api := r.Group("/api/v1")
	{
		// Auth routes (public)
		authRoutes := api.Group("/auth")
		if cfg.AuthLimiter != nil {
			authRoutes.Use(cfg.AuthLimiter)
		}
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/signin", authHandler.Signin)
			authRoutes.POST("/refresh", authHandler.Refresh)
		}

		users := api.Group("/users", requireAuth)
		{
			users.GET("/me", userHandler.Me)
			users.POST("/change-password", userHandler.ChangePassword)
			users.GET("/tasks", userHandler.Tasks)
			users.GET("/scores", userHandler.Scores)
		}

		orgs := api.Group("/organizations", requireAuth)
		{
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.GET("", orgHandler.ListOrganizations)

			org := orgs.Group("/:org_id", middleware.RequireIDParams("org_id"))
			org.GET("", orgHandler.GetOrganization)
			org.PATCH("", orgHandler.UpdateOrganization)
			org.DELETE("", orgHandler.DeleteOrganization)
			org.POST("/invite", orgHandler.Invite)
			org.GET("/employees", orgHandler.ListEmployees)
			org.DELETE("/employees/:employee_id", middleware.RequireIDParams("employee_id"), orgHandler.RemoveEmployee)
			org.POST("/tasks", taskHandler.CreateTask)
			org.POST("/tasks/drafts", taskHandler.DraftTasks)

			org.POST("/departments", deptHandler.CreateDepartment)
			org.GET("/departments", deptHandler.ListDepartments)

			dept := org.Group("/departments/:dept_id", middleware.RequireIDParams("dept_id"))
			dept.GET("", deptHandler.GetDepartment)
			dept.PATCH("", deptHandler.UpdateDepartment)
			dept.DELETE("", deptHandler.DeleteDepartment)
			dept.GET("/employees", deptHandler.ListEmployees)
			dept.POST("/employees", deptHandler.AddEmployee)
			dept.PATCH("/employees/:employee_id", middleware.RequireIDParams("employee_id"), deptHandler.UpdateEmployee)
			dept.DELETE("/employees/:employee_id", middleware.RequireIDParams("employee_id"), deptHandler.RemoveEmployee)
			dept.GET("/meetings", meetingHandler.ListMeetings)
			dept.POST("/meetings", meetingHandler.CreateMeeting)
			dept.PATCH("/meetings/:meeting_id", middleware.RequireIDParams("meeting_id"), meetingHandler.UpdateMeeting)
			dept.DELETE("/meetings/:meeting_id", middleware.RequireIDParams("meeting_id"), meetingHandler.DeleteMeeting)
		}

		tasks := api.Group("/tasks/:task_id", requireAuth, middleware.RequireIDParams("task_id"))
		{
			tasks.GET("", taskHandler.GetTask)
			tasks.DELETE("", taskHandler.DeleteTask)
			tasks.PATCH("/status", taskHandler.UpdateStatus)
			tasks.GET("/comments", taskHandler.ListComments)
			tasks.POST("/comments", taskHandler.AddComment)
			tasks.POST("/score", taskHandler.ScoreTask)
		}
	}

	return r, nil
}
