package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/business-management-api/internal/dto"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/services"
)

// UserHandler serves the /users endpoints about the caller.
type UserHandler struct {
	userService *services.UserService
	taskService *services.TaskService
}

func NewUserHandler(userService *services.UserService, taskService *services.TaskService) *UserHandler {
	return &UserHandler{
		userService: userService,
		taskService: taskService,
	}
}

// Me returns the authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// ChangePassword replaces the caller's password and returns fresh tokens.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type ChangePasswordRequest struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,password"`
	}

	var req ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.userService.ChangePassword(c.Request.Context(), user, req.CurrentPassword, req.NewPassword)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, tokens)
}

// Tasks lists the caller's tasks, optionally filtered by status. The status
// is matched case-insensitively.
func (h *UserHandler) Tasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	orgID, ok := optionalID(c, "organization_id")
	if !ok {
		return
	}
	params, ok := listParams(c)
	if !ok {
		return
	}

	input := services.UserTasksInput{OrganizationID: orgID, Params: params}
	if raw := c.Query("status"); raw != "" {
		status := models.TaskStatus(strings.ToUpper(strings.TrimSpace(raw)))
		input.Status = &status
	}

	tasks, total, err := h.taskService.ListForUser(c.Request.Context(), user, input)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(tasks, dto.ToTaskDTO, params, total))
}

// Scores reports the average score of the caller's completed tasks.
func (h *UserHandler) Scores(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	orgID, ok := optionalID(c, "organization_id")
	if !ok {
		return
	}

	report, err := h.taskService.ScoresForUser(c.Request.Context(), user, orgID)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToScoreReportDTO(report.EmployeeID, report.Average, report.Scores))
}
