package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/business-management-api/internal/dto"
	apierrors "github.com/yukikurage/business-management-api/internal/errors"
	"github.com/yukikurage/business-management-api/internal/middleware"
	"github.com/yukikurage/business-management-api/internal/models"
	"github.com/yukikurage/business-management-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
	aiService   *services.AIService
}

func NewTaskHandler(taskService *services.TaskService, aiService *services.AIService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		aiService:   aiService,
	}
}

// CreateTask creates a new task in the organization
func (h *TaskHandler) CreateTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type CreateTaskRequest struct {
		Name        string    `json:"name" binding:"required,max=255"`
		Description string    `json:"description"`
		Assignee    uint64    `json:"assignee" binding:"required"`
		Deadline    time.Time `json:"deadline" binding:"required"`
	}

	var req CreateTaskRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), user, services.CreateTaskInput{
		OrganizationID: middleware.ParamID(c, "org_id"),
		Name:           req.Name,
		Description:    req.Description,
		Assignee:       req.Assignee,
		Deadline:       req.Deadline,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// DraftTasks asks the AI service for task suggestions extracted from text.
// Nothing is persisted.
func (h *TaskHandler) DraftTasks(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if h.aiService == nil || !h.aiService.Enabled() {
		apierrors.ServiceUnavailable(c, "AI service is not configured")
		return
	}

	type DraftTasksRequest struct {
		Text string `json:"text" binding:"required"`
	}

	var req DraftTasksRequest
	if !bindJSON(c, &req) {
		return
	}

	drafts, err := h.aiService.DraftTasks(c.Request.Context(), user, middleware.ParamID(c, "org_id"), req.Text)
	if err != nil {
		if errors.Is(err, services.ErrAIServiceNotConfigured) {
			apierrors.ServiceUnavailable(c, err.Error())
			return
		}
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": drafts})
}

// GetTask returns a specific task by ID
func (h *TaskHandler) GetTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), user, middleware.ParamID(c, "task_id"))
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// UpdateStatus moves a task to another status. DONE tasks are frozen.
func (h *TaskHandler) UpdateStatus(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type UpdateStatusRequest struct {
		Status models.TaskStatus `json:"status" binding:"required"`
	}

	var req UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	task, err := h.taskService.UpdateStatus(c.Request.Context(), user, middleware.ParamID(c, "task_id"), req.Status)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask deletes a task with its comments and score
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), user, middleware.ParamID(c, "task_id")); err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Task deleted successfully"})
}

func (h *TaskHandler) ListComments(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}
	params, ok := listParams(c)
	if !ok {
		return
	}

	comments, total, err := h.taskService.ListComments(c.Request.Context(), user, middleware.ParamID(c, "task_id"), params)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewListResponse(comments, dto.ToCommentDTO, params, total))
}

func (h *TaskHandler) AddComment(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type AddCommentRequest struct {
		Content string `json:"content" binding:"required"`
	}

	var req AddCommentRequest
	if !bindJSON(c, &req) {
		return
	}

	comment, err := h.taskService.AddComment(c.Request.Context(), user, middleware.ParamID(c, "task_id"), req.Content)
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCommentDTO(*comment))
}

// ScoreTask rates a DONE task. in_time is derived, not submitted.
func (h *TaskHandler) ScoreTask(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	type ScoreRequest struct {
		Integrity int `json:"integrity" binding:"required,min=1,max=10"`
		Quality   int `json:"quality" binding:"required,min=1,max=10"`
	}

	var req ScoreRequest
	if !bindJSON(c, &req) {
		return
	}

	score, err := h.taskService.Score(c.Request.Context(), user, middleware.ParamID(c, "task_id"), services.ScoreInput{
		Integrity: req.Integrity,
		Quality:   req.Quality,
	})
	if err != nil {
		apierrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToScoreDTO(*score))
}
