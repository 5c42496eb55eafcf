package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yukikurage/earn-your-wings-api/internal/errors"
	"github.com/yukikurage/earn-your-wings-api/internal/middleware"
	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"github.com/yukikurage/earn-your-wings-api/internal/repository"
	"github.com/yukikurage/earn-your-wings-api/internal/services"
	"github.com/yukikurage/earn-your-wings-api/internal/utils"
)

type AdminHandler struct {
	taskService  *services.TaskService
	adminService *services.AdminService
}

func NewAdminHandler(taskService *services.TaskService, adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		taskService:  taskService,
		adminService: adminService,
	}
}

// CreateTask creates a new task definition
func (h *AdminHandler) CreateTask(c *gin.Context) {
	type CreateTaskRequest struct {
		Title          string  `json:"title" binding:"required"`
		Description    string  `json:"description"`
		TaskType       string  `json:"task_type" binding:"required"`
		CompetencyArea string  `json:"competency_area" binding:"required"`
		SubCompetency  string  `json:"sub_competency" binding:"required"`
		Order          int     `json:"order"`
		Required       *bool   `json:"required_task"`
		EstimatedHours float64 `json:"estimated_hours"`
		ExternalLink   *string `json:"external_link"`
		Instructions   *string `json:"instructions"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	required := true
	if req.Required != nil {
		required = *req.Required
	}

	createdBy, _ := middleware.GetSubject(c)

	task, err := h.taskService.CreateTask(services.CreateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		TaskType:       models.TaskType(req.TaskType),
		CompetencyArea: req.CompetencyArea,
		SubCompetency:  req.SubCompetency,
		Order:          req.Order,
		Required:       required,
		EstimatedHours: req.EstimatedHours,
		ExternalLink:   req.ExternalLink,
		Instructions:   req.Instructions,
		CreatedBy:      createdBy,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// ListTasks returns all tasks including inactive ones
func (h *AdminHandler) ListTasks(c *gin.Context) {
	tasks, err := h.taskService.ListTasks(repository.TaskFilter{})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GetTask returns one task by ID, active or not
func (h *AdminHandler) GetTask(c *gin.Context) {
	task, err := h.taskService.GetTask(c.Param("task_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// UpdateTask applies the provided fields to a task
func (h *AdminHandler) UpdateTask(c *gin.Context) {
	type UpdateTaskRequest struct {
		Title          *string  `json:"title"`
		Description    *string  `json:"description"`
		TaskType       *string  `json:"task_type"`
		CompetencyArea *string  `json:"competency_area"`
		SubCompetency  *string  `json:"sub_competency"`
		Order          *int     `json:"order"`
		Required       *bool    `json:"required_task"`
		EstimatedHours *float64 `json:"estimated_hours"`
		ExternalLink   *string  `json:"external_link"`
		Instructions   *string  `json:"instructions"`
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input := services.UpdateTaskInput{
		Title:          req.Title,
		Description:    req.Description,
		CompetencyArea: req.CompetencyArea,
		SubCompetency:  req.SubCompetency,
		Order:          req.Order,
		Required:       req.Required,
		EstimatedHours: req.EstimatedHours,
		ExternalLink:   req.ExternalLink,
		Instructions:   req.Instructions,
	}
	if req.TaskType != nil {
		taskType := models.TaskType(*req.TaskType)
		input.TaskType = &taskType
	}

	task, err := h.taskService.UpdateTask(c.Param("task_id"), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, task)
}

// DeleteTask deactivates a task, leaving recorded completions in place
func (h *AdminHandler) DeleteTask(c *gin.Context) {
	if err := h.taskService.SoftDeleteTask(c.Param("task_id")); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"detail": "Task deactivated"})
}

// Stats returns the aggregate dashboard numbers
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.adminService.Stats()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListUsers returns users joined with completion counts and mean progress
func (h *AdminHandler) ListUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	users, total, err := h.adminService.UsersWithProgress(params)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": utils.NewPaginationResponse(params, total),
	})
}

// StorageStats reports disk usage per category next to record counts
func (h *AdminHandler) StorageStats(c *gin.Context) {
	disk, records, err := h.adminService.StorageStats()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"storage": disk,
		"records": records,
	})
}
