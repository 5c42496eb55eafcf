package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yukikurage/earn-your-wings-api/internal/errors"
	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"github.com/yukikurage/earn-your-wings-api/internal/repository"
	"github.com/yukikurage/earn-your-wings-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// ListTasks returns active tasks, optionally filtered by competency area,
// sub-competency, or task type via query parameters.
func (h *TaskHandler) ListTasks(c *gin.Context) {
	filter := repository.TaskFilter{ActiveOnly: true}

	if area := c.Query("competency_area"); area != "" {
		filter.CompetencyArea = &area
	}
	if sub := c.Query("sub_competency"); sub != "" {
		filter.SubCompetency = &sub
	}
	if rawType := c.Query("task_type"); rawType != "" {
		taskType := models.TaskType(rawType)
		if !models.ValidTaskType(taskType) {
			apierrors.BadRequest(c, "Invalid task_type")
			return
		}
		filter.TaskType = &taskType
	}

	tasks, err := h.taskService.ListTasks(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// ListTasksForLeaf returns the active tasks of one sub-competency, in order
func (h *TaskHandler) ListTasksForLeaf(c *gin.Context) {
	tasks, err := h.taskService.ListTasksForLeaf(c.Param("area"), c.Param("sub"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"competency_area": c.Param("area"),
		"sub_competency":  c.Param("sub"),
		"tasks":           tasks,
	})
}

// CompleteTask records a task completion with optional evidence. Mounted on
// both /task-completions and /tasks/complete; the older path is kept as an
// alias for existing clients.
func (h *TaskHandler) CompleteTask(c *gin.Context) {
	userID := c.Param("id")

	taskID := c.PostForm("task_id")
	if taskID == "" {
		apierrors.BadRequest(c, "task_id is required")
		return
	}

	upload, file, err := formFile(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid multipart form")
		return
	}
	if file != nil {
		defer file.Close()
	}

	completion, err := h.taskService.CompleteTask(services.CompleteTaskInput{
		UserID:              userID,
		TaskID:              taskID,
		EvidenceDescription: optionalForm(c, "evidence_description"),
		Notes:               optionalForm(c, "notes"),
		File:                upload,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, completion)
}

// ListCompletions returns a user's completion history, newest first
func (h *TaskHandler) ListCompletions(c *gin.Context) {
	completions, err := h.taskService.ListCompletions(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"completions": completions})
}
