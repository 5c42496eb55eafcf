package services

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"github.com/yukikurage/earn-your-wings-api/internal/repository"
	"github.com/yukikurage/earn-your-wings-api/internal/storage"
)

var (
	ErrTaskNotFound         = errors.New("task not found")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
	ErrTitleRequired        = errors.New("title is required")
	ErrCompetencyRequired   = errors.New("competency area and sub-competency are required")
	ErrInvalidTaskType      = errors.New("invalid task type")
	ErrNegativeOrder        = errors.New("order must not be negative")
	ErrNegativeHours        = errors.New("estimated hours must not be negative")
)

// FileUpload carries one multipart file through the service layer.
type FileUpload struct {
	Reader   io.Reader
	Filename string
	MimeType string
}

// TaskService handles task definitions and completion records
type TaskService struct {
	taskRepo       repository.TaskRepository
	completionRepo repository.CompletionRepository
	userRepo       repository.UserRepository
	progress       *ProgressService
	store          *storage.Store
}

// NewTaskService creates a new TaskService
func NewTaskService(
	taskRepo repository.TaskRepository,
	completionRepo repository.CompletionRepository,
	userRepo repository.UserRepository,
	progress *ProgressService,
	store *storage.Store,
) *TaskService {
	return &TaskService{
		taskRepo:       taskRepo,
		completionRepo: completionRepo,
		userRepo:       userRepo,
		progress:       progress,
		store:          store,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title          string
	Description    string
	TaskType       models.TaskType
	CompetencyArea string
	SubCompetency  string
	Order          int
	Required       bool
	EstimatedHours float64
	ExternalLink   *string
	Instructions   *string
	CreatedBy      string
}

// UpdateTaskInput represents input for updating a task; only non-nil
// fields are applied.
type UpdateTaskInput struct {
	Title          *string
	Description    *string
	TaskType       *models.TaskType
	CompetencyArea *string
	SubCompetency  *string
	Order          *int
	Required       *bool
	EstimatedHours *float64
	ExternalLink   *string
	Instructions   *string
}

// CompleteTaskInput represents input for completing a task
type CompleteTaskInput struct {
	UserID              string
	TaskID              string
	EvidenceDescription *string
	Notes               *string
	File                *FileUpload
}

// CreateTask creates a new task definition
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(input.CompetencyArea) == "" || strings.TrimSpace(input.SubCompetency) == "" {
		return nil, ErrCompetencyRequired
	}
	if !models.ValidTaskType(input.TaskType) {
		return nil, ErrInvalidTaskType
	}
	if input.Order < 0 {
		return nil, ErrNegativeOrder
	}
	if input.EstimatedHours < 0 {
		return nil, ErrNegativeHours
	}

	task := &models.Task{
		ID:             uuid.NewString(),
		Title:          input.Title,
		Description:    input.Description,
		TaskType:       input.TaskType,
		CompetencyArea: input.CompetencyArea,
		SubCompetency:  input.SubCompetency,
		Order:          input.Order,
		Required:       input.Required,
		EstimatedHours: input.EstimatedHours,
		ExternalLink:   input.ExternalLink,
		Instructions:   input.Instructions,
		Active:         true,
		CreatedBy:      input.CreatedBy,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// GetTask returns a task by ID
func (s *TaskService) GetTask(id string) (*models.Task, error) {
	task, err := s.taskRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ListTasks returns tasks matching the filter, ordered by sort order
func (s *TaskService) ListTasks(filter repository.TaskFilter) ([]models.Task, error) {
	tasks, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListTasksForLeaf returns the active tasks of one sub-competency, ordered
func (s *TaskService) ListTasksForLeaf(area, sub string) ([]models.Task, error) {
	return s.ListTasks(repository.TaskFilter{
		CompetencyArea: &area,
		SubCompetency:  &sub,
		ActiveOnly:     true,
	})
}

// UpdateTask applies the provided fields to an existing task
func (s *TaskService) UpdateTask(id string, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.GetTask(id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.TaskType != nil {
		if !models.ValidTaskType(*input.TaskType) {
			return nil, ErrInvalidTaskType
		}
		task.TaskType = *input.TaskType
	}
	if input.CompetencyArea != nil {
		if strings.TrimSpace(*input.CompetencyArea) == "" {
			return nil, ErrCompetencyRequired
		}
		task.CompetencyArea = *input.CompetencyArea
	}
	if input.SubCompetency != nil {
		if strings.TrimSpace(*input.SubCompetency) == "" {
			return nil, ErrCompetencyRequired
		}
		task.SubCompetency = *input.SubCompetency
	}
	if input.Order != nil {
		if *input.Order < 0 {
			return nil, ErrNegativeOrder
		}
		task.Order = *input.Order
	}
	if input.Required != nil {
		task.Required = *input.Required
	}
	if input.EstimatedHours != nil {
		if *input.EstimatedHours < 0 {
			return nil, ErrNegativeHours
		}
		task.EstimatedHours = *input.EstimatedHours
	}
	if input.ExternalLink != nil {
		task.ExternalLink = input.ExternalLink
	}
	if input.Instructions != nil {
		task.Instructions = input.Instructions
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}

// SoftDeleteTask deactivates a task. Existing completion records are left
// untouched, which means a user's completed count for the affected leaf can
// exceed its total afterwards; accepted behavior, not corrected.
func (s *TaskService) SoftDeleteTask(id string) error {
	task, err := s.GetTask(id)
	if err != nil {
		return err
	}
	task.Active = false
	if err := s.taskRepo.Update(task); err != nil {
		return fmt.Errorf("failed to deactivate task: %w", err)
	}
	return nil
}

// CompleteTask records a completion for (user, task), saving any evidence
// file first so a failed write never leaves a completion row pointing at a
// missing file, nor an orphan row at all. The duplicate check is
// read-then-write and therefore racy under concurrent requests for the same
// pair; the original API tolerates this and so do we.
func (s *TaskService) CompleteTask(input CompleteTaskInput) (*models.TaskCompletion, error) {
	if _, err := s.userRepo.FindByID(input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if _, err := s.GetTask(input.TaskID); err != nil {
		return nil, err
	}

	if _, err := s.completionRepo.FindByUserAndTask(input.UserID, input.TaskID); err == nil {
		return nil, ErrTaskAlreadyCompleted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing completion: %w", err)
	}

	completion := &models.TaskCompletion{
		ID:                  uuid.NewString(),
		UserID:              input.UserID,
		TaskID:              input.TaskID,
		CompletedAt:         time.Now().UTC(),
		EvidenceDescription: input.EvidenceDescription,
		Notes:               input.Notes,
	}

	var savedPath string
	if input.File != nil {
		meta, err := s.store.Save(
			input.File.Reader,
			input.File.Filename,
			input.File.MimeType,
			storage.CategoryEvidence,
			input.UserID,
			completion.ID,
		)
		if err != nil {
			return nil, err
		}
		savedPath = meta.Path
		completion.EvidenceFilePath = &savedPath
	}

	if err := s.completionRepo.Create(completion); err != nil {
		if savedPath != "" {
			s.store.Delete(savedPath)
		}
		return nil, fmt.Errorf("failed to record completion: %w", err)
	}

	if err := s.progress.RecomputeAll(input.UserID); err != nil {
		return nil, err
	}

	return completion, nil
}

// ListCompletions returns a user's completion records
func (s *TaskService) ListCompletions(userID string) ([]models.TaskCompletion, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	completions, err := s.completionRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	return completions, nil
}
