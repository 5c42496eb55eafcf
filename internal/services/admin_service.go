package services

import (
	"fmt"

	"github.com/yukikurage/earn-your-wings-api/internal/catalog"
	"github.com/yukikurage/earn-your-wings-api/internal/dto"
	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"github.com/yukikurage/earn-your-wings-api/internal/repository"
	"github.com/yukikurage/earn-your-wings-api/internal/storage"
	"github.com/yukikurage/earn-your-wings-api/internal/utils"
)

// AdminService aggregates the statistics behind the admin dashboard
type AdminService struct {
	userRepo       repository.UserRepository
	taskRepo       repository.TaskRepository
	completionRepo repository.CompletionRepository
	portfolioRepo  repository.PortfolioRepository
	progressRepo   repository.ProgressRepository
	store          *storage.Store
}

// NewAdminService creates a new AdminService
func NewAdminService(
	userRepo repository.UserRepository,
	taskRepo repository.TaskRepository,
	completionRepo repository.CompletionRepository,
	portfolioRepo repository.PortfolioRepository,
	progressRepo repository.ProgressRepository,
	store *storage.Store,
) *AdminService {
	return &AdminService{
		userRepo:       userRepo,
		taskRepo:       taskRepo,
		completionRepo: completionRepo,
		portfolioRepo:  portfolioRepo,
		progressRepo:   progressRepo,
		store:          store,
	}
}

// Stats returns the aggregate dashboard numbers. The completion rate is the
// original API's rough saturation measure (completions / (tasks x users));
// it ignores per-user task eligibility and is reported as-is.
func (s *AdminService) Stats() (*dto.AdminStats, error) {
	users, err := s.userRepo.CountNonAdmin()
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	tasks, err := s.taskRepo.CountActive()
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	completions, err := s.completionRepo.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count completions: %w", err)
	}

	rate := 0.0
	if tasks > 0 && users > 0 {
		rate = float64(completions) / (float64(tasks) * float64(users)) * 100
	}

	return &dto.AdminStats{
		TotalUsers:       users,
		TotalTasks:       tasks,
		TotalCompletions: completions,
		CompletionRate:   rate,
		CompetencyAreas:  catalog.AreaCount(),
	}, nil
}

// UsersWithProgress joins each user with their completion count and the
// mean of their stored progress percentages (0 when none exist yet).
func (s *AdminService) UsersWithProgress(params utils.PaginationParams) ([]dto.AdminUser, int64, error) {
	users, total, err := s.userRepo.List(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	result := make([]dto.AdminUser, 0, len(users))
	for _, user := range users {
		completionCount, err := s.completionRepo.CountByUser(user.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to count completions: %w", err)
		}

		records, err := s.progressRepo.ListByUser(user.ID)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to list progress: %w", err)
		}
		overall := 0.0
		if len(records) > 0 {
			sum := 0.0
			for _, rec := range records {
				sum += rec.CompletionPercentage
			}
			overall = sum / float64(len(records))
		}

		result = append(result, dto.AdminUser{
			ID:              user.ID,
			Email:           user.Email,
			Name:            user.Name,
			Role:            user.Role,
			Level:           user.Level,
			IsAdmin:         user.IsAdmin,
			CreatedAt:       user.CreatedAt,
			CompletionCount: completionCount,
			OverallProgress: overall,
		})
	}

	return result, total, nil
}

// StorageStats reports per-category disk usage alongside the record counts
// in the document store. Purely descriptive; nothing is reconciled.
func (s *AdminService) StorageStats() (map[string]storage.CategoryStats, *dto.StorageRecordCounts, error) {
	disk, err := s.store.Stats()
	if err != nil {
		return nil, nil, err
	}

	active, err := s.portfolioRepo.CountByStatus(models.PortfolioStatusActive)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count portfolio items: %w", err)
	}
	archived, err := s.portfolioRepo.CountByStatus(models.PortfolioStatusArchived)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count portfolio items: %w", err)
	}
	completions, err := s.completionRepo.Count()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to count completions: %w", err)
	}

	return disk, &dto.StorageRecordCounts{
		ActivePortfolioItems:   active,
		ArchivedPortfolioItems: archived,
		TaskCompletions:        completions,
	}, nil
}
