package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"github.com/yukikurage/earn-your-wings-api/internal/repository"
	"github.com/yukikurage/earn-your-wings-api/internal/utils"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailRequired = errors.New("email is required")
)

// UserService handles user business logic
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	ID    string
	Email string
	Name  string
	Role  models.Role
	Level string
}

// GetOrCreate returns the existing user for the given id or email, creating
// one on first contact. Creation is idempotent: repeating the call with the
// same id or email returns the original record unchanged.
func (s *UserService) GetOrCreate(input CreateUserInput) (*models.User, bool, error) {
	if input.ID != "" {
		user, err := s.userRepo.FindByID(input.ID)
		if err == nil {
			return user, false, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, fmt.Errorf("failed to find user: %w", err)
		}
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return nil, false, ErrEmailRequired
	}

	user, err := s.userRepo.FindByEmail(email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, fmt.Errorf("failed to find user: %w", err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleParticipant
	}

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}

	created := &models.User{
		ID:      id,
		Email:   email,
		Name:    input.Name,
		Role:    role,
		Level:   input.Level,
		IsAdmin: role == models.RoleAdmin,
	}
	if err := s.userRepo.Create(created); err != nil {
		return nil, false, fmt.Errorf("failed to create user: %w", err)
	}

	return created, true, nil
}

// GetUser returns a user by ID
func (s *UserService) GetUser(id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ListUsers returns users with pagination
func (s *UserService) ListUsers(params utils.PaginationParams) ([]models.User, int64, error) {
	users, total, err := s.userRepo.List(params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}
