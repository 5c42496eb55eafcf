package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yukikurage/earn-your-wings-api/internal/logger"
	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"github.com/yukikurage/earn-your-wings-api/internal/repository"
	"github.com/yukikurage/earn-your-wings-api/internal/storage"
)

var (
	ErrPortfolioItemNotFound = errors.New("portfolio item not found")
	ErrFileRequired          = errors.New("a file is required")
	ErrInvalidVisibility     = errors.New("invalid visibility")
)

// PortfolioService handles portfolio items and their evidence linkage
type PortfolioService struct {
	portfolioRepo repository.PortfolioRepository
	userRepo      repository.UserRepository
	progress      *ProgressService
	store         *storage.Store
	log           *logger.Logger
}

// NewPortfolioService creates a new PortfolioService
func NewPortfolioService(
	portfolioRepo repository.PortfolioRepository,
	userRepo repository.UserRepository,
	progress *ProgressService,
	store *storage.Store,
	log *logger.Logger,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		userRepo:      userRepo,
		progress:      progress,
		store:         store,
		log:           log.With("service", "portfolio"),
	}
}

// CreatePortfolioItemInput represents input for uploading a portfolio item
type CreatePortfolioItemInput struct {
	UserID          string
	Title           string
	Description     string
	CompetencyAreas []string
	Visibility      models.PortfolioVisibility
	Tags            []string
	File            *FileUpload
}

// Create validates and persists a portfolio upload: file first, then the
// record, then the evidence linkage into the user's progress rows.
func (s *PortfolioService) Create(input CreatePortfolioItemInput) (*models.PortfolioItem, error) {
	if _, err := s.userRepo.FindByID(input.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}
	if input.File == nil {
		return nil, ErrFileRequired
	}

	visibility := input.Visibility
	if visibility == "" {
		visibility = models.VisibilityPrivate
	}
	if !models.ValidVisibility(visibility) {
		return nil, ErrInvalidVisibility
	}

	id := uuid.NewString()
	meta, err := s.store.Save(
		input.File.Reader,
		input.File.Filename,
		input.File.MimeType,
		storage.CategoryPortfolio,
		input.UserID,
		id,
	)
	if err != nil {
		return nil, err
	}

	item := &models.PortfolioItem{
		ID:               id,
		UserID:           input.UserID,
		Title:            input.Title,
		Description:      input.Description,
		CompetencyAreas:  encodeStringList(input.CompetencyAreas),
		FilePath:         meta.Path,
		OriginalFilename: meta.OriginalFilename,
		SecureFilename:   meta.SecureFilename,
		FileSize:         meta.Size,
		MimeType:         meta.MimeType,
		Visibility:       visibility,
		Tags:             encodeStringList(input.Tags),
		Status:           models.PortfolioStatusActive,
		UploadDate:       time.Now().UTC(),
	}

	if err := s.portfolioRepo.Create(item); err != nil {
		s.store.Delete(meta.Path)
		return nil, fmt.Errorf("failed to create portfolio item: %w", err)
	}

	// Keep the derived view in step with the new artifact: refresh the
	// user's progress rows, then link the item into the tagged areas.
	if err := s.progress.RecomputeAll(input.UserID); err != nil {
		return nil, err
	}
	if err := s.progress.AttachEvidence(input.UserID, input.CompetencyAreas, id); err != nil {
		return nil, err
	}

	return item, nil
}

// List returns a user's portfolio, excluding deleted items
func (s *PortfolioService) List(userID string) ([]models.PortfolioItem, error) {
	if _, err := s.userRepo.FindByID(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	items, err := s.portfolioRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list portfolio: %w", err)
	}
	return items, nil
}

// Get returns one of a user's portfolio items
func (s *PortfolioService) Get(userID, itemID string) (*models.PortfolioItem, error) {
	item, err := s.portfolioRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPortfolioItemNotFound
		}
		return nil, fmt.Errorf("failed to find portfolio item: %w", err)
	}
	if item.UserID != userID || item.Status == models.PortfolioStatusDeleted {
		return nil, ErrPortfolioItemNotFound
	}
	return item, nil
}

// SoftDelete marks an item deleted, removes its file best-effort, and
// detaches it from the user's evidence lists. A file that is already gone
// from disk never blocks the soft-delete.
func (s *PortfolioService) SoftDelete(userID, itemID string) error {
	item, err := s.Get(userID, itemID)
	if err != nil {
		return err
	}

	item.Status = models.PortfolioStatusDeleted
	if err := s.portfolioRepo.Update(item); err != nil {
		return fmt.Errorf("failed to delete portfolio item: %w", err)
	}

	s.store.Delete(item.FilePath)

	areas := decodeEvidence(item.CompetencyAreas)
	if err := s.progress.DetachEvidence(userID, areas, itemID); err != nil {
		return err
	}
	if err := s.progress.RecomputeAll(userID); err != nil {
		return err
	}

	s.log.Info("portfolio item deleted", "user_id", userID, "item_id", itemID)
	return nil
}

func encodeStringList(list []string) datatypes.JSON {
	if list == nil {
		list = []string{}
	}
	encoded, err := json.Marshal(list)
	if err != nil {
		return datatypes.JSON([]byte(`[]`))
	}
	return datatypes.JSON(encoded)
}
