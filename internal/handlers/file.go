package handlers

import (
	"path/filepath"

	"github.com/gin-gonic/gin"

	apierrors "github.com/yukikurage/earn-your-wings-api/internal/errors"
	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"github.com/yukikurage/earn-your-wings-api/internal/repository"
	"github.com/yukikurage/earn-your-wings-api/internal/storage"
)

// FileHandler resolves stored files through their owning records and
// streams them back with their original filename. Visibility levels are
// modeled on portfolio items but not yet enforced here; access is
// authenticated but effectively open, a known gap carried from the
// original API.
type FileHandler struct {
	portfolioRepo  repository.PortfolioRepository
	completionRepo repository.CompletionRepository
	store          *storage.Store
}

func NewFileHandler(
	portfolioRepo repository.PortfolioRepository,
	completionRepo repository.CompletionRepository,
	store *storage.Store,
) *FileHandler {
	return &FileHandler{
		portfolioRepo:  portfolioRepo,
		completionRepo: completionRepo,
		store:          store,
	}
}

// ServeFile streams the file owned by the record in the given category.
func (h *FileHandler) ServeFile(c *gin.Context) {
	category, ok := storage.ParseCategory(c.Param("category"))
	if !ok {
		apierrors.NotFound(c, "Unknown file category")
		return
	}

	var path, downloadName string
	switch category {
	case storage.CategoryPortfolio:
		item, err := h.portfolioRepo.FindByID(c.Param("id"))
		if err != nil || item.Status == models.PortfolioStatusDeleted {
			apierrors.NotFound(c, "File not found")
			return
		}
		path = item.FilePath
		downloadName = item.OriginalFilename
	case storage.CategoryEvidence:
		completion, err := h.completionRepo.FindByID(c.Param("id"))
		if err != nil || completion.EvidenceFilePath == nil {
			apierrors.NotFound(c, "File not found")
			return
		}
		path = *completion.EvidenceFilePath
		downloadName = filepath.Base(path)
	default:
		// temp files have no owning record and are never served
		apierrors.NotFound(c, "File not found")
		return
	}

	if !h.store.Exists(path) {
		apierrors.NotFound(c, "File is no longer available")
		return
	}

	c.FileAttachment(path, downloadName)
}
