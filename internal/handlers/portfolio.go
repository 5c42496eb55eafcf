package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/earn-your-wings-api/internal/dto"
	apierrors "github.com/yukikurage/earn-your-wings-api/internal/errors"
	"github.com/yukikurage/earn-your-wings-api/internal/models"
	"github.com/yukikurage/earn-your-wings-api/internal/services"
)

type PortfolioHandler struct {
	portfolioService *services.PortfolioService
}

func NewPortfolioHandler(portfolioService *services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// CreateItem uploads a portfolio artifact (multipart form).
func (h *PortfolioHandler) CreateItem(c *gin.Context) {
	userID := c.Param("id")

	upload, file, err := formFile(c)
	if err != nil {
		apierrors.BadRequest(c, "Invalid multipart form")
		return
	}
	if file != nil {
		defer file.Close()
	}

	item, err := h.portfolioService.Create(services.CreatePortfolioItemInput{
		UserID:          userID,
		Title:           c.PostForm("title"),
		Description:     c.PostForm("description"),
		CompetencyAreas: formStringList(c, "competency_areas"),
		Visibility:      models.PortfolioVisibility(c.PostForm("visibility")),
		Tags:            formStringList(c, "tags"),
		File:            upload,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPortfolioItemDTO(*item))
}

// ListItems returns a user's portfolio, excluding deleted items
func (h *PortfolioHandler) ListItems(c *gin.Context) {
	items, err := h.portfolioService.List(c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"portfolio": dto.ToPortfolioItemDTOs(items)})
}

// GetItem returns one portfolio item
func (h *PortfolioHandler) GetItem(c *gin.Context) {
	item, err := h.portfolioService.Get(c.Param("id"), c.Param("item_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPortfolioItemDTO(*item))
}

// DeleteItem soft-deletes a portfolio item and removes its file
func (h *PortfolioHandler) DeleteItem(c *gin.Context) {
	if err := h.portfolioService.SoftDelete(c.Param("id"), c.Param("item_id")); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Portfolio item deleted"})
}
