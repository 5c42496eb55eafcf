package dto

import (
	"encoding/json"
	"time"

	"github.com/yukikurage/earn-your-wings-api/internal/models"
)

// PortfolioItemDTO represents a portfolio item in API responses, with the
// JSON-column lists decoded into plain slices.
type PortfolioItemDTO struct {
	ID               string                     `json:"id"`
	UserID           string                     `json:"user_id"`
	Title            string                     `json:"title"`
	Description      string                     `json:"description"`
	CompetencyAreas  []string                   `json:"competency_areas"`
	OriginalFilename string                     `json:"original_filename"`
	SecureFilename   string                     `json:"secure_filename"`
	FileSize         int64                      `json:"file_size"`
	MimeType         string                     `json:"mime_type"`
	Visibility       models.PortfolioVisibility `json:"visibility"`
	Tags             []string                   `json:"tags"`
	Status           models.PortfolioStatus     `json:"status"`
	UploadDate       time.Time                  `json:"upload_date"`
	UpdatedAt        time.Time                  `json:"updated_at"`
}

// ToPortfolioItemDTO converts a model to its API representation.
func ToPortfolioItemDTO(item models.PortfolioItem) PortfolioItemDTO {
	return PortfolioItemDTO{
		ID:               item.ID,
		UserID:           item.UserID,
		Title:            item.Title,
		Description:      item.Description,
		CompetencyAreas:  decodeStringList(item.CompetencyAreas),
		OriginalFilename: item.OriginalFilename,
		SecureFilename:   item.SecureFilename,
		FileSize:         item.FileSize,
		MimeType:         item.MimeType,
		Visibility:       item.Visibility,
		Tags:             decodeStringList(item.Tags),
		Status:           item.Status,
		UploadDate:       item.UploadDate,
		UpdatedAt:        item.UpdatedAt,
	}
}

// ToPortfolioItemDTOs converts a slice of models.
func ToPortfolioItemDTOs(items []models.PortfolioItem) []PortfolioItemDTO {
	dtos := make([]PortfolioItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, ToPortfolioItemDTO(item))
	}
	return dtos
}

func decodeStringList(raw []byte) []string {
	list := []string{}
	if len(raw) == 0 {
		return list
	}
	if err := json.Unmarshal(raw, &list); err != nil {
		return []string{}
	}
	return list
}
