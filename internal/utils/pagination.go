package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/earn-your-wings-api/internal/constants"
)

// PaginationParams is the page window a client asked for. Offset is derived
// and consumed by database.Paginate.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginationResponse echoes the applied window next to the total row count.
type PaginationResponse struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// NewPaginationResponse pairs the applied params with the total count.
func NewPaginationResponse(params PaginationParams, total int64) PaginationResponse {
	return PaginationResponse{
		Page:  params.Page,
		Limit: params.Limit,
		Total: total,
	}
}

// GetPaginationParams reads page and limit from the query string. Malformed
// or out-of-range values fall back to the defaults rather than erroring.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPageSize)))
	if err != nil || page < constants.MinPageSize {
		page = constants.MinPageSize
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))
	if err != nil || limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}

	return PaginationParams{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
