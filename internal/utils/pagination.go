package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/business-management-api/internal/constants"
)

// ListParams holds offset pagination and sorting for list endpoints
type ListParams struct {
	Offset int
	Limit  int
	SortBy string
	Desc   bool
}

// PaginationResponse represents the pagination metadata in API responses
type PaginationResponse struct {
	Offset int   `json:"offset"`
	Limit  int   `json:"limit"`
	Total  int64 `json:"total"`
}

// DefaultListParams returns the first page sorted by id.
func DefaultListParams() ListParams {
	return ListParams{Limit: constants.DefaultLimit, SortBy: "id"}
}

// GetListParams extracts offset, limit, sort_by and sort from the query string.
// Out-of-range limits are clamped; malformed numbers and directions are rejected.
func GetListParams(c *gin.Context) (ListParams, error) {
	params := DefaultListParams()

	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return params, fmt.Errorf("invalid offset %q", raw)
		}
		params.Offset = offset
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return params, fmt.Errorf("invalid limit %q", raw)
		}
		if limit < 1 || limit > constants.MaxLimit {
			limit = constants.DefaultLimit
		}
		params.Limit = limit
	}

	if sortBy := strings.TrimSpace(c.Query("sort_by")); sortBy != "" {
		params.SortBy = sortBy
	}

	switch strings.ToLower(c.DefaultQuery("sort", "asc")) {
	case "asc":
		params.Desc = false
	case "desc":
		params.Desc = true
	default:
		return params, fmt.Errorf("sort must be asc or desc")
	}

	return params, nil
}

// Response builds the pagination block for a list response.
func (p ListParams) Response(total int64) PaginationResponse {
	return PaginationResponse{
		Offset: p.Offset,
		Limit:  p.Limit,
		Total:  total,
	}
}
