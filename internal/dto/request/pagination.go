package request

import "rental-marketplace/pkg/utils"

const MaxPageSize = 100

type PaginatedRequest struct {
	Page  int `json:"page" validate:"min=1"`
	Limit int `json:"limit" validate:"min=1,max=100"`
}

// NewPaginatedRequest clamps page and limit into range.
func NewPaginatedRequest(page, limit int) PaginatedRequest {
	if page < 1 {
		page = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if limit < 1 {
		limit = 10
	}
	return PaginatedRequest{Page: page, Limit: limit}
}

func (p PaginatedRequest) Offset() int {
	return utils.CalculateOffset(p.Page, p.Limit)
}
