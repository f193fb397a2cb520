package model

const (
	// DefaultPageLimit is applied when a list request omits limit.
	DefaultPageLimit = 50
	// MaxPageLimit caps a caller-supplied limit.
	MaxPageLimit = 100
)

// Pagination describes one page of a list response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// NewPagination normalizes page/limit and computes totalPages as
// ceil(total/limit). A page beyond the last one is clamped to the last
// page; totalPages is at least 1 so "page 1 of an empty list" is a valid
// state.
func NewPagination(page, limit int, total int64) Pagination {
	limit = ClampLimit(limit)
	totalPages := int((total + int64(limit) - 1) / int64(limit))
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// ClampLimit normalizes a caller-supplied page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultPageLimit
	}
	if limit > MaxPageLimit {
		return MaxPageLimit
	}
	return limit
}

// Offset returns the row offset of the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
