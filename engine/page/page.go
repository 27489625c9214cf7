// Package page slices a filtered, ranked list into stable pages. Ordering is
// inherited from the input; no re-sorting happens here, so page N+1's first
// item never duplicates page N's last for a stable input.
package page

import (
	"fmt"

	"github.com/ShowroomAI/showroom-mvp/engine/domain"
)

// Page is one page of items with its position metadata.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	Total      int
	TotalPages int
}

// Paginate returns the 1-based page of items. A page beyond the available
// range yields an empty item slice with correct totals, not an error.
// Non-positive page numbers are clamped to 1.
func Paginate[T any](items []T, pageNum, pageSize int) (Page[T], error) {
	if pageSize < 1 {
		return Page[T]{}, fmt.Errorf("page: %w: %d", domain.ErrInvalidPageSize, pageSize)
	}
	if pageNum < 1 {
		pageNum = 1
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	start := (pageNum - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:      items[start:end],
		Page:       pageNum,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}
