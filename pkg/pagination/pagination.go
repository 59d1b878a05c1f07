package pagination

import "github.com/JaimeStill/pest-lab/pkg/query"

// PageRequest selects one page of runs, optionally sorted.
type PageRequest struct {
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	Sort     []query.SortField `json:"sort,omitempty"`
}

// Normalize clamps the request into the bounds of cfg: pages start at one
// and sizes fall back to the default or are capped at the maximum.
func (r *PageRequest) Normalize(cfg Config) {
	r.Page = max(r.Page, 1)
	if r.PageSize < 1 {
		r.PageSize = cfg.DefaultPageSize
	}
	r.PageSize = min(r.PageSize, cfg.MaxPageSize)
}

// Offset is the number of rows before the requested page.
func (r *PageRequest) Offset() int {
	return (r.Page - 1) * r.PageSize
}

// PageResult is one page of T with the totals needed to walk the rest.
type PageResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalPages int `json:"total_pages"`
}

// NewPageResult wraps data fetched for a normalized req. An empty result
// still reports one page, and Data is never nil.
func NewPageResult[T any](data []T, total int, req PageRequest) PageResult[T] {
	if data == nil {
		data = []T{}
	}

	pages := 1
	if req.PageSize > 0 && total > 0 {
		pages = (total + req.PageSize - 1) / req.PageSize
	}

	return PageResult[T]{
		Data:       data,
		Total:      total,
		Page:       req.Page,
		PageSize:   req.PageSize,
		TotalPages: pages,
	}
}

// HasNext reports whether a later page exists.
func (r PageResult[T]) HasNext() bool {
	return r.Page < r.TotalPages
}
