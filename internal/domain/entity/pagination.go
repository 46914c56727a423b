package entity

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams is the page/limit pair taken from the query string
type PaginationParams struct {
	Page  int `json:"page" query:"page"`
	Limit int `json:"limit" query:"limit"`
}

// Validate clamps the values into range; out-of-range input is corrected, not rejected.
func (p *PaginationParams) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	switch {
	case p.Limit < 1:
		p.Limit = DefaultPageSize
	case p.Limit > MaxPageSize:
		p.Limit = MaxPageSize
	}
}

func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

type PageInfo struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
}

// Page is one page of a listing together with its position in the whole
type Page[T any] struct {
	Data       []T      `json:"data"`
	Pagination PageInfo `json:"pagination"`
}

// NewPage expects params that have already been validated
func NewPage[T any](items []T, params PaginationParams, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))
	return &Page[T]{
		Data: items,
		Pagination: PageInfo{
			CurrentPage: params.Page,
			PerPage:     params.Limit,
			Total:       total,
			TotalPages:  totalPages,
			HasNext:     params.Page < totalPages,
		},
	}
}
