package domain

const DefaultPerPage = 20

type PageRequest struct {
	Page    int
	PerPage int
}

// Normalize clamps page to >= 1 and perPage to 1..100, defaulting to DefaultPerPage.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > 100 {
		p.PerPage = 100
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

type Page[T any] struct {
	Data            []T  `json:"data"`
	Total           int  `json:"total"`
	Page            int  `json:"page"`
	TotalPages      int  `json:"total_pages"`
	HasPreviousPage bool `json:"has_previous_page"`
	HasNextPage     bool `json:"has_next_page"`
}

func NewPage[T any](data []T, total int, req PageRequest) Page[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if req.PerPage > 0 {
		totalPages = (total + req.PerPage - 1) / req.PerPage
	}
	return Page[T]{
		Data:            data,
		Total:           total,
		Page:            req.Page,
		TotalPages:      totalPages,
		HasPreviousPage: req.Page > 1,
		HasNextPage:     req.Page < totalPages,
	}
}
