package models

import "math"

type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasMore    bool  `json:"hasMore"`
}

type PageResult[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// Pagination is a validated page request.
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Skip() int64 { return int64((p.Page - 1) * p.Limit) }

func NewPageResult[T any](data []T, p Pagination, total int64) *PageResult[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := 0
	if p.Limit > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	return &PageResult[T]{
		Data: data,
		Meta: PaginationMeta{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      total,
			TotalPages: totalPages,
			HasMore:    p.Page < totalPages,
		},
	}
}

// RoundMoney rounds to two decimals.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
