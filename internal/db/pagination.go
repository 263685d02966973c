package db

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Page size bounds
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Pagination describes a zero-based page request with an optional "field[,asc|desc]" sort
type Pagination struct {
	Page int
	Size int
	Sort string
}

// Normalize clamps the page and size into their allowed ranges
func (p Pagination) Normalize() Pagination {
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Size <= 0 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

// Offset returns the number of rows to skip
func (p Pagination) Offset() int {
	n := p.Normalize()
	return n.Page * n.Size
}

// Page is one page of query results
type Page[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalPages int   `json:"total_pages"`
}

// NewPage builds a page from its items and the total row count
func NewPage[T any](items []T, total int64, p Pagination) *Page[T] {
	n := p.Normalize()
	if items == nil {
		items = []T{}
	}
	totalPages := int((total + int64(n.Size) - 1) / int64(n.Size))
	return &Page[T]{
		Items:      items,
		Total:      total,
		Page:       n.Page,
		Size:       n.Size,
		TotalPages: totalPages,
	}
}

// sortSpec whitelists the sortable fields of a query
type sortSpec struct {
	columns  map[string]string // request field -> column
	fallback string            // ORDER BY used when the request names no usable field
}

// orderBy resolves a "field[,asc|desc]" request into an ORDER BY clause
func (s sortSpec) orderBy(sort string) string {
	field, dir, _ := strings.Cut(strings.TrimSpace(sort), ",")
	column, ok := s.columns[strings.TrimSpace(field)]
	if !ok {
		return s.fallback
	}
	direction := "ASC"
	if strings.EqualFold(strings.TrimSpace(dir), "desc") {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s", column, direction)
}

// findPage counts and fetches one page of query; preloads apply to the fetch only
func findPage[T any](query *gorm.DB, p Pagination, sort sortSpec, preloads ...string) (*Page[T], error) {
	p = p.Normalize()
	base := query.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, MapGormError(err)
	}

	fetch := base.Order(sort.orderBy(p.Sort)).Limit(p.Size).Offset(p.Offset())
	for _, preload := range preloads {
		fetch = fetch.Preload(preload)
	}

	var items []T
	if err := fetch.Find(&items).Error; err != nil {
		return nil, MapGormError(err)
	}
	return NewPage(items, total, p), nil
}
