package repository

import "gorm.io/gorm"

// DefaultPerPage is used when neither the caller nor the repository options
// provide a page size.
const DefaultPerPage = 15

// Pagination selects a 1-based page of PerPage rows.
type Pagination struct {
	Page    int
	PerPage int
}

// Page is one page of a paginated listing.
type Page[T any] struct {
	Items       []T   `json:"items"`
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	LastPage    int   `json:"last_page"`
}

func (p Pagination) normalize(defaultPerPage int) Pagination {
	if p.PerPage <= 0 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.Page < 1 {
		p.Page = 1
	}
	return p
}

func (p Pagination) offset() int {
	return (p.Page - 1) * p.PerPage
}

func newPage[T any](items []T, total int64, p Pagination) *Page[T] {
	lastPage := int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	if lastPage < 1 {
		lastPage = 1
	}
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:       items,
		Total:       total,
		CurrentPage: p.Page,
		PerPage:     p.PerPage,
		LastPage:    lastPage,
	}
}

// paginate counts the rows matched by query and loads the requested page.
// load adds projection, eager loading and ordering; it is not applied to the
// count query.
func paginate[T any](query *gorm.DB, p Pagination, load func(*gorm.DB) *gorm.DB) (*Page[T], error) {
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, err
	}

	var items []T
	if total > int64(p.offset()) {
		if err := load(query).Offset(p.offset()).Limit(p.PerPage).Find(&items).Error; err != nil {
			return nil, err
		}
	}
	return newPage(items, total, p), nil
}
