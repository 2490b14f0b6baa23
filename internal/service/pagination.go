package service

import "math"

// MaxPageLimit caps the page size a client may request.
const MaxPageLimit = 100

// MaxPage caps the page number so the row offset stays within int32.
const MaxPage = math.MaxInt32 / MaxPageLimit

// Default page sizes per collection.
const (
	DefaultSkillLimit   = 6
	DefaultProjectLimit = 6
	DefaultMessageLimit = 10
)

// PageRequest is a 1-based page request. Zero values select defaults.
type PageRequest struct {
	Page  int
	Limit int
}

// PageResult is a page of items with its metadata.
type PageResult[T any] struct {
	Items       []T
	Total       int64
	CurrentPage int
	TotalPages  int
}

// normalize fills defaults and returns the row offset.
func (r PageRequest) normalize(defaultLimit int) (page, limit, offset int) {
	page, limit = r.Page, r.Limit
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit, (page - 1) * limit
}

func totalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func newPageResult[T any](items []T, total int64, page, limit int) *PageResult[T] {
	return &PageResult[T]{
		Items:       items,
		Total:       total,
		CurrentPage: page,
		TotalPages:  totalPages(total, limit),
	}
}
