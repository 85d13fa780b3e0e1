package types

// Pagination describes the position of a page within a larger result set.
// Pages is ceil(Total/Limit).
type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// NewPagination normalizes page/limit and derives the page count.
// Page defaults to 1, limit to defaultLimit when out of range.
func NewPagination(total int64, page, limit, defaultLimit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	return Pagination{Total: total, Page: page, Limit: limit, Pages: pages}
}

// Offset returns the number of records to skip for this page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
