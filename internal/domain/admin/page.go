package admin

// Page is the shape of every paginated list.
type Page[T any] struct {
	Items    []T `json:"items"`
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
	Total    int `json:"total"`
}

// Pages returns the number of pages, at least 1.
func (p Page[T]) Pages() int {
	if p.PageSize <= 0 || p.Total <= 0 {
		return 1
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// Pagination defaults shared by all list screens.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// AllFilter is the UI value meaning "no filter".
const AllFilter = "all"

// NormalizePage clamps page to >= 1 and pageSize to [1, MaxPageSize],
// defaulting to DefaultPageSize.
func NormalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
