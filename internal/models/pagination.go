package models

// DefaultLimit is the page size used when a list request does not specify one
const DefaultLimit = 10

// MaxLimit caps the page size a single list request may ask for
const MaxLimit = 100

// ListResult is the wire shape of one page of customers
type ListResult struct {
	Records []*Customer `json:"records"`
	Total   int64       `json:"total"`
	Skip    int         `json:"skip"`
	Limit   int         `json:"limit"`
}

// TotalPages returns the number of pages the result's total spans
func (r *ListResult) TotalPages() int {
	if r.Limit <= 0 {
		return 0
	}
	pages := int(r.Total) / r.Limit
	if int(r.Total)%r.Limit > 0 {
		pages++
	}
	return pages
}

// ClampListParams validates skip/limit and folds out-of-range values back to defaults
func ClampListParams(skip, limit *int) {
	if *skip < 0 {
		*skip = 0
	}
	if *limit < 1 {
		*limit = DefaultLimit
	}
	if *limit > MaxLimit {
		*limit = MaxLimit
	}
}

// PageOffset converts a 1-based page number into a row offset
func PageOffset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// LastPage returns the 1-based index of the final page for the given total.
// An empty collection still has one (empty) page.
func LastPage(total int64, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	page := int(total) / pageSize
	if int(total)%pageSize > 0 {
		page++
	}
	return page
}
