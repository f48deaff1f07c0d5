package domain

import "math"

const MaxPageSize = 100

// PageQuery is a zero-based page request with an optional search text.
type PageQuery struct {
	Page   int
	Size   int
	Search string
}

func (q PageQuery) Offset() int { return q.Page * q.Size }

// Validate rejects negative pages, sizes outside 1..MaxPageSize and pages
// whose offset does not fit in an int.
func (q PageQuery) Validate() error {
	if q.Page < 0 {
		return Invalid("page must be >= 0, got %d", q.Page)
	}
	if q.Size < 1 || q.Size > MaxPageSize {
		return Invalid("size must be between 1 and %d, got %d", MaxPageSize, q.Size)
	}
	if q.Page > math.MaxInt/q.Size {
		return Invalid("page %d is out of range", q.Page)
	}
	return nil
}

// Page is the paginated response body.
type Page[T any] struct {
	DataList  []T   `json:"dataList"`
	DataCount int64 `json:"dataCount"`
}
