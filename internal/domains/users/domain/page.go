package domain

const (
	DefaultPageNo   = 1
	DefaultPageSize = 30
	MaxPageSize     = 500
)

// PageRequest addresses one page of a filtered user list. Page numbers are 1-based.
type PageRequest struct {
	PageNo   int
	PageSize int
}

// Normalize replaces missing or non-positive values with defaults and clamps the size.
func (p PageRequest) Normalize() PageRequest {
	if p.PageNo <= 0 {
		p.PageNo = DefaultPageNo
	}
	switch {
	case p.PageSize <= 0:
		p.PageSize = DefaultPageSize
	case p.PageSize > MaxPageSize:
		p.PageSize = MaxPageSize
	}
	return p
}

// Skip is the number of filtered rows preceding the page.
func (p PageRequest) Skip() int {
	if p.PageNo <= 1 {
		return 0
	}
	return p.PageSize * (p.PageNo - 1)
}

// Take is the maximum number of rows on the page.
func (p PageRequest) Take() int {
	return p.PageSize
}
