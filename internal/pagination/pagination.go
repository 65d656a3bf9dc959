// Package pagination implements offset/limit paging shared by every
// list-returning operation. The total count is always established over the
// whole filtered set, independently of slicing, so metadata stays correct
// even for pages past the end.
package pagination

// Paging bounds. Requests above the caps are clamped, not rejected. The
// page number cap keeps Offset from overflowing int when multiplied by
// the page size.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 10
	MaxPageSize       = 50
	MaxPageNumber     = 1 << 31
)

// Params selects one page of a result set.
type Params struct {
	PageNumber int
	PageSize   int
}

// NewParams normalizes raw paging inputs: non-positive page numbers become
// the first page, a non-positive size takes the default and oversized
// requests are clamped to MaxPageSize.
func NewParams(pageNumber, pageSize int) Params {
	if pageNumber < 1 {
		pageNumber = DefaultPageNumber
	}
	if pageNumber > MaxPageNumber {
		pageNumber = MaxPageNumber
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Params{PageNumber: pageNumber, PageSize: pageSize}
}

// Offset returns the number of items preceding this page.
func (p Params) Offset() int {
	return (p.PageNumber - 1) * p.PageSize
}

// Limit returns the maximum number of items on this page.
func (p Params) Limit() int {
	return p.PageSize
}

// Meta is the out-of-band paging metadata returned alongside every list.
type Meta struct {
	CurrentPage  int `json:"currentPage"`
	ItemsPerPage int `json:"itemsPerPage"`
	TotalItems   int `json:"totalItems"`
	TotalPages   int `json:"totalPages"`
}

// Page is one page of items plus its metadata.
type Page[T any] struct {
	Items []T  `json:"items"`
	Meta  Meta `json:"meta"`
}

// NewPage wraps an already sliced item list with metadata computed from the
// unsliced total.
func NewPage[T any](items []T, totalItems int, p Params) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{
		Items: items,
		Meta: Meta{
			CurrentPage:  p.PageNumber,
			ItemsPerPage: p.PageSize,
			TotalItems:   totalItems,
			TotalPages:   totalPages(totalItems, p.PageSize),
		},
	}
}

// Slice cuts one page out of a full, ordered in-memory sequence. A page
// past the end yields an empty item list with valid metadata.
func Slice[T any](items []T, p Params) Page[T] {
	total := len(items)
	start := p.Offset()
	// Raw Params built without NewParams may put the offset out of range.
	if start < 0 || start > total {
		start = total
	}
	end := start + p.PageSize
	if end > total {
		end = total
	}
	return NewPage(items[start:end], total, p)
}

func totalPages(totalItems, pageSize int) int {
	if totalItems <= 0 {
		return 0
	}
	return (totalItems + pageSize - 1) / pageSize
}
