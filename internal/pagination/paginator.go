// Package pagination provides a one-item-per-page cursor over an ordered
// sequence. Catalog and cart screens both page through their rows with it.
package pagination

import "errors"

var (
	// ErrEmptySequence is returned when there is nothing to paginate.
	ErrEmptySequence = errors.New("pagination: sequence cannot be empty")
	// ErrPageTooSmall is returned for page numbers below 1.
	ErrPageTooSmall = errors.New("pagination: page must be greater than 0")
	// ErrPageOutOfRange is returned when the page exceeds the sequence length.
	ErrPageOutOfRange = errors.New("pagination: page does not exist")
)

// Paginator is a cursor over an ordered sequence exposing one item per page.
// Pages are 1-based; the page count equals the item count.
type Paginator[T any] struct {
	items []T
	page  int
}

// New validates the sequence and page and returns a positioned paginator.
func New[T any](items []T, page int) (*Paginator[T], error) {
	if len(items) == 0 {
		return nil, ErrEmptySequence
	}
	if page < 1 {
		return nil, ErrPageTooSmall
	}
	if page > len(items) {
		return nil, ErrPageOutOfRange
	}
	return &Paginator[T]{items: items, page: page}, nil
}

// Item returns the element on the current page.
func (p *Paginator[T]) Item() T {
	return p.items[p.page-1]
}

// Page returns the current 1-based page number.
func (p *Paginator[T]) Page() int {
	return p.page
}

// Pages returns the total number of pages.
func (p *Paginator[T]) Pages() int {
	return len(p.items)
}

// Next returns the following page number if one exists.
func (p *Paginator[T]) Next() (int, bool) {
	if p.page < len(p.items) {
		return p.page + 1, true
	}
	return 0, false
}

// Previous returns the preceding page number if one exists.
func (p *Paginator[T]) Previous() (int, bool) {
	if p.page > 1 {
		return p.page - 1, true
	}
	return 0, false
}
