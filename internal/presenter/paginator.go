package presenter

import (
	"fmt"

	"histpattern/pkg/model"
)

// DefaultPageSize is the initial rows-per-page
const DefaultPageSize = 25

// PageSizes are the selectable rows-per-page options
var PageSizes = []int{10, 25, 50, 100}

// Paginator tracks the visible page of the instance table
type Paginator struct {
	Page     int
	PageSize int
}

// NewPaginator starts at page 0 with the default page size
func NewPaginator() Paginator {
	return Paginator{PageSize: DefaultPageSize}
}

// ValidPageSize reports whether n is a selectable option
func ValidPageSize(n int) bool {
	for _, s := range PageSizes {
		if s == n {
			return true
		}
	}
	return false
}

// SetPageSize changes the page size and returns to the first page
func (p *Paginator) SetPageSize(n int) error {
	if !ValidPageSize(n) {
		return fmt.Errorf("page size %d not in %v", n, PageSizes)
	}
	p.PageSize = n
	p.Page = 0
	return nil
}

// SetPage moves to page n; negative pages clamp to 0
func (p *Paginator) SetPage(n int) {
	if n < 0 {
		n = 0
	}
	p.Page = n
}

func (p Paginator) size() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	return p.PageSize
}

// Bounds returns the [from, to) window over n instances
func (p Paginator) Bounds(n int) (from, to int) {
	size := p.size()
	if p.Page > 0 && p.Page > n/size {
		return n, n
	}
	from = p.Page * size
	if from > n {
		from = n
	}
	to = from + size
	if to > n {
		to = n
	}
	return from, to
}

// Slice returns the instances on the current page; empty beyond the end
func (p Paginator) Slice(instances []model.PatternInstance) []model.PatternInstance {
	from, to := p.Bounds(len(instances))
	return instances[from:to]
}

// PageCount returns how many pages n instances span
func (p Paginator) PageCount(n int) int {
	size := p.size()
	return (n + size - 1) / size
}
