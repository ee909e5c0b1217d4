// Package paging derives page navigation values from a query's paging
// settings, its total row count and the rows actually fetched.
package paging

// RangeSize is the number of page links in one navigation window.
const RangeSize = 10

// Page is a snapshot of paging state. Nil fields are unknown.
type Page struct {
	// First is the explicit row offset; when nil it derives from Number.
	First *int
	Max   *int
	// Number is the zero-based page number.
	Number int
	// Count is the total number of rows matched by the count query.
	Count *int64
	// Fetched is the number of rows returned, including the over-fetched one.
	Fetched *int
}

// FirstResult returns the explicit offset, or Number*Max when Max is set.
func (p Page) FirstResult() (int, bool) {
	if p.First != nil {
		return *p.First, true
	}
	if p.Max != nil {
		return p.number() * *p.Max, true
	}
	return 0, false
}

// PageCount returns ceil(Count/Max). It is undefined without Max or Count.
func (p Page) PageCount() (int, bool) {
	if p.Max == nil || *p.Max <= 0 || p.Count == nil {
		return 0, false
	}
	rc, mr := int(*p.Count), *p.Max
	pages := rc / mr
	if rc%mr != 0 {
		pages++
	}
	return pages, true
}

// IsNextExists reports whether more rows than Max were fetched.
func (p Page) IsNextExists() bool {
	return p.Fetched != nil && p.Max != nil && *p.Fetched > *p.Max
}

// IsPreviousExists reports whether the offset is non-zero and rows were fetched.
func (p Page) IsPreviousExists() bool {
	first, ok := p.FirstResult()
	return ok && first != 0 && p.Fetched != nil && *p.Fetched > 0
}

// NextFirstResult is the offset of the following page.
func (p Page) NextFirstResult() int {
	first, _ := p.FirstResult()
	return first + p.max()
}

// PreviousFirstResult is the offset of the preceding page, never negative.
func (p Page) PreviousFirstResult() int {
	first, _ := p.FirstResult()
	if mr := p.max(); mr < first {
		return first - mr
	}
	return 0
}

// LastFirstResult is the offset of the last page.
func (p Page) LastFirstResult() (int64, bool) {
	pc, ok := p.PageCount()
	if !ok {
		return 0, false
	}
	return int64(pc-1) * int64(p.max()), true
}

// StartRange is the 1-based first page link of the window holding Number.
func (p Page) StartRange() int {
	return RangeSize*(p.number()/RangeSize) + 1
}

// EndRange is the last page link of the window, capped at the page count.
func (p Page) EndRange() int {
	end := p.StartRange() + RangeSize
	if pc, ok := p.PageCount(); ok && end >= pc {
		return pc
	}
	return end
}

func (p Page) number() int {
	if p.Number < 0 {
		return 0
	}
	return p.Number
}

func (p Page) max() int {
	if p.Max == nil {
		return 0
	}
	return *p.Max
}

// Trunc drops the over-fetched row so at most max items remain.
// A nil max returns list unchanged.
func Trunc[T any](list []T, max *int) []T {
	if max == nil || *max < 0 || len(list) <= *max {
		return list
	}
	return list[:*max]
}
