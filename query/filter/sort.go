package filter

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/satishbabariya/querykit/query/clause"
)

// SortParam is the query-string key carrying sort entries.
const SortParam = "sort"

// SortQuery renders s as "sort=name,desc&sort=id,asc". Raw expressions are
// not carried over to links. A nil sort renders as "".
func SortQuery(s *clause.Sort) string {
	var parts []string
	for _, o := range s.Orders() {
		if o.Direction == clause.Raw {
			continue
		}
		parts = append(parts, SortParam+"="+url.QueryEscape(o.Property)+","+o.Direction.Name())
	}
	return strings.Join(parts, "&")
}

// ParseSort reads "property[,direction]" entries as produced by SortQuery.
// The direction defaults to ascending. No entries yields a nil sort.
func ParseSort(values []string) (*clause.Sort, error) {
	var orders []clause.Order
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			continue
		}
		property, direction, hasDirection := strings.Cut(v, ",")
		property = strings.TrimSpace(property)
		if err := ValidateProperty(property); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidSort, err)
		}

		order := clause.Order{Property: property, Direction: clause.DefaultDirection}
		if hasDirection {
			d, err := clause.ParseDirection(direction)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidSort, err)
			}
			if d == clause.Raw {
				return nil, fmt.Errorf("%w: raw sort expressions are not accepted", ErrInvalidSort)
			}
			order.Direction = d
		}
		orders = append(orders, order)
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return clause.NewSort(orders...)
}

// ParseSortValues reads the sort entries of a parsed query string.
func ParseSortValues(q url.Values) (*clause.Sort, error) {
	return ParseSort(q[SortParam])
}
