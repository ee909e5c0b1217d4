package clause

import (
	"fmt"
	"strings"
)

// Direction is the ordering applied to one sort property.
type Direction int

const (
	Asc Direction = iota
	Desc
	NullsFirst
	NullsLast
	DescNullsFirst
	DescNullsLast
	// Raw inserts the property text as-is, without alias or direction suffix.
	Raw
)

// DefaultDirection is used when a sort is built from bare property names.
const DefaultDirection = Asc

var directionLabels = map[Direction]string{
	Asc:            "ASC",
	Desc:           "DESC",
	NullsFirst:     "NULLS FIRST",
	NullsLast:      "NULLS LAST",
	DescNullsFirst: "DESC NULLS FIRST",
	DescNullsLast:  "DESC NULLS LAST",
	Raw:            "QUERY",
}

var directionNames = map[string]Direction{
	"asc":              Asc,
	"desc":             Desc,
	"nulls_first":      NullsFirst,
	"nulls_last":       NullsLast,
	"desc_nulls_first": DescNullsFirst,
	"desc_nulls_last":  DescNullsLast,
	"query":            Raw,
}

// Label is the SQL written after the property.
func (d Direction) Label() string {
	if l, ok := directionLabels[d]; ok {
		return l
	}
	return ""
}

// Name is the lower-case identifier used in sort query strings.
func (d Direction) Name() string {
	for name, dir := range directionNames {
		if dir == d {
			return name
		}
	}
	return ""
}

func (d Direction) String() string {
	return d.Label()
}

// ParseDirection accepts both identifiers ("desc_nulls_last") and labels ("DESC NULLS LAST").
func ParseDirection(s string) (Direction, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.ReplaceAll(key, " ", "_")
	if d, ok := directionNames[key]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// Order is one sort entry.
type Order struct {
	Property  string
	Direction Direction
}

// AscOrder sorts property ascending.
func AscOrder(property string) Order {
	return Order{Property: property, Direction: Asc}
}

// DescOrder sorts property descending.
func DescOrder(property string) Order {
	return Order{Property: property, Direction: Desc}
}

// RawOrder places expr in the ORDER BY list verbatim.
func RawOrder(expr string) Order {
	return Order{Property: expr, Direction: Raw}
}

// Sort is a non-empty, ordered list of Order entries.
type Sort struct {
	orders []Order
}

// NewSort builds a sort from explicit orders.
func NewSort(orders ...Order) (*Sort, error) {
	if len(orders) == 0 {
		return nil, ErrEmptySort
	}
	out := make([]Order, len(orders))
	copy(out, orders)
	return &Sort{orders: out}, nil
}

// SortBy sorts every property in the same direction, keeping their order.
func SortBy(direction Direction, properties ...string) (*Sort, error) {
	if len(properties) == 0 {
		return nil, ErrEmptySort
	}
	orders := make([]Order, len(properties))
	for i, p := range properties {
		orders[i] = Order{Property: p, Direction: direction}
	}
	return &Sort{orders: orders}, nil
}

// MustSort is NewSort that panics on error, for static sorts.
func MustSort(orders ...Order) *Sort {
	s, err := NewSort(orders...)
	if err != nil {
		panic(err)
	}
	return s
}

// Orders returns a copy of the entries.
func (s *Sort) Orders() []Order {
	if s == nil {
		return nil
	}
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Len returns the number of entries.
func (s *Sort) Len() int {
	if s == nil {
		return 0
	}
	return len(s.orders)
}

// Equal reports whether both sorts hold the same entries in the same order.
func (s *Sort) Equal(other *Sort) bool {
	if s.Len() != other.Len() {
		return false
	}
	for i := range s.Orders() {
		if s.orders[i] != other.orders[i] {
			return false
		}
	}
	return true
}

// SortDecorator supplies a raw ORDER BY expression that overrides the structured sort.
type SortDecorator interface {
	SortExpression() string
}

// SortExpression adapts a plain string to a SortDecorator.
type SortExpression string

func (e SortExpression) SortExpression() string {
	return string(e)
}
