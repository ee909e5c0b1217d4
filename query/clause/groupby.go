package clause

// GroupByClause is a non-empty, ordered list of property names.
type GroupByClause struct {
	properties []string
}

// NewGroupBy fails with ErrEmptyGroupBy when no property is given.
func NewGroupBy(properties ...string) (*GroupByClause, error) {
	if len(properties) == 0 {
		return nil, ErrEmptyGroupBy
	}
	out := make([]string, len(properties))
	copy(out, properties)
	return &GroupByClause{properties: out}, nil
}

// Properties returns a copy of the property names.
func (g *GroupByClause) Properties() []string {
	if g == nil {
		return nil
	}
	out := make([]string, len(g.properties))
	copy(out, g.properties)
	return out
}
