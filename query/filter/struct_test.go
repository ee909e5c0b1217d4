package filter_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/querykit/query/filter"
)

type Audit struct {
	CreatedBy *string `qparam:"created_by"`
}

type accountFilter struct {
	Audit
	Name    *string   `qparam:"name,op=lk,lower"`
	Created time.Time `qparam:"created,op=gte"`
	Kinds   []string  `qparam:"kind,op=in"`
	Deleted bool      `qparam:"deleted_at,op=nn"`
	Age     int       `qparam:",omitempty"`
	Note    string
}

func strPtr(s string) *string { return &s }

func TestFromStruct(t *testing.T) {
	f := &accountFilter{
		Audit:   Audit{CreatedBy: strPtr("ops")},
		Name:    strPtr("Jo"),
		Created: time.Date(2024, 3, 5, 15, 4, 5, 0, time.UTC),
		Kinds:   []string{"A"},
		Deleted: true,
		Note:    "ignored",
	}

	wc, err := filter.FromStruct(f)
	require.NoError(t, err)

	w := compile(t, wc)
	assert.Equal(t, "f.created_by = ? AND lower(f.name) LIKE ? AND f.created >= ? AND f.kind IN ( 'A' ) AND f.deleted_at IS NOT NULL", w.SQL)
	require.Len(t, w.Args, 3)
	assert.Equal(t, "ops", w.Args[0])
	assert.Equal(t, "%jo%", w.Args[1])

	created, ok := w.Args[2].(time.Time)
	require.True(t, ok)
	assert.True(t, created.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)), created)
}

func TestFromStructSkipsUnset(t *testing.T) {
	wc, err := filter.FromStruct(accountFilter{Age: 3})
	require.NoError(t, err)

	w := compile(t, wc)
	assert.Equal(t, "f.age = ?", w.SQL)
	assert.Equal(t, []interface{}{3}, w.Args)
}

func TestFromStructErrors(t *testing.T) {
	type rawQuery struct {
		Expr string `qparam:"x,op=query"`
	}
	type unknownOp struct {
		X int `qparam:"x,op=between"`
	}
	type badProperty struct {
		X int `qparam:"x y"`
	}
	type badOption struct {
		X int `qparam:"x,sometimes"`
	}

	tests := []struct {
		name string
		v    interface{}
		want error
	}{
		{name: "query operator", v: rawQuery{}, want: filter.ErrUnsupportedOperator},
		{name: "unknown operator", v: unknownOp{}, want: filter.ErrUnknownFilterOperator},
		{name: "logical operator", v: struct {
			X int `qparam:"x,op=and"`
		}{}, want: filter.ErrUnknownFilterOperator},
		{name: "bad property", v: badProperty{}, want: filter.ErrInvalidProperty},
		{name: "bad option", v: badOption{}, want: filter.ErrInvalidFilter},
		{name: "not a struct", v: 3, want: filter.ErrInvalidFilter},
		{name: "nil pointer", v: (*accountFilter)(nil), want: filter.ErrInvalidFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := filter.FromStruct(tt.v)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestQueryString(t *testing.T) {
	type listParams struct {
		Name   string `qparam:"name,op=lk"`
		Status *string
		Codes  []int `qparam:"code"`
		Since  time.Time
		Blank  string
		Hidden string `qparam:"-"`
	}

	got, err := filter.QueryString(listParams{
		Name:   "a b",
		Codes:  []int{1, 2},
		Since:  time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC),
		Blank:  " ",
		Hidden: "x",
	})
	require.NoError(t, err)
	assert.Equal(t, "&name=a+b&code=1%2C2&since=2024-03-05", got)

	got, err = filter.QueryString(&listParams{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
