package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/querykit/query/clause"
	"github.com/satishbabariya/querykit/query/filter"
	"github.com/satishbabariya/querykit/query/sqlgen"
)

func compile(t *testing.T, clauses ...*clause.WhereClause) sqlgen.Where {
	t.Helper()
	w, err := sqlgen.CompileWhere(clauses, "f")
	require.NoError(t, err)
	return w
}

func TestValidateProperty(t *testing.T) {
	for _, ok := range []string{"name", "f.name", "_x1"} {
		assert.NoError(t, filter.ValidateProperty(ok), ok)
	}
	for _, bad := range []string{"", "1a", "a.b.c", "a;drop", "a b", "lower(a)"} {
		assert.ErrorIs(t, filter.ValidateProperty(bad), filter.ErrInvalidProperty, bad)
	}
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name     string
		doc      string
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "operators keep document order",
			doc:      `{"name": {"$lk": "jo"}, "age": {"$gte": 18, "$lt": 65}, "kind": ["A", "B"], "deleted": {"$ne": true}}`,
			wantSQL:  "f.name LIKE ? AND f.age >= ? AND f.age < ? AND f.kind IN ( 'A', 'B' ) AND f.deleted IS NULL",
			wantArgs: []interface{}{"%jo%", int64(18), int64(65)},
		},
		{
			name:     "match or",
			doc:      `{"a": 1, "b.code": "x", "$match": "OR"}`,
			wantSQL:  "( f.a = ? OR b.code = ? )",
			wantArgs: []interface{}{int64(1), "x"},
		},
		{
			name:     "floats and patterns",
			doc:      `{"price": {"$lte": 9.5}, "code": {"$bw": "AB", "$ew": "Z"}, "ref": {"$nn": null}}`,
			wantSQL:  "f.price <= ? AND f.code LIKE ? AND f.code LIKE ? AND f.ref IS NOT NULL",
			wantArgs: []interface{}{9.5, "AB%", "%Z"},
		},
		{
			name:     "null values are skipped",
			doc:      `{"a": null, "b": {"$eq": null}, "c": {"$neq": 2}}`,
			wantSQL:  "f.c <> ?",
			wantArgs: []interface{}{int64(2)},
		},
		{
			name:     "single value in",
			doc:      `{"id": {"$in": 4, "$nin": [5, 6]}}`,
			wantSQL:  "f.id IN ( 4 ) AND f.id NOT IN ( 5, 6 )",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wc, err := filter.ParseJSON([]byte(tt.doc))
			require.NoError(t, err)

			w := compile(t, wc)
			assert.Equal(t, tt.wantSQL, w.SQL)
			assert.Equal(t, tt.wantArgs, w.Args)
		})
	}
}

func TestParseJSONEmpty(t *testing.T) {
	wc, err := filter.ParseJSON([]byte("  "))
	require.NoError(t, err)
	assert.Nil(t, wc)

	wc, err = filter.ParseJSON([]byte("{}"))
	require.NoError(t, err)
	assert.True(t, wc.IsEmpty())
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		doc  string
		want error
	}{
		{doc: `[1]`, want: filter.ErrInvalidFilter},
		{doc: `{"a": 1`, want: filter.ErrInvalidFilter},
		{doc: `{"a": {"$query": "1 = 1"}}`, want: filter.ErrUnsupportedOperator},
		{doc: `{"a": {"$foo": 1}}`, want: filter.ErrUnknownFilterOperator},
		{doc: `{"$or": []}`, want: filter.ErrUnknownFilterOperator},
		{doc: `{"a;drop table x": 1}`, want: filter.ErrInvalidProperty},
		{doc: `{"a": {"$eq": [1]}}`, want: filter.ErrInvalidFilter},
		{doc: `{"a": {"$eq": {"b": 1}}}`, want: filter.ErrInvalidFilter},
		{doc: `{"a": [[1]]}`, want: filter.ErrInvalidFilter},
		{doc: `{"$match": "xor"}`, want: filter.ErrInvalidFilter},
	}

	for _, tt := range tests {
		t.Run(tt.doc, func(t *testing.T) {
			_, err := filter.ParseJSON([]byte(tt.doc))
			require.ErrorIs(t, err, tt.want)
		})
	}
}
