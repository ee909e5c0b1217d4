package filter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/querykit/query/filter"
)

func TestParseExpression(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		clauses  int
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:     "and binds tighter than or",
			input:    "status = 'A' and age >= 18 or name like 'jo'",
			clauses:  2,
			wantSQL:  "( f.status = ? OR f.name LIKE ? ) AND ( f.age >= ? OR f.name LIKE ? )",
			wantArgs: []interface{}{"A", "%jo%", int64(18), "%jo%"},
		},
		{
			name:    "null checks",
			input:   "deleted IS NULL AND x.code is not null",
			clauses: 1,
			wantSQL: "f.deleted IS NULL AND x.code IS NOT NULL",
		},
		{
			name:    "in lists",
			input:   "kind in ('A', 'B''s', 3) and id NOT IN (1, 2)",
			clauses: 1,
			wantSQL: "f.kind IN ( 'A', 'B''s', 3 ) AND f.id NOT IN ( 1, 2 )",
		},
		{
			name:     "literals and short operators",
			input:    `active = TRUE and score < -1.5 and name bw "J" and code ew 'x' and is_open <> false`,
			clauses:  1,
			wantSQL:  "f.active = ? AND f.score < ? AND f.name LIKE ? AND f.code LIKE ? AND f.is_open <> ?",
			wantArgs: []interface{}{true, -1.5, "J%", "%x", false},
		},
		{
			name:     "three alternatives",
			input:    "a = 1 or b != 2 or c lk 'z'",
			clauses:  1,
			wantSQL:  "( f.a = ? OR f.b <> ? OR f.c LIKE ? )",
			wantArgs: []interface{}{int64(1), int64(2), "%z%"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clauses, err := filter.ParseExpression(tt.input)
			require.NoError(t, err)
			require.Len(t, clauses, tt.clauses)

			w := compile(t, clauses...)
			assert.Equal(t, tt.wantSQL, w.SQL)
			assert.Equal(t, tt.wantArgs, w.Args)
		})
	}
}

func TestParseExpressionErrors(t *testing.T) {
	for _, input := range []string{"a = ", "= 1", "a == 1", "a ~ 1", "a in ()", "a is 1", "a = 1 and"} {
		t.Run(input, func(t *testing.T) {
			_, err := filter.ParseExpression(input)
			require.ErrorIs(t, err, filter.ErrInvalidExpression)
		})
	}

	// 4 * 4 * 4 * 2 combinations
	_, err := filter.ParseExpression("a = 1 and b = 1 and c = 1 and d = 1 or e = 1 and f = 1 and g = 1 and h = 1 or " +
		"i = 1 and j = 1 and k = 1 and l = 1 or m = 1 and n = 1")
	require.ErrorIs(t, err, filter.ErrInvalidExpression)

	clauses, err := filter.ParseExpression("  ")
	require.NoError(t, err)
	assert.Nil(t, clauses)
}
