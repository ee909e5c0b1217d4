package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/satishbabariya/querykit/query"
	"github.com/satishbabariya/querykit/query/paging"
)

func intPtr(i int) *int { return &i }

func TestArgRows(t *testing.T) {
	rows := ArgRows([]interface{}{"A", int64(3), nil})
	assert.Equal(t, [][]string{
		{"$1", "string", "A"},
		{"$2", "int64", "3"},
		{"$3", "<nil>", NullText},
	}, rows)
}

func TestRowTable(t *testing.T) {
	headers, data := RowTable([]query.Row{
		{"name": "a", "ID": int64(1)},
		{"ID": int64(2), "extra": nil},
	})
	assert.Equal(t, []string{"ID", "extra", "name"}, headers)
	assert.Equal(t, [][]string{
		{"1", "", "a"},
		{"2", NullText, ""},
	}, data)
}

func TestPageSummary(t *testing.T) {
	count := int64(47)
	tests := []struct {
		name string
		page paging.Page
		want string
	}{
		{
			name: "middle page",
			page: paging.Page{Max: intPtr(10), Number: 1, Count: &count, Fetched: intPtr(11)},
			want: "page 2 of 5, rows 10-19 of 47, next page available",
		},
		{
			name: "last page",
			page: paging.Page{Max: intPtr(10), Number: 4, Count: &count, Fetched: intPtr(7)},
			want: "page 5 of 5, rows 40-46 of 47",
		},
		{
			name: "unpaged",
			page: paging.Page{Fetched: intPtr(0)},
			want: "page 1, no rows",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PageSummary(tt.page))
		})
	}
}

func TestQueryMarkdown(t *testing.T) {
	md := QueryMarkdown("mysql",
		query.Query{SQL: "select * from foo f WHERE f.a = ? limit 11", Args: []interface{}{"x|y"}},
		query.Query{SQL: "SELECT count(*) FROM ( select * from foo f ) f"},
	)
	assert.Contains(t, md, "# Query (mysql)")
	assert.Contains(t, md, "```sql\nselect * from foo f WHERE f.a = ? limit 11\n```")
	assert.Contains(t, md, "| $1 | `string` | x\\|y |")
	assert.Contains(t, md, "No bound arguments.")
}
