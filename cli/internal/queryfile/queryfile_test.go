package queryfile_test

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/querykit/cli/internal/queryfile"
	"github.com/satishbabariya/querykit/query/builder"
	"github.com/satishbabariya/querykit/query/filter"
	"github.com/satishbabariya/querykit/query/sqlgen"
)

const accountsYAML = `
query: select f.* from foo f
append:
  - left join bar b on b.id = f.bar_id and b.tenant = ?
where: "status = 'A' and b.kind in ('x', 'y')"
filter: '{"age": {"$gte": 18}}'
sort: ["name,desc"]
max_results: 10
page: 1
prefix: [7]
`

func TestLoadAndApply(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/q/accounts.yaml", []byte(accountsYAML), 0644))

	s, err := queryfile.Load(fs, "/q/accounts.yaml")
	require.NoError(t, err)
	require.NotNil(t, s.MaxResults)
	assert.Equal(t, 10, *s.MaxResults)
	assert.Nil(t, s.FirstResult)

	c := builder.New(sqlgen.Generic)
	require.NoError(t, s.Apply(c))

	q, err := c.Build()
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM ( select f.* from foo f left join bar b on b.id = f.bar_id and b.tenant = ? "+
		"WHERE f.status = ? AND b.kind IN ( 'x', 'y' ) AND f.age >= ? ) f ORDER BY f.name DESC limit 11 offset 10", q.SQL)
	require.Len(t, q.Args, 3)
	assert.EqualValues(t, 7, q.Args[0])
	assert.Equal(t, "A", q.Args[1])
	assert.Equal(t, int64(18), q.Args[2])
}

func TestApplyWhereAndOrFilter(t *testing.T) {
	def := &queryfile.Definition{
		Query:  "select f.* from foo f",
		Where:  "tenant = 7 or tenant = 8",
		Filter: `{"kind": "x", "owner": "me", "$match": "or"}`,
	}
	c := builder.New(sqlgen.Generic)
	require.NoError(t, def.Apply(c))

	q, err := c.Build()
	require.NoError(t, err)
	assert.Equal(t, "select f.* from foo f WHERE ( f.tenant = ? OR f.tenant = ? ) AND ( f.kind = ? OR f.owner = ? )", q.SQL)
	assert.Equal(t, []interface{}{int64(7), int64(8), "x", "me"}, q.Args)
}

func TestApplyGrouping(t *testing.T) {
	s := &queryfile.Definition{
		Query:          "select d.status, count(*) n from doc d",
		GroupBy:        []string{"status"},
		OrderColumn:    "n",
		OrderDirection: "ASC",
	}
	c := builder.New(sqlgen.MySQL)
	require.NoError(t, s.Apply(c))

	q, err := c.BuildCount()
	require.NoError(t, err)
	assert.Equal(t, "SELECT count(*) FROM ( select d.status, count(*) n from doc d ) d GROUP BY d.status", q.SQL)
}

func TestApplyErrors(t *testing.T) {
	tests := []struct {
		name string
		def queryfile.Definition
		want error
	}{
		{name: "no query", def: queryfile.Definition{}, want: queryfile.ErrNoQuery},
		{name: "bad where", def: queryfile.Definition{Query: "select * from t t", Where: "a ="}, want: filter.ErrInvalidExpression},
		{name: "bad filter", def: queryfile.Definition{Query: "select * from t t", Filter: `{"a": {"$query": "1=1"}}`}, want: filter.ErrUnsupportedOperator},
		{name: "bad sort", def: queryfile.Definition{Query: "select * from t t", Sort: []string{"a,up"}}, want: filter.ErrInvalidSort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Apply(builder.New(sqlgen.Generic))
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := queryfile.Load(afero.NewMemMapFs(), "/nope.yaml")
	require.Error(t, err)
}
