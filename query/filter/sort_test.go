package filter_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/querykit/query/clause"
	"github.com/satishbabariya/querykit/query/filter"
)

func TestSortQuery(t *testing.T) {
	s := clause.MustSort(
		clause.DescOrder("name"),
		clause.AscOrder("b.id"),
		clause.RawOrder("f.rank desc"),
		clause.Order{Property: "created", Direction: clause.DescNullsLast},
	)
	assert.Equal(t, "sort=name,desc&sort=b.id,asc&sort=created,desc_nulls_last", filter.SortQuery(s))
	assert.Empty(t, filter.SortQuery(nil))
}

func TestParseSort(t *testing.T) {
	s, err := filter.ParseSort([]string{"name,desc", "id", " ", "created,DESC NULLS LAST"})
	require.NoError(t, err)
	assert.Equal(t, []clause.Order{
		clause.DescOrder("name"),
		clause.AscOrder("id"),
		{Property: "created", Direction: clause.DescNullsLast},
	}, s.Orders())

	s, err = filter.ParseSort(nil)
	require.NoError(t, err)
	assert.Nil(t, s)

	for _, bad := range []string{"a;b,asc", "a,sideways", "a,query"} {
		_, err := filter.ParseSort([]string{bad})
		assert.ErrorIs(t, err, filter.ErrInvalidSort, bad)
	}
}

func TestSortRoundTrip(t *testing.T) {
	want := clause.MustSort(clause.DescOrder("name"), clause.Order{Property: "id", Direction: clause.NullsFirst})

	values, err := url.ParseQuery(filter.SortQuery(want))
	require.NoError(t, err)
	got, err := filter.ParseSortValues(values)
	require.NoError(t, err)
	assert.True(t, want.Equal(got), strings.Join(values["sort"], " "))
}
