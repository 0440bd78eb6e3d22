package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseComparisonSuffix(t *testing.T) {
	values, err := url.ParseQuery("price[gte]=100&difficulty=easy")
	require.NoError(t, err)

	spec, err := Parse(values)
	require.NoError(t, err)

	require.Len(t, spec.Conditions, 2)
	assert.Equal(t, Condition{Field: "difficulty", Op: OpEq, Value: "easy"}, spec.Conditions[0])
	assert.Equal(t, Condition{Field: "price", Op: OpGte, Value: "100"}, spec.Conditions[1])
}

func TestParseAllOperators(t *testing.T) {
	values, err := url.ParseQuery("a[gt]=1&b[gte]=2&c[lt]=3&d[lte]=4")
	require.NoError(t, err)

	spec, err := Parse(values)
	require.NoError(t, err)

	ops := map[string]Op{}
	for _, cond := range spec.Conditions {
		ops[cond.Field] = cond.Op
	}
	assert.Equal(t, map[string]Op{"a": OpGt, "b": OpGte, "c": OpLt, "d": OpLte}, ops)
}

func TestParseOperatorIsWholeToken(t *testing.T) {
	// "gteq" contains "gte" as a substring but is not an operator
	values, err := url.ParseQuery("price[gteq]=100")
	require.NoError(t, err)

	_, err = Parse(values)
	var bad *BadParamError
	require.ErrorAs(t, err, &bad)
	assert.Equal(t, "price[gteq]", bad.Param)
}

func TestParseFieldNameContainingOperatorText(t *testing.T) {
	// a plain field whose name embeds an operator token stays an equality filter
	values, err := url.ParseQuery("weight=80&gte=yes")
	require.NoError(t, err)

	spec, err := Parse(values)
	require.NoError(t, err)

	require.Len(t, spec.Conditions, 2)
	for _, cond := range spec.Conditions {
		assert.Equal(t, OpEq, cond.Op)
	}
}

func TestParseMalformedBracketExpression(t *testing.T) {
	values := url.Values{"price[gte": {"100"}}

	_, err := Parse(values)
	var bad *BadParamError
	require.ErrorAs(t, err, &bad)
}

func TestParseSortOrder(t *testing.T) {
	values, err := url.ParseQuery("sort=price,-ratingAverage")
	require.NoError(t, err)

	spec, err := Parse(values)
	require.NoError(t, err)

	require.Len(t, spec.Sort, 2)
	assert.Equal(t, SortKey{Field: "price"}, spec.Sort[0])
	assert.Equal(t, SortKey{Field: "ratingAverage", Desc: true}, spec.Sort[1])
}

func TestParseDefaultSort(t *testing.T) {
	spec, err := Parse(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, []SortKey{{Field: "price"}}, spec.Sort)
}

func TestParseFields(t *testing.T) {
	values, err := url.ParseQuery("fields=name,price")
	require.NoError(t, err)

	spec, err := Parse(values)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "price"}, spec.Fields)
}

func TestParseFieldsDefaultEmpty(t *testing.T) {
	spec, err := Parse(url.Values{})
	require.NoError(t, err)

	assert.Empty(t, spec.Fields)
}

func TestParsePagination(t *testing.T) {
	values, err := url.ParseQuery("page=3&limit=10")
	require.NoError(t, err)

	spec, err := Parse(values)
	require.NoError(t, err)

	assert.Equal(t, 3, spec.Page)
	assert.Equal(t, 10, spec.Limit)
	assert.Equal(t, 20, spec.Offset())
}

func TestParsePaginationDefaults(t *testing.T) {
	spec, err := Parse(url.Values{})
	require.NoError(t, err)

	assert.Equal(t, 1, spec.Page)
	assert.Equal(t, DefaultLimit, spec.Limit)
	assert.Equal(t, 0, spec.Offset())
}

func TestParseBadPagination(t *testing.T) {
	for _, raw := range []string{"page=abc", "page=0", "page=-2", "limit=x", "limit=0"} {
		values, err := url.ParseQuery(raw)
		require.NoError(t, err)

		_, err = Parse(values)
		var bad *BadParamError
		assert.ErrorAs(t, err, &bad, raw)
	}
}

func TestControlKeysAreNotFilters(t *testing.T) {
	values, err := url.ParseQuery("page=2&sort=price&limit=5&fields=name&duration=5")
	require.NoError(t, err)

	spec, err := Parse(values)
	require.NoError(t, err)

	require.Len(t, spec.Conditions, 1)
	assert.Equal(t, "duration", spec.Conditions[0].Field)
}
