package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderly/tours-api/pkg/query"
)

var testFields = fieldMap{
	id: "id",
	exprs: map[string]string{
		"id":            "id::text",
		"name":          "name",
		"price":         "price::float8",
		"ratingAverage": "rating_average::float8",
		"difficulty":    "difficulty",
	},
	defaults: []string{"name", "price", "ratingAverage", "difficulty"},
}

func TestBuildListDefaults(t *testing.T) {
	spec := query.Spec{Page: 1, Limit: 100, Sort: []query.SortKey{{Field: "price"}}}

	sql, args, err := buildList("tours", testFields, spec)
	require.NoError(t, err)
	assert.Empty(t, args)
	assert.Equal(t,
		`SELECT id::text AS "id", name AS "name", price::float8 AS "price", rating_average::float8 AS "ratingAverage", difficulty AS "difficulty" FROM tours ORDER BY price::float8 ASC LIMIT 100 OFFSET 0`,
		sql)
}

func TestBuildListComparisonFilter(t *testing.T) {
	spec := query.Spec{
		Page:  1,
		Limit: 100,
		Conditions: []query.Condition{
			{Field: "price", Op: query.OpGte, Value: "100"},
			{Field: "difficulty", Op: query.OpEq, Value: "easy"},
		},
		Sort: []query.SortKey{{Field: "price"}},
	}

	sql, args, err := buildList("tours", testFields, spec)
	require.NoError(t, err)
	assert.Equal(t, []any{"100", "easy"}, args)
	assert.Contains(t, sql, `WHERE price::float8 >= $1 AND difficulty = $2`)
}

func TestBuildListSortPrecedence(t *testing.T) {
	spec := query.Spec{
		Page:  1,
		Limit: 100,
		Sort:  []query.SortKey{{Field: "price"}, {Field: "ratingAverage", Desc: true}},
	}

	sql, _, err := buildList("tours", testFields, spec)
	require.NoError(t, err)
	assert.Contains(t, sql, `ORDER BY price::float8 ASC, rating_average::float8 DESC`)
}

func TestBuildListProjectionIncludesID(t *testing.T) {
	spec := query.Spec{
		Page:   1,
		Limit:  100,
		Fields: []string{"name", "price"},
		Sort:   []query.SortKey{{Field: "price"}},
	}

	sql, _, err := buildList("tours", testFields, spec)
	require.NoError(t, err)
	assert.Contains(t, sql, `SELECT id::text AS "id", name AS "name", price::float8 AS "price" FROM`)
	assert.NotContains(t, sql, "difficulty")
}

func TestBuildListUnknownFieldRejected(t *testing.T) {
	var bad *query.BadParamError

	_, _, err := buildList("tours", testFields, query.Spec{
		Page: 1, Limit: 100,
		Fields: []string{"password"},
		Sort:   []query.SortKey{{Field: "price"}},
	})
	require.ErrorAs(t, err, &bad)

	_, _, err = buildList("tours", testFields, query.Spec{
		Page: 1, Limit: 100,
		Conditions: []query.Condition{{Field: "row_version", Op: query.OpEq, Value: "1"}},
		Sort:       []query.SortKey{{Field: "price"}},
	})
	require.ErrorAs(t, err, &bad)

	_, _, err = buildList("tours", testFields, query.Spec{
		Page: 1, Limit: 100,
		Sort: []query.SortKey{{Field: "nope"}},
	})
	require.ErrorAs(t, err, &bad)
}

func TestBuildListPagination(t *testing.T) {
	spec := query.Spec{Page: 3, Limit: 10, Sort: []query.SortKey{{Field: "price"}}}

	sql, _, err := buildList("tours", testFields, spec)
	require.NoError(t, err)
	assert.Contains(t, sql, "LIMIT 10 OFFSET 20")
}

func TestBuildListFixedPredicate(t *testing.T) {
	spec := query.Spec{Page: 1, Limit: 100, Sort: []query.SortKey{{Field: "price"}}}

	sql, _, err := buildList("users", testFields, spec, "active")
	require.NoError(t, err)
	assert.Contains(t, sql, "WHERE active")
}
