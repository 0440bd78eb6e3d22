package postgres

import (
	"fmt"
	"strings"

	"github.com/wanderly/tours-api/pkg/query"
)

// fieldMap binds the public field names clients use in query strings to
// SQL select expressions. Only registered fields can be filtered, sorted,
// or projected, which keeps the dynamic SQL injection-free and hides
// internal columns (row_version, password, ...) entirely.
type fieldMap struct {
	exprs    map[string]string // public name -> select/filter expression
	defaults []string          // projected when no fields param is given
	id       string            // mandatory identifier, always projected
}

func (fm fieldMap) expr(public string) (string, bool) {
	e, ok := fm.exprs[public]
	return e, ok
}

// buildList compiles a query spec into one SELECT over table. fixed holds
// raw predicates the caller always applies (e.g. active = TRUE); they take
// no arguments.
func buildList(table string, fm fieldMap, spec query.Spec, fixed ...string) (string, []any, error) {
	// Projection: requested allow-list or the default set, id always first.
	fields := spec.Fields
	if len(fields) == 0 {
		fields = fm.defaults
	}
	sel := make([]string, 0, len(fields)+1)
	seen := map[string]bool{}
	appendField := func(public string) error {
		if seen[public] {
			return nil
		}
		e, ok := fm.expr(public)
		if !ok {
			return &query.BadParamError{Param: "fields", Reason: "unknown field " + quoted(public)}
		}
		seen[public] = true
		sel = append(sel, fmt.Sprintf(`%s AS %q`, e, public))
		return nil
	}
	if err := appendField(fm.id); err != nil {
		return "", nil, err
	}
	for _, f := range fields {
		if err := appendField(f); err != nil {
			return "", nil, err
		}
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(sel, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(table)

	// Filter
	var args []any
	where := append([]string{}, fixed...)
	for _, cond := range spec.Conditions {
		e, ok := fm.expr(cond.Field)
		if !ok {
			return "", nil, &query.BadParamError{Param: cond.Field, Reason: "unknown filter field"}
		}
		args = append(args, cond.Value)
		where = append(where, fmt.Sprintf("%s %s $%d", e, cond.Op, len(args)))
	}
	if len(where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}

	// Sort
	if len(spec.Sort) > 0 {
		orders := make([]string, 0, len(spec.Sort))
		for _, key := range spec.Sort {
			e, ok := fm.expr(key.Field)
			if !ok {
				return "", nil, &query.BadParamError{Param: "sort", Reason: "unknown sort field " + quoted(key.Field)}
			}
			dir := "ASC"
			if key.Desc {
				dir = "DESC"
			}
			orders = append(orders, e+" "+dir)
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(orders, ", "))
	}

	// Paginate
	fmt.Fprintf(&sb, " LIMIT %d OFFSET %d", spec.Limit, spec.Offset())

	return sb.String(), args, nil
}

func quoted(s string) string {
	return fmt.Sprintf("%q", s)
}
