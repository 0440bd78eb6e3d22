package query

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Spec is the resolved shape of one list request: filter conditions,
// sort order, field projection, and pagination. It is a pure value,
// derived from the raw query string and later compiled into SQL by the
// storage layer.
type Spec struct {
	Conditions []Condition
	Sort       []SortKey
	Fields     []string // empty = all public fields
	Page       int
	Limit      int
}

type Op string

const (
	OpEq  Op = "="
	OpGt  Op = ">"
	OpGte Op = ">="
	OpLt  Op = "<"
	OpLte Op = "<="
)

type Condition struct {
	Field string
	Op    Op
	Value string
}

type SortKey struct {
	Field string
	Desc  bool
}

const (
	DefaultLimit     = 100
	DefaultSortField = "price"
)

// BadParamError marks client-input problems in the query string so the
// HTTP layer can answer 400 instead of 500.
type BadParamError struct {
	Param  string
	Reason string
}

func (e *BadParamError) Error() string {
	return fmt.Sprintf("invalid query parameter %q: %s", e.Param, e.Reason)
}

// control keys are consumed by the builder itself and never become filters
var controlKeys = map[string]struct{}{
	"page":   {},
	"sort":   {},
	"limit":  {},
	"fields": {},
}

// operator suffixes understood in bracket syntax, e.g. price[gte]=100.
// Lookup is by the whole token between the brackets, so a field such as
// "weight" or an operator typo like "gteq" can never be half-translated.
var suffixOps = map[string]Op{
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
}

var bracketKey = regexp.MustCompile(`^([A-Za-z0-9_]+)\[([A-Za-z0-9_]+)\]$`)

// Parse turns raw URL query values into a Spec, applying the fixed
// pipeline order: filter, sort, project, paginate. It performs no I/O.
func Parse(values url.Values) (Spec, error) {
	spec := Spec{Page: 1, Limit: DefaultLimit}

	// Filter: everything that is not a control key becomes a condition.
	// Iterate in sorted key order so the resulting spec is deterministic.
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if _, ctrl := controlKeys[key]; ctrl {
			continue
		}
		val := values.Get(key)
		if m := bracketKey.FindStringSubmatch(key); m != nil {
			op, ok := suffixOps[m[2]]
			if !ok {
				return Spec{}, &BadParamError{Param: key, Reason: "unknown operator " + strconv.Quote(m[2])}
			}
			spec.Conditions = append(spec.Conditions, Condition{Field: m[1], Op: op, Value: val})
			continue
		}
		if strings.ContainsAny(key, "[]") {
			return Spec{}, &BadParamError{Param: key, Reason: "malformed filter expression"}
		}
		spec.Conditions = append(spec.Conditions, Condition{Field: key, Op: OpEq, Value: val})
	}

	// Sort: comma-separated, leading '-' means descending, applied in
	// left-to-right precedence. Defaults to price ascending.
	if raw := values.Get("sort"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			key := SortKey{Field: part}
			if strings.HasPrefix(part, "-") {
				key = SortKey{Field: part[1:], Desc: true}
			}
			if key.Field == "" {
				return Spec{}, &BadParamError{Param: "sort", Reason: "empty sort field"}
			}
			spec.Sort = append(spec.Sort, key)
		}
	}
	if len(spec.Sort) == 0 {
		spec.Sort = []SortKey{{Field: DefaultSortField}}
	}

	// Project: comma-separated allow-list. Empty means "all public fields";
	// the storage layer owns what "public" excludes.
	if raw := values.Get("fields"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				spec.Fields = append(spec.Fields, part)
			}
		}
	}

	// Paginate: page defaults to 1, limit to DefaultLimit. A page past the
	// end of the result set is not an error; it just comes back empty.
	if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Spec{}, &BadParamError{Param: "page", Reason: "must be a positive integer"}
		}
		spec.Page = n
	}
	if raw := values.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return Spec{}, &BadParamError{Param: "limit", Reason: "must be a positive integer"}
		}
		spec.Limit = n
	}

	return spec, nil
}

// Offset returns the number of rows to skip for the requested page.
func (s Spec) Offset() int {
	return (s.Page - 1) * s.Limit
}
