// Package listquery translates flat query-string parameters into a structured
// filter/sort/select/paginate specification and packages list results with
// pagination metadata.
package listquery

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

const (
	// DefaultPage and DefaultLimit apply when the client sends nothing usable.
	DefaultPage  = 1
	DefaultLimit = 20
)

// Operator is the closed set of filter comparison operators.
type Operator int

const (
	OpEq Operator = iota
	OpNe
	OpGt
	OpGte
	OpLt
	OpLte
	OpRegex
	OpIn
	OpNotIn
)

var operatorNames = map[Operator]string{
	OpEq:    "eq",
	OpNe:    "ne",
	OpGt:    "gt",
	OpGte:   "gte",
	OpLt:    "lt",
	OpLte:   "lte",
	OpRegex: "regex",
	OpIn:    "in",
	OpNotIn: "nin",
}

var operatorTokens = map[string]Operator{
	"eq":    OpEq,
	"ne":    OpNe,
	"gt":    OpGt,
	"gte":   OpGte,
	"lt":    OpLt,
	"lte":   OpLte,
	"regex": OpRegex,
	"in":    OpIn,
	"nin":   OpNotIn,
}

// String returns the wire token for the operator.
func (op Operator) String() string {
	if s, ok := operatorNames[op]; ok {
		return s
	}
	return "eq"
}

// Condition is one parsed field comparison.
type Condition struct {
	Field  string
	Op     Operator
	Value  any   // scalar operators
	Values []any // OpIn / OpNotIn
}

// SortKey is one parsed sort directive.
type SortKey struct {
	Field string
	Desc  bool
}

// Query is the parsed, request-scoped list specification. Conditions holds
// what the client asked for; Scope holds conditions injected by handlers
// (ownership restrictions and the like), which always apply and never count
// as an explicit client filter.
type Query struct {
	Conditions []Condition
	Scope      []Condition
	Sort       []SortKey
	Select     []string
	Page       int
	Limit      int
}

// HasExplicitFilter reports whether the client supplied any filter[...] key.
// When false the store applies the default visibility rule instead. Scope
// conditions do not count: a handler narrowing the list must not widen what
// the client can see.
func (q *Query) HasExplicitFilter() bool {
	return len(q.Conditions) > 0
}

// FilterSpec returns the parsed filter as field → "op:value" wire form,
// with plain equality rendered as the bare value.
func (q *Query) FilterSpec() map[string]string {
	spec := make(map[string]string, len(q.Conditions))
	for _, c := range q.Conditions {
		spec[c.Field] = c.wireValue()
	}
	return spec
}

// SortSpec returns the parsed sort order as field → "asc"|"desc".
func (q *Query) SortSpec() map[string]string {
	spec := make(map[string]string, len(q.Sort))
	for _, s := range q.Sort {
		dir := "asc"
		if s.Desc {
			dir = "desc"
		}
		spec[s.Field] = dir
	}
	return spec
}

// Canonical rebuilds a normalized query string from the parsed filter, sort,
// and selection, for inclusion in responses as a stable link. Keys are
// percent-encoded and sorted, so equivalent requests produce identical output.
func (q *Query) Canonical() string {
	values := url.Values{}
	for _, c := range q.Conditions {
		values.Set("filter["+c.Field+"]", c.wireValue())
	}
	for _, s := range q.Sort {
		dir := "asc"
		if s.Desc {
			dir = "desc"
		}
		values.Set("sort["+s.Field+"]", dir)
	}
	if len(q.Select) > 0 {
		values.Set("select", strings.Join(q.Select, ","))
	}
	return values.Encode()
}

func (c Condition) wireValue() string {
	switch c.Op {
	case OpIn, OpNotIn:
		parts := make([]string, 0, len(c.Values))
		for _, v := range c.Values {
			parts = append(parts, valueString(v))
		}
		return c.Op.String() + ":" + strings.Join(parts, ",")
	case OpEq:
		return valueString(c.Value)
	default:
		return c.Op.String() + ":" + valueString(c.Value)
	}
}

func valueString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// sortConditions orders conditions and sort keys by field name so iteration
// over the underlying map never leaks into response or SQL ordering.
func (q *Query) sortConditions() {
	sort.Slice(q.Conditions, func(i, j int) bool {
		return q.Conditions[i].Field < q.Conditions[j].Field
	})
	sort.Slice(q.Sort, func(i, j int) bool {
		return q.Sort[i].Field < q.Sort[j].Field
	})
}
