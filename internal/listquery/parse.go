package listquery

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// validFieldName matches only identifier-shaped field names. Anything else is
// silently dropped before it can reach the SQL layer.
var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Parse extracts a Query from flat query-string parameters.
//
// Recognized shapes:
//
//	page, limit                      positive integers, clamped to >= 1
//	filter[field]=value              exact match, numeric coercion
//	filter[field]=op:value           op in gt,gte,lt,lte,ne,eq,regex,in,nin
//	sort[field]=asc|desc             anything but "desc" sorts ascending
//	select=a,b c                     comma or space separated projection
//
// Unrecognized operator tokens fall back to exact match on the whole value.
// Invalid field names are ignored.
func Parse(values url.Values) *Query {
	q := &Query{
		Page:  intParam(values.Get("page"), DefaultPage),
		Limit: intParam(values.Get("limit"), DefaultLimit),
	}

	for key, vals := range values {
		if len(vals) == 0 {
			continue
		}
		value := vals[0]

		switch {
		case strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]"):
			field := normalizeField(key[len("filter[") : len(key)-1])
			if field == "" {
				continue
			}
			q.Conditions = append(q.Conditions, parseCondition(field, value))

		case strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]"):
			field := normalizeField(key[len("sort[") : len(key)-1])
			if field == "" {
				continue
			}
			q.Sort = append(q.Sort, SortKey{Field: field, Desc: value == "desc"})

		case key == "select":
			q.Select = parseSelect(value)
		}
	}

	q.sortConditions()
	return q
}

// parseCondition interprets one filter value, splitting off a leading
// operator token when present.
func parseCondition(field, value string) Condition {
	op := OpEq
	operand := value

	if idx := strings.Index(value, ":"); idx > 0 {
		if parsed, ok := operatorTokens[value[:idx]]; ok {
			op = parsed
			operand = value[idx+1:]
		}
	}

	switch op {
	case OpIn, OpNotIn:
		parts := strings.Split(operand, ",")
		values := make([]any, 0, len(parts))
		for _, p := range parts {
			values = append(values, coerce(strings.TrimSpace(p)))
		}
		return Condition{Field: field, Op: op, Values: values}
	case OpRegex:
		// Pattern stays a string even when it looks numeric.
		return Condition{Field: field, Op: op, Value: operand}
	default:
		return Condition{Field: field, Op: op, Value: coerce(operand)}
	}
}

// coerce turns a numeric-looking string into a float64 and leaves everything
// else as a string. String fields holding only digits can therefore not be
// matched with bare equality; clients use regex or in for those.
func coerce(s string) any {
	if s == "" {
		return s
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func parseSelect(value string) []string {
	raw := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
	fields := make([]string, 0, len(raw))
	for _, f := range raw {
		if name := normalizeField(f); name != "" {
			fields = append(fields, name)
		}
	}
	return fields
}

// intParam parses a positive integer. Missing or non-numeric values use the
// fallback; numeric values below 1 clamp to 1 so a limit of 0 can never
// produce a division by zero downstream.
func intParam(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	if n < 1 {
		return 1
	}
	return n
}

// normalizeField validates a client-supplied field name and converts
// camelCase to the snake_case column convention, so filter[createdAt] and
// filter[created_at] address the same column.
func normalizeField(name string) string {
	name = strings.TrimSpace(name)
	if !validFieldName.MatchString(name) {
		return ""
	}
	var b strings.Builder
	for i, r := range name {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
