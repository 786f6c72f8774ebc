package listquery

import (
	"net/url"
	"reflect"
	"testing"
)

func TestParse_Defaults(t *testing.T) {
	q := Parse(url.Values{})

	if q.Page != DefaultPage {
		t.Errorf("expected page %d, got %d", DefaultPage, q.Page)
	}
	if q.Limit != DefaultLimit {
		t.Errorf("expected limit %d, got %d", DefaultLimit, q.Limit)
	}
	if q.HasExplicitFilter() {
		t.Error("expected no explicit filter")
	}
	if len(q.Sort) != 0 || len(q.Select) != 0 {
		t.Errorf("expected empty sort and select, got %v / %v", q.Sort, q.Select)
	}
}

func TestParse_PageAndLimit(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int
		wantLimit int
	}{
		{"valid values", "3", "50", 3, 50},
		{"missing uses defaults", "", "", DefaultPage, DefaultLimit},
		{"non-numeric uses defaults", "abc", "x", DefaultPage, DefaultLimit},
		{"zero clamps to one", "0", "0", 1, 1},
		{"negative clamps to one", "-5", "-2", 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := url.Values{}
			if tt.page != "" {
				values.Set("page", tt.page)
			}
			if tt.limit != "" {
				values.Set("limit", tt.limit)
			}

			q := Parse(values)
			if q.Page != tt.wantPage {
				t.Errorf("expected page %d, got %d", tt.wantPage, q.Page)
			}
			if q.Limit != tt.wantLimit {
				t.Errorf("expected limit %d, got %d", tt.wantLimit, q.Limit)
			}
		})
	}
}

func TestParse_FilterOperators(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
		want  Condition
	}{
		{"bare equality", "filter[age]", "30", Condition{Field: "age", Op: OpEq, Value: float64(30)}},
		{"explicit eq", "filter[age]", "eq:30", Condition{Field: "age", Op: OpEq, Value: float64(30)}},
		{"string equality", "filter[role]", "admin", Condition{Field: "role", Op: OpEq, Value: "admin"}},
		{"greater than", "filter[age]", "gt:21", Condition{Field: "age", Op: OpGt, Value: float64(21)}},
		{"greater or equal", "filter[age]", "gte:21", Condition{Field: "age", Op: OpGte, Value: float64(21)}},
		{"less than", "filter[age]", "lt:65", Condition{Field: "age", Op: OpLt, Value: float64(65)}},
		{"less or equal", "filter[age]", "lte:65", Condition{Field: "age", Op: OpLte, Value: float64(65)}},
		{"not equal", "filter[role]", "ne:guest", Condition{Field: "role", Op: OpNe, Value: "guest"}},
		{"regex keeps numeric string", "filter[phone]", "regex:555", Condition{Field: "phone", Op: OpRegex, Value: "555"}},
		{"in list", "filter[role]", "in:admin, user", Condition{Field: "role", Op: OpIn, Values: []any{"admin", "user"}}},
		{"nin list", "filter[age]", "nin:1,2", Condition{Field: "age", Op: OpNotIn, Values: []any{float64(1), float64(2)}}},
		{"unknown operator falls back to eq", "filter[name]", "like:foo", Condition{Field: "name", Op: OpEq, Value: "like:foo"}},
		{"camelCase field normalized", "filter[createdAt]", "gt:5", Condition{Field: "created_at", Op: OpGt, Value: float64(5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Parse(url.Values{tt.key: []string{tt.value}})
			if len(q.Conditions) != 1 {
				t.Fatalf("expected 1 condition, got %d", len(q.Conditions))
			}
			if !reflect.DeepEqual(q.Conditions[0], tt.want) {
				t.Errorf("expected %+v, got %+v", tt.want, q.Conditions[0])
			}
		})
	}
}

func TestParse_InvalidFieldNamesIgnored(t *testing.T) {
	values := url.Values{
		"filter[1; DROP TABLE users]": []string{"x"},
		"filter[a-b]":                 []string{"x"},
		"sort[no spaces here]":        []string{"asc"},
	}

	q := Parse(values)
	if len(q.Conditions) != 0 {
		t.Errorf("expected malformed filter fields to be dropped, got %v", q.Conditions)
	}
	if len(q.Sort) != 0 {
		t.Errorf("expected malformed sort fields to be dropped, got %v", q.Sort)
	}
}

func TestParse_Sort(t *testing.T) {
	q := Parse(url.Values{
		"sort[createdAt]": []string{"desc"},
		"sort[email]":     []string{"asc"},
		"sort[role]":      []string{"banana"},
	})

	want := []SortKey{
		{Field: "created_at", Desc: true},
		{Field: "email", Desc: false},
		{Field: "role", Desc: false},
	}
	if !reflect.DeepEqual(q.Sort, want) {
		t.Errorf("expected %+v, got %+v", want, q.Sort)
	}
}

func TestParse_Select(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  []string
	}{
		{"comma separated", "id,email,role", []string{"id", "email", "role"}},
		{"space separated", "id email", []string{"id", "email"}},
		{"mixed with camelCase", "id, createdAt", []string{"id", "created_at"}},
		{"invalid names dropped", "id,a-b,email", []string{"id", "email"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Parse(url.Values{"select": []string{tt.value}})
			if !reflect.DeepEqual(q.Select, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, q.Select)
			}
		})
	}
}

func TestParse_ConditionsSortedByField(t *testing.T) {
	q := Parse(url.Values{
		"filter[zeta]":  []string{"1"},
		"filter[alpha]": []string{"2"},
		"filter[mid]":   []string{"3"},
	})

	got := []string{q.Conditions[0].Field, q.Conditions[1].Field, q.Conditions[2].Field}
	want := []string{"alpha", "mid", "zeta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected conditions ordered %v, got %v", want, got)
	}
}

func TestQuery_Canonical(t *testing.T) {
	q := Parse(url.Values{
		"filter[age]":     []string{"gt:21"},
		"filter[role]":    []string{"admin"},
		"sort[createdAt]": []string{"desc"},
		"select":          []string{"id,email"},
	})

	got := q.Canonical()
	want := "filter%5Bage%5D=gt%3A21&filter%5Brole%5D=admin&select=id%2Cemail&sort%5Bcreated_at%5D=desc"
	if got != want {
		t.Errorf("expected canonical %q, got %q", want, got)
	}

	// Equivalent requests in different key order produce identical output.
	q2 := Parse(url.Values{
		"select":          []string{"id,email"},
		"sort[createdAt]": []string{"desc"},
		"filter[role]":    []string{"admin"},
		"filter[age]":     []string{"gt:21"},
	})
	if q2.Canonical() != got {
		t.Errorf("expected stable canonical form, got %q vs %q", q2.Canonical(), got)
	}
}
