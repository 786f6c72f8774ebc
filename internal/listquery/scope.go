package listquery

import (
	"math"
	"strings"

	"gorm.io/gorm"
)

// Filter returns a GORM scope applying the query's parsed conditions.
// When the client supplied no explicit filter, the default visibility rule
// applies instead: not soft-deleted and active. With strict visibility the
// default rule is ANDed with explicit conditions rather than replaced.
// Handler-injected scope conditions are ANDed on top in every case.
func Filter(q *Query, strict bool) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if !q.HasExplicitFilter() || strict {
			db = db.Where("is_exists = ? AND is_active = ? AND deleted_at IS NULL", true, true)
		}
		for _, c := range q.Scope {
			db = applyCondition(db, c)
		}
		for _, c := range q.Conditions {
			db = applyCondition(db, c)
		}
		return db
	}
}

func applyCondition(db *gorm.DB, c Condition) *gorm.DB {
	switch c.Op {
	case OpEq:
		return db.Where(c.Field+" = ?", c.Value)
	case OpNe:
		return db.Where(c.Field+" <> ?", c.Value)
	case OpGt:
		return db.Where(c.Field+" > ?", c.Value)
	case OpGte:
		return db.Where(c.Field+" >= ?", c.Value)
	case OpLt:
		return db.Where(c.Field+" < ?", c.Value)
	case OpLte:
		return db.Where(c.Field+" <= ?", c.Value)
	case OpRegex:
		pattern := "%" + strings.ToLower(valueString(c.Value)) + "%"
		return db.Where("LOWER("+c.Field+") LIKE ?", pattern)
	case OpIn:
		return db.Where(c.Field+" IN ?", c.Values)
	case OpNotIn:
		return db.Where(c.Field+" NOT IN ?", c.Values)
	default:
		return db
	}
}

// Sort returns a GORM scope applying the parsed sort order, defaulting to
// newest-first when the client supplied none.
func Sort(q *Query) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(q.Sort) == 0 {
			return db.Order("created_at DESC")
		}
		for _, s := range q.Sort {
			dir := " ASC"
			if s.Desc {
				dir = " DESC"
			}
			db = db.Order(s.Field + dir)
		}
		return db
	}
}

// Project returns a GORM scope restricting the selected columns. Field
// existence is not validated; unknown columns surface as store errors.
func Project(q *Query) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(q.Select) == 0 {
			return db
		}
		return db.Select(q.Select)
	}
}

// Paginate returns a GORM scope applying the clamped offset and limit.
// Call Clamp first so the page number reflects the total.
func Paginate(q *Query) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(q.Skip()).Limit(q.Limit)
	}
}

// Clamp bounds the requested page to [1, totalPages] for the given total
// record count and returns the total page count. A zero total keeps page 1.
func (q *Query) Clamp(total int64) int {
	if q.Limit < 1 {
		q.Limit = 1
	}
	totalPages := int(math.Ceil(float64(total) / float64(q.Limit)))
	if totalPages < 1 {
		q.Page = 1
		return totalPages
	}
	if q.Page > totalPages {
		q.Page = totalPages
	}
	if q.Page < 1 {
		q.Page = 1
	}
	return totalPages
}

// Skip is the record offset of the current page.
func (q *Query) Skip() int {
	return (q.Page - 1) * q.Limit
}

// PageLinks describes the neighborhood of the current page. Previous and
// Next hold the adjacent page number or false at either edge.
type PageLinks struct {
	Previous any `json:"previous"`
	Current  int `json:"current"`
	Next     any `json:"next"`
	Total    int `json:"total"`
}

// Pages builds the pages descriptor: false when everything fits on one page,
// otherwise a PageLinks value.
func (q *Query) Pages(total int64, totalPages int) any {
	if total <= int64(q.Limit) {
		return false
	}
	links := PageLinks{
		Previous: false,
		Current:  q.Page,
		Next:     false,
		Total:    totalPages,
	}
	if q.Page > 1 {
		links.Previous = q.Page - 1
	}
	if q.Page < totalPages {
		links.Next = q.Page + 1
	}
	return links
}

// Result is the list response envelope returned verbatim as the JSON body.
type Result[T any] struct {
	Filter       map[string]string `json:"filter"`
	Select       []string          `json:"select"`
	Sort         map[string]string `json:"sort"`
	Skip         int               `json:"skip"`
	Limit        int               `json:"limit"`
	Page         int               `json:"page"`
	Pages        any               `json:"pages"`
	TotalRecords int64             `json:"totalRecords"`
	URL          string            `json:"url"`
	Data         []T               `json:"data"`
}

// NewResult assembles the response envelope from a clamped query, the total
// count, and the fetched page.
func NewResult[T any](q *Query, total int64, totalPages int, data []T) *Result[T] {
	if data == nil {
		data = []T{}
	}
	sel := q.Select
	if sel == nil {
		sel = []string{}
	}
	return &Result[T]{
		Filter:       q.FilterSpec(),
		Select:       sel,
		Sort:         q.SortSpec(),
		Skip:         q.Skip(),
		Limit:        q.Limit,
		Page:         q.Page,
		Pages:        q.Pages(total, totalPages),
		TotalRecords: total,
		URL:          q.Canonical(),
		Data:         data,
	}
}
