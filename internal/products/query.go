package products

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 8
	MaxLimit     = 100
)

// Query is the input of the product listing. List fields are dot-separated
// ("decks.wheels"), Sort is "<column>.<asc|desc>" and PriceRange is "<min>-<max>".
type Query struct {
	Limit         int    `json:"limit"`
	Offset        int    `json:"offset"`
	Sort          string `json:"sort,omitempty"`
	Categories    string `json:"categories,omitempty"`
	Subcategories string `json:"subcategories,omitempty"`
	PriceRange    string `json:"price_range,omitempty"`
}

// Normalize clamps limit and offset into range.
func (q Query) Normalize() Query {
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	q.Sort = strings.TrimSpace(q.Sort)
	q.PriceRange = strings.TrimSpace(q.PriceRange)
	return q
}

// CacheKey identifies a normalized query.
func (q Query) CacheKey() string {
	q = q.Normalize()
	return fmt.Sprintf("products:v1:%d:%d:%s:%s:%s:%s",
		q.Limit, q.Offset, q.Sort,
		strings.Join(splitList(q.Categories), "."),
		strings.Join(splitList(q.Subcategories), "."),
		q.PriceRange)
}

// sortable columns by their public name
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"price":     "price_cents",
	"rating":    "rating",
}

// orderBy turns Sort into an ORDER BY clause. Unknown columns fall back to newest first.
// Anything but "asc" sorts descending.
func (q Query) orderBy() string {
	name, dir, _ := strings.Cut(q.Sort, ".")
	col, ok := sortColumns[name]
	if !ok {
		return "created_at desc, id desc"
	}
	if dir == "asc" {
		return col + " asc, id asc"
	}
	return col + " desc, id desc"
}

// priceBounds returns the bounds of PriceRange in cents; nil means unbounded.
func (q Query) priceBounds() (lo, hi *int) {
	if q.PriceRange == "" {
		return nil, nil
	}
	from, to, _ := strings.Cut(q.PriceRange, "-")
	return toCents(from), toCents(to)
}

func toCents(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return nil
	}
	c := int(math.Round(f * 100))
	return &c
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ".") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
