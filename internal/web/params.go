package web

import (
	"net/url"
	"strconv"
	"strings"

	"boardshop/internal/catalog"
	"boardshop/internal/products"
)

const boardPath = "/build-a-board"

// BoardParams are the query parameters of the board page after defaults are applied.
type BoardParams struct {
	Page        int
	Limit       int
	Offset      int
	Sort        string
	Subcategory string
	PriceRange  string
}

// ParseBoardParams reads page, per_page, sort, subcategory and price_range.
// Malformed numbers fall back to the defaults: 8 per page, first page.
// A missing or unknown subcategory means decks.
// price_min/price_max (from the filter form) are folded into price_range when it is absent.
func ParseBoardParams(v url.Values) BoardParams {
	p := BoardParams{
		Page:        1,
		Limit:       products.DefaultLimit,
		Sort:        strings.TrimSpace(v.Get("sort")),
		Subcategory: strings.TrimSpace(v.Get("subcategory")),
		PriceRange:  strings.TrimSpace(v.Get("price_range")),
	}
	if n, ok := positiveInt(v.Get("per_page")); ok {
		p.Limit = min(n, products.MaxLimit)
	}
	if n, ok := positiveInt(v.Get("page")); ok {
		p.Page = n
	}
	p.Offset = (p.Page - 1) * p.Limit
	if !catalog.KnownSubcategory(p.Subcategory) {
		p.Subcategory = catalog.DefaultSubcategory
	}
	if p.PriceRange == "" {
		lo, hi := strings.TrimSpace(v.Get("price_min")), strings.TrimSpace(v.Get("price_max"))
		if lo != "" || hi != "" {
			p.PriceRange = lo + "-" + hi
		}
	}
	return p
}

func positiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// Query is the product listing request for these params.
func (p BoardParams) Query() products.Query {
	return products.Query{
		Limit:         p.Limit,
		Offset:        p.Offset,
		Sort:          p.Sort,
		Subcategories: p.Subcategory,
		PriceRange:    p.PriceRange,
	}
}

// PriceBounds splits PriceRange for the filter form inputs.
func (p BoardParams) PriceBounds() (string, string) {
	lo, hi, _ := strings.Cut(p.PriceRange, "-")
	return lo, hi
}

// URL renders the page URL for these params with one page number swapped in.
// Defaults are left out so links stay short.
func (p BoardParams) URL(page int) string {
	v := url.Values{}
	v.Set("subcategory", p.Subcategory)
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if p.Limit != products.DefaultLimit {
		v.Set("per_page", strconv.Itoa(p.Limit))
	}
	if p.Sort != "" {
		v.Set("sort", p.Sort)
	}
	if p.PriceRange != "" {
		v.Set("price_range", p.PriceRange)
	}
	return boardPath + "?" + v.Encode()
}

// SubcategoryURL is the navigation link of a subcategory tab.
func SubcategoryURL(slug string) string {
	return boardPath + "?" + url.Values{"subcategory": {slug}}.Encode()
}

// safeReturnTo accepts only local board page URLs.
func safeReturnTo(s string) (string, bool) {
	if !strings.HasPrefix(s, boardPath) {
		return "", false
	}
	u, err := url.Parse(s)
	if err != nil || u.Host != "" || u.Scheme != "" || u.Path != boardPath {
		return "", false
	}
	return u.RequestURI(), true
}
