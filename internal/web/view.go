package web

import (
	"slices"

	"boardshop/internal/catalog"
	"boardshop/internal/models"
)

// ViewData is the common layout data every page carries.
type ViewData struct {
	Title       string
	Description string
	CartCount   int
	Flash       string
	Header      HeaderView
}

type HeaderView struct {
	Title       string
	Description string
	Size        string
}

type NavTab struct {
	Title  string
	Slug   string
	Href   string
	Active bool
}

type ProductCard struct {
	Product models.Product
	InCart  bool
}

type SortOption struct {
	Label    string
	Value    string
	Selected bool
}

type PageLink struct {
	Number  int
	Href    string
	Current bool
}

// BuilderView is what the board builder widget gets: the products, the page
// count, the active subcategory and the ids already in the cart.
type BuilderView struct {
	Products       []ProductCard
	PageCount      int
	Subcategory    string
	CartProductIDs []uint

	SortOptions []SortOption
	PriceMin    string
	PriceMax    string
	Pages       []PageLink
	PrevHref    string
	NextHref    string
	ReturnTo    string
}

type BoardPage struct {
	ViewData
	Nav     []NavTab
	Builder BuilderView
}

var sortOptions = []SortOption{
	{Label: "Date: Old to new", Value: "createdAt.asc"},
	{Label: "Date: New to old", Value: "createdAt.desc"},
	{Label: "Price: Low to high", Value: "price.asc"},
	{Label: "Price: High to low", Value: "price.desc"},
	{Label: "Alphabetical: A to Z", Value: "name.asc"},
	{Label: "Alphabetical: Z to A", Value: "name.desc"},
}

func subcategoryTabs(active string) []NavTab {
	parts := catalog.BoardParts()
	tabs := make([]NavTab, 0, len(parts))
	for _, s := range parts {
		tabs = append(tabs, NavTab{
			Title:  s.Title,
			Slug:   s.Slug,
			Href:   SubcategoryURL(s.Slug),
			Active: s.Slug == active,
		})
	}
	return tabs
}

func newBuilderView(p BoardParams, items []models.Product, pageCount int, cartIDs []uint) BuilderView {
	cards := make([]ProductCard, len(items))
	for i, it := range items {
		cards[i] = ProductCard{Product: it, InCart: slices.Contains(cartIDs, it.ID)}
	}

	opts := make([]SortOption, len(sortOptions))
	copy(opts, sortOptions)
	selected := p.Sort
	if selected == "" {
		selected = "createdAt.desc"
	}
	for i := range opts {
		opts[i].Selected = opts[i].Value == selected
	}

	lo, hi := p.PriceBounds()
	v := BuilderView{
		Products:       cards,
		PageCount:      pageCount,
		Subcategory:    p.Subcategory,
		CartProductIDs: cartIDs,
		SortOptions:    opts,
		PriceMin:       lo,
		PriceMax:       hi,
		ReturnTo:       p.URL(p.Page),
	}
	for n := 1; n <= pageCount; n++ {
		v.Pages = append(v.Pages, PageLink{Number: n, Href: p.URL(n), Current: n == p.Page})
	}
	if p.Page > 1 && pageCount > 0 {
		v.PrevHref = p.URL(min(p.Page-1, pageCount))
	}
	if p.Page < pageCount {
		v.NextHref = p.URL(p.Page + 1)
	}
	return v
}
