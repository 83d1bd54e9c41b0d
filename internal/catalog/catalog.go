// Package catalog holds the static product category tree. The board page takes
// its navigation tabs from it and drops subcategory filters it does not know.
package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultSubcategory is shown when the board page is opened without a filter.
const DefaultSubcategory = "decks"

// Subcategory is one navigation tab.
type Subcategory struct {
	Title       string `yaml:"title" json:"title"`
	Slug        string `yaml:"slug" json:"slug"`
	Description string `yaml:"description" json:"description"`
}

// Category groups subcategories.
type Category struct {
	Title         string        `yaml:"title" json:"title"`
	Slug          string        `yaml:"slug" json:"slug"`
	Subcategories []Subcategory `yaml:"subcategories" json:"subcategories"`
}

//go:embed categories.yaml
var categoriesYAML []byte

var (
	loadOnce   sync.Once
	categories []Category
	loadErr    error
)

// Parse decodes a category document and checks that slugs are present and unique.
func Parse(data []byte) ([]Category, error) {
	var out []Category
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode categories: %w", err)
	}
	seen := make(map[string]bool)
	for _, c := range out {
		if c.Slug == "" {
			return nil, fmt.Errorf("category %q has no slug", c.Title)
		}
		for _, s := range c.Subcategories {
			if s.Slug == "" {
				return nil, fmt.Errorf("subcategory %q of %s has no slug", s.Title, c.Slug)
			}
			if seen[s.Slug] {
				return nil, fmt.Errorf("duplicate subcategory slug %q", s.Slug)
			}
			seen[s.Slug] = true
		}
	}
	return out, nil
}

func load() ([]Category, error) {
	loadOnce.Do(func() {
		categories, loadErr = Parse(categoriesYAML)
	})
	return categories, loadErr
}

// MustLoad panics if the embedded document is broken. Call it once at startup.
func MustLoad() {
	if _, err := load(); err != nil {
		panic(err)
	}
}

// Categories returns the full tree. Callers must not modify it.
func Categories() []Category {
	c, _ := load()
	return c
}

// CategoryBySlug looks a category up by slug.
func CategoryBySlug(slug string) (Category, bool) {
	for _, c := range Categories() {
		if c.Slug == slug {
			return c, true
		}
	}
	return Category{}, false
}

// FindSubcategory returns the subcategory with the given slug and the slug of its category.
func FindSubcategory(slug string) (Subcategory, string, bool) {
	for _, c := range Categories() {
		for _, s := range c.Subcategories {
			if s.Slug == slug {
				return s, c.Slug, true
			}
		}
	}
	return Subcategory{}, "", false
}

// KnownSubcategory reports whether slug names a subcategory of any category.
func KnownSubcategory(slug string) bool {
	_, _, ok := FindSubcategory(slug)
	return ok
}

// BoardParts are the subcategories offered on the board builder page (the first category).
func BoardParts() []Subcategory {
	c := Categories()
	if len(c) == 0 {
		return nil
	}
	return c[0].Subcategories
}
