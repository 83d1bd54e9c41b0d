package models

// Category — top-level catalog section
type Category string

const (
	CategorySkateboards Category = "skateboards"
	CategoryClothing    Category = "clothing"
	CategoryShoes       Category = "shoes"
	CategoryAccessories Category = "accessories"
)

// Product — таблица products
type Product struct {
	Base
	Name        string   `gorm:"not null;index" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	Category    Category `gorm:"type:varchar(32);not null;index;default:'skateboards'" json:"category"`
	Subcategory string   `gorm:"type:varchar(64);index" json:"subcategory"`
	PriceCents  int      `gorm:"not null;index" json:"priceCents"`
	Inventory   int      `gorm:"not null;default:0" json:"inventory"`
	Rating      int      `gorm:"not null;default:0" json:"rating"`
	ImagePath   string   `json:"imagePath"` // e.g. "/static/products/deck-1.webp"
}

// InStock reports whether the product can be put into a cart.
func (p Product) InStock() bool {
	return p.Inventory > 0
}
