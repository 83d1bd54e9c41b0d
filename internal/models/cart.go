package models

// CartItem is one line of a cart. Items live inside the cart row as JSON.
type CartItem struct {
	ProductID   uint   `json:"productId"`
	Quantity    int    `json:"quantity"`
	Subcategory string `json:"subcategory,omitempty"`
}

// Cart — таблица carts, id корзины лежит в cookie cartId
type Cart struct {
	Base
	Items  []CartItem `gorm:"serializer:json;type:json" json:"items"`
	Closed bool       `gorm:"not null;default:false" json:"closed"`
}

// Has reports whether productID is already in the cart.
func (c *Cart) Has(productID uint) bool {
	return c.indexOf(productID) >= 0
}

func (c *Cart) indexOf(productID uint) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

// Add puts item into the cart, bumping the quantity of an existing line.
func (c *Cart) Add(item CartItem) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if i := c.indexOf(item.ProductID); i >= 0 {
		c.Items[i].Quantity += item.Quantity
		return
	}
	c.Items = append(c.Items, item)
}

// Remove drops every line whose product is in ids. It returns how many lines went away.
func (c *Cart) Remove(ids ...uint) int {
	if len(ids) == 0 {
		return 0
	}
	drop := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := c.Items[:0]
	for _, it := range c.Items {
		if _, ok := drop[it.ProductID]; !ok {
			kept = append(kept, it)
		}
	}
	n := len(c.Items) - len(kept)
	c.Items = kept
	return n
}

// Count is the total quantity across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}
