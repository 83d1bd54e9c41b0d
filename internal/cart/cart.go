// Package cart reads and updates the shopper's cart row, identified by the cartId cookie.
package cart

import (
	"errors"
	"strconv"
	"strings"

	"boardshop/internal/models"
)

// CookieName holds the numeric id of the cart row.
const CookieName = "cartId"

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product is out of stock")
)

// CartIDFromCookie parses the cookie value. Missing or non-numeric values
// report false, meaning there is no cart to look up.
func CartIDFromCookie(v string) (uint, bool) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// ProductIDs lists the product ids in c, in cart order. Never nil.
func ProductIDs(c *models.Cart) []uint {
	if c == nil {
		return []uint{}
	}
	ids := make([]uint, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}
