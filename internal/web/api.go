package web

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"boardshop/internal/cart"
	"boardshop/internal/models"
	"boardshop/internal/products"
)

// ListProducts is the JSON twin of the board page listing.
func (h *Handler) ListProducts(c *gin.Context) {
	params := ParseBoardParams(c.Request.URL.Query())
	res, err := h.products.List(c.Request.Context(), params.Query())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":       res.Items,
		"total":       res.Total,
		"pageCount":   products.PageCount(res.Total, params.Limit),
		"subcategory": params.Subcategory,
	})
}

// GetCart returns the product ids of the cookie cart.
func (h *Handler) GetCart(c *gin.Context) {
	row, err := h.currentCart(c)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not read cart"})
		return
	}
	c.JSON(http.StatusOK, cartBody(row))
}

type addCartItemRequest struct {
	ProductID uint `json:"productId" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// AddCartItem puts a product into the cookie cart, creating the cart when needed.
func (h *Handler) AddCartItem(c *gin.Context) {
	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productId is required"})
		return
	}
	if req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must not be negative"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	cartID, _ := h.cartIDFromRequest(c)

	row, err := h.carts.AddItem(c.Request.Context(), cartID, models.CartItem{ProductID: req.ProductID, Quantity: req.Quantity})
	switch {
	case errors.Is(err, cart.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	case errors.Is(err, cart.ErrOutOfStock):
		c.JSON(http.StatusConflict, gin.H{"error": "product is out of stock"})
		return
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update cart"})
		return
	}

	if row.ID != cartID {
		h.setCartCookie(c, row.ID)
	}
	c.JSON(http.StatusOK, cartBody(row))
}

// RemoveCartItem drops one product from the cookie cart.
func (h *Handler) RemoveCartItem(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad product id"})
		return
	}
	cartID, ok := h.cartIDFromRequest(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
		return
	}

	row, err := h.carts.RemoveItems(c.Request.Context(), cartID, uint(id))
	switch {
	case errors.Is(err, cart.ErrCartNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "cart not found"})
		return
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update cart"})
		return
	}
	c.JSON(http.StatusOK, cartBody(row))
}

func cartBody(row *models.Cart) gin.H {
	body := gin.H{"cartProductIds": cart.ProductIDs(row), "count": 0}
	if row != nil {
		body["cartId"] = row.ID
		body["count"] = row.Count()
	}
	return body
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	body := gin.H{"ok": true}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			body["ok"] = false
			body[name] = err.Error()
		}
	}
	if body["ok"] == false {
		c.JSON(http.StatusServiceUnavailable, body)
		return
	}
	c.JSON(http.StatusOK, body)
}
