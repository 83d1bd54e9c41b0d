package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"boardshop/internal/cart"
	"boardshop/internal/models"
	"boardshop/internal/products"
)

const (
	boardTitle       = "Build a Board"
	boardDescription = "Select the components for your board"

	cartCookieMaxAge = 60 * 60 * 24 * 30
)

// BuildABoard renders the board page: products of the active subcategory
// plus the ids already in the shopper's cart.
func (h *Handler) BuildABoard(c *gin.Context) {
	params := ParseBoardParams(c.Request.URL.Query())

	res, err := h.products.List(c.Request.Context(), params.Query())
	if err != nil {
		h.renderError(c, err, "list products")
		return
	}
	pageCount := products.PageCount(res.Total, params.Limit)

	cartRow, err := h.currentCart(c)
	if err != nil {
		h.renderError(c, err, "read cart")
		return
	}
	cartIDs := cart.ProductIDs(cartRow)
	h.logger.Debug("board page",
		zap.String("subcategory", params.Subcategory),
		zap.Int64("total", res.Total),
		zap.Uints("cart_product_ids", cartIDs),
	)

	page := BoardPage{
		ViewData: h.layout(c, cartRow, boardTitle, boardDescription),
		Nav:      subcategoryTabs(params.Subcategory),
		Builder:  newBuilderView(params, res.Items, pageCount, cartIDs),
	}
	c.HTML(http.StatusOK, "build_a_board.tmpl", page)
}

// ToggleBoardPart adds a part to the board (replacing another of the same
// subcategory) or takes it out, then redirects back to the page.
func (h *Handler) ToggleBoardPart(c *gin.Context) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.PostForm("product_id")), 10, 64)
	if err != nil || id == 0 {
		c.String(http.StatusBadRequest, "no product")
		return
	}
	cartID, _ := h.cartIDFromRequest(c)

	res, err := h.carts.ToggleBoardPart(c.Request.Context(), cartID, uint(id))
	switch {
	case errors.Is(err, cart.ErrProductNotFound):
		c.String(http.StatusNotFound, "product not found")
		return
	case errors.Is(err, cart.ErrOutOfStock):
		h.flash(c, "That part is out of stock")
		c.Redirect(http.StatusSeeOther, h.returnTo(c, ""))
		return
	case err != nil:
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "could not update cart")
		return
	}

	if res.Cart.ID != cartID {
		h.setCartCookie(c, res.Cart.ID)
	}
	if res.Added {
		h.flash(c, fmt.Sprintf("Added %s to your board", res.Product.Name))
	} else {
		h.flash(c, fmt.Sprintf("Removed %s from your board", res.Product.Name))
	}
	c.Redirect(http.StatusSeeOther, h.returnTo(c, res.Product.Subcategory))
}

func (h *Handler) cartIDFromRequest(c *gin.Context) (uint, bool) {
	v, err := c.Cookie(cart.CookieName)
	if err != nil {
		return 0, false
	}
	return cart.CartIDFromCookie(v)
}

// currentCart returns the cookie cart or nil when there is none.
func (h *Handler) currentCart(c *gin.Context) (*models.Cart, error) {
	id, ok := h.cartIDFromRequest(c)
	if !ok {
		return nil, nil
	}
	return h.carts.FindByID(c.Request.Context(), id)
}

func (h *Handler) setCartCookie(c *gin.Context, id uint) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cart.CookieName, strconv.FormatUint(uint64(id), 10), cartCookieMaxAge, "/", "", h.secureCookies, true)
}

func (h *Handler) returnTo(c *gin.Context, subcategory string) string {
	if u, ok := safeReturnTo(c.PostForm("return_to")); ok {
		return u
	}
	if subcategory != "" {
		return SubcategoryURL(subcategory)
	}
	return boardPath
}

func (h *Handler) flash(c *gin.Context, msg string) {
	sess := sessions.Default(c)
	sess.AddFlash(msg)
	if err := sess.Save(); err != nil {
		h.logger.Warn("save session", zap.Error(err))
	}
}

func (h *Handler) layout(c *gin.Context, cartRow *models.Cart, title, description string) ViewData {
	v := ViewData{
		Title:       title,
		Description: description,
		Header:      HeaderView{Title: title, Description: description, Size: "sm"},
	}
	if cartRow != nil {
		v.CartCount = cartRow.Count()
	}
	sess := sessions.Default(c)
	if flashes := sess.Flashes(); len(flashes) > 0 {
		if msg, ok := flashes[0].(string); ok {
			v.Flash = msg
		}
		if err := sess.Save(); err != nil {
			h.logger.Warn("save session", zap.Error(err))
		}
	}
	return v
}

func (h *Handler) renderError(c *gin.Context, err error, op string) {
	_ = c.Error(fmt.Errorf("%s: %w", op, err))
	c.HTML(http.StatusInternalServerError, "error.tmpl", ViewData{
		Title:  "Something went wrong",
		Header: HeaderView{Title: "Something went wrong", Description: "Please try again in a moment.", Size: "sm"},
	})
}
