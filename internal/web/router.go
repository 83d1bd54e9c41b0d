package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"boardshop/internal/cart"
	"boardshop/internal/models"
	"boardshop/internal/products"
	"boardshop/internal/views"
)

const sessionName = "bs_session"

// ProductLister is the product-fetching action.
type ProductLister interface {
	List(ctx context.Context, q products.Query) (*products.Result, error)
}

// CartStore reads and updates the cookie cart.
type CartStore interface {
	FindByID(ctx context.Context, id uint) (*models.Cart, error)
	AddItem(ctx context.Context, cartID uint, item models.CartItem) (*models.Cart, error)
	RemoveItems(ctx context.Context, cartID uint, productIDs ...uint) (*models.Cart, error)
	ToggleBoardPart(ctx context.Context, cartID, productID uint) (*cart.ToggleResult, error)
}

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Options struct {
	Products      ProductLister
	Carts         CartStore
	Logger        *zap.Logger
	SessionSecret string
	SecureCookies bool
	StaticDir     string
	Checks        map[string]HealthCheck
}

type Handler struct {
	products      ProductLister
	carts         CartStore
	logger        *zap.Logger
	secureCookies bool
	checks        map[string]HealthCheck
}

// NewRouter builds the gin engine with templates, sessions and all routes.
func NewRouter(o Options) (*gin.Engine, error) {
	if o.Products == nil || o.Carts == nil {
		return nil, fmt.Errorf("web: products and carts are required")
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if o.SessionSecret == "" {
		return nil, fmt.Errorf("web: empty session secret")
	}

	tmpl, err := views.Templates()
	if err != nil {
		return nil, err
	}

	h := &Handler{
		products:      o.Products,
		carts:         o.Carts,
		logger:        o.Logger,
		secureCookies: o.SecureCookies,
		checks:        o.Checks,
	}

	r := gin.New()
	r.Use(RequestID(), Logger(o.Logger), Recovery(o.Logger))
	r.SetHTMLTemplate(tmpl)

	if o.StaticDir != "" {
		r.Static("/static", o.StaticDir)
	}

	store := cookie.NewStore([]byte(o.SessionSecret))
	store.Options(sessions.Options{Path: "/", HttpOnly: true, Secure: o.SecureCookies, SameSite: http.SameSiteLaxMode})
	r.Use(sessions.Sessions(sessionName, store))

	r.GET("/health", h.Health)
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, boardPath) })
	r.GET(boardPath, h.BuildABoard)
	r.POST(boardPath+"/toggle", h.ToggleBoardPart)

	api := r.Group("/api")
	api.GET("/products", h.ListProducts)
	api.GET("/cart", h.GetCart)
	api.POST("/cart/items", h.AddCartItem)
	api.DELETE("/cart/items/:productId", h.RemoveCartItem)

	return r, nil
}
