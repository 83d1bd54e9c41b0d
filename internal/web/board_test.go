package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boardshop/internal/cart"
	"boardshop/internal/models"
	"boardshop/internal/products"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type productsMock struct {
	res   *products.Result
	err   error
	last  products.Query
	calls int
}

func (m *productsMock) List(_ context.Context, q products.Query) (*products.Result, error) {
	m.calls++
	m.last = q
	if m.err != nil {
		return nil, m.err
	}
	return m.res, nil
}

type cartsMock struct {
	carts     map[uint]*models.Cart
	findErr   error
	finds     []uint
	toggle    *cart.ToggleResult
	toggleErr error
	toggled   [2]uint

	added     *models.Cart
	addErr    error
	addCartID uint
	addItem   models.CartItem
	removed   *models.Cart
	removeErr error
	removeIDs []uint
}

func (m *cartsMock) FindByID(_ context.Context, id uint) (*models.Cart, error) {
	m.finds = append(m.finds, id)
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.carts[id], nil
}

func (m *cartsMock) AddItem(_ context.Context, cartID uint, item models.CartItem) (*models.Cart, error) {
	m.addCartID, m.addItem = cartID, item
	return m.added, m.addErr
}

func (m *cartsMock) RemoveItems(_ context.Context, cartID uint, productIDs ...uint) (*models.Cart, error) {
	m.removeIDs = append([]uint{cartID}, productIDs...)
	return m.removed, m.removeErr
}

func (m *cartsMock) ToggleBoardPart(_ context.Context, cartID, productID uint) (*cart.ToggleResult, error) {
	m.toggled = [2]uint{cartID, productID}
	return m.toggle, m.toggleErr
}

func newTestRouter(t *testing.T, p ProductLister, c CartStore) *gin.Engine {
	t.Helper()
	r, err := NewRouter(Options{Products: p, Carts: c, SessionSecret: "test-secret"})
	require.NoError(t, err)
	return r
}

func deckResult() *products.Result {
	return &products.Result{
		Items: []models.Product{
			{Base: models.Base{ID: 1}, Name: "Street Deck", Subcategory: "decks", PriceCents: 5999, Inventory: 3},
			{Base: models.Base{ID: 2}, Name: "Pool Deck", Subcategory: "decks", PriceCents: 6499, Inventory: 0},
			{Base: models.Base{ID: 3}, Name: "Cruiser Deck", Subcategory: "decks", PriceCents: 7099, Inventory: 1},
		},
		Total: 17,
	}
}

func TestBuildABoard_Defaults(t *testing.T) {
	pm := &productsMock{res: deckResult()}
	cm := &cartsMock{}
	r := newTestRouter(t, pm, cm)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/build-a-board", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, products.Query{Limit: 8, Offset: 0, Subcategories: "decks"}, pm.last)
	assert.Empty(t, cm.finds, "no cookie means no cart lookup")

	body := w.Body.String()
	assert.Contains(t, body, "<h1>Build a Board</h1>")
	assert.Contains(t, body, "Select the components for your board")
	assert.Contains(t, body, `href="/build-a-board?subcategory=wheels"`)
	assert.Contains(t, body, `class="tab tab-active">Decks</a>`)
	assert.Contains(t, body, "Street Deck")
	assert.Contains(t, body, "$59.99")
	assert.Contains(t, body, "Out of stock")
	assert.NotContains(t, body, "btn-remove")
	// 17 products, 8 per page
	assert.Contains(t, body, `href="/build-a-board?page=3&amp;subcategory=decks"`)
	assert.NotContains(t, body, "page=4")
}

func TestBuildABoard_QueryParams(t *testing.T) {
	pm := &productsMock{res: &products.Result{Items: []models.Product{}, Total: 0}}
	r := newTestRouter(t, pm, &cartsMock{})

	q := url.Values{
		"page":        {"2"},
		"per_page":    {"4"},
		"sort":        {"price.desc"},
		"subcategory": {"wheels"},
		"price_range": {"20-60"},
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/build-a-board?"+q.Encode(), nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, products.Query{Limit: 4, Offset: 4, Sort: "price.desc", Subcategories: "wheels", PriceRange: "20-60"}, pm.last)
	assert.Contains(t, w.Body.String(), "No products found")
	assert.Contains(t, w.Body.String(), `<option value="price.desc" selected>`)
	assert.Contains(t, w.Body.String(), `class="tab tab-active">Wheels</a>`)
}

func TestBuildABoard_CartProductIDs(t *testing.T) {
	pm := &productsMock{res: deckResult()}
	cm := &cartsMock{carts: map[uint]*models.Cart{
		5: {Base: models.Base{ID: 5}, Items: []models.CartItem{{ProductID: 3, Quantity: 1}, {ProductID: 40, Quantity: 2}}},
	}}
	r := newTestRouter(t, pm, cm)

	req := httptest.NewRequest(http.MethodGet, "/build-a-board", nil)
	req.AddCookie(&http.Cookie{Name: cart.CookieName, Value: "5"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{5}, cm.finds)
	body := w.Body.String()
	assert.Contains(t, body, `product-card in-cart" data-product-id="3"`)
	assert.Contains(t, body, "btn-remove")
	assert.Contains(t, body, "Cart (3)")
}

func TestBuildABoard_InvalidCookieSkipsLookup(t *testing.T) {
	cm := &cartsMock{}
	r := newTestRouter(t, &productsMock{res: deckResult()}, cm)

	req := httptest.NewRequest(http.MethodGet, "/build-a-board", nil)
	req.AddCookie(&http.Cookie{Name: cart.CookieName, Value: "NaN"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, cm.finds)
	assert.Contains(t, w.Body.String(), "Cart (0)")
}

func TestBuildABoard_Errors(t *testing.T) {
	t.Run("products", func(t *testing.T) {
		r := newTestRouter(t, &productsMock{err: errors.New("db down")}, &cartsMock{})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/build-a-board", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Something went wrong")
		assert.NotContains(t, w.Body.String(), "db down")
	})

	t.Run("cart", func(t *testing.T) {
		r := newTestRouter(t, &productsMock{res: deckResult()}, &cartsMock{findErr: errors.New("timeout")})
		req := httptest.NewRequest(http.MethodGet, "/build-a-board", nil)
		req.AddCookie(&http.Cookie{Name: cart.CookieName, Value: "9"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func postToggle(r http.Handler, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/build-a-board/toggle", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func findCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestToggleBoardPart_NewCartSetsCookie(t *testing.T) {
	cm := &cartsMock{toggle: &cart.ToggleResult{
		Cart:    &models.Cart{Base: models.Base{ID: 11}},
		Product: models.Product{Base: models.Base{ID: 3}, Name: "Cruiser Deck", Subcategory: "decks"},
		Added:   true,
	}}
	r := newTestRouter(t, &productsMock{res: deckResult()}, cm)

	w := postToggle(r, url.Values{"product_id": {"3"}, "return_to": {"/build-a-board?subcategory=decks&page=2"}})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/build-a-board?subcategory=decks&page=2", w.Header().Get("Location"))
	assert.Equal(t, [2]uint{0, 3}, cm.toggled)

	c := findCookie(w, cart.CookieName)
	require.NotNil(t, c)
	assert.Equal(t, "11", c.Value)
	assert.True(t, c.HttpOnly)
	assert.NotNil(t, findCookie(w, sessionName), "flash is stored in the session")
}

func TestToggleBoardPart_ExistingCartKeepsCookie(t *testing.T) {
	cm := &cartsMock{toggle: &cart.ToggleResult{
		Cart:    &models.Cart{Base: models.Base{ID: 4}},
		Product: models.Product{Base: models.Base{ID: 1}, Name: "Street Deck", Subcategory: "decks"},
	}}
	r := newTestRouter(t, &productsMock{res: deckResult()}, cm)

	w := postToggle(r, url.Values{"product_id": {"1"}, "return_to": {"https://evil.example/"}},
		&http.Cookie{Name: cart.CookieName, Value: "4"})

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/build-a-board?subcategory=decks", w.Header().Get("Location"))
	assert.Equal(t, [2]uint{4, 1}, cm.toggled)
	assert.Nil(t, findCookie(w, cart.CookieName))
}

func TestToggleBoardPart_Errors(t *testing.T) {
	tests := []struct {
		name     string
		form     url.Values
		err      error
		wantCode int
	}{
		{"missing product", url.Values{}, nil, http.StatusBadRequest},
		{"bad product", url.Values{"product_id": {"deck"}}, nil, http.StatusBadRequest},
		{"unknown product", url.Values{"product_id": {"77"}}, cart.ErrProductNotFound, http.StatusNotFound},
		{"out of stock", url.Values{"product_id": {"2"}}, cart.ErrOutOfStock, http.StatusSeeOther},
		{"storage", url.Values{"product_id": {"2"}}, errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(t, &productsMock{res: deckResult()}, &cartsMock{toggleErr: tt.err})
			w := postToggle(r, tt.form)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestFlashShownOnce(t *testing.T) {
	cm := &cartsMock{toggle: &cart.ToggleResult{
		Cart:    &models.Cart{Base: models.Base{ID: 2}},
		Product: models.Product{Base: models.Base{ID: 1}, Name: "Street Deck", Subcategory: "decks"},
		Added:   true,
	}}
	r := newTestRouter(t, &productsMock{res: deckResult()}, cm)

	w := postToggle(r, url.Values{"product_id": {"1"}})
	sess := findCookie(w, sessionName)
	require.NotNil(t, sess)

	req := httptest.NewRequest(http.MethodGet, "/build-a-board", nil)
	req.AddCookie(sess)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Contains(t, w.Body.String(), "Added Street Deck to your board")

	next := findCookie(w, sessionName)
	require.NotNil(t, next)
	req = httptest.NewRequest(http.MethodGet, "/build-a-board", nil)
	req.AddCookie(next)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotContains(t, w.Body.String(), "Added Street Deck")
}

func TestAPIProducts(t *testing.T) {
	pm := &productsMock{res: deckResult()}
	r := newTestRouter(t, pm, &cartsMock{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products?per_page=5&subcategory=decks", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items     []models.Product `json:"items"`
		Total     int64            `json:"total"`
		PageCount int              `json:"pageCount"`
	}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Len(t, body.Items, 3)
	assert.Equal(t, int64(17), body.Total)
	assert.Equal(t, 4, body.PageCount)
}

func TestAPICart(t *testing.T) {
	cm := &cartsMock{carts: map[uint]*models.Cart{
		8: {Base: models.Base{ID: 8}, Items: []models.CartItem{{ProductID: 2, Quantity: 1}}},
	}}
	r := newTestRouter(t, &productsMock{res: deckResult()}, cm)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	assert.JSONEq(t, `{"cartProductIds":[],"count":0}`, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	req.AddCookie(&http.Cookie{Name: cart.CookieName, Value: "8"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.JSONEq(t, `{"cartId":8,"cartProductIds":[2],"count":1}`, w.Body.String())
}

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	r, err := NewRouter(Options{
		Products: &productsMock{}, Carts: &cartsMock{}, SessionSecret: "s",
		Checks: map[string]HealthCheck{"db": ok},
	})
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	r, err = NewRouter(Options{
		Products: &productsMock{}, Carts: &cartsMock{}, SessionSecret: "s",
		Checks: map[string]HealthCheck{"db": ok, "cache": down},
	})
	require.NoError(t, err)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.JSONEq(t, `{"ok":false,"cache":"connection refused"}`, w.Body.String())
}

func TestRequestIDHeader(t *testing.T) {
	r := newTestRouter(t, &productsMock{res: deckResult()}, &cartsMock{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestNewRouter_Validation(t *testing.T) {
	_, err := NewRouter(Options{})
	assert.Error(t, err)

	_, err = NewRouter(Options{Products: &productsMock{}, Carts: &cartsMock{}})
	assert.ErrorContains(t, err, "session secret")
}
