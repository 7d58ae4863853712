package delivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"systore/internal/domain"
	"systore/internal/usecase"
)

// stubCheckout drives the handler without a real store behind it.
type stubCheckout struct {
	sessionID string
	cart      *domain.Cart
	catalog   map[int]domain.Product
	commitErr error
}

func newStubCheckout() *stubCheckout {
	return &stubCheckout{
		sessionID: "session-1",
		cart:      domain.NewCart(),
		catalog: map[int]domain.Product{
			1: {ID: 1, Name: "Laptop", Price: 100, Stock: 3},
		},
	}
}

func (s *stubCheckout) view() *usecase.CartView {
	return &usecase.CartView{
		SessionID: s.sessionID,
		Lines:     s.cart.Lines(),
		Totals:    s.cart.Totals(),
	}
}

func (s *stubCheckout) check(sessionID string) error {
	if sessionID != s.sessionID {
		return fmt.Errorf("session %s: %w", sessionID, domain.ErrSessionNotFound)
	}
	return nil
}

func (s *stubCheckout) StartSession() string { return s.sessionID }

func (s *stubCheckout) Cart(sessionID string) (*usecase.CartView, error) {
	if err := s.check(sessionID); err != nil {
		return nil, err
	}
	return s.view(), nil
}

func (s *stubCheckout) AddToCart(sessionID string, productID int) (*usecase.CartView, error) {
	if err := s.check(sessionID); err != nil {
		return nil, err
	}
	product, ok := s.catalog[productID]
	if !ok {
		return nil, fmt.Errorf("product with id %d: %w", productID, domain.ErrProductNotFound)
	}
	s.cart.Add(product)
	return s.view(), nil
}

func (s *stubCheckout) IncreaseQuantity(sessionID string, productID int) (*usecase.CartView, error) {
	if err := s.check(sessionID); err != nil {
		return nil, err
	}
	s.cart.Increase(productID)
	return s.view(), nil
}

func (s *stubCheckout) DecreaseQuantity(sessionID string, productID int) (*usecase.CartView, error) {
	if err := s.check(sessionID); err != nil {
		return nil, err
	}
	s.cart.Decrease(productID)
	return s.view(), nil
}

func (s *stubCheckout) RemoveFromCart(sessionID string, productID int) (*usecase.CartView, error) {
	if err := s.check(sessionID); err != nil {
		return nil, err
	}
	s.cart.Remove(productID)
	return s.view(), nil
}

func (s *stubCheckout) Cancel(sessionID string) (*usecase.CartView, error) {
	if err := s.check(sessionID); err != nil {
		return nil, err
	}
	s.cart.Clear()
	return s.view(), nil
}

func (s *stubCheckout) Checkout(sessionID string) (*usecase.CheckoutResult, error) {
	if err := s.check(sessionID); err != nil {
		return nil, err
	}
	if s.commitErr != nil {
		return nil, s.commitErr
	}
	if s.cart.Empty() {
		return &usecase.CheckoutResult{Committed: false}, nil
	}
	totals := s.cart.Totals()
	s.cart.Clear()
	return &usecase.CheckoutResult{Committed: true, SaleID: 1, Totals: totals}, nil
}

func setupCartRouter(stub *stubCheckout) *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	NewCartHandler(stub, logger).RegisterRoutes(router)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestCartHandlerAddAndGet(t *testing.T) {
	stub := newStubCheckout()
	router := setupCartRouter(stub)

	recorder := doJSON(t, router, http.MethodPost, "/cart/sessions/session-1/items", gin.H{"product_id": 1})
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = doJSON(t, router, http.MethodGet, "/cart/sessions/session-1", nil)
	require.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		Data usecase.CartView `json:"Data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Lines, 1)
	assert.Equal(t, 1, resp.Data.Lines[0].Quantity)
	assert.InDelta(t, 119.0, resp.Data.Totals.Total, 1e-9)
}

func TestCartHandlerUnknownSession(t *testing.T) {
	router := setupCartRouter(newStubCheckout())

	recorder := doJSON(t, router, http.MethodGet, "/cart/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCartHandlerAddUnknownProduct(t *testing.T) {
	router := setupCartRouter(newStubCheckout())

	recorder := doJSON(t, router, http.MethodPost, "/cart/sessions/session-1/items", gin.H{"product_id": 99})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestCartHandlerCheckoutEmptyCart(t *testing.T) {
	router := setupCartRouter(newStubCheckout())

	recorder := doJSON(t, router, http.MethodPost, "/cart/sessions/session-1/checkout", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestCartHandlerCheckoutSuccess(t *testing.T) {
	stub := newStubCheckout()
	router := setupCartRouter(stub)

	doJSON(t, router, http.MethodPost, "/cart/sessions/session-1/items", gin.H{"product_id": 1})
	recorder := doJSON(t, router, http.MethodPost, "/cart/sessions/session-1/checkout", nil)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var resp struct {
		Data usecase.CheckoutResult `json:"Data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Committed)
	assert.Equal(t, 1, resp.Data.SaleID)
}

func TestCartHandlerCheckoutConflict(t *testing.T) {
	stub := newStubCheckout()
	stub.commitErr = fmt.Errorf("sale commit failed: %w", domain.ErrInsufficientStock)
	router := setupCartRouter(stub)

	doJSON(t, router, http.MethodPost, "/cart/sessions/session-1/items", gin.H{"product_id": 1})
	recorder := doJSON(t, router, http.MethodPost, "/cart/sessions/session-1/checkout", nil)
	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestCartHandlerInvalidProductIDParam(t *testing.T) {
	router := setupCartRouter(newStubCheckout())

	recorder := doJSON(t, router, http.MethodPost, "/cart/sessions/session-1/items/abc/increase", nil)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
