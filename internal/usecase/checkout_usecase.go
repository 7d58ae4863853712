package usecase

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"systore/internal/domain"
	"systore/internal/metrics"
)

// confirmationTTL is how long the committed-sale confirmation stays
// visible before it self-clears.
const confirmationTTL = 3 * time.Second

type Confirmation struct {
	SaleID int     `json:"sale_id"`
	Total  float64 `json:"total"`
}

type CartView struct {
	SessionID    string            `json:"session_id"`
	Lines        []domain.CartLine `json:"lines"`
	Totals       domain.Totals     `json:"totals"`
	Confirmation *Confirmation     `json:"confirmation,omitempty"`
}

type CheckoutResult struct {
	Committed bool          `json:"committed"`
	SaleID    int           `json:"sale_id,omitempty"`
	Totals    domain.Totals `json:"totals"`
}

// CheckoutUseCase owns the operator cart sessions and the sale commit
// protocol. Each session serializes its own mutations; a commit holds
// the session lock end to end, so no cart edit interleaves with an
// in-flight commit.
type CheckoutUseCase interface {
	StartSession() string
	Cart(sessionID string) (*CartView, error)
	AddToCart(sessionID string, productID int) (*CartView, error)
	IncreaseQuantity(sessionID string, productID int) (*CartView, error)
	DecreaseQuantity(sessionID string, productID int) (*CartView, error)
	RemoveFromCart(sessionID string, productID int) (*CartView, error)
	Cancel(sessionID string) (*CartView, error)
	Checkout(sessionID string) (*CheckoutResult, error)
}

type cartSession struct {
	mu             sync.Mutex
	cart           *domain.Cart
	lastSale       Confirmation
	confirmedUntil time.Time
}

type checkoutUseCase struct {
	catalog CatalogUseCase
	sales   SaleUseCase
	store   domain.SaleStore
	metrics *metrics.POSMetrics
	log     *logrus.Logger

	mu       sync.RWMutex
	sessions map[string]*cartSession

	now func() time.Time
}

func NewCheckoutUseCase(catalog CatalogUseCase, sales SaleUseCase, store domain.SaleStore, posMetrics *metrics.POSMetrics, logger *logrus.Logger) CheckoutUseCase {
	return &checkoutUseCase{
		catalog:  catalog,
		sales:    sales,
		store:    store,
		metrics:  posMetrics,
		log:      logger,
		sessions: make(map[string]*cartSession),
		now:      time.Now,
	}
}

func (uc *checkoutUseCase) StartSession() string {
	id := uuid.NewString()

	uc.mu.Lock()
	uc.sessions[id] = &cartSession{cart: domain.NewCart()}
	uc.mu.Unlock()

	uc.log.Infof("Use Case: Started cart session %s", id)
	return id
}

func (uc *checkoutUseCase) session(sessionID string) (*cartSession, error) {
	uc.mu.RLock()
	s, ok := uc.sessions[sessionID]
	uc.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrSessionNotFound)
	}
	return s, nil
}

func (uc *checkoutUseCase) view(sessionID string, s *cartSession) *CartView {
	view := &CartView{
		SessionID: sessionID,
		Lines:     s.cart.Lines(),
		Totals:    s.cart.Totals(),
	}
	if uc.now().Before(s.confirmedUntil) {
		confirmation := s.lastSale
		view.Confirmation = &confirmation
	}
	return view
}

func (uc *checkoutUseCase) Cart(sessionID string) (*CartView, error) {
	s, err := uc.session(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return uc.view(sessionID, s), nil
}

func (uc *checkoutUseCase) AddToCart(sessionID string, productID int) (*CartView, error) {
	s, err := uc.session(sessionID)
	if err != nil {
		return nil, err
	}

	product, ok := uc.catalog.FromSnapshot(productID)
	if !ok {
		uc.log.Warnf("Use Case: Product %d not in catalog snapshot for session %s", productID, sessionID)
		return nil, fmt.Errorf("product with id %d: %w", productID, domain.ErrProductNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.cart.Len()
	s.cart.Add(product)
	if s.cart.Len() == before && product.Stock <= 0 {
		uc.log.Warnf("Use Case: Ignored add of zero-stock product %d to session %s", productID, sessionID)
	}
	return uc.view(sessionID, s), nil
}

func (uc *checkoutUseCase) IncreaseQuantity(sessionID string, productID int) (*CartView, error) {
	s, err := uc.session(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Increase(productID)
	return uc.view(sessionID, s), nil
}

func (uc *checkoutUseCase) DecreaseQuantity(sessionID string, productID int) (*CartView, error) {
	s, err := uc.session(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Decrease(productID)
	return uc.view(sessionID, s), nil
}

func (uc *checkoutUseCase) RemoveFromCart(sessionID string, productID int) (*CartView, error) {
	s, err := uc.session(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Remove(productID)
	return uc.view(sessionID, s), nil
}

// Cancel empties the cart without touching the store.
func (uc *checkoutUseCase) Cancel(sessionID string) (*CartView, error) {
	s, err := uc.session(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
	uc.log.Infof("Use Case: Cancelled cart for session %s", sessionID)
	return uc.view(sessionID, s), nil
}

// Checkout turns the cart into a durable sale. The store is the sole
// stock arbiter: totals are computed fresh, the payload is a copy of
// the cart, and local stock is never decremented. On failure the cart
// is left exactly as it was; the operator must re-trigger the commit.
func (uc *checkoutUseCase) Checkout(sessionID string) (*CheckoutResult, error) {
	s, err := uc.session(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart.Empty() {
		uc.log.Warnf("Use Case: Checkout requested for empty cart in session %s", sessionID)
		return &CheckoutResult{Committed: false}, nil
	}

	totals := s.cart.Totals()
	req := &domain.CreateSaleRequest{
		Items:    s.cart.Items(),
		Subtotal: totals.Subtotal,
		Tax:      totals.Tax,
		Total:    totals.Total,
	}

	saleID, err := uc.store.CreateSale(req)
	if err != nil {
		uc.log.Errorf("Use Case: Sale commit failed for session %s: %v", sessionID, err)
		if uc.metrics != nil {
			uc.metrics.SaleFailed()
		}
		return nil, fmt.Errorf("sale commit failed: %w", err)
	}

	s.cart.Clear()
	s.lastSale = Confirmation{SaleID: saleID, Total: totals.Total}
	s.confirmedUntil = uc.now().Add(confirmationTTL)

	// The cart does not trust its own stale cache: refresh both
	// snapshots wholesale. The sale is already durable, so a refresh
	// failure is logged and not treated as a commit failure.
	if err := uc.catalog.Refresh(); err != nil {
		uc.log.Warnf("Use Case: Catalog refresh failed after sale %d: %v", saleID, err)
	}
	if err := uc.sales.Refresh(); err != nil {
		uc.log.Warnf("Use Case: Sales refresh failed after sale %d: %v", saleID, err)
	}

	if uc.metrics != nil {
		uc.metrics.SaleCommitted(totals.Total)
	}
	uc.log.Infof("Use Case: Sale %d committed for session %s (total %.2f)", saleID, sessionID, totals.Total)
	return &CheckoutResult{Committed: true, SaleID: saleID, Totals: totals}, nil
}
