package usecase

import (
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"systore/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeProductStore struct {
	mu       sync.Mutex
	products []domain.Product
	listErr  error
	listed   int
}

func (f *fakeProductStore) ListProducts() ([]domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]domain.Product, len(f.products))
	copy(out, f.products)
	return out, nil
}

func (f *fakeProductStore) GetProductByID(id int) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == id {
			found := p
			return &found, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (f *fakeProductStore) CreateProduct(p *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = len(f.products) + 1
	f.products = append(f.products, *p)
	return p, nil
}

func (f *fakeProductStore) UpdateProduct(p *domain.Product) (*domain.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == p.ID {
			f.products[i] = *p
			return p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (f *fakeProductStore) DeleteProduct(id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.products {
		if f.products[i].ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return domain.ErrProductNotFound
}

// applySale mimics the store-side stock decrement that happens when a
// sale is committed.
func (f *fakeProductStore) applySale(req *domain.CreateSaleRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range req.Items {
		for i := range f.products {
			if f.products[i].ID == item.ProductID {
				f.products[i].Stock -= item.Quantity
			}
		}
	}
}

type fakeSaleStore struct {
	mu        sync.Mutex
	sales     []domain.Sale
	createErr error
	created   []*domain.CreateSaleRequest
	products  *fakeProductStore
}

func (f *fakeSaleStore) CreateSale(req *domain.CreateSaleRequest) (int, error) {
	f.mu.Lock()
	if f.createErr != nil {
		f.mu.Unlock()
		return 0, f.createErr
	}
	f.created = append(f.created, req)
	id := len(f.sales) + 1
	f.sales = append(f.sales, domain.Sale{
		ID:       id,
		Items:    req.Items,
		Subtotal: req.Subtotal,
		Tax:      req.Tax,
		Total:    req.Total,
	})
	f.mu.Unlock()

	if f.products != nil {
		f.products.applySale(req)
	}
	return id, nil
}

func (f *fakeSaleStore) ListSales() ([]domain.Sale, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Sale, len(f.sales))
	copy(out, f.sales)
	return out, nil
}

func (f *fakeSaleStore) createCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.created)
}

var errStoreDown = errors.New("store unavailable")
