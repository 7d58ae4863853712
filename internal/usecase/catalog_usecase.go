package usecase

import (
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"systore/internal/domain"
)

// CatalogUseCase owns the catalog snapshot: the last fetched full
// product list, replaced wholesale on refresh and never mutated in
// place. The cart engine reads stock ceilings from this snapshot, not
// from the live store.
type CatalogUseCase interface {
	Refresh() error
	Snapshot() []domain.Product
	FromSnapshot(id int) (domain.Product, bool)
	Search(query string) []domain.Product

	CreateProduct(product *domain.Product) (*domain.Product, error)
	GetProductByID(id int) (*domain.Product, error)
	UpdateProduct(product *domain.Product) (*domain.Product, error)
	DeleteProduct(id int) error
}

type catalogUseCase struct {
	store domain.ProductStore
	log   *logrus.Logger

	mu       sync.RWMutex
	snapshot []domain.Product
}

func NewCatalogUseCase(store domain.ProductStore, logger *logrus.Logger) CatalogUseCase {
	return &catalogUseCase{
		store: store,
		log:   logger,
	}
}

func (uc *catalogUseCase) Refresh() error {
	products, err := uc.store.ListProducts()
	if err != nil {
		uc.log.Errorf("Catalog: failed to refresh snapshot: %v", err)
		return err
	}

	uc.mu.Lock()
	uc.snapshot = products
	uc.mu.Unlock()

	uc.log.Infof("Catalog: snapshot refreshed with %d products", len(products))
	return nil
}

func (uc *catalogUseCase) Snapshot() []domain.Product {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	out := make([]domain.Product, len(uc.snapshot))
	copy(out, uc.snapshot)
	return out
}

func (uc *catalogUseCase) FromSnapshot(id int) (domain.Product, bool) {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	for _, product := range uc.snapshot {
		if product.ID == id {
			return product, true
		}
	}
	return domain.Product{}, false
}

// Search filters the snapshot by case-insensitive substring over name
// and category.
func (uc *catalogUseCase) Search(query string) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return uc.Snapshot()
	}

	uc.mu.RLock()
	defer uc.mu.RUnlock()

	matched := []domain.Product{}
	for _, product := range uc.snapshot {
		if strings.Contains(strings.ToLower(product.Name), query) ||
			strings.Contains(strings.ToLower(product.Category), query) {
			matched = append(matched, product)
		}
	}
	return matched
}

func validateProduct(product *domain.Product) error {
	if product.Name == "" {
		return errors.New("product name cannot be empty")
	}
	if product.Price < 0 {
		return errors.New("product price cannot be negative")
	}
	if product.Stock < 0 {
		return errors.New("product stock cannot be negative")
	}
	return nil
}

func (uc *catalogUseCase) CreateProduct(product *domain.Product) (*domain.Product, error) {
	if err := validateProduct(product); err != nil {
		uc.log.Warnf("Use Case: Rejected product create '%s': %v", product.Name, err)
		return nil, err
	}

	created, err := uc.store.CreateProduct(product)
	if err != nil {
		uc.log.Errorf("Use Case: Store failed to create product '%s': %v", product.Name, err)
		return nil, err
	}

	if err := uc.Refresh(); err != nil {
		uc.log.Warnf("Use Case: Catalog refresh failed after creating product %d: %v", created.ID, err)
	}
	return created, nil
}

func (uc *catalogUseCase) GetProductByID(id int) (*domain.Product, error) {
	if id <= 0 {
		return nil, errors.New("invalid product ID")
	}
	return uc.store.GetProductByID(id)
}

func (uc *catalogUseCase) UpdateProduct(product *domain.Product) (*domain.Product, error) {
	if product.ID <= 0 {
		return nil, errors.New("invalid product ID")
	}
	if err := validateProduct(product); err != nil {
		uc.log.Warnf("Use Case: Rejected product update %d: %v", product.ID, err)
		return nil, err
	}

	updated, err := uc.store.UpdateProduct(product)
	if err != nil {
		uc.log.Errorf("Use Case: Store failed to update product %d: %v", product.ID, err)
		return nil, err
	}

	if err := uc.Refresh(); err != nil {
		uc.log.Warnf("Use Case: Catalog refresh failed after updating product %d: %v", product.ID, err)
	}
	return updated, nil
}

func (uc *catalogUseCase) DeleteProduct(id int) error {
	if id <= 0 {
		return errors.New("invalid product ID")
	}

	if err := uc.store.DeleteProduct(id); err != nil {
		uc.log.Errorf("Use Case: Store failed to delete product %d: %v", id, err)
		return err
	}

	if err := uc.Refresh(); err != nil {
		uc.log.Warnf("Use Case: Catalog refresh failed after deleting product %d: %v", id, err)
	}
	return nil
}
