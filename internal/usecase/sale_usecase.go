package usecase

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"systore/internal/domain"
)

// SaleUseCase owns the sale-history snapshot used by the aggregation
// views. Like the catalog it is replaced wholesale on refresh.
type SaleUseCase interface {
	Refresh() error
	Snapshot() []domain.Sale
	ListSales() ([]domain.Sale, error)
	CreateSale(req *domain.CreateSaleRequest) (int, error)
}

type saleUseCase struct {
	store domain.SaleStore
	log   *logrus.Logger

	mu       sync.RWMutex
	snapshot []domain.Sale
}

func NewSaleUseCase(store domain.SaleStore, logger *logrus.Logger) SaleUseCase {
	return &saleUseCase{
		store: store,
		log:   logger,
	}
}

func (uc *saleUseCase) Refresh() error {
	sales, err := uc.store.ListSales()
	if err != nil {
		uc.log.Errorf("Sales: failed to refresh snapshot: %v", err)
		return err
	}

	uc.mu.Lock()
	uc.snapshot = sales
	uc.mu.Unlock()

	uc.log.Infof("Sales: snapshot refreshed with %d sales", len(sales))
	return nil
}

func (uc *saleUseCase) Snapshot() []domain.Sale {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	out := make([]domain.Sale, len(uc.snapshot))
	copy(out, uc.snapshot)
	return out
}

// ListSales fetches fresh from the store and updates the snapshot.
func (uc *saleUseCase) ListSales() ([]domain.Sale, error) {
	if err := uc.Refresh(); err != nil {
		return nil, err
	}
	return uc.Snapshot(), nil
}

// CreateSale passes a remote terminal's commit through to the store.
// The store performs all stock arbitration; see domain.SaleStore.
func (uc *saleUseCase) CreateSale(req *domain.CreateSaleRequest) (int, error) {
	if len(req.Items) == 0 {
		return 0, errors.New("sale must contain at least one item")
	}
	for i, item := range req.Items {
		if item.ProductID <= 0 {
			return 0, fmt.Errorf("item %d: invalid product ID", i)
		}
		if item.Quantity <= 0 {
			return 0, fmt.Errorf("item %d (product %d): quantity must be positive", i, item.ProductID)
		}
		if item.UnitPrice < 0 {
			return 0, fmt.Errorf("item %d (product %d): price cannot be negative", i, item.ProductID)
		}
	}

	saleID, err := uc.store.CreateSale(req)
	if err != nil {
		uc.log.Errorf("Use Case: Store failed to create sale: %v", err)
		return 0, err
	}

	if err := uc.Refresh(); err != nil {
		uc.log.Warnf("Use Case: Sales refresh failed after creating sale %d: %v", saleID, err)
	}
	uc.log.Infof("Use Case: Sale %d created (%d items, total %.2f)", saleID, len(req.Items), req.Total)
	return saleID, nil
}
