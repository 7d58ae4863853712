package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"systore/internal/domain"
)

const (
	productsKey = "systore:products"
	salesKey    = "systore:sales"
	reportsKey  = "systore:reports"
)

// RedisSnapshotStore is the non-durable fallback used when no backing
// database is available. Catalog and sale history live in redis as
// opaque JSON blobs, mirroring the legacy local-storage variant: no
// structural guarantees beyond the cart invariants, single-terminal
// semantics, read-modify-write without cross-client locking.
type RedisSnapshotStore struct {
	client *redis.Client
	log    *logrus.Logger
}

func NewRedisSnapshotStore(client *redis.Client, logger *logrus.Logger) *RedisSnapshotStore {
	return &RedisSnapshotStore{
		client: client,
		log:    logger,
	}
}

// Ping verifies the redis connection at startup.
func (s *RedisSnapshotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func loadBlob[T any](s *RedisSnapshotStore, key string) ([]T, error) {
	raw, err := s.client.Get(context.Background(), key).Bytes()
	if err == redis.Nil {
		return []T{}, nil
	}
	if err != nil {
		s.log.Errorf("Failed to load snapshot blob %s: %v", key, err)
		return nil, fmt.Errorf("could not load snapshot %s: %w", key, err)
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		s.log.Errorf("Failed to decode snapshot blob %s: %v", key, err)
		return nil, fmt.Errorf("could not decode snapshot %s: %w", key, err)
	}
	return items, nil
}

func saveBlob[T any](s *RedisSnapshotStore, key string, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("could not encode snapshot %s: %w", key, err)
	}
	if err := s.client.Set(context.Background(), key, raw, 0).Err(); err != nil {
		s.log.Errorf("Failed to save snapshot blob %s: %v", key, err)
		return fmt.Errorf("could not save snapshot %s: %w", key, err)
	}
	return nil
}

func nextID[T any](items []T, idOf func(T) int) int {
	max := 0
	for _, item := range items {
		if id := idOf(item); id > max {
			max = id
		}
	}
	return max + 1
}

func (s *RedisSnapshotStore) CreateProduct(product *domain.Product) (*domain.Product, error) {
	products, err := loadBlob[domain.Product](s, productsKey)
	if err != nil {
		return nil, err
	}
	product.ID = nextID(products, func(p domain.Product) int { return p.ID })
	product.CreatedAt = time.Now().UTC()
	products = append(products, *product)
	if err := saveBlob(s, productsKey, products); err != nil {
		return nil, err
	}
	s.log.Infof("Snapshot store: product created with ID %d", product.ID)
	return product, nil
}

func (s *RedisSnapshotStore) GetProductByID(id int) (*domain.Product, error) {
	products, err := loadBlob[domain.Product](s, productsKey)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}
	return nil, fmt.Errorf("product with id %d: %w", id, domain.ErrProductNotFound)
}

func (s *RedisSnapshotStore) UpdateProduct(product *domain.Product) (*domain.Product, error) {
	products, err := loadBlob[domain.Product](s, productsKey)
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == product.ID {
			product.CreatedAt = products[i].CreatedAt
			products[i] = *product
			if err := saveBlob(s, productsKey, products); err != nil {
				return nil, err
			}
			return product, nil
		}
	}
	return nil, fmt.Errorf("product with id %d: %w", product.ID, domain.ErrProductNotFound)
}

func (s *RedisSnapshotStore) DeleteProduct(id int) error {
	products, err := loadBlob[domain.Product](s, productsKey)
	if err != nil {
		return err
	}
	for i := range products {
		if products[i].ID == id {
			products = append(products[:i], products[i+1:]...)
			return saveBlob(s, productsKey, products)
		}
	}
	return fmt.Errorf("product with id %d: %w", id, domain.ErrProductNotFound)
}

func (s *RedisSnapshotStore) ListProducts() ([]domain.Product, error) {
	return loadBlob[domain.Product](s, productsKey)
}

// CreateSale applies the same stock arbitration as the database store:
// every item is validated against current stock before anything is
// written, then the sale is appended and stock decremented.
func (s *RedisSnapshotStore) CreateSale(req *domain.CreateSaleRequest) (int, error) {
	products, err := loadBlob[domain.Product](s, productsKey)
	if err != nil {
		return 0, err
	}
	byID := make(map[int]int, len(products))
	for i := range products {
		byID[products[i].ID] = i
	}

	for _, item := range req.Items {
		i, ok := byID[item.ProductID]
		if !ok {
			s.log.Warnf("Snapshot store: sale rejected, product %d not found", item.ProductID)
			return 0, fmt.Errorf("product with id %d: %w", item.ProductID, domain.ErrProductNotFound)
		}
		if products[i].Stock < item.Quantity {
			s.log.Warnf("Snapshot store: sale rejected, product %d has stock %d, requested %d",
				item.ProductID, products[i].Stock, item.Quantity)
			return 0, fmt.Errorf("product %d (available %d, requested %d): %w",
				item.ProductID, products[i].Stock, item.Quantity, domain.ErrInsufficientStock)
		}
	}

	sales, err := loadBlob[domain.Sale](s, salesKey)
	if err != nil {
		return 0, err
	}
	sale := domain.Sale{
		ID:        nextID(sales, func(s domain.Sale) int { return s.ID }),
		Items:     req.Items,
		Subtotal:  req.Subtotal,
		Tax:       req.Tax,
		Total:     req.Total,
		CreatedAt: time.Now().UTC(),
	}
	for _, item := range req.Items {
		products[byID[item.ProductID]].Stock -= item.Quantity
	}
	sales = append(sales, sale)

	if err := saveBlob(s, productsKey, products); err != nil {
		return 0, err
	}
	if err := saveBlob(s, salesKey, sales); err != nil {
		return 0, err
	}
	s.log.Infof("Snapshot store: sale created with ID %d (%d items, total %.2f)", sale.ID, len(sale.Items), sale.Total)
	return sale.ID, nil
}

func (s *RedisSnapshotStore) ListSales() ([]domain.Sale, error) {
	sales, err := loadBlob[domain.Sale](s, salesKey)
	if err != nil {
		return nil, err
	}
	// Newest first, like the database store.
	for i, j := 0, len(sales)-1; i < j; i, j = i+1, j-1 {
		sales[i], sales[j] = sales[j], sales[i]
	}
	return sales, nil
}

func (s *RedisSnapshotStore) CreateReport(report *domain.Report) (*domain.Report, error) {
	reports, err := loadBlob[domain.Report](s, reportsKey)
	if err != nil {
		return nil, err
	}
	report.ID = nextID(reports, func(r domain.Report) int { return r.ID })
	report.CreatedAt = time.Now().UTC()
	reports = append(reports, *report)
	if err := saveBlob(s, reportsKey, reports); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *RedisSnapshotStore) GetReportByID(id int) (*domain.Report, error) {
	reports, err := loadBlob[domain.Report](s, reportsKey)
	if err != nil {
		return nil, err
	}
	for i := range reports {
		if reports[i].ID == id {
			r := reports[i]
			return &r, nil
		}
	}
	return nil, fmt.Errorf("report with id %d: %w", id, domain.ErrReportNotFound)
}

func (s *RedisSnapshotStore) UpdateReport(report *domain.Report) (*domain.Report, error) {
	reports, err := loadBlob[domain.Report](s, reportsKey)
	if err != nil {
		return nil, err
	}
	for i := range reports {
		if reports[i].ID == report.ID {
			report.CreatedAt = reports[i].CreatedAt
			reports[i] = *report
			if err := saveBlob(s, reportsKey, reports); err != nil {
				return nil, err
			}
			return report, nil
		}
	}
	return nil, fmt.Errorf("report with id %d: %w", report.ID, domain.ErrReportNotFound)
}

func (s *RedisSnapshotStore) DeleteReport(id int) error {
	reports, err := loadBlob[domain.Report](s, reportsKey)
	if err != nil {
		return err
	}
	for i := range reports {
		if reports[i].ID == id {
			reports = append(reports[:i], reports[i+1:]...)
			return saveBlob(s, reportsKey, reports)
		}
	}
	return fmt.Errorf("report with id %d: %w", id, domain.ErrReportNotFound)
}

func (s *RedisSnapshotStore) ListReports() ([]domain.Report, error) {
	reports, err := loadBlob[domain.Report](s, reportsKey)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(reports)-1; i < j; i, j = i+1, j-1 {
		reports[i], reports[j] = reports[j], reports[i]
	}
	return reports, nil
}
