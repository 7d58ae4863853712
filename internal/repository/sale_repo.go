package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"systore/internal/domain"
)

type postgresSaleStore struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresSaleStore(db *sql.DB, logger *logrus.Logger) domain.SaleStore {
	return &postgresSaleStore{
		db:  db,
		log: logger,
	}
}

// CreateSale validates stock for every item, inserts the sale with its
// items and decrements product stock, all in one transaction. Clients
// submit possibly-stale quantities; this transaction is the arbiter.
func (r *postgresSaleStore) CreateSale(req *domain.CreateSaleRequest) (int, error) {
	tx, err := r.db.Begin()
	if err != nil {
		r.log.Errorf("Failed to begin sale transaction: %v", err)
		return 0, fmt.Errorf("could not begin sale transaction: %w", err)
	}
	defer tx.Rollback()

	for _, item := range req.Items {
		var stock int
		err := tx.QueryRow(`SELECT stock FROM products WHERE id = $1 FOR UPDATE`, item.ProductID).Scan(&stock)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				r.log.Warnf("Sale rejected: product %d not found", item.ProductID)
				return 0, fmt.Errorf("product with id %d: %w", item.ProductID, domain.ErrProductNotFound)
			}
			r.log.Errorf("Failed to check stock for product %d: %v", item.ProductID, err)
			return 0, fmt.Errorf("could not check stock for product %d: %w", item.ProductID, err)
		}
		if stock < item.Quantity {
			r.log.Warnf("Sale rejected: product %d has stock %d, requested %d", item.ProductID, stock, item.Quantity)
			return 0, fmt.Errorf("product %d (available %d, requested %d): %w",
				item.ProductID, stock, item.Quantity, domain.ErrInsufficientStock)
		}
	}

	var saleID int
	err = tx.QueryRow(`
        INSERT INTO sales (subtotal, tax, total)
        VALUES ($1, $2, $3)
        RETURNING id`, req.Subtotal, req.Tax, req.Total).Scan(&saleID)
	if err != nil {
		r.log.Errorf("Failed to insert sale: %v", err)
		return 0, fmt.Errorf("could not insert sale: %w", err)
	}

	for _, item := range req.Items {
		_, err = tx.Exec(`
            INSERT INTO sale_items (sale_id, product_id, quantity, unit_price)
            VALUES ($1, $2, $3, $4)`, saleID, item.ProductID, item.Quantity, item.UnitPrice)
		if err != nil {
			r.log.Errorf("Failed to insert sale item for product %d: %v", item.ProductID, err)
			return 0, fmt.Errorf("could not insert sale item: %w", err)
		}

		_, err = tx.Exec(`UPDATE products SET stock = stock - $1 WHERE id = $2`, item.Quantity, item.ProductID)
		if err != nil {
			r.log.Errorf("Failed to decrement stock for product %d: %v", item.ProductID, err)
			return 0, fmt.Errorf("could not decrement stock for product %d: %w", item.ProductID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		r.log.Errorf("Failed to commit sale transaction: %v", err)
		return 0, fmt.Errorf("could not commit sale: %w", err)
	}

	r.log.Infof("Sale created successfully with ID: %d (%d items, total %.2f)", saleID, len(req.Items), req.Total)
	return saleID, nil
}

// ListSales returns sale summaries newest first, without items, matching
// what the aggregation views need.
func (r *postgresSaleStore) ListSales() ([]domain.Sale, error) {
	query := `
        SELECT id, occurred_at, subtotal, tax, total
        FROM sales
        ORDER BY id DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		r.log.Errorf("Failed to list sales: %v", err)
		return nil, fmt.Errorf("could not list sales: %w", err)
	}
	defer rows.Close()

	sales := []domain.Sale{}
	for rows.Next() {
		var sale domain.Sale
		if err := rows.Scan(&sale.ID, &sale.CreatedAt, &sale.Subtotal, &sale.Tax, &sale.Total); err != nil {
			r.log.Errorf("Failed to scan sale row: %v", err)
			return nil, fmt.Errorf("error scanning sale data: %w", err)
		}
		sales = append(sales, sale)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during sales list iteration: %v", err)
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}
	return sales, nil
}
