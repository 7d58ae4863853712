package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"systore/internal/domain"
)

type postgresProductStore struct {
	db  *sql.DB
	log *logrus.Logger
}

func NewPostgresProductStore(db *sql.DB, logger *logrus.Logger) domain.ProductStore {
	return &postgresProductStore{
		db:  db,
		log: logger,
	}
}

func (r *postgresProductStore) CreateProduct(product *domain.Product) (*domain.Product, error) {
	query := `
        INSERT INTO products (name, price, stock, category)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	category := sql.NullString{String: product.Category, Valid: product.Category != ""}

	err := r.db.QueryRow(query, product.Name, product.Price, product.Stock, category).
		Scan(&product.ID, &product.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Check constraint violation for product '%s': %s", product.Name, pqErr.Message)
			return nil, fmt.Errorf("product data constraint violation: %s", pqErr.Message)
		}
		r.log.Errorf("Failed to create product '%s': %v", product.Name, err)
		return nil, fmt.Errorf("could not create product: %w", err)
	}
	r.log.Infof("Product created successfully with ID: %d, Name: %s", product.ID, product.Name)
	return product, nil
}

func (r *postgresProductStore) GetProductByID(id int) (*domain.Product, error) {
	query := `
        SELECT id, name, price, stock, category, created_at
        FROM products
        WHERE id = $1`
	product := &domain.Product{}
	var category sql.NullString

	err := r.db.QueryRow(query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Price,
		&product.Stock,
		&category,
		&product.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.Warnf("Product with ID %d not found", id)
			return nil, fmt.Errorf("product with id %d: %w", id, domain.ErrProductNotFound)
		}
		r.log.Errorf("Failed to get product by ID %d: %v", id, err)
		return nil, fmt.Errorf("could not get product by id: %w", err)
	}
	product.Category = category.String

	return product, nil
}

func (r *postgresProductStore) UpdateProduct(product *domain.Product) (*domain.Product, error) {
	query := `
        UPDATE products
        SET name = $1, price = $2, stock = $3, category = $4
        WHERE id = $5`
	category := sql.NullString{String: product.Category, Valid: product.Category != ""}

	result, err := r.db.Exec(query, product.Name, product.Price, product.Stock, category, product.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23514" {
			r.log.Warnf("Check constraint violation for product update ID %d: %s", product.ID, pqErr.Message)
			return nil, fmt.Errorf("product data constraint violation: %s", pqErr.Message)
		}
		r.log.Errorf("Failed to update product ID %d: %v", product.ID, err)
		return nil, fmt.Errorf("could not update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after updating product ID %d: %v", product.ID, err)
		return nil, fmt.Errorf("could not confirm product update: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Product with ID %d not found for update (0 rows affected)", product.ID)
		return nil, fmt.Errorf("product with id %d: %w", product.ID, domain.ErrProductNotFound)
	}

	r.log.Infof("Product updated successfully with ID: %d", product.ID)
	return r.GetProductByID(product.ID)
}

func (r *postgresProductStore) DeleteProduct(id int) error {
	query := `DELETE FROM products WHERE id = $1`
	result, err := r.db.Exec(query, id)
	if err != nil {
		r.log.Errorf("Failed to delete product ID %d: %v", id, err)
		return fmt.Errorf("could not delete product: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.log.Errorf("Failed to get rows affected after deleting product ID %d: %v", id, err)
		return fmt.Errorf("could not confirm product deletion: %w", err)
	}
	if rowsAffected == 0 {
		r.log.Warnf("Attempted to delete non-existent product ID %d", id)
		return fmt.Errorf("product with id %d: %w", id, domain.ErrProductNotFound)
	}
	r.log.Infof("Product deleted successfully with ID: %d", id)
	return nil
}

// ListProducts returns the full catalog snapshot; the cart core relies
// on getting a wholesale copy, not a page.
func (r *postgresProductStore) ListProducts() ([]domain.Product, error) {
	query := `
        SELECT id, name, price, stock, category, created_at
        FROM products
        ORDER BY id DESC`
	rows, err := r.db.Query(query)
	if err != nil {
		r.log.Errorf("Failed to list products: %v", err)
		return nil, fmt.Errorf("could not list products: %w", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		var product domain.Product
		var category sql.NullString
		if err := rows.Scan(&product.ID, &product.Name, &product.Price, &product.Stock, &category, &product.CreatedAt); err != nil {
			r.log.Errorf("Failed to scan product row: %v", err)
			return nil, fmt.Errorf("error scanning product data: %w", err)
		}
		product.Category = category.String
		products = append(products, product)
	}
	if err = rows.Err(); err != nil {
		r.log.Errorf("Error during products list iteration: %v", err)
		return nil, fmt.Errorf("error iterating products: %w", err)
	}
	return products, nil
}
