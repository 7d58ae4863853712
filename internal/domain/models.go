package domain

import "time"

// TaxRate is the fixed sales tax applied to every cart (19%).
const TaxRate = 0.19

// LowStockThreshold marks products that need restocking on the dashboard.
const LowStockThreshold = 10

type Product struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	Category  string    `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SaleItem struct {
	ProductID int     `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Sale is immutable once created; the store assigns the ID.
type Sale struct {
	ID        int        `json:"id"`
	Items     []SaleItem `json:"items,omitempty"`
	Subtotal  float64    `json:"subtotal"`
	Tax       float64    `json:"tax"`
	Total     float64    `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
}

// CreateSaleRequest is the sole stock-mutating entry point of the store.
type CreateSaleRequest struct {
	Items    []SaleItem `json:"items"`
	Subtotal float64    `json:"subtotal"`
	Tax      float64    `json:"tax"`
	Total    float64    `json:"total"`
}

type Report struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	Description string    `json:"description,omitempty"`
}
