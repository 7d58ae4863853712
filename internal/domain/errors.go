package domain

import "errors"

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrSaleNotFound      = errors.New("sale not found")
	ErrReportNotFound    = errors.New("report not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrSessionNotFound   = errors.New("cart session not found")
)
