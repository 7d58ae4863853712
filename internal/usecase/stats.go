package usecase

import (
	"sort"
	"time"

	"systore/internal/domain"
)

// Aggregation views: stateless functions of (snapshots, now), recomputed
// on every request, nothing cached.

// InventoryValue is the catalog valuation: Σ price × stock.
func InventoryValue(products []domain.Product) float64 {
	var value float64
	for _, p := range products {
		value += p.Price * float64(p.Stock)
	}
	return value
}

// LowStockCount counts products below the restock threshold.
func LowStockCount(products []domain.Product) int {
	count := 0
	for _, p := range products {
		if p.Stock < domain.LowStockThreshold {
			count++
		}
	}
	return count
}

// TodayStats sums committed sales on now's calendar day, in now's
// location.
func TodayStats(sales []domain.Sale, now time.Time) (total float64, count int) {
	year, month, day := now.Date()
	for _, sale := range sales {
		y, m, d := sale.CreatedAt.In(now.Location()).Date()
		if y == year && m == month && d == day {
			total += sale.Total
			count++
		}
	}
	return total, count
}

// RecentSales returns the newest n sales by CreatedAt descending.
func RecentSales(sales []domain.Sale, n int) []domain.Sale {
	out := make([]domain.Sale, len(sales))
	copy(out, sales)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
