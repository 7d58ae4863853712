package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"systore/internal/domain"
)

func TestInventoryValue(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Price: 100, Stock: 3},
		{ID: 2, Price: 20, Stock: 15},
		{ID: 3, Price: 5, Stock: 0},
	}
	assert.InDelta(t, 600.0, InventoryValue(products), 1e-9)
	assert.InDelta(t, 0.0, InventoryValue(nil), 1e-9)
}

func TestLowStockCount(t *testing.T) {
	products := []domain.Product{
		{ID: 1, Stock: 3},
		{ID: 2, Stock: 10},
		{ID: 3, Stock: 9},
		{ID: 4, Stock: 25},
	}
	// Threshold is exclusive: stock of exactly 10 is not low.
	assert.Equal(t, 2, LowStockCount(products))
}

func TestTodayStats(t *testing.T) {
	now := time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)
	sales := []domain.Sale{
		{ID: 1, Total: 100, CreatedAt: time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)},
		{ID: 2, Total: 50, CreatedAt: time.Date(2024, 6, 1, 23, 59, 0, 0, time.UTC)},
		{ID: 3, Total: 75, CreatedAt: time.Date(2024, 5, 31, 23, 59, 0, 0, time.UTC)},
		{ID: 4, Total: 10, CreatedAt: time.Date(2024, 6, 2, 0, 1, 0, 0, time.UTC)},
	}

	total, count := TodayStats(sales, now)
	assert.InDelta(t, 150.0, total, 1e-9)
	assert.Equal(t, 2, count)
}

func TestTodayStatsIsPure(t *testing.T) {
	now := time.Date(2024, 6, 1, 18, 30, 0, 0, time.UTC)
	sales := []domain.Sale{
		{ID: 1, Total: 100, CreatedAt: now.Add(-time.Hour)},
	}

	t1, c1 := TodayStats(sales, now)
	t2, c2 := TodayStats(sales, now)
	assert.Equal(t, t1, t2)
	assert.Equal(t, c1, c2)
}

func TestRecentSales(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	sales := []domain.Sale{
		{ID: 1, CreatedAt: base.Add(1 * time.Hour)},
		{ID: 3, CreatedAt: base.Add(3 * time.Hour)},
		{ID: 2, CreatedAt: base.Add(2 * time.Hour)},
	}

	recent := RecentSales(sales, 2)
	require.Len(t, recent, 2)
	assert.Equal(t, 3, recent[0].ID)
	assert.Equal(t, 2, recent[1].ID)

	// Input order is preserved.
	assert.Equal(t, 1, sales[0].ID)

	all := RecentSales(sales, 10)
	assert.Len(t, all, 3)
}

func TestDashboardUsesSnapshots(t *testing.T) {
	logger := testLogger()
	productStore := &fakeProductStore{products: []domain.Product{
		{ID: 1, Price: 100, Stock: 3},
		{ID: 2, Price: 20, Stock: 15},
	}}
	now := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	saleStore := &fakeSaleStore{sales: []domain.Sale{
		{ID: 1, Total: 119, CreatedAt: now.Add(-time.Hour)},
		{ID: 2, Total: 238, CreatedAt: now.Add(-48 * time.Hour)},
	}}

	catalog := NewCatalogUseCase(productStore, logger)
	require.NoError(t, catalog.Refresh())
	sales := NewSaleUseCase(saleStore, logger)
	require.NoError(t, sales.Refresh())

	uc := NewReportUseCase(nil, catalog, sales, nil, logger).(*reportUseCase)
	uc.now = func() time.Time { return now }

	stats := uc.Dashboard()
	assert.InDelta(t, 600.0, stats.InventoryValue, 1e-9)
	assert.Equal(t, 1, stats.LowStockCount)
	assert.InDelta(t, 119.0, stats.TodayTotal, 1e-9)
	assert.Equal(t, 1, stats.TodayCount)
	assert.Equal(t, 2, stats.ProductCount)
	require.Len(t, stats.RecentSales, 2)
	assert.Equal(t, 1, stats.RecentSales[0].ID)
}
