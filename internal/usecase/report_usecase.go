package usecase

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"systore/internal/domain"
	"systore/internal/metrics"
)

type DashboardStats struct {
	InventoryValue float64       `json:"inventory_value"`
	LowStockCount  int           `json:"low_stock_count"`
	TodayTotal     float64       `json:"today_total"`
	TodayCount     int           `json:"today_count"`
	RecentSales    []domain.Sale `json:"recent_sales"`
	ProductCount   int           `json:"product_count"`
}

const recentSalesLimit = 5

// ReportUseCase serves the dashboard aggregations and the report CRUD.
type ReportUseCase interface {
	Dashboard() DashboardStats

	CreateReport(report *domain.Report) (*domain.Report, error)
	GetReportByID(id int) (*domain.Report, error)
	UpdateReport(report *domain.Report) (*domain.Report, error)
	DeleteReport(id int) error
	ListReports() ([]domain.Report, error)
}

type reportUseCase struct {
	store   domain.ReportStore
	catalog CatalogUseCase
	sales   SaleUseCase
	metrics *metrics.POSMetrics
	log     *logrus.Logger

	now func() time.Time
}

func NewReportUseCase(store domain.ReportStore, catalog CatalogUseCase, sales SaleUseCase, posMetrics *metrics.POSMetrics, logger *logrus.Logger) ReportUseCase {
	return &reportUseCase{
		store:   store,
		catalog: catalog,
		sales:   sales,
		metrics: posMetrics,
		log:     logger,
		now:     time.Now,
	}
}

// Dashboard derives all aggregate figures from the current snapshots.
func (uc *reportUseCase) Dashboard() DashboardStats {
	products := uc.catalog.Snapshot()
	sales := uc.sales.Snapshot()
	now := uc.now()

	value := InventoryValue(products)
	lowStock := LowStockCount(products)
	todayTotal, todayCount := TodayStats(sales, now)

	if uc.metrics != nil {
		uc.metrics.SetInventoryValue(value)
		uc.metrics.SetLowStockProducts(lowStock)
	}

	return DashboardStats{
		InventoryValue: value,
		LowStockCount:  lowStock,
		TodayTotal:     todayTotal,
		TodayCount:     todayCount,
		RecentSales:    RecentSales(sales, recentSalesLimit),
		ProductCount:   len(products),
	}
}

func (uc *reportUseCase) CreateReport(report *domain.Report) (*domain.Report, error) {
	if report.Name == "" {
		uc.log.Warn("Use Case: Attempted to create report with empty name")
		return nil, errors.New("report name cannot be empty")
	}

	created, err := uc.store.CreateReport(report)
	if err != nil {
		uc.log.Errorf("Use Case: Store failed to create report '%s': %v", report.Name, err)
		return nil, err
	}
	uc.log.Infof("Use Case: Report '%s' created with ID %d", created.Name, created.ID)
	return created, nil
}

func (uc *reportUseCase) GetReportByID(id int) (*domain.Report, error) {
	if id <= 0 {
		return nil, errors.New("invalid report ID")
	}
	return uc.store.GetReportByID(id)
}

func (uc *reportUseCase) UpdateReport(report *domain.Report) (*domain.Report, error) {
	if report.ID <= 0 {
		return nil, errors.New("invalid report ID")
	}
	if report.Name == "" {
		return nil, errors.New("report name cannot be empty")
	}

	updated, err := uc.store.UpdateReport(report)
	if err != nil {
		uc.log.Errorf("Use Case: Store failed to update report %d: %v", report.ID, err)
		return nil, err
	}
	return updated, nil
}

func (uc *reportUseCase) DeleteReport(id int) error {
	if id <= 0 {
		return errors.New("invalid report ID")
	}
	if err := uc.store.DeleteReport(id); err != nil {
		uc.log.Errorf("Use Case: Store failed to delete report %d: %v", id, err)
		return err
	}
	return nil
}

func (uc *reportUseCase) ListReports() ([]domain.Report, error) {
	return uc.store.ListReports()
}
