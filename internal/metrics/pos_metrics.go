package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// POSMetrics tracks sale commits and the current catalog health.
type POSMetrics struct {
	salesCommitted prometheus.Counter
	salesFailed    prometheus.Counter
	saleTotal      prometheus.Histogram

	inventoryValue   prometheus.Gauge
	lowStockProducts prometheus.Gauge
}

func NewPOSMetrics() *POSMetrics {
	return newPOSMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newPOSMetricsWithRegisterer(registerer prometheus.Registerer) *POSMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &POSMetrics{
		salesCommitted: registerCounter(registerer, prometheus.CounterOpts{
			Name: "systore_sales_committed_total",
			Help: "Total number of sales committed to the store",
		}),
		salesFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "systore_sales_failed_total",
			Help: "Total number of sale commits rejected by the store",
		}),
		saleTotal: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "systore_sale_total",
			Help:    "Distribution of committed sale totals, tax included",
			Buckets: []float64{10, 50, 100, 250, 500, 1000, 2500, 5000},
		}),
		inventoryValue: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "systore_inventory_value",
			Help: "Total catalog valuation (price times stock) at last refresh",
		}),
		lowStockProducts: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "systore_low_stock_products",
			Help: "Number of products below the low-stock threshold at last refresh",
		}),
	}
}

func (m *POSMetrics) SaleCommitted(total float64) {
	m.salesCommitted.Inc()
	m.saleTotal.Observe(total)
}

func (m *POSMetrics) SaleFailed() {
	m.salesFailed.Inc()
}

func (m *POSMetrics) SetInventoryValue(value float64) {
	m.inventoryValue.Set(value)
}

func (m *POSMetrics) SetLowStockProducts(count int) {
	m.lowStockProducts.Set(float64(count))
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	if err := registerer.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return already.ExistingCollector.(prometheus.Counter)
		}
		panic(err)
	}
	return c
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	h := prometheus.NewHistogram(opts)
	if err := registerer.Register(h); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return already.ExistingCollector.(prometheus.Histogram)
		}
		panic(err)
	}
	return h
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	g := prometheus.NewGauge(opts)
	if err := registerer.Register(g); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return already.ExistingCollector.(prometheus.Gauge)
		}
		panic(err)
	}
	return g
}
