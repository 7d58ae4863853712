package domain

// ProductStore is the narrow catalog contract of the backing store.
// The cart core never mutates products directly; stock only changes
// inside the store when a sale is created.
type ProductStore interface {
	CreateProduct(product *Product) (*Product, error)
	GetProductByID(id int) (*Product, error)
	UpdateProduct(product *Product) (*Product, error)
	DeleteProduct(id int) error
	ListProducts() ([]Product, error)
}

// SaleStore persists committed sales. CreateSale is the single point of
// truth for a sale: the store validates stock, decrements it and assigns
// the sale id in one transaction.
type SaleStore interface {
	CreateSale(req *CreateSaleRequest) (int, error)
	ListSales() ([]Sale, error)
}

type ReportStore interface {
	CreateReport(report *Report) (*Report, error)
	GetReportByID(id int) (*Report, error)
	UpdateReport(report *Report) (*Report, error)
	DeleteReport(id int) error
	ListReports() ([]Report, error)
}
