package clients

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"systore/internal/domain"
)

// StoreClient is the backing-store contract as seen from a remote POS
// terminal: the full product/sale/report surface over JSON HTTP.
type StoreClient interface {
	domain.ProductStore
	domain.SaleStore
	domain.ReportStore
}

type productResponse struct {
	Status  string         `json:"Status"`
	Message string         `json:"Message"`
	Data    domain.Product `json:"Data"`
}

type productListResponse struct {
	Status  string           `json:"Status"`
	Message string           `json:"Message"`
	Data    []domain.Product `json:"Data"`
}

type saleListResponse struct {
	Status  string        `json:"Status"`
	Message string        `json:"Message"`
	Data    []domain.Sale `json:"Data"`
}

type reportResponse struct {
	Status  string        `json:"Status"`
	Message string        `json:"Message"`
	Data    domain.Report `json:"Data"`
}

type reportListResponse struct {
	Status  string          `json:"Status"`
	Message string          `json:"Message"`
	Data    []domain.Report `json:"Data"`
}

type saleCreateResponse struct {
	Status  string `json:"Status"`
	Message string `json:"Message"`
	Data    struct {
		SaleID int `json:"sale_id"`
	} `json:"Data"`
}

type storeHTTPClient struct {
	baseURL string
	client  *http.Client
	log     *logrus.Logger
}

func NewStoreHTTPClient(baseURL string, timeout time.Duration, logger *logrus.Logger) StoreClient {
	return &storeHTTPClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
		log: logger,
	}
}

func (c *storeHTTPClient) do(method, url string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode store request: %w", err)
		}
		reader = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		c.log.Errorf("StoreClient: Failed to create %s request for %s: %v", method, url, err)
		return fmt.Errorf("failed to create store request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("StoreClient: Failed to execute %s request for %s: %v", method, url, err)
		return fmt.Errorf("failed to communicate with store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.log.Warnf("StoreClient: %s %s returned status %d", method, url, resp.StatusCode)
		return domain.ErrProductNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		bodyBytes, _ := io.ReadAll(resp.Body)
		c.log.Errorf("StoreClient: %s %s failed with status %d. Response body: %s", method, url, resp.StatusCode, string(bodyBytes))
		if resp.StatusCode == http.StatusConflict {
			return fmt.Errorf("store rejected the request: %w", domain.ErrInsufficientStock)
		}
		return fmt.Errorf("store returned status %d for %s %s", resp.StatusCode, method, url)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.log.Errorf("StoreClient: Failed to decode response for %s %s: %v", method, url, err)
			return fmt.Errorf("failed to decode store response: %w", err)
		}
	}
	return nil
}

func (c *storeHTTPClient) ListProducts() ([]domain.Product, error) {
	var response productListResponse
	url := fmt.Sprintf("%s/products", c.baseURL)
	if err := c.do(http.MethodGet, url, nil, &response); err != nil {
		return nil, err
	}
	c.log.Infof("StoreClient: Retrieved %d products from store", len(response.Data))
	return response.Data, nil
}

func (c *storeHTTPClient) GetProductByID(id int) (*domain.Product, error) {
	var response productResponse
	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)
	if err := c.do(http.MethodGet, url, nil, &response); err != nil {
		return nil, err
	}
	if response.Data.ID != id {
		c.log.Warnf("StoreClient: Mismatched product ID in response. Requested %d, got %d", id, response.Data.ID)
	}
	return &response.Data, nil
}

func (c *storeHTTPClient) CreateProduct(product *domain.Product) (*domain.Product, error) {
	var response productResponse
	url := fmt.Sprintf("%s/products", c.baseURL)
	if err := c.do(http.MethodPost, url, product, &response); err != nil {
		return nil, err
	}
	created := response.Data
	return &created, nil
}

func (c *storeHTTPClient) UpdateProduct(product *domain.Product) (*domain.Product, error) {
	var response productResponse
	url := fmt.Sprintf("%s/products/%d", c.baseURL, product.ID)
	if err := c.do(http.MethodPut, url, product, &response); err != nil {
		return nil, err
	}
	updated := response.Data
	return &updated, nil
}

func (c *storeHTTPClient) DeleteProduct(id int) error {
	url := fmt.Sprintf("%s/products/%d", c.baseURL, id)
	return c.do(http.MethodDelete, url, nil, nil)
}

func (c *storeHTTPClient) CreateSale(req *domain.CreateSaleRequest) (int, error) {
	var response saleCreateResponse
	url := fmt.Sprintf("%s/sales", c.baseURL)
	if err := c.do(http.MethodPost, url, req, &response); err != nil {
		return 0, err
	}
	c.log.Infof("StoreClient: Sale created in store with ID %d", response.Data.SaleID)
	return response.Data.SaleID, nil
}

func (c *storeHTTPClient) ListSales() ([]domain.Sale, error) {
	var response saleListResponse
	url := fmt.Sprintf("%s/sales", c.baseURL)
	if err := c.do(http.MethodGet, url, nil, &response); err != nil {
		return nil, err
	}
	c.log.Infof("StoreClient: Retrieved %d sales from store", len(response.Data))
	return response.Data, nil
}

func (c *storeHTTPClient) CreateReport(report *domain.Report) (*domain.Report, error) {
	var response reportResponse
	url := fmt.Sprintf("%s/reports", c.baseURL)
	if err := c.do(http.MethodPost, url, report, &response); err != nil {
		return nil, err
	}
	created := response.Data
	return &created, nil
}

func (c *storeHTTPClient) GetReportByID(id int) (*domain.Report, error) {
	var response reportResponse
	url := fmt.Sprintf("%s/reports/%d", c.baseURL, id)
	if err := c.do(http.MethodGet, url, nil, &response); err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, fmt.Errorf("report with id %d: %w", id, domain.ErrReportNotFound)
		}
		return nil, err
	}
	report := response.Data
	return &report, nil
}

func (c *storeHTTPClient) UpdateReport(report *domain.Report) (*domain.Report, error) {
	var response reportResponse
	url := fmt.Sprintf("%s/reports/%d", c.baseURL, report.ID)
	if err := c.do(http.MethodPut, url, report, &response); err != nil {
		return nil, err
	}
	updated := response.Data
	return &updated, nil
}

func (c *storeHTTPClient) DeleteReport(id int) error {
	url := fmt.Sprintf("%s/reports/%d", c.baseURL, id)
	return c.do(http.MethodDelete, url, nil, nil)
}

func (c *storeHTTPClient) ListReports() ([]domain.Report, error) {
	var response reportListResponse
	url := fmt.Sprintf("%s/reports", c.baseURL)
	if err := c.do(http.MethodGet, url, nil, &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}
