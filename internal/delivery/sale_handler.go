package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"systore/internal/domain"
	"systore/internal/usecase"
)

type SaleHandler struct {
	useCase usecase.SaleUseCase
	log     *logrus.Logger
}

func NewSaleHandler(uc usecase.SaleUseCase, logger *logrus.Logger) *SaleHandler {
	return &SaleHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *SaleHandler) RegisterRoutes(router gin.IRouter) {
	sales := router.Group("/sales")
	{
		sales.POST("", h.CreateSale)
		sales.GET("", h.ListSales)
		sales.GET("/recent", h.RecentSales)
	}
}

// CreateSale is the store-side commit endpoint used by remote POS
// terminals; local checkouts go through the checkout use case instead.
func (h *SaleHandler) CreateSale(c *gin.Context) {
	var req domain.CreateSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for create sale: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	saleID, err := h.useCase.CreateSale(&req)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to create sale: %v", err)
		ErrorResponse(c, statusCode, "Failed to create sale: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusCreated, "Sale created successfully", gin.H{"sale_id": saleID})
}

func (h *SaleHandler) ListSales(c *gin.Context) {
	sales, err := h.useCase.ListSales()
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to list sales: %v", err)
		ErrorResponse(c, statusCode, "Failed to retrieve sales: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Sales retrieved successfully", sales)
}

func (h *SaleHandler) RecentSales(c *gin.Context) {
	nStr := c.DefaultQuery("n", "5")
	n, err := strconv.Atoi(nStr)
	if err != nil || n <= 0 {
		h.log.Warnf("Invalid n parameter '%s', using default 5", nStr)
		n = 5
	}

	sales, err := h.useCase.ListSales()
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Failed to list sales for recent view: %v", err)
		ErrorResponse(c, statusCode, "Failed to retrieve sales: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Recent sales retrieved successfully", usecase.RecentSales(sales, n))
}
