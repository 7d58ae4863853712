package delivery

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"systore/internal/usecase"
)

type CartHandler struct {
	useCase usecase.CheckoutUseCase
	log     *logrus.Logger
}

func NewCartHandler(uc usecase.CheckoutUseCase, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CartHandler) RegisterRoutes(router gin.IRouter) {
	sessions := router.Group("/cart/sessions")
	{
		sessions.POST("", h.StartSession)
		sessions.GET("/:id", h.GetCart)
		sessions.DELETE("/:id", h.CancelCart)
		sessions.POST("/:id/items", h.AddToCart)
		sessions.POST("/:id/items/:productId/increase", h.IncreaseQuantity)
		sessions.POST("/:id/items/:productId/decrease", h.DecreaseQuantity)
		sessions.DELETE("/:id/items/:productId", h.RemoveFromCart)
		sessions.POST("/:id/checkout", h.Checkout)
	}
}

func (h *CartHandler) StartSession(c *gin.Context) {
	sessionID := h.useCase.StartSession()
	SuccessResponse(c, http.StatusCreated, "Cart session started", gin.H{"session_id": sessionID})
}

func (h *CartHandler) GetCart(c *gin.Context) {
	cart, err := h.useCase.Cart(c.Param("id"))
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to retrieve cart: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", cart)
}

type addToCartRequest struct {
	ProductID int `json:"product_id" binding:"required"`
}

func (h *CartHandler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Errorf("Failed to bind JSON for add to cart: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	cart, err := h.useCase.AddToCart(c.Param("id"), req.ProductID)
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Warnf("Failed to add product %d to cart: %v", req.ProductID, err)
		ErrorResponse(c, statusCode, "Failed to add product to cart: "+err.Error())
		return
	}

	SuccessResponse(c, http.StatusOK, "Product added to cart", cart)
}

func (h *CartHandler) productID(c *gin.Context) (int, bool) {
	idStr := c.Param("productId")
	id, err := strconv.Atoi(idStr)
	if err != nil || id <= 0 {
		h.log.Warnf("Invalid product ID parameter: %s", idStr)
		ErrorResponse(c, http.StatusBadRequest, "Invalid product ID format")
		return 0, false
	}
	return id, true
}

func (h *CartHandler) IncreaseQuantity(c *gin.Context) {
	productID, ok := h.productID(c)
	if !ok {
		return
	}

	cart, err := h.useCase.IncreaseQuantity(c.Param("id"), productID)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to increase quantity: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Quantity increased", cart)
}

func (h *CartHandler) DecreaseQuantity(c *gin.Context) {
	productID, ok := h.productID(c)
	if !ok {
		return
	}

	cart, err := h.useCase.DecreaseQuantity(c.Param("id"), productID)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to decrease quantity: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Quantity decreased", cart)
}

func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	productID, ok := h.productID(c)
	if !ok {
		return
	}

	cart, err := h.useCase.RemoveFromCart(c.Param("id"), productID)
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to remove product: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Product removed from cart", cart)
}

func (h *CartHandler) CancelCart(c *gin.Context) {
	cart, err := h.useCase.Cancel(c.Param("id"))
	if err != nil {
		ErrorResponse(c, mapErrorToStatus(err), "Failed to cancel cart: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Cart cancelled", cart)
}

func (h *CartHandler) Checkout(c *gin.Context) {
	result, err := h.useCase.Checkout(c.Param("id"))
	if err != nil {
		statusCode := mapErrorToStatus(err)
		h.log.Errorf("Checkout failed for session %s: %v", c.Param("id"), err)
		ErrorResponse(c, statusCode, "Checkout failed: "+err.Error())
		return
	}

	if !result.Committed {
		ErrorResponse(c, http.StatusBadRequest, "Cart is empty, nothing to commit")
		return
	}

	SuccessResponse(c, http.StatusCreated, "Sale committed successfully", result)
}
