package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stylofitness/storefront-api/internal/dto"
	"github.com/stylofitness/storefront-api/internal/service"
)

type CartHandler struct {
	svc *service.CartService
	log *slog.Logger
}

func NewCartHandler(svc *service.CartService, log *slog.Logger) *CartHandler {
	return &CartHandler{svc: svc, log: log}
}

func (h *CartHandler) customerID(c *gin.Context) (int64, bool) {
	id, ok := paramID(c, "customerId", "customer")
	if !ok {
		return 0, false
	}
	if !canAccessCustomer(c, id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return 0, false
	}
	return id, true
}

func (h *CartHandler) GetCart(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	cart, err := h.svc.GetCart(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	var req dto.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.AddItem(c.Request.Context(), customerID, req.ProductID, req.Quantity); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondCart(c, http.StatusCreated, customerID)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	productID, ok := paramID(c, "productId", "product")
	if !ok {
		return
	}
	var req dto.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.svc.UpdateItem(c.Request.Context(), customerID, productID, req.Quantity); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondCart(c, http.StatusOK, customerID)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	productID, ok := paramID(c, "productId", "product")
	if !ok {
		return
	}
	if err := h.svc.RemoveItem(c.Request.Context(), customerID, productID); err != nil {
		respondError(c, h.log, err)
		return
	}
	h.respondCart(c, http.StatusOK, customerID)
}

func (h *CartHandler) Clear(c *gin.Context) {
	customerID, ok := h.customerID(c)
	if !ok {
		return
	}
	if err := h.svc.Clear(c.Request.Context(), customerID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) respondCart(c *gin.Context, status int, customerID int64) {
	cart, err := h.svc.GetCart(c.Request.Context(), customerID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(status, cart)
}
