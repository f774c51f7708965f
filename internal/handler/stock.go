package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stylofitness/storefront-api/internal/dto"
	"github.com/stylofitness/storefront-api/internal/middleware"
	"github.com/stylofitness/storefront-api/internal/model"
	"github.com/stylofitness/storefront-api/internal/service"
)

type StockHandler struct {
	stockService *service.StockService
	log          *slog.Logger
}

func NewStockHandler(stockService *service.StockService, log *slog.Logger) *StockHandler {
	return &StockHandler{stockService: stockService, log: log}
}

func (h *StockHandler) ListMovements(c *gin.Context) {
	var req dto.ListStockMovementsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	movements, err := h.stockService.ListMovements(c.Request.Context(), req.ProductID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	resp := make([]dto.StockMovementResponse, 0, len(movements))
	for i := range movements {
		resp = append(resp, dto.NewStockMovementResponse(&movements[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// RecordMovement appends to the ledger only. Stock counters change through the
// product stock endpoint.
func (h *StockHandler) RecordMovement(c *gin.Context) {
	var req dto.CreateStockMovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	worker := req.WorkerName
	if worker == "" {
		worker = middleware.GetUserName(c)
	}
	movement, err := h.stockService.RecordMovement(c.Request.Context(), model.StockMovement{
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		Quantity:    req.Quantity,
		WorkerName:  worker,
		Type:        req.Type,
		Reason:      req.Reason,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewStockMovementResponse(movement))
}
