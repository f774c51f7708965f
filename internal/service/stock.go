package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/stylofitness/storefront-api/internal/model"
	"github.com/stylofitness/storefront-api/internal/repository"
)

const defaultWorkerName = "system"

var (
	ErrInvalidQuantity     = errors.New("quantity must be positive")
	ErrInvalidMovementType = errors.New("invalid movement type")
	ErrInsufficientStock   = errors.New("insufficient stock")
)

// Adjustment describes a manual change to a product's stock.
type Adjustment struct {
	ProductID  int64
	Quantity   int
	WorkerName string
	Reason     string
}

type StockService struct {
	stockRepo   repository.StockRepository
	productRepo repository.ProductRepository
	cache       *ProductCache
	publisher   EventPublisher
	log         *slog.Logger
}

func NewStockService(
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	cache *ProductCache,
	publisher EventPublisher,
	log *slog.Logger,
) *StockService {
	return &StockService{
		stockRepo:   stockRepo,
		productRepo: productRepo,
		cache:       cache,
		publisher:   publisher,
		log:         log,
	}
}

// AddStock increments the product's stock and appends one addition movement in the
// same atomic step.
func (s *StockService) AddStock(ctx context.Context, adj Adjustment) (*model.Product, *model.StockMovement, error) {
	return s.adjust(ctx, adj, model.MovementAddition)
}

// ReduceStock decrements the product's stock and appends one reduction movement. It
// never drives stock below zero.
func (s *StockService) ReduceStock(ctx context.Context, adj Adjustment) (*model.Product, *model.StockMovement, error) {
	return s.adjust(ctx, adj, model.MovementReduction)
}

func (s *StockService) adjust(ctx context.Context, adj Adjustment, typ model.MovementType) (*model.Product, *model.StockMovement, error) {
	if adj.Quantity <= 0 {
		return nil, nil, ErrInvalidQuantity
	}

	movement := &model.StockMovement{
		ProductID:  adj.ProductID,
		Quantity:   adj.Quantity,
		WorkerName: workerNameOrDefault(adj.WorkerName),
		Type:       typ,
		Reason:     adj.Reason,
		Timestamp:  time.Now().UTC(),
	}
	product, err := s.stockRepo.Adjust(ctx, movement)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, nil, ErrProductNotFound
		case errors.Is(err, repository.ErrInsufficientStock):
			return nil, nil, ErrInsufficientStock
		}
		return nil, nil, fmt.Errorf("adjust stock: %w", err)
	}

	s.cache.Invalidate(ctx, product.ID)
	publish(ctx, s.publisher, s.log, EventStockChanged, model.StockEvent{
		ProductID:  product.ID,
		MovementID: movement.ID,
		Type:       movement.Type,
		Quantity:   movement.Quantity,
		Stock:      product.Stock,
		OccurredAt: movement.Timestamp,
	})
	return product, movement, nil
}

// RecordMovement appends a ledger entry without changing the product's stock counter.
func (s *StockService) RecordMovement(ctx context.Context, m model.StockMovement) (*model.StockMovement, error) {
	if m.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if m.Type == "" {
		m.Type = model.MovementAddition
	}
	if !m.Type.Valid() {
		return nil, ErrInvalidMovementType
	}
	if m.ProductName == "" {
		product, err := s.productRepo.GetByID(ctx, m.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		if product == nil {
			return nil, ErrProductNotFound
		}
		m.ProductName = product.Name
	}
	m.WorkerName = workerNameOrDefault(m.WorkerName)
	m.Timestamp = time.Now().UTC()

	if err := s.stockRepo.Record(ctx, &m); err != nil {
		return nil, fmt.Errorf("record stock movement: %w", err)
	}
	return &m, nil
}

// ListMovements returns the ledger newest first. productID 0 lists every product.
func (s *StockService) ListMovements(ctx context.Context, productID int64) ([]model.StockMovement, error) {
	movements, err := s.stockRepo.ListMovements(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	return movements, nil
}

func workerNameOrDefault(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return defaultWorkerName
}
