package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stylofitness/storefront-api/internal/dto"
	"github.com/stylofitness/storefront-api/internal/model"
	"github.com/stylofitness/storefront-api/internal/repository"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrInvalidDelivery   = errors.New("delivery orders need an address or a location")
	ErrInvalidTotal      = errors.New("total must not be negative")
	ErrTotalPrecision    = errors.New("total must have at most 2 decimal places")
)

// DeliveryETA holds how long each delivery method takes to reach the customer.
type DeliveryETA struct {
	Pickup   time.Duration
	Delivery time.Duration
}

type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	publisher   EventPublisher
	eta         DeliveryETA
	log         *slog.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	publisher EventPublisher,
	eta DeliveryETA,
	log *slog.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		publisher:   publisher,
		eta:         eta,
		log:         log,
	}
}

// CreateOrder completes checkout. When the request carries no items the customer's
// cart is turned into the order and the ordered quantities are taken out of it.
func (s *OrderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*model.Order, error) {
	if req.Delivery.Method == model.DeliveryDelivery && req.Delivery.Address == "" && req.Delivery.LocationID == "" {
		return nil, ErrInvalidDelivery
	}

	lines := req.Items
	fromCart := false
	var ordered []model.CartItem
	if len(lines) == 0 {
		if req.CustomerID == 0 {
			return nil, ErrEmptyCart
		}
		cart, err := s.cartRepo.Get(ctx, req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("get cart: %w", err)
		}
		if len(cart.Items) == 0 {
			return nil, ErrEmptyCart
		}
		for _, ci := range cart.Items {
			lines = append(lines, dto.OrderItemRequest{ProductID: ci.ProductID, Quantity: ci.Quantity})
		}
		ordered = cart.Items
		fromCart = true
	}

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(lines))
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		product, err := s.productRepo.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		if product == nil {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, line.ProductID)
		}
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, model.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Price:       product.Price,
		})
	}

	// The checkout total is trusted as sent; it is only computed when absent.
	if req.Total != nil {
		if req.Total.LessThan(decimal.Zero) {
			return nil, ErrInvalidTotal
		}
		if !req.Total.Equal(req.Total.Round(2)) {
			return nil, ErrTotalPrecision
		}
		total = *req.Total
	}

	now := time.Now().UTC()
	order := &model.Order{
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Items:         items,
		Delivery: model.DeliveryInfo{
			Method:     req.Delivery.Method,
			Address:    req.Delivery.Address,
			District:   req.Delivery.District,
			Reference:  req.Delivery.Reference,
			LocationID: req.Delivery.LocationID,
		},
		PaymentMethod:     req.PaymentMethod,
		Total:             total,
		Status:            model.OrderStatusPending,
		CreatedAt:         now,
		EstimatedDelivery: now.Add(s.etaFor(req.Delivery.Method)),
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	if fromCart {
		if err := s.cartRepo.Take(ctx, req.CustomerID, ordered); err != nil {
			s.log.Warn("remove ordered items from cart", "customer_id", req.CustomerID, "error", err)
		}
	}

	publish(ctx, s.publisher, s.log, EventOrderCreated, model.OrderEvent{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
		Status:     order.Status,
		OccurredAt: now,
	})
	return order, nil
}

func (s *OrderService) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *OrderService) List(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	if status != "" && !status.Valid() {
		return nil, ErrInvalidStatus
	}
	orders, err := s.orderRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list customer orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus moves the order to the requested status. Only the status changes.
func (s *OrderService) UpdateStatus(ctx context.Context, id int64, next model.OrderStatus) (*model.Order, error) {
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	current, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if current == nil {
		return nil, ErrOrderNotFound
	}
	if !current.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current.Status, next)
	}
	if current.Status == next {
		return current, nil
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, id, current.Status, next)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrOrderNotFound
		case errors.Is(err, repository.ErrStatusConflict):
			return nil, fmt.Errorf("%w: %s changed concurrently", ErrInvalidTransition, current.Status)
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}

	publish(ctx, s.publisher, s.log, EventOrderStatusChanged, model.OrderEvent{
		OrderID:        updated.ID,
		CustomerID:     updated.CustomerID,
		Status:         updated.Status,
		PreviousStatus: current.Status,
		OccurredAt:     time.Now().UTC(),
	})
	return updated, nil
}

func (s *OrderService) etaFor(method model.DeliveryMethod) time.Duration {
	if method == model.DeliveryPickup {
		return s.eta.Pickup
	}
	return s.eta.Delivery
}
