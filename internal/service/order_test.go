package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylofitness/storefront-api/internal/dto"
	"github.com/stylofitness/storefront-api/internal/model"
	"github.com/stylofitness/storefront-api/internal/repository"
	"github.com/stylofitness/storefront-api/internal/repository/memory"
)

var testETA = DeliveryETA{Pickup: 24 * time.Hour, Delivery: 48 * time.Hour}

func newOrderFixture(t *testing.T) (*OrderService, *repository.Store, *recordingPublisher) {
	t.Helper()
	store := memory.NewStore()
	pub := &recordingPublisher{}
	return NewOrderService(store.Orders, store.Carts, store.Products, pub, testETA, discardLogger()), store, pub
}

func pickupOrder(items ...dto.OrderItemRequest) dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		CustomerName:  "Maria Lopez",
		CustomerPhone: "987654321",
		Items:         items,
		Delivery:      dto.DeliveryInfoRequest{Method: model.DeliveryPickup, LocationID: "miraflores"},
		PaymentMethod: model.PaymentYape,
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	svc, store, pub := newOrderFixture(t)
	ctx := context.Background()
	p := seedProduct(t, store, "Whey X", 10)

	order, err := svc.CreateOrder(ctx, pickupOrder(dto.OrderItemRequest{ProductID: p.ID, Quantity: 2}))
	require.NoError(t, err)
	assert.Equal(t, int64(101), order.ID)
	assert.Equal(t, model.OrderStatusPending, order.Status)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("199.80")))
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Whey X", order.Items[0].ProductName)
	assert.WithinDuration(t, order.CreatedAt.Add(24*time.Hour), order.EstimatedDelivery, time.Second)
	assert.Equal(t, []string{EventOrderCreated}, pub.keys())

	second, err := svc.CreateOrder(ctx, pickupOrder(dto.OrderItemRequest{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)
	assert.Equal(t, int64(102), second.ID)
}

func TestOrderService_CreateOrder_TrustsSubmittedTotal(t *testing.T) {
	svc, store, _ := newOrderFixture(t)
	p := seedProduct(t, store, "Whey X", 10)

	req := pickupOrder(dto.OrderItemRequest{ProductID: p.ID, Quantity: 1})
	req.Total = price("89.90")
	order, err := svc.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("89.90")))

	req.Total = price("-1")
	_, err = svc.CreateOrder(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidTotal)

	req.Total = price("89.905")
	_, err = svc.CreateOrder(context.Background(), req)
	assert.ErrorIs(t, err, ErrTotalPrecision)
}

func TestOrderService_CreateOrder_Rejects(t *testing.T) {
	svc, store, _ := newOrderFixture(t)
	ctx := context.Background()
	p := seedProduct(t, store, "Whey X", 10)

	_, err := svc.CreateOrder(ctx, pickupOrder())
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = svc.CreateOrder(ctx, pickupOrder(dto.OrderItemRequest{ProductID: 999, Quantity: 1}))
	assert.ErrorIs(t, err, ErrProductNotFound)

	req := pickupOrder(dto.OrderItemRequest{ProductID: p.ID, Quantity: 1})
	req.Delivery = dto.DeliveryInfoRequest{Method: model.DeliveryDelivery}
	_, err = svc.CreateOrder(ctx, req)
	assert.ErrorIs(t, err, ErrInvalidDelivery)

	orders, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestOrderService_CreateOrder_FromCart(t *testing.T) {
	svc, store, _ := newOrderFixture(t)
	ctx := context.Background()
	p := seedProduct(t, store, "Whey X", 10)
	require.NoError(t, store.Carts.AddItem(ctx, 5, p.ID, 3))

	req := pickupOrder()
	req.CustomerID = 5
	req.Delivery = dto.DeliveryInfoRequest{Method: model.DeliveryDelivery, Address: "Av. Larco 123", District: "Miraflores"}
	order, err := svc.CreateOrder(ctx, req)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.WithinDuration(t, order.CreatedAt.Add(48*time.Hour), order.EstimatedDelivery, time.Second)

	cart, err := store.Carts.Get(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	mine, err := svc.ListByCustomer(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

// cartAddingRepo adds an item right after each Get, standing in for a customer who
// keeps shopping in another tab during checkout.
type cartAddingRepo struct {
	repository.CartRepository
	productID int64
	quantity  int
}

func (r *cartAddingRepo) Get(ctx context.Context, customerID int64) (*model.Cart, error) {
	cart, err := r.CartRepository.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return cart, r.CartRepository.AddItem(ctx, customerID, r.productID, r.quantity)
}

func TestOrderService_CreateOrder_FromCartKeepsLaterItems(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	whey := seedProduct(t, store, "Whey X", 10)
	creatine := seedProduct(t, store, "Creatine", 10)
	require.NoError(t, store.Carts.AddItem(ctx, 5, whey.ID, 2))

	carts := &cartAddingRepo{CartRepository: store.Carts, productID: creatine.ID, quantity: 1}
	svc := NewOrderService(store.Orders, carts, store.Products, nil, testETA, discardLogger())

	req := pickupOrder()
	req.CustomerID = 5
	order, err := svc.CreateOrder(ctx, req)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, whey.ID, order.Items[0].ProductID)

	cart, err := store.Carts.Get(ctx, 5)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, model.CartItem{ProductID: creatine.ID, Quantity: 1}, cart.Items[0])
}

func TestOrderService_GetByID_NotFound(t *testing.T) {
	svc, _, _ := newOrderFixture(t)
	_, err := svc.GetByID(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	svc, store, pub := newOrderFixture(t)
	ctx := context.Background()
	p := seedProduct(t, store, "Whey X", 10)
	order, err := svc.CreateOrder(ctx, pickupOrder(dto.OrderItemRequest{ProductID: p.ID, Quantity: 2}))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, order.ID, model.OrderStatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusInProgress, updated.Status)
	assert.True(t, updated.Total.Equal(order.Total))
	assert.Equal(t, order.CustomerName, updated.CustomerName)
	assert.Len(t, updated.Items, 1)

	keys := pub.keys()
	require.Len(t, keys, 2)
	assert.Equal(t, EventOrderStatusChanged, keys[1])
	event := pub.events[1].payload.(model.OrderEvent)
	assert.Equal(t, model.OrderStatusPending, event.PreviousStatus)

	_, err = svc.UpdateStatus(ctx, order.ID, model.OrderStatusCancelled)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdateStatus(ctx, order.ID, "shipped")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateStatus(ctx, 9999, model.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestOrderService_UpdateStatus_SameStatusIsNoop(t *testing.T) {
	svc, store, pub := newOrderFixture(t)
	ctx := context.Background()
	p := seedProduct(t, store, "Whey X", 10)
	order, err := svc.CreateOrder(ctx, pickupOrder(dto.OrderItemRequest{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	same, err := svc.UpdateStatus(ctx, order.ID, model.OrderStatusPending)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusPending, same.Status)
	assert.Len(t, pub.keys(), 1)
}

func TestOrderService_TerminalStatusIsFinal(t *testing.T) {
	svc, store, _ := newOrderFixture(t)
	ctx := context.Background()
	p := seedProduct(t, store, "Whey X", 10)
	order, err := svc.CreateOrder(ctx, pickupOrder(dto.OrderItemRequest{ProductID: p.ID, Quantity: 1}))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, model.OrderStatusCancelled)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, order.ID, model.OrderStatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	filtered, err := svc.List(ctx, model.OrderStatusCancelled)
	require.NoError(t, err)
	assert.Len(t, filtered, 1)

	_, err = svc.List(ctx, "archived")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
