package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stylofitness/storefront-api/internal/dto"
	"github.com/stylofitness/storefront-api/internal/model"
	"github.com/stylofitness/storefront-api/internal/repository"
	"github.com/stylofitness/storefront-api/internal/repository/memory"
	"github.com/stylofitness/storefront-api/internal/service"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router http.Handler
	store  *repository.Store
}

func newTestAPI(t *testing.T, authRequired bool) *testAPI {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()

	productSvc := service.NewProductService(store.Products, nil)
	stockSvc := service.NewStockService(store.Stock, store.Products, nil, nil, log)
	orderSvc := service.NewOrderService(store.Orders, store.Carts, store.Products, nil,
		service.DeliveryETA{Pickup: 24 * time.Hour, Delivery: 48 * time.Hour}, log)
	cartSvc := service.NewCartService(store.Carts, store.Products)
	authSvc := service.NewAuthService(store.Users, testSecret, time.Hour)

	router := NewRouter(RouterConfig{
		Products:     NewProductHandler(productSvc, stockSvc, log),
		Orders:       NewOrderHandler(orderSvc, log),
		Stock:        NewStockHandler(stockSvc, log),
		Carts:        NewCartHandler(cartSvc, log),
		Auth:         NewAuthHandler(authSvc, log),
		Health:       NewHealthHandler(nil, nil, nil),
		JWTSecret:    testSecret,
		AuthRequired: authRequired,
		Log:          log,
	})
	return &testAPI{router: router, store: store}
}

func (a *testAPI) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) seedProduct(t *testing.T, name, price string, stock int) *model.Product {
	t.Helper()
	p := &model.Product{
		Name: name, Price: decimal.RequireFromString(price), Category: model.CategoryProtein, Stock: stock,
	}
	require.NoError(t, a.store.Products.Create(context.Background(), p))
	return p
}

func (a *testAPI) createOrder(t *testing.T, productID int64, quantity int) dto.OrderResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/orders", gin.H{
		"customerName":  "Maria Lopez",
		"customerPhone": "987654321",
		"items":         []gin.H{{"productId": productID, "quantity": quantity}},
		"delivery":      gin.H{"method": "pickup", "locationId": "miraflores"},
		"paymentMethod": "cash",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var order dto.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
	return order
}

func signToken(t *testing.T, id int64, role model.Role, name string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  strconv.FormatInt(id, 10),
		"role": string(role),
		"name": name,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestUpdateOrderStatus_PendingToInProgress(t *testing.T) {
	api := newTestAPI(t, false)
	p := api.seedProduct(t, "Whey X", "120.00", 10)
	order := api.createOrder(t, p.ID, 2)
	require.Equal(t, int64(101), order.ID)
	require.Equal(t, model.OrderStatusPending, order.Status)

	w := api.do(t, http.MethodPatch, "/api/orders/101", gin.H{"status": "in-progress"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated dto.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, model.OrderStatusInProgress, updated.Status)
	assert.Equal(t, order.CustomerName, updated.CustomerName)
	assert.True(t, order.Total.Equal(updated.Total))

	w = api.do(t, http.MethodGet, "/api/orders/101", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var fetched dto.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Equal(t, model.OrderStatusInProgress, fetched.Status)
}

func TestUpdateOrderStatus_UnknownOrder(t *testing.T) {
	api := newTestAPI(t, false)

	w := api.do(t, http.MethodPatch, "/api/orders/9999", gin.H{"status": "confirmed"}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Order not found"}`, w.Body.String())
}

func TestUpdateOrderStatus_Rejections(t *testing.T) {
	api := newTestAPI(t, false)
	p := api.seedProduct(t, "Whey X", "120.00", 10)
	api.createOrder(t, p.ID, 1)

	w := api.do(t, http.MethodPatch, "/api/orders/101", gin.H{"status": "shipped"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPatch, "/api/orders/101", gin.H{"status": "delivered"}, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodPatch, "/api/orders/101", gin.H{"status": "pending"}, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPatch, "/api/orders/abc", gin.H{"status": "pending"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddStock_IncrementsAndRecordsMovement(t *testing.T) {
	api := newTestAPI(t, false)
	p := api.seedProduct(t, "Product X", "10", 5)
	path := "/api/products/" + strconv.FormatInt(p.ID, 10)

	w := api.do(t, http.MethodPatch, path+"/stock", gin.H{"quantity": 3, "workerName": "Carlos"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var adj dto.StockAdjustmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &adj))
	assert.Equal(t, 8, adj.Product.Stock)
	assert.Equal(t, model.MovementAddition, adj.Movement.Type)

	w = api.do(t, http.MethodGet, "/api/stock-movements?productId="+strconv.FormatInt(p.ID, 10), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var movements []dto.StockMovementResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &movements))
	require.Len(t, movements, 1)
	assert.Equal(t, 3, movements[0].Quantity)
	assert.Equal(t, "Product X", movements[0].ProductName)

	w = api.do(t, http.MethodPatch, path+"/stock", gin.H{"quantity": 0}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPatch, "/api/products/777/stock", gin.H{"quantity": 1}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, w.Body.String())
}

func TestRecordMovement_LedgerOnly(t *testing.T) {
	api := newTestAPI(t, false)
	p := api.seedProduct(t, "Product X", "10", 5)

	w := api.do(t, http.MethodPost, "/api/stock-movements", gin.H{
		"productId": p.ID, "quantity": 4, "workerName": "Ana",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var m dto.StockMovementResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, model.MovementAddition, m.Type)
	assert.Equal(t, "Product X", m.ProductName)

	stored, err := api.store.Products.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Stock)
}

func TestProducts_DeleteKeepsOrders(t *testing.T) {
	api := newTestAPI(t, false)
	p := api.seedProduct(t, "Whey X", "120.00", 10)
	api.createOrder(t, p.ID, 1)
	path := "/api/products/" + strconv.FormatInt(p.ID, 10)

	w := api.do(t, http.MethodDelete, path, nil, "")
	require.Equal(t, http.StatusNoContent, w.Code)

	w = api.do(t, http.MethodGet, path, nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/api/products", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/orders/101", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProducts_CreateAndFilter(t *testing.T) {
	api := newTestAPI(t, false)

	w := api.do(t, http.MethodPost, "/api/products", gin.H{
		"name": "Creatine 300g", "price": 79.9, "category": "creatine", "stock": 3, "featured": true,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodPost, "/api/products", gin.H{"name": "Shoes", "price": 1, "category": "shoes"}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/products?category=creatine&featured=true", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var products []dto.ProductResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &products))
	require.Len(t, products, 1)
	assert.Equal(t, "Creatine 300g", products[0].Name)
}

func TestCart_CheckoutFlow(t *testing.T) {
	api := newTestAPI(t, false)
	p := api.seedProduct(t, "Whey X", "100", 10)

	w := api.do(t, http.MethodPost, "/api/cart/12/items", gin.H{"productId": p.ID, "quantity": 2}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var cart dto.CartResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.True(t, cart.Total.Equal(decimal.NewFromInt(200)))

	w = api.do(t, http.MethodPost, "/api/orders", gin.H{
		"customerId":    12,
		"customerName":  "Maria Lopez",
		"customerPhone": "987654321",
		"delivery":      gin.H{"method": "delivery", "address": "Av. Larco 123"},
		"paymentMethod": "yape",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodGet, "/api/cart/12", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.Empty(t, cart.Items)

	w = api.do(t, http.MethodGet, "/api/orders/customer/12", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var orders []dto.OrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Len(t, orders, 1)
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	api := newTestAPI(t, false)
	body := gin.H{"name": "Lucia", "email": "lucia@example.com", "password": "secret123"}

	w := api.do(t, http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(t, http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "lucia@example.com", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)

	w = api.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "lucia@example.com", "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRoles_EnforcedWhenAuthRequired(t *testing.T) {
	api := newTestAPI(t, true)
	p := api.seedProduct(t, "Whey X", "120.00", 10)
	api.createOrder(t, p.ID, 1)
	status := gin.H{"status": "confirmed"}

	w := api.do(t, http.MethodPatch, "/api/orders/101", status, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = api.do(t, http.MethodPatch, "/api/orders/101", status, signToken(t, 3, model.RoleCustomer, "Maria"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPatch, "/api/orders/101", status, signToken(t, 2, model.RoleWorker, "Carlos"))
	assert.Equal(t, http.StatusOK, w.Code)

	path := "/api/products/" + strconv.FormatInt(p.ID, 10)
	w = api.do(t, http.MethodDelete, path, nil, signToken(t, 2, model.RoleWorker, "Carlos"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodDelete, path, nil, signToken(t, 1, model.RoleAdmin, "Admin"))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestStockWorkerNameFromToken(t *testing.T) {
	api := newTestAPI(t, true)
	p := api.seedProduct(t, "Whey X", "120.00", 10)

	w := api.do(t, http.MethodPatch, "/api/products/"+strconv.FormatInt(p.ID, 10)+"/stock",
		gin.H{"quantity": 2}, signToken(t, 2, model.RoleWorker, "Carlos"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var adj dto.StockAdjustmentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &adj))
	assert.Equal(t, "Carlos", adj.Movement.WorkerName)
}

func TestInvalidTokenRejectedEvenWhenAuthOptional(t *testing.T) {
	api := newTestAPI(t, false)

	w := api.do(t, http.MethodGet, "/api/products", nil, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCustomerCannotReadAnotherCart(t *testing.T) {
	api := newTestAPI(t, false)

	w := api.do(t, http.MethodGet, "/api/cart/9", nil, signToken(t, 3, model.RoleCustomer, "Maria"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodGet, "/api/cart/3", nil, signToken(t, 3, model.RoleCustomer, "Maria"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, false)

	w := api.do(t, http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/readyz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
