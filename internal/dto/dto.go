package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/stylofitness/storefront-api/internal/model"
)

func init() {
	// The storefront UI reads prices and totals as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// --- Auth ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type UserResponse struct {
	ID    int64      `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Phone string     `json:"phone,omitempty"`
	Role  model.Role `json:"role"`
}

// --- Product ---

type CreateProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Image       string           `json:"image"`
	Category    model.Category   `json:"category" binding:"required"`
	Stock       int              `json:"stock" binding:"min=0"`
	Brand       string           `json:"brand"`
	Featured    bool             `json:"featured"`
	BestSeller  bool             `json:"bestSeller"`
}

// UpdateProductRequest is a shallow merge: only present fields change.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image"`
	Category    *model.Category  `json:"category"`
	Stock       *int             `json:"stock" binding:"omitempty,min=0"`
	Brand       *string          `json:"brand"`
	Featured    *bool            `json:"featured"`
	BestSeller  *bool            `json:"bestSeller"`
}

type ListProductsRequest struct {
	Category   string `form:"category"`
	Search     string `form:"search"`
	Featured   *bool  `form:"featured"`
	BestSeller *bool  `form:"bestSeller"`
}

type AddStockRequest struct {
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	WorkerName string `json:"workerName"`
	Reason     string `json:"reason"`
}

type AddReviewRequest struct {
	UserName string `json:"userName" binding:"required"`
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Comment  string `json:"comment"`
}

type ProductResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    model.Category  `json:"category"`
	Stock       int             `json:"stock"`
	Rating      float64         `json:"rating"`
	Reviews     []model.Review  `json:"reviews"`
	Brand       string          `json:"brand"`
	Featured    bool            `json:"featured,omitempty"`
	BestSeller  bool            `json:"bestSeller,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type StockAdjustmentResponse struct {
	Product  ProductResponse       `json:"product"`
	Movement StockMovementResponse `json:"movement"`
}

// --- Stock movements ---

type CreateStockMovementRequest struct {
	ProductID   int64              `json:"productId" binding:"required,min=1"`
	ProductName string             `json:"productName"`
	Quantity    int                `json:"quantity" binding:"required,min=1"`
	WorkerName  string             `json:"workerName"`
	Reason      string             `json:"reason"`
	Type        model.MovementType `json:"type"`
}

type ListStockMovementsRequest struct {
	ProductID int64 `form:"productId" binding:"omitempty,min=1"`
}

type StockMovementResponse struct {
	ID          int64              `json:"id"`
	ProductID   int64              `json:"productId"`
	ProductName string             `json:"productName"`
	Quantity    int                `json:"quantity"`
	Timestamp   time.Time          `json:"timestamp"`
	WorkerName  string             `json:"workerName"`
	Type        model.MovementType `json:"type"`
	Reason      string             `json:"reason,omitempty"`
}

// --- Cart ---

type AddCartItemRequest struct {
	ProductID int64 `json:"productId" binding:"required,min=1"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

type CartResponse struct {
	CustomerID int64              `json:"customerId"`
	Items      []CartItemResponse `json:"items"`
	ItemCount  int                `json:"itemCount"`
	Total      decimal.Decimal    `json:"total"`
}

type CartItemResponse struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Available bool            `json:"available"`
}

// --- Order ---

type OrderItemRequest struct {
	ProductID int64 `json:"productId" binding:"required,min=1"`
	Quantity  int   `json:"quantity" binding:"required,min=1"`
}

type DeliveryInfoRequest struct {
	Method     model.DeliveryMethod `json:"method" binding:"required,oneof=pickup delivery"`
	Address    string               `json:"address"`
	District   string               `json:"district"`
	Reference  string               `json:"reference"`
	LocationID string               `json:"locationId"`
}

// CreateOrderRequest completes checkout. Without items the customer's cart is used.
type CreateOrderRequest struct {
	CustomerID    int64               `json:"customerId"`
	CustomerName  string              `json:"customerName" binding:"required"`
	CustomerEmail string              `json:"customerEmail" binding:"omitempty,email"`
	CustomerPhone string              `json:"customerPhone" binding:"required"`
	Items         []OrderItemRequest  `json:"items" binding:"dive"`
	Delivery      DeliveryInfoRequest `json:"delivery"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod" binding:"required,oneof=cash yape whatsapp"`
	Total         *decimal.Decimal    `json:"total"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

type ListOrdersRequest struct {
	Status model.OrderStatus `form:"status"`
}

type OrderResponse struct {
	ID                int64               `json:"id"`
	CustomerID        int64               `json:"customerId,omitempty"`
	CustomerName      string              `json:"customerName"`
	CustomerEmail     string              `json:"customerEmail,omitempty"`
	CustomerPhone     string              `json:"customerPhone"`
	Items             []OrderItemResponse `json:"items"`
	Delivery          DeliveryResponse    `json:"delivery"`
	PaymentMethod     model.PaymentMethod `json:"paymentMethod"`
	Total             decimal.Decimal     `json:"total"`
	Status            model.OrderStatus   `json:"status"`
	CreatedAt         time.Time           `json:"createdAt"`
	EstimatedDelivery time.Time           `json:"estimatedDelivery"`
}

type OrderItemResponse struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName,omitempty"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

type DeliveryResponse struct {
	Method     model.DeliveryMethod `json:"method"`
	Address    string               `json:"address,omitempty"`
	District   string               `json:"district,omitempty"`
	Reference  string               `json:"reference,omitempty"`
	LocationID string               `json:"locationId,omitempty"`
}
