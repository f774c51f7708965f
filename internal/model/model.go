package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleWorker   Role = "worker"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCustomer, RoleWorker, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        int64
	Name      string
	Email     string
	Password  string
	Phone     string
	Role      Role
	CreatedAt time.Time
}

type Category string

const (
	CategoryProtein   Category = "protein"
	CategoryCreatine  Category = "creatine"
	CategoryFatBurner Category = "fat-burner"
	CategoryVitamins  Category = "vitamins"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryProtein, CategoryCreatine, CategoryFatBurner, CategoryVitamins:
		return true
	}
	return false
}

type Review struct {
	ID       int64     `json:"id"`
	UserName string    `json:"userName"`
	Rating   int       `json:"rating"`
	Comment  string    `json:"comment"`
	Date     time.Time `json:"date"`
}

type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
	Category    Category
	Stock       int
	Rating      float64
	Reviews     []Review
	Brand       string
	Featured    bool
	BestSeller  bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RecomputeRating sets Rating to the review average rounded to one decimal.
func (p *Product) RecomputeRating() {
	if len(p.Reviews) == 0 {
		p.Rating = 0
		return
	}
	sum := 0
	for _, r := range p.Reviews {
		sum += r.Rating
	}
	avg := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(len(p.Reviews)))).Round(1)
	p.Rating = avg.InexactFloat64()
}

// ProductFilter narrows catalog listings. Zero values match everything.
type ProductFilter struct {
	Category   Category
	Search     string
	Featured   *bool
	BestSeller *bool
}

type DeliveryMethod string

const (
	DeliveryPickup   DeliveryMethod = "pickup"
	DeliveryDelivery DeliveryMethod = "delivery"
)

type PaymentMethod string

const (
	PaymentCash     PaymentMethod = "cash"
	PaymentYape     PaymentMethod = "yape"
	PaymentWhatsApp PaymentMethod = "whatsapp"
)

type DeliveryInfo struct {
	Method     DeliveryMethod
	Address    string
	District   string
	Reference  string
	LocationID string
}

type Order struct {
	ID                int64
	CustomerID        int64
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	Items             []OrderItem
	Delivery          DeliveryInfo
	PaymentMethod     PaymentMethod
	Total             decimal.Decimal
	Status            OrderStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
	EstimatedDelivery time.Time
}

type OrderItem struct {
	ProductID   int64
	ProductName string
	Quantity    int
	Price       decimal.Decimal
}

type MovementType string

const (
	MovementAddition  MovementType = "addition"
	MovementReduction MovementType = "reduction"
)

func (t MovementType) Valid() bool {
	return t == MovementAddition || t == MovementReduction
}

// StockMovement is an append-only ledger entry.
type StockMovement struct {
	ID          int64
	ProductID   int64
	ProductName string
	Quantity    int
	Timestamp   time.Time
	WorkerName  string
	Type        MovementType
	Reason      string
}

// Delta is the signed change the movement applies to a stock counter.
func (m StockMovement) Delta() int {
	if m.Type == MovementReduction {
		return -m.Quantity
	}
	return m.Quantity
}

type Cart struct {
	CustomerID int64
	Items      []CartItem
	UpdatedAt  time.Time
}

type CartItem struct {
	ProductID int64
	Quantity  int
}

// Event payloads published to the broker.

type OrderEvent struct {
	OrderID        int64       `json:"orderId"`
	CustomerID     int64       `json:"customerId,omitempty"`
	Status         OrderStatus `json:"status"`
	PreviousStatus OrderStatus `json:"previousStatus,omitempty"`
	OccurredAt     time.Time   `json:"occurredAt"`
}

type StockEvent struct {
	ProductID  int64        `json:"productId"`
	MovementID int64        `json:"movementId"`
	Type       MovementType `json:"type"`
	Quantity   int          `json:"quantity"`
	Stock      int          `json:"stock"`
	OccurredAt time.Time    `json:"occurredAt"`
}
