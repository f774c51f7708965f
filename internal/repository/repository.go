// Package repository defines the storage contracts of the storefront and their
// PostgreSQL implementation. Lookups return (nil, nil) when the row is absent; mutations
// of absent rows return ErrNotFound.
package repository

import (
	"context"
	"errors"

	"github.com/stylofitness/storefront-api/internal/model"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrStatusConflict    = errors.New("status changed concurrently")
	ErrDuplicateEmail    = errors.New("email already registered")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, error)
	// Update applies mutate to the stored product and saves the result while the row
	// is locked. An error from mutate aborts the update and is returned unchanged.
	Update(ctx context.Context, id int64, mutate func(*model.Product) error) (*model.Product, error)
	Delete(ctx context.Context, id int64) error
}

type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id int64) (*model.Order, error)
	// List returns orders newest first; an empty status matches all.
	List(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	// UpdateStatus moves the order from status `from` to `to`. It fails with
	// ErrStatusConflict when the stored status is no longer `from`.
	UpdateStatus(ctx context.Context, id int64, from, to model.OrderStatus) (*model.Order, error)
}

type StockRepository interface {
	// Adjust applies the movement to the product's stock counter and appends it to the
	// ledger as one atomic step. ID, Timestamp and an empty ProductName are filled in.
	Adjust(ctx context.Context, movement *model.StockMovement) (*model.Product, error)
	// Record appends the movement to the ledger without touching the counter.
	Record(ctx context.Context, movement *model.StockMovement) error
	// ListMovements returns the ledger newest first; productID 0 matches all.
	ListMovements(ctx context.Context, productID int64) ([]model.StockMovement, error)
}

type CartRepository interface {
	// Get never returns nil: a customer without items has an empty cart.
	Get(ctx context.Context, customerID int64) (*model.Cart, error)
	AddItem(ctx context.Context, customerID, productID int64, quantity int) error
	SetItem(ctx context.Context, customerID, productID int64, quantity int) error
	RemoveItem(ctx context.Context, customerID, productID int64) error
	// Take subtracts each item's quantity from the matching cart line and drops lines
	// that reach zero. Lines absent from the cart are skipped.
	Take(ctx context.Context, customerID int64, items []model.CartItem) error
	Clear(ctx context.Context, customerID int64) error
}

// Store bundles one driver's repositories.
type Store struct {
	Users    UserRepository
	Products ProductRepository
	Orders   OrderRepository
	Stock    StockRepository
	Carts    CartRepository
}
