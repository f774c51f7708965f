// Package memory implements the storefront repositories over process-local maps.
// All collections share one lock so that a stock adjustment and its ledger entry are
// applied together. Data is lost on restart.
package memory

import (
	"sync"
	"time"

	"github.com/stylofitness/storefront-api/internal/model"
	"github.com/stylofitness/storefront-api/internal/repository"
)

// firstOrderID keeps order numbers in the range the storefront has always shown.
const firstOrderID = 101

// DB holds every collection of the in-memory driver.
type DB struct {
	mu sync.RWMutex

	users   map[int64]*model.User
	userSeq int64

	products   map[int64]*model.Product
	productSeq int64

	orders   map[int64]*model.Order
	orderSeq int64

	// movements is kept newest first.
	movements   []model.StockMovement
	movementSeq int64

	carts map[int64]*model.Cart

	now func() time.Time
}

// New creates an empty database.
func New() *DB {
	return &DB{
		users:    make(map[int64]*model.User),
		products: make(map[int64]*model.Product),
		orders:   make(map[int64]*model.Order),
		orderSeq: firstOrderID - 1,
		carts:    make(map[int64]*model.Cart),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewStore wires every repository of a fresh database.
func NewStore() *repository.Store {
	db := New()
	return &repository.Store{
		Users:    NewUserRepository(db),
		Products: NewProductRepository(db),
		Orders:   NewOrderRepository(db),
		Stock:    NewStockRepository(db),
		Carts:    NewCartRepository(db),
	}
}

func cloneProduct(p *model.Product) *model.Product {
	cp := *p
	cp.Reviews = append([]model.Review(nil), p.Reviews...)
	return &cp
}

func cloneOrder(o *model.Order) *model.Order {
	cp := *o
	cp.Items = append([]model.OrderItem(nil), o.Items...)
	return &cp
}

func cloneCart(c *model.Cart) *model.Cart {
	cp := *c
	cp.Items = append([]model.CartItem(nil), c.Items...)
	return &cp
}
