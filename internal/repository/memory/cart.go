package memory

import (
	"context"

	"github.com/stylofitness/storefront-api/internal/model"
	"github.com/stylofitness/storefront-api/internal/repository"
)

type cartRepo struct{ db *DB }

func NewCartRepository(db *DB) repository.CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) Get(_ context.Context, customerID int64) (*model.Cart, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	c, ok := r.db.carts[customerID]
	if !ok {
		return &model.Cart{CustomerID: customerID}, nil
	}
	return cloneCart(c), nil
}

func (r *cartRepo) AddItem(_ context.Context, customerID, productID int64, quantity int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	c, ok := r.db.carts[customerID]
	if !ok {
		c = &model.Cart{CustomerID: customerID}
		r.db.carts[customerID] = c
	}
	c.UpdatedAt = r.db.now()
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			return nil
		}
	}
	c.Items = append(c.Items, model.CartItem{ProductID: productID, Quantity: quantity})
	return nil
}

func (r *cartRepo) SetItem(_ context.Context, customerID, productID int64, quantity int) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i, c := r.findLocked(customerID, productID)
	if i < 0 {
		return repository.ErrNotFound
	}
	c.Items[i].Quantity = quantity
	c.UpdatedAt = r.db.now()
	return nil
}

func (r *cartRepo) RemoveItem(_ context.Context, customerID, productID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	i, c := r.findLocked(customerID, productID)
	if i < 0 {
		return repository.ErrNotFound
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.UpdatedAt = r.db.now()
	return nil
}

func (r *cartRepo) Take(_ context.Context, customerID int64, items []model.CartItem) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, item := range items {
		i, c := r.findLocked(customerID, item.ProductID)
		if i < 0 {
			continue
		}
		if c.Items[i].Quantity > item.Quantity {
			c.Items[i].Quantity -= item.Quantity
		} else {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
		}
		c.UpdatedAt = r.db.now()
	}
	return nil
}

func (r *cartRepo) Clear(_ context.Context, customerID int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	delete(r.db.carts, customerID)
	return nil
}

func (r *cartRepo) findLocked(customerID, productID int64) (int, *model.Cart) {
	c, ok := r.db.carts[customerID]
	if !ok {
		return -1, nil
	}
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i, c
		}
	}
	return -1, c
}
