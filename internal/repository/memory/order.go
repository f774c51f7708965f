package memory

import (
	"context"
	"sort"

	"github.com/stylofitness/storefront-api/internal/model"
	"github.com/stylofitness/storefront-api/internal/repository"
)

type orderRepo struct{ db *DB }

func NewOrderRepository(db *DB) repository.OrderRepository {
	return &orderRepo{db: db}
}

func (r *orderRepo) Create(_ context.Context, o *model.Order) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.orderSeq++
	o.ID = r.db.orderSeq
	if o.CreatedAt.IsZero() {
		o.CreatedAt = r.db.now()
	}
	o.UpdatedAt = o.CreatedAt
	r.db.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *orderRepo) GetByID(_ context.Context, id int64) (*model.Order, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	o, ok := r.db.orders[id]
	if !ok {
		return nil, nil
	}
	return cloneOrder(o), nil
}

func (r *orderRepo) List(_ context.Context, status model.OrderStatus) ([]model.Order, error) {
	return r.filter(func(o *model.Order) bool { return status == "" || o.Status == status }), nil
}

func (r *orderRepo) ListByCustomer(_ context.Context, customerID int64) ([]model.Order, error) {
	return r.filter(func(o *model.Order) bool { return o.CustomerID == customerID }), nil
}

func (r *orderRepo) UpdateStatus(_ context.Context, id int64, from, to model.OrderStatus) (*model.Order, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	o, ok := r.db.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if o.Status != from {
		return nil, repository.ErrStatusConflict
	}
	o.Status = to
	o.UpdatedAt = r.db.now()
	return cloneOrder(o), nil
}

func (r *orderRepo) filter(keep func(*model.Order) bool) []model.Order {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]model.Order, 0)
	for _, o := range r.db.orders {
		if keep(o) {
			out = append(out, *cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}
