package memory

import (
	"context"

	"github.com/stylofitness/storefront-api/internal/model"
	"github.com/stylofitness/storefront-api/internal/repository"
)

type stockRepo struct{ db *DB }

func NewStockRepository(db *DB) repository.StockRepository {
	return &stockRepo{db: db}
}

func (r *stockRepo) Adjust(_ context.Context, m *model.StockMovement) (*model.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	p, ok := r.db.products[m.ProductID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if p.Stock+m.Delta() < 0 {
		return nil, repository.ErrInsufficientStock
	}
	p.Stock += m.Delta()
	p.UpdatedAt = r.db.now()

	if m.ProductName == "" {
		m.ProductName = p.Name
	}
	r.appendLocked(m)
	return cloneProduct(p), nil
}

func (r *stockRepo) Record(_ context.Context, m *model.StockMovement) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.appendLocked(m)
	return nil
}

func (r *stockRepo) ListMovements(_ context.Context, productID int64) ([]model.StockMovement, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]model.StockMovement, 0, len(r.db.movements))
	for _, m := range r.db.movements {
		if productID == 0 || m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

// appendLocked inserts at the head of the ledger. Callers hold db.mu.
func (r *stockRepo) appendLocked(m *model.StockMovement) {
	r.db.movementSeq++
	m.ID = r.db.movementSeq
	if m.Timestamp.IsZero() {
		m.Timestamp = r.db.now()
	}
	r.db.movements = append([]model.StockMovement{*m}, r.db.movements...)
}
