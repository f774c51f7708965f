package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/stylofitness/storefront-api/internal/model"
	"github.com/stylofitness/storefront-api/internal/repository"
)

type productRepo struct{ db *DB }

func NewProductRepository(db *DB) repository.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(_ context.Context, p *model.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	r.db.productSeq++
	p.ID = r.db.productSeq
	p.CreatedAt = r.db.now()
	p.UpdatedAt = p.CreatedAt
	r.db.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *productRepo) GetByID(_ context.Context, id int64) (*model.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	p, ok := r.db.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (r *productRepo) List(_ context.Context, f model.ProductFilter) ([]model.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	search := strings.ToLower(f.Search)
	out := make([]model.Product, 0, len(r.db.products))
	for _, p := range r.db.products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.Featured != nil && p.Featured != *f.Featured {
			continue
		}
		if f.BestSeller != nil && p.BestSeller != *f.BestSeller {
			continue
		}
		if search != "" && !matches(p, search) {
			continue
		}
		out = append(out, *cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *productRepo) Update(_ context.Context, id int64, mutate func(*model.Product) error) (*model.Product, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	stored, ok := r.db.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	p := cloneProduct(stored)
	if err := mutate(p); err != nil {
		return nil, err
	}
	p.ID = id
	p.UpdatedAt = r.db.now()
	r.db.products[id] = cloneProduct(p)
	return p, nil
}

func (r *productRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.db.products, id)
	return nil
}

func matches(p *model.Product, search string) bool {
	for _, field := range []string{p.Name, p.Brand, p.Description} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}
