package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/stylofitness/storefront-api/internal/dto"
	"github.com/stylofitness/storefront-api/internal/model"
	"github.com/stylofitness/storefront-api/internal/repository"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidPrice    = errors.New("price must not be negative")
	ErrInvalidStock    = errors.New("stock must not be negative")
	ErrPricePrecision  = errors.New("price must have at most 2 decimal places")
)

type ProductService struct {
	productRepo repository.ProductRepository
	cache       *ProductCache
}

func NewProductService(productRepo repository.ProductRepository, cache *ProductCache) *ProductService {
	return &ProductService{productRepo: productRepo, cache: cache}
}

func (s *ProductService) Create(ctx context.Context, req dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Category:    req.Category,
		Stock:       req.Stock,
		Brand:       req.Brand,
		Featured:    req.Featured,
		BestSeller:  req.BestSeller,
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

func (s *ProductService) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	if cached, ok := s.cache.Get(ctx, id); ok {
		resp := dto.NewProductResponse(cached)
		return &resp, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	s.cache.Set(ctx, product)
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

func (s *ProductService) List(ctx context.Context, req dto.ListProductsRequest) ([]dto.ProductResponse, error) {
	filter := model.ProductFilter{
		Category:   model.Category(req.Category),
		Search:     req.Search,
		Featured:   req.Featured,
		BestSeller: req.BestSeller,
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, ErrInvalidCategory
	}

	products, err := s.productRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	items := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, dto.NewProductResponse(&products[i]))
	}
	return items, nil
}

func (s *ProductService) Update(ctx context.Context, id int64, req dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepo.Update(ctx, id, func(p *model.Product) error {
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.Image != nil {
			p.Image = *req.Image
		}
		if req.Category != nil {
			p.Category = *req.Category
		}
		if req.Stock != nil {
			p.Stock = *req.Stock
		}
		if req.Brand != nil {
			p.Brand = *req.Brand
		}
		if req.Featured != nil {
			p.Featured = *req.Featured
		}
		if req.BestSeller != nil {
			p.BestSeller = *req.BestSeller
		}
		return validateProduct(p)
	})
	if err != nil {
		return nil, s.updateError(err)
	}

	s.cache.Invalidate(ctx, id)
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

// Delete removes the product. Orders and stock movements that reference it are kept.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.cache.Invalidate(ctx, id)
	return nil
}

func (s *ProductService) AddReview(ctx context.Context, id int64, req dto.AddReviewRequest) (*dto.ProductResponse, error) {
	product, err := s.productRepo.Update(ctx, id, func(p *model.Product) error {
		var nextID int64 = 1
		for _, r := range p.Reviews {
			if r.ID >= nextID {
				nextID = r.ID + 1
			}
		}
		p.Reviews = append(p.Reviews, model.Review{
			ID:       nextID,
			UserName: req.UserName,
			Rating:   req.Rating,
			Comment:  req.Comment,
			Date:     time.Now().UTC(),
		})
		p.RecomputeRating()
		return nil
	})
	if err != nil {
		return nil, s.updateError(err)
	}

	s.cache.Invalidate(ctx, id)
	resp := dto.NewProductResponse(product)
	return &resp, nil
}

func (s *ProductService) updateError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrProductNotFound
	case errors.Is(err, ErrInvalidCategory), errors.Is(err, ErrInvalidPrice),
		errors.Is(err, ErrPricePrecision), errors.Is(err, ErrInvalidStock):
		return err
	}
	return fmt.Errorf("update product: %w", err)
}

func validateProduct(p *model.Product) error {
	if !p.Category.Valid() {
		return ErrInvalidCategory
	}
	if p.Price.LessThan(decimal.Zero) {
		return ErrInvalidPrice
	}
	if !p.Price.Equal(p.Price.Round(2)) {
		return ErrPricePrecision
	}
	if p.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}
