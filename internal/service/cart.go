package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/stylofitness/storefront-api/internal/dto"
	"github.com/stylofitness/storefront-api/internal/repository"
)

var ErrCartItemNotFound = errors.New("cart item not found")

type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart prices the cart with current catalog prices. Lines whose product was
// deleted are returned as unavailable and left out of the total.
func (s *CartService) GetCart(ctx context.Context, customerID int64) (*dto.CartResponse, error) {
	cart, err := s.cartRepo.Get(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	resp := &dto.CartResponse{
		CustomerID: customerID,
		Items:      make([]dto.CartItemResponse, 0, len(cart.Items)),
		Total:      decimal.Zero,
	}
	for _, item := range cart.Items {
		line := dto.CartItemResponse{ProductID: item.ProductID, Quantity: item.Quantity}
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
		if product != nil {
			line.Name = product.Name
			line.Image = product.Image
			line.Price = product.Price
			line.Subtotal = product.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			line.Available = product.Stock >= item.Quantity
			resp.Total = resp.Total.Add(line.Subtotal)
			resp.ItemCount += item.Quantity
		}
		resp.Items = append(resp.Items, line)
	}
	return resp, nil
}

func (s *CartService) AddItem(ctx context.Context, customerID, productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}
	return s.cartRepo.AddItem(ctx, customerID, productID, quantity)
}

func (s *CartService) UpdateItem(ctx context.Context, customerID, productID int64, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if err := s.cartRepo.SetItem(ctx, customerID, productID, quantity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCartItemNotFound
		}
		return fmt.Errorf("update cart item: %w", err)
	}
	return nil
}

func (s *CartService) RemoveItem(ctx context.Context, customerID, productID int64) error {
	if err := s.cartRepo.RemoveItem(ctx, customerID, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrCartItemNotFound
		}
		return fmt.Errorf("remove cart item: %w", err)
	}
	return nil
}

func (s *CartService) Clear(ctx context.Context, customerID int64) error {
	return s.cartRepo.Clear(ctx, customerID)
}
