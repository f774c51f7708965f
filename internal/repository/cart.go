package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stylofitness/storefront-api/internal/model"
)

type pgCartRepo struct{ pool *pgxpool.Pool }

func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &pgCartRepo{pool: pool}
}

func (r *pgCartRepo) Get(ctx context.Context, customerID int64) (*model.Cart, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT product_id, quantity, added_at FROM cart_items WHERE customer_id = $1 ORDER BY added_at, product_id`,
		customerID,
	)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	defer rows.Close()

	cart := &model.Cart{CustomerID: customerID}
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(&item.ProductID, &item.Quantity, &cart.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}
	return cart, rows.Err()
}

func (r *pgCartRepo) AddItem(ctx context.Context, customerID, productID int64, quantity int) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO cart_items (customer_id, product_id, quantity, added_at) VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (customer_id, product_id) DO UPDATE SET quantity = cart_items.quantity + $3`,
		customerID, productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("add cart item: %w", err)
	}
	return nil
}

func (r *pgCartRepo) SetItem(ctx context.Context, customerID, productID int64, quantity int) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE customer_id = $1 AND product_id = $2`,
		customerID, productID, quantity,
	)
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgCartRepo) RemoveItem(ctx context.Context, customerID, productID int64) error {
	ct, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE customer_id = $1 AND product_id = $2`, customerID, productID,
	)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgCartRepo) Take(ctx context.Context, customerID int64, items []model.CartItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, item := range items {
		_, err := tx.Exec(ctx,
			`DELETE FROM cart_items WHERE customer_id = $1 AND product_id = $2 AND quantity <= $3`,
			customerID, item.ProductID, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("delete cart item: %w", err)
		}
		_, err = tx.Exec(ctx,
			`UPDATE cart_items SET quantity = quantity - $3 WHERE customer_id = $1 AND product_id = $2`,
			customerID, item.ProductID, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("update cart item: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *pgCartRepo) Clear(ctx context.Context, customerID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE customer_id = $1`, customerID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}
