package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stylofitness/storefront-api/internal/model"
)

type pgStockRepo struct{ pool *pgxpool.Pool }

func NewStockRepository(pool *pgxpool.Pool) StockRepository {
	return &pgStockRepo{pool: pool}
}

func (r *pgStockRepo) Adjust(ctx context.Context, m *model.StockMovement) (*model.Product, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	p, err := scanProduct(tx.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, m.ProductID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock product: %w", err)
	}

	if p.Stock+m.Delta() < 0 {
		return nil, ErrInsufficientStock
	}
	p.Stock += m.Delta()

	err = tx.QueryRow(ctx,
		`UPDATE products SET stock = $2, updated_at = NOW() WHERE id = $1 RETURNING updated_at`,
		p.ID, p.Stock,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("update stock: %w", err)
	}

	if m.ProductName == "" {
		m.ProductName = p.Name
	}
	if err := insertMovement(ctx, tx, m); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return p, nil
}

func (r *pgStockRepo) Record(ctx context.Context, m *model.StockMovement) error {
	return insertMovement(ctx, r.pool, m)
}

func (r *pgStockRepo) ListMovements(ctx context.Context, productID int64) ([]model.StockMovement, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, product_name, quantity, created_at, worker_name, type, reason
		 FROM stock_movements WHERE ($1 = 0 OR product_id = $1) ORDER BY id DESC`, productID,
	)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var movements []model.StockMovement
	for rows.Next() {
		var m model.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.ProductName, &m.Quantity, &m.Timestamp,
			&m.WorkerName, &m.Type, &m.Reason); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		movements = append(movements, m)
	}
	return movements, rows.Err()
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertMovement(ctx context.Context, q queryRower, m *model.StockMovement) error {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	err := q.QueryRow(ctx,
		`INSERT INTO stock_movements (product_id, product_name, quantity, created_at, worker_name, type, reason)
		 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		m.ProductID, m.ProductName, m.Quantity, m.Timestamp, m.WorkerName, m.Type, m.Reason,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}
