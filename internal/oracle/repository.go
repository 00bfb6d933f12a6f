package oracle

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ErrNotCached indicates the repository holds no price for the block.
var ErrNotCached = errors.New("price not cached")

// Repository defines persistent storage for resolved oracle prices, so
// repeated report runs do not re-fetch prices for blocks already seen.
type Repository interface {
	SavePrice(ctx context.Context, block uint64, price decimal.Decimal) error
	GetPrice(ctx context.Context, block uint64) (decimal.Decimal, error)
}

// PgRepository implements Repository with PostgreSQL.
type PgRepository struct {
	pool *pgxpool.Pool
}

// NewPgRepository creates a new PostgreSQL price repository.
func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) SavePrice(ctx context.Context, block uint64, price decimal.Decimal) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO oracle_prices (block, price, fetched_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (block) DO NOTHING`,
		int64(block), price)
	if err != nil {
		return fmt.Errorf("saving price for block %d: %w", block, err)
	}
	return nil
}

func (r *PgRepository) GetPrice(ctx context.Context, block uint64) (decimal.Decimal, error) {
	var price decimal.Decimal
	err := r.pool.QueryRow(ctx,
		`SELECT price FROM oracle_prices WHERE block = $1`,
		int64(block)).Scan(&price)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, ErrNotCached
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("getting price for block %d: %w", block, err)
	}
	return price, nil
}
