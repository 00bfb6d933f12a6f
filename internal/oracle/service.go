package oracle

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shopspring/decimal"
)

// Source resolves a historical oracle price at a block height. Implemented
// by the ledger API client; may return ledger.ErrPriceNotFound.
type Source interface {
	PriceAtBlock(ctx context.Context, height uint64) (decimal.Decimal, error)
}

// Service answers price lookups from an in-memory cache, then the optional
// persistent repository, then the upstream source.
type Service struct {
	source Source
	repo   Repository // optional
	cache  *priceCache
}

// NewService creates a price Service. repo may be nil.
func NewService(source Source, repo Repository) *Service {
	if source == nil {
		panic("oracle.NewService: source is nil")
	}
	return &Service{
		source: source,
		repo:   repo,
		cache:  newPriceCache(),
	}
}

// PriceAtBlock resolves the oracle price at the given height.
func (s *Service) PriceAtBlock(ctx context.Context, height uint64) (decimal.Decimal, error) {
	if price, ok := s.cache.get(height); ok {
		return price, nil
	}

	if s.repo != nil {
		price, err := s.repo.GetPrice(ctx, height)
		if err == nil {
			s.cache.set(height, price)
			return price, nil
		}
		if !errors.Is(err, ErrNotCached) {
			slog.Warn("price repository lookup failed, falling through to API", "block", height, "error", err)
		}
	}

	price, err := s.source.PriceAtBlock(ctx, height)
	if err != nil {
		return decimal.Zero, err
	}

	s.cache.set(height, price)
	if s.repo != nil {
		if err := s.repo.SavePrice(ctx, height, price); err != nil {
			slog.Warn("price repository save failed", "block", height, "error", err)
		}
	}
	return price, nil
}
