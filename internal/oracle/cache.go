package oracle

import (
	"sync"

	"github.com/shopspring/decimal"
)

// priceCache holds prices already resolved this run. An oracle price is
// immutable once recorded at a height, so entries never expire.
type priceCache struct {
	mu      sync.RWMutex
	entries map[uint64]decimal.Decimal
}

func newPriceCache() *priceCache {
	return &priceCache{
		entries: make(map[uint64]decimal.Decimal),
	}
}

func (c *priceCache) get(block uint64) (decimal.Decimal, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	price, ok := c.entries[block]
	return price, ok
}

func (c *priceCache) set(block uint64, price decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[block] = price
}
