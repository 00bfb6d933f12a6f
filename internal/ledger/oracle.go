package ledger

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
)

type oraclePriceResponse struct {
	Data struct {
		Price uint64 `json:"price"`
		Block uint64 `json:"block"`
	} `json:"data"`
}

// PriceAtBlock resolves the historical HNT/USD oracle price at the given
// block height. The API returns the price as an integer in 1e-8 USD units.
// A 404 means no price exists at or before the height and maps to
// ErrPriceNotFound; transient failures are retried under the client policy.
func (c *Client) PriceAtBlock(ctx context.Context, height uint64) (decimal.Decimal, error) {
	var resp oraclePriceResponse
	path := fmt.Sprintf("/oracle/prices/%d", height)

	if err := c.getJSON(ctx, "oracle price", path, &resp); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return decimal.Zero, fmt.Errorf("%w %d", ErrPriceNotFound, height)
		}
		return decimal.Zero, fmt.Errorf("fetching oracle price at %d: %w", height, err)
	}

	return decimal.New(int64(resp.Data.Price), -8), nil
}
