package ledger

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/lthiery/helium/internal/domain"
)

type transactionsPage struct {
	Data   []Transaction `json:"data"`
	Cursor string        `json:"cursor"`
}

type rewardsPage struct {
	Data   []RewardTx `json:"data"`
	Cursor string     `json:"cursor"`
}

// AccountTransactions fetches the full transaction history of an account,
// following cursor pagination to exhaustion. Rows keep API order (newest
// first) and are never deduplicated here.
func (c *Client) AccountTransactions(ctx context.Context, address string) ([]Transaction, error) {
	var all []Transaction
	cursor := ""

	for {
		path := fmt.Sprintf("/accounts/%s/transactions", address)
		if cursor != "" {
			path += "?cursor=" + url.QueryEscape(cursor)
		}

		var page transactionsPage
		if err := c.getJSON(ctx, "account transactions", path, &page); err != nil {
			return nil, fmt.Errorf("fetching transactions for %s: %w", address, err)
		}

		all = append(all, page.Data...)
		if page.Cursor == "" {
			return all, nil
		}
		cursor = page.Cursor
	}
}

// AccountRewards fetches all reward transactions for an account whose
// timestamp falls within the window, bounds inclusive.
func (c *Client) AccountRewards(ctx context.Context, address string, window domain.TimeRange) ([]RewardTx, error) {
	params := url.Values{}
	params.Set("min_time", window.Min.UTC().Format(time.RFC3339))
	params.Set("max_time", window.Max.UTC().Format(time.RFC3339))

	var all []RewardTx
	cursor := ""

	for {
		if cursor != "" {
			params.Set("cursor", cursor)
		}
		path := fmt.Sprintf("/accounts/%s/rewards?%s", address, params.Encode())

		var page rewardsPage
		if err := c.getJSON(ctx, "account rewards", path, &page); err != nil {
			return nil, fmt.Errorf("fetching rewards for %s: %w", address, err)
		}

		all = append(all, page.Data...)
		if page.Cursor == "" {
			return all, nil
		}
		cursor = page.Cursor
	}
}
