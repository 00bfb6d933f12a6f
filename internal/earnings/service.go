// Package earnings aggregates reward transactions into ownership-weighted
// USD earnings reports.
package earnings

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lthiery/helium/internal/config"
	"github.com/lthiery/helium/internal/domain"
	"github.com/lthiery/helium/internal/ledger"
)

// RewardFetcher fetches the reward transactions of one account in a window.
// The implementation is expected to retry transient failures itself.
type RewardFetcher interface {
	AccountRewards(ctx context.Context, address string, window domain.TimeRange) ([]ledger.RewardTx, error)
}

// PriceSource resolves historical oracle prices.
type PriceSource interface {
	PriceAtBlock(ctx context.Context, height uint64) (decimal.Decimal, error)
}

// Entry is one reward transaction priced and weighted for the report.
// Built once during aggregation and never mutated.
type Entry struct {
	Pubkey      string
	Timestamp   string
	Hash        string
	Block       uint64
	Amount      decimal.Decimal // ownership-weighted HNT
	OraclePrice decimal.Decimal
	Ownership   decimal.Decimal // fraction actually applied
	USDValue    decimal.Decimal
}

// AccountResult is the outcome of one account's aggregation. Entries keep
// the order the ledger API returned them.
type AccountResult struct {
	Account   config.Account
	Entries   []Entry
	TotalHNT  decimal.Decimal
	TotalUSD  decimal.Decimal
	Skipped   int // rows without a resolvable oracle price
	Duplicate int // repeated transaction hashes, counted once
	Err       error
}

// Failed reports whether the account produced no usable result.
func (r AccountResult) Failed() bool {
	return r.Err != nil
}

// Summary is the outcome of a whole run: per-account results in
// configuration order plus grand totals over the accounts that succeeded.
type Summary struct {
	Window         domain.TimeRange
	Accounts       []AccountResult
	GrandTotalHNT  decimal.Decimal
	GrandTotalUSD  decimal.Decimal
	Skipped        int
	Duplicate      int
	FailedAccounts int
}

// AccountHook observes each account's result as it completes, before the
// run-wide merge. Used to flush per-account artifacts incrementally.
// Calls are serialized but not ordered.
type AccountHook func(AccountResult)

// Service runs the earnings aggregation pipeline.
type Service struct {
	rewards   RewardFetcher
	prices    PriceSource
	precision config.OwnershipPrecision
	hook      AccountHook // optional
}

// NewService creates an earnings Service. hook may be nil.
func NewService(rewards RewardFetcher, prices PriceSource, precision config.OwnershipPrecision, hook AccountHook) *Service {
	if rewards == nil {
		panic("earnings.NewService: rewards is nil")
	}
	if prices == nil {
		panic("earnings.NewService: prices is nil")
	}
	return &Service{
		rewards:   rewards,
		prices:    prices,
		precision: precision,
		hook:      hook,
	}
}

// Run aggregates every configured account over the window. Accounts are
// processed concurrently on isolated accumulators; the merge walks them in
// configuration order, so output row order is deterministic and per-account
// tables never interleave. One account failing does not abort the others.
func (s *Service) Run(ctx context.Context, accounts []config.Account, window domain.TimeRange) (Summary, error) {
	results := make([]AccountResult, len(accounts))

	var wg sync.WaitGroup
	var hookMu sync.Mutex
	for i, account := range accounts {
		i, account := i, account
		wg.Add(1)
		go func() {
			defer wg.Done()
			result := s.processAccount(ctx, account, window)
			results[i] = result
			if s.hook != nil {
				hookMu.Lock()
				s.hook(result)
				hookMu.Unlock()
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return Summary{}, err
	}
	return mergeResults(window, results), nil
}

// processAccount fetches, prices and weights one account's rewards.
func (s *Service) processAccount(ctx context.Context, account config.Account, window domain.TimeRange) AccountResult {
	result := AccountResult{
		Account:  account,
		TotalHNT: decimal.Zero,
		TotalUSD: decimal.Zero,
	}

	rewards, err := s.rewards.AccountRewards(ctx, account.Pubkey, window)
	if err != nil {
		slog.Error("reward fetch failed", "label", account.Label, "pubkey", account.Pubkey, "error", err)
		result.Err = err
		return result
	}

	weight := ownershipWeight(account.Ownership, s.precision)
	seen := make(map[string]bool, len(rewards))

	for _, reward := range rewards {
		if seen[reward.Hash] {
			slog.Warn("duplicate reward in upstream stream, counting once",
				"label", account.Label, "hash", reward.Hash)
			result.Duplicate++
			continue
		}
		seen[reward.Hash] = true

		price, err := s.prices.PriceAtBlock(ctx, reward.Block)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				result.Err = err
				return result
			}
			slog.Warn("skipping reward without oracle price",
				"label", account.Label, "hash", reward.Hash, "block", reward.Block, "error", err)
			result.Skipped++
			continue
		}

		amount := domain.HNTFromBones(reward.Amount).Mul(weight)
		usd := amount.Mul(price)

		result.Entries = append(result.Entries, Entry{
			Pubkey:      account.Pubkey,
			Timestamp:   reward.Timestamp.Format(time.RFC3339),
			Hash:        reward.Hash,
			Block:       reward.Block,
			Amount:      amount,
			OraclePrice: price,
			Ownership:   weight,
			USDValue:    usd,
		})
		result.TotalHNT = result.TotalHNT.Add(amount)
		result.TotalUSD = result.TotalUSD.Add(usd)
	}

	slog.Info("account complete",
		"label", account.Label, "pubkey", account.Pubkey,
		"hnt", result.TotalHNT, "usd", result.TotalUSD,
		"rewards", len(result.Entries), "skipped", result.Skipped)
	return result
}

// ownershipWeight converts the configured fraction into the multiplier to
// apply. Percent precision truncates to whole percentage points, matching
// the historical reports; exact keeps the full fraction.
func ownershipWeight(ownership float64, precision config.OwnershipPrecision) decimal.Decimal {
	if precision == config.PrecisionPercent {
		return decimal.New(int64(ownership*100), -2)
	}
	return decimal.NewFromFloat(ownership)
}
