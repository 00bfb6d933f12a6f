package earnings

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/lthiery/helium/internal/domain"
)

// mergeResults folds per-account results into a Summary. The fold is a pure
// commutative sum, so per-account processing order cannot change the grand
// totals; results keep configuration order for the report rows.
func mergeResults(window domain.TimeRange, results []AccountResult) Summary {
	succeeded := lo.Filter(results, func(r AccountResult, _ int) bool {
		return !r.Failed()
	})

	grandHNT := lo.Reduce(succeeded, func(acc decimal.Decimal, r AccountResult, _ int) decimal.Decimal {
		return acc.Add(r.TotalHNT)
	}, decimal.Zero)

	grandUSD := lo.Reduce(succeeded, func(acc decimal.Decimal, r AccountResult, _ int) decimal.Decimal {
		return acc.Add(r.TotalUSD)
	}, decimal.Zero)

	skipped := lo.SumBy(results, func(r AccountResult) int { return r.Skipped })
	duplicate := lo.SumBy(results, func(r AccountResult) int { return r.Duplicate })

	return Summary{
		Window:         window,
		Accounts:       results,
		GrandTotalHNT:  grandHNT,
		GrandTotalUSD:  grandUSD,
		Skipped:        skipped,
		Duplicate:      duplicate,
		FailedAccounts: len(results) - len(succeeded),
	}
}
