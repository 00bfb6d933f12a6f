// Package accounting computes the economic effect of ledger transactions on
// tracked accounts and projects them into report rows.
package accounting

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/lthiery/helium/internal/domain"
	"github.com/lthiery/helium/internal/ledger"
)

// PriceSource resolves the oracle price backing the HNT-to-DC conversion of
// a token burn. This is the only resolution path that touches the network.
type PriceSource interface {
	PriceAtBlock(ctx context.Context, height uint64) (decimal.Decimal, error)
}

// ResolveEffect computes the normalized economic effect of txn on account.
//
// Dispatch is exhaustive over the closed variant set: payments and token
// burns follow the transfer policy, payment_v2 the multi-recipient policy,
// rewards the reward policy, and the administrative variants produce a zero
// effect. A tag outside the set is an error, never silently a zero effect.
// Only the token burn DC leg can fail; everything else is pure.
func ResolveEffect(ctx context.Context, txn ledger.Transaction, account domain.Address, prices PriceSource) (domain.Effect, error) {
	switch txn.Type {
	case ledger.TxnPaymentV1:
		return transferEffect(txn, account), nil

	case ledger.TxnPaymentV2:
		return multiTransferEffect(txn, account), nil

	case ledger.TxnRewardsV1, ledger.TxnRewardsV2:
		return rewardEffect(txn), nil

	case ledger.TxnTokenBurnV1:
		return tokenBurnEffect(ctx, txn, account, prices)

	case ledger.TxnAddGatewayV1,
		ledger.TxnAssertLocationV1,
		ledger.TxnCoinbaseV1,
		ledger.TxnSecurityCoinbaseV1,
		ledger.TxnDCCoinbaseV1,
		ledger.TxnGenGatewayV1,
		ledger.TxnGenPriceOracleV1,
		ledger.TxnConsensusGroupV1,
		ledger.TxnCreateHTLCV1,
		ledger.TxnRedeemHTLCV1,
		ledger.TxnOUIV1,
		ledger.TxnRoutingV1,
		ledger.TxnPocRequestV1,
		ledger.TxnPocReceiptsV1,
		ledger.TxnSecurityExchangeV1,
		ledger.TxnVarsV1,
		ledger.TxnTokenBurnExchangeRateV1,
		ledger.TxnBundleV1,
		ledger.TxnStateChannelOpenV1,
		ledger.TxnStateChannelCloseV1,
		ledger.TxnUpdateGatewayOUIV1,
		ledger.TxnPriceOracleV1,
		ledger.TxnTransferHotspotV1:
		// No direct effect on a holder's balance.
		return domain.Effect{}, nil

	default:
		return domain.Effect{}, fmt.Errorf("unknown transaction variant %q in %s", txn.Type, txn.Hash)
	}
}

// transferEffect applies the single-payer/single-payee policy. The account
// is the payer, the payee, or a bystander; payer and payee are never equal
// in a well-formed transfer. The stated fee is recorded on every effect but
// is only a real debit for the payer.
func transferEffect(txn ledger.Transaction, account domain.Address) domain.Effect {
	switch {
	case account.MatchesDisplay(txn.Payer):
		payee := txn.Payee
		return domain.Effect{
			Counterparty: &payee,
			HNT:          domain.NegHNTFromBones(txn.Amount),
			Fee:          txn.Fee,
		}
	case account.MatchesDisplay(txn.Payee):
		payer := txn.Payer
		return domain.Effect{
			Counterparty: &payer,
			HNT:          domain.HNTFromBones(txn.Amount),
			Fee:          txn.Fee,
		}
	default:
		return domain.Effect{Fee: txn.Fee}
	}
}

// multiTransferEffect applies the multi-recipient policy of payment_v2.
// A payee may appear in the payment list more than once; its amounts
// accumulate.
func multiTransferEffect(txn ledger.Transaction, account domain.Address) domain.Effect {
	if account.MatchesDisplay(txn.Payer) {
		counterparty := domain.CounterpartyManyPayees
		if len(txn.Payments) == 1 {
			counterparty = txn.Payments[0].Payee
		}
		total := decimal.Zero
		for _, p := range txn.Payments {
			total = total.Sub(domain.HNTFromBones(p.Amount))
		}
		return domain.Effect{
			Counterparty: &counterparty,
			HNT:          total,
			Fee:          txn.Fee,
		}
	}

	payer := txn.Payer
	total := decimal.Zero
	for _, p := range txn.Payments {
		if account.MatchesDisplay(p.Payee) {
			total = total.Add(domain.HNTFromBones(p.Amount))
		}
	}
	return domain.Effect{
		Counterparty: &payer,
		HNT:          total,
		Fee:          txn.Fee,
	}
}

// rewardEffect sums every listed reward amount. Reward transactions are
// pre-filtered to the queried account upstream, so no per-entry matching is
// done; the counterparty is the emission source, not a peer account.
func rewardEffect(txn ledger.Transaction) domain.Effect {
	total := decimal.Zero
	for _, r := range txn.Rewards {
		total = total.Add(domain.HNTFromBones(r.Amount))
	}
	counterparty := domain.CounterpartyRewards
	return domain.Effect{
		Counterparty: &counterparty,
		HNT:          total,
	}
}

// tokenBurnEffect applies the transfer policy to the HNT leg and, when the
// account is the burn's payee, converts the burned amount to DC at the
// oracle price of the transaction's block.
func tokenBurnEffect(ctx context.Context, txn ledger.Transaction, account domain.Address, prices PriceSource) (domain.Effect, error) {
	effect := transferEffect(txn, account)

	if account.MatchesDisplay(txn.Payee) {
		price, err := prices.PriceAtBlock(ctx, txn.Height)
		if err != nil {
			return domain.Effect{}, fmt.Errorf("resolving burn %s: %w", txn.Hash, err)
		}
		effect.DC = domain.DCFromHNT(domain.HNTFromBones(txn.Amount), price)
	}

	return effect, nil
}
