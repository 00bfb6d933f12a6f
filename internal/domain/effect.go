package domain

import (
	"github.com/shopspring/decimal"
)

// Counterparty sentinels. Reward emissions have no peer account, and a
// multi-recipient payment from the queried account has no single counterparty.
const (
	CounterpartyRewards    = "Rewards"
	CounterpartyManyPayees = "many_payees"
)

// Effect is the net economic effect a single transaction has on a single
// queried account. HNT is signed: negative means the account paid out.
// Fee is the transaction's stated fee, recorded on every resolved effect
// for the report but only a real debit when the account is the payer.
// An Effect is built once per (transaction, account) pair and never mutated.
type Effect struct {
	Counterparty *string
	HNT          decimal.Decimal
	DC           decimal.Decimal
	Fee          uint64
}

// CounterpartyLabel returns the counterparty for display, "NA" when none.
func (e Effect) CounterpartyLabel() string {
	if e.Counterparty == nil {
		return "NA"
	}
	return *e.Counterparty
}
