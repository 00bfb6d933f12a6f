package accounting

import (
	"strconv"
	"time"

	"github.com/lthiery/helium/internal/domain"
	"github.com/lthiery/helium/internal/ledger"
)

// RowHeader is the column layout of the generic transaction report.
var RowHeader = []string{"Type", "Date", "Block", "Hash", "Counterparty", "HNT", "DC", "Fee"}

// Row is one generic ledger report line: a resolved effect plus the
// transaction's shared metadata.
type Row struct {
	Type         string
	Date         string
	Block        uint64
	Hash         string
	Counterparty string
	Effect       domain.Effect
}

// ProjectRow formats a transaction and its resolved effect into a report
// row. Pure; any resolver failure has already happened upstream.
func ProjectRow(txn ledger.Transaction, effect domain.Effect) Row {
	return Row{
		Type:         string(txn.Type),
		Date:         txn.Timestamp().Format(time.RFC3339),
		Block:        txn.Height,
		Hash:         txn.Hash,
		Counterparty: effect.CounterpartyLabel(),
		Effect:       effect,
	}
}

// Strings renders the row in RowHeader order.
func (r Row) Strings() []string {
	return []string{
		r.Type,
		r.Date,
		strconv.FormatUint(r.Block, 10),
		r.Hash,
		r.Counterparty,
		r.Effect.HNT.String(),
		r.Effect.DC.String(),
		strconv.FormatUint(r.Effect.Fee, 10),
	}
}
