package accounting

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/lthiery/helium/internal/domain"
	"github.com/lthiery/helium/internal/ledger"
)

func TestProjectRow(t *testing.T) {
	peer := "peer-address"
	txn := ledger.Transaction{
		Type: ledger.TxnPaymentV1, Height: 123, Hash: "abc", Time: 1600000000,
	}
	effect := domain.Effect{
		Counterparty: &peer,
		HNT:          decimal.RequireFromString("-1.5"),
		Fee:          35000,
	}

	row := ProjectRow(txn, effect)

	if row.Date != "2020-09-13T12:26:40Z" {
		t.Errorf("Date = %q", row.Date)
	}
	got := row.Strings()
	want := []string{"payment_v1", "2020-09-13T12:26:40Z", "123", "abc", "peer-address", "-1.5", "0", "35000"}
	if len(got) != len(want) {
		t.Fatalf("Strings() length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Strings()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestProjectRowNoCounterparty(t *testing.T) {
	txn := ledger.Transaction{Type: ledger.TxnVarsV1, Height: 1, Hash: "h", Time: 0}
	row := ProjectRow(txn, domain.Effect{})
	if row.Counterparty != "NA" {
		t.Errorf("Counterparty = %q, want NA", row.Counterparty)
	}
}
