package accounting

import (
	"context"
	"math/rand"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"

	"github.com/lthiery/helium/internal/domain"
	"github.com/lthiery/helium/internal/ledger"
)

func TestTransferZeroSumProperty(t *testing.T) {
	payer := testAddr(t, 0xA0)
	payee := testAddr(t, 0xB0)

	properties := gopter.NewProperties(nil)

	properties.Property("payer and payee deltas cancel for any amount", prop.ForAll(
		func(amount uint64, fee uint64) bool {
			txn := ledger.Transaction{
				Type:  ledger.TxnPaymentV1,
				Payer: payer.String(), Payee: payee.String(),
				Amount: amount, Fee: fee,
			}
			paid, err1 := ResolveEffect(context.Background(), txn, payer, nil)
			received, err2 := ResolveEffect(context.Background(), txn, payee, nil)
			return err1 == nil && err2 == nil && paid.HNT.Add(received.HNT).IsZero()
		},
		gen.UInt64Range(0, 1<<62),
		gen.UInt64Range(0, 1_000_000),
	))

	properties.TestingRun(t)
}

func TestMultiTransferZeroSumProperty(t *testing.T) {
	payer := testAddr(t, 0xA1)
	payees := []byte{0xB1, 0xB2, 0xB3, 0xB4}

	properties := gopter.NewProperties(nil)

	properties.Property("payer delta plus all payee deltas is zero", prop.ForAll(
		func(amounts []uint64, seed int64) bool {
			rng := rand.New(rand.NewSource(seed))
			txn := ledger.Transaction{Type: ledger.TxnPaymentV2, Payer: payer.String()}
			for _, amount := range amounts {
				fill := payees[rng.Intn(len(payees))]
				addr := mustAddr(fill)
				txn.Payments = append(txn.Payments, ledger.Payment{Payee: addr, Amount: amount})
			}

			paid, err := ResolveEffect(context.Background(), txn, payer, nil)
			if err != nil {
				return false
			}
			sum := paid.HNT
			for _, fill := range payees {
				received, err := ResolveEffect(context.Background(), txn, mustParse(fill), nil)
				if err != nil {
					return false
				}
				sum = sum.Add(received.HNT)
			}
			return sum.IsZero()
		},
		gen.SliceOfN(6, gen.UInt64Range(0, 1<<40)),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestRewardSumOrderCommutativityProperty(t *testing.T) {
	account := testAddr(t, 0xC0)

	properties := gopter.NewProperties(nil)

	properties.Property("reward total is independent of entry order", prop.ForAll(
		func(amounts []uint64, seed int64) bool {
			forward := ledger.Transaction{Type: ledger.TxnRewardsV2}
			for _, amount := range amounts {
				forward.Rewards = append(forward.Rewards, ledger.Reward{Amount: amount})
			}

			shuffled := ledger.Transaction{Type: ledger.TxnRewardsV2}
			shuffled.Rewards = append(shuffled.Rewards, forward.Rewards...)
			rng := rand.New(rand.NewSource(seed))
			rng.Shuffle(len(shuffled.Rewards), func(i, j int) {
				shuffled.Rewards[i], shuffled.Rewards[j] = shuffled.Rewards[j], shuffled.Rewards[i]
			})

			a, err1 := ResolveEffect(context.Background(), forward, account, nil)
			b, err2 := ResolveEffect(context.Background(), shuffled, account, nil)
			return err1 == nil && err2 == nil && a.HNT.Equal(b.HNT)
		},
		gen.SliceOf(gen.UInt64Range(0, 1<<50)),
		gen.Int64(),
	))

	properties.TestingRun(t)
}

func TestBurnValueMonotonicInPriceProperty(t *testing.T) {
	payer := testAddr(t, 0xD0)
	payee := testAddr(t, 0xD1)

	properties := gopter.NewProperties(nil)

	properties.Property("DC value strictly increases with the oracle price", prop.ForAll(
		func(amount uint64, priceLow int64, bump int64) bool {
			txn := ledger.Transaction{
				Type:  ledger.TxnTokenBurnV1,
				Payer: payer.String(), Payee: payee.String(), Amount: amount,
			}

			low := decimal.New(priceLow, -8)
			high := decimal.New(priceLow+bump, -8)

			a, err1 := ResolveEffect(context.Background(), txn, payee, &stubPrices{price: low})
			b, err2 := ResolveEffect(context.Background(), txn, payee, &stubPrices{price: high})
			if err1 != nil || err2 != nil {
				return false
			}
			return b.DC.GreaterThan(a.DC)
		},
		gen.UInt64Range(1, 1<<50),
		gen.Int64Range(1, 1<<40),
		gen.Int64Range(1, 1<<30),
	))

	properties.TestingRun(t)
}

// mustAddr and mustParse rebuild the deterministic test addresses outside a
// *testing.T context for use inside property closures.
func mustAddr(fill byte) string {
	return mustParse(fill).String()
}

func mustParse(fill byte) domain.Address {
	payload := make([]byte, 35)
	payload[1] = 1
	for i := 2; i < len(payload); i++ {
		payload[i] = fill
	}
	addr, err := domain.AddressFromBytes(payload)
	if err != nil {
		panic(err)
	}
	return addr
}
