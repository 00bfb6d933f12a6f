package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// TxnType tags a transaction variant. The set is closed: every value the
// chain can produce is listed here, and the effect resolver refuses any tag
// it does not recognize rather than defaulting it to a zero effect.
type TxnType string

const (
	TxnPaymentV1               TxnType = "payment_v1"
	TxnPaymentV2               TxnType = "payment_v2"
	TxnRewardsV1               TxnType = "rewards_v1"
	TxnRewardsV2               TxnType = "rewards_v2"
	TxnTokenBurnV1             TxnType = "token_burn_v1"
	TxnAddGatewayV1            TxnType = "add_gateway_v1"
	TxnAssertLocationV1        TxnType = "assert_location_v1"
	TxnCoinbaseV1              TxnType = "coinbase_v1"
	TxnSecurityCoinbaseV1      TxnType = "security_coinbase_v1"
	TxnDCCoinbaseV1            TxnType = "dc_coinbase_v1"
	TxnGenGatewayV1            TxnType = "gen_gateway_v1"
	TxnGenPriceOracleV1        TxnType = "gen_price_oracle_v1"
	TxnConsensusGroupV1        TxnType = "consensus_group_v1"
	TxnCreateHTLCV1            TxnType = "create_htlc_v1"
	TxnRedeemHTLCV1            TxnType = "redeem_htlc_v1"
	TxnOUIV1                   TxnType = "oui_v1"
	TxnRoutingV1               TxnType = "routing_v1"
	TxnPocRequestV1            TxnType = "poc_request_v1"
	TxnPocReceiptsV1           TxnType = "poc_receipts_v1"
	TxnSecurityExchangeV1      TxnType = "security_exchange_v1"
	TxnVarsV1                  TxnType = "vars_v1"
	TxnTokenBurnExchangeRateV1 TxnType = "token_burn_exchange_rate_v1"
	TxnBundleV1                TxnType = "bundle_v1"
	TxnStateChannelOpenV1      TxnType = "state_channel_open_v1"
	TxnStateChannelCloseV1     TxnType = "state_channel_close_v1"
	TxnUpdateGatewayOUIV1      TxnType = "update_gateway_oui_v1"
	TxnPriceOracleV1           TxnType = "price_oracle_v1"
	TxnTransferHotspotV1       TxnType = "transfer_hotspot_v1"
)

// Payment is one (payee, amount) leg of a payment_v2.
type Payment struct {
	Payee  string `json:"payee"`
	Amount uint64 `json:"amount"`
}

// Reward is one emission entry of a rewards_v1/v2 transaction.
type Reward struct {
	Account string `json:"account"`
	Gateway string `json:"gateway"`
	Type    string `json:"type"`
	Amount  uint64 `json:"amount"`
}

// Transaction is one ledger transaction as returned by the API: shared
// metadata plus the variant-specific fields of whichever variant Type names.
// Immutable once fetched.
type Transaction struct {
	Type   TxnType `json:"type"`
	Height uint64  `json:"height"`
	Hash   string  `json:"hash"`
	Time   int64   `json:"time"`

	Payer    string    `json:"payer,omitempty"`
	Payee    string    `json:"payee,omitempty"`
	Amount   uint64    `json:"amount,omitempty"`
	Fee      uint64    `json:"fee,omitempty"`
	Payments []Payment `json:"payments,omitempty"`
	Rewards  []Reward  `json:"rewards,omitempty"`
}

// Timestamp returns the block time as UTC.
func (t Transaction) Timestamp() time.Time {
	return time.Unix(t.Time, 0).UTC()
}

// RewardTx is one row from the per-account rewards endpoint.
type RewardTx struct {
	Timestamp time.Time `json:"timestamp"`
	Hash      string    `json:"hash"`
	Block     uint64    `json:"block"`
	Amount    uint64    `json:"amount"`
}

// OraclePrice is the historical HNT/USD rate recorded at a block height.
type OraclePrice struct {
	Block uint64
	Price decimal.Decimal
}
