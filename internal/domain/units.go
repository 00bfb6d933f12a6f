package domain

import (
	"github.com/shopspring/decimal"
)

// HNT amounts travel through the ledger API as integer "bones"
// (smallest units, 1e8 per HNT). Conversion to decimal HNT happens only
// at the boundary where a human-readable or USD-denominated value is needed.
const hntExponent = -8

// HNTFromBones converts an integer bones amount to decimal HNT.
func HNTFromBones(bones uint64) decimal.Decimal {
	return decimal.New(int64(bones), hntExponent)
}

// NegHNTFromBones converts an integer bones amount to a negative decimal HNT,
// for amounts the account paid out.
func NegHNTFromBones(bones uint64) decimal.Decimal {
	return decimal.New(-int64(bones), hntExponent)
}

// DCFromHNT converts a decimal HNT amount to its DC value at the given
// oracle USD price.
func DCFromHNT(hnt, usdPrice decimal.Decimal) decimal.Decimal {
	return hnt.Mul(usdPrice)
}
