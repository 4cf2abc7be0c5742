// Package amount renders integer token amounts for humans.
package amount

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// RatePrecision is the number of fractional digits kept by Rate.
const RatePrecision int32 = 8

// Format renders x smallest units as a decimal amount of a token with the
// given number of decimals, without trailing zeros.
func Format(x *big.Int, decimals int32) string {
	if x == nil {
		return "0"
	}
	return ToDecimal(x, decimals).String()
}

// ToDecimal shifts x right by decimals places.
func ToDecimal(x *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(x, -decimals)
}

// Rate returns the effective exchange rate of a trade in whole tokens:
// amountOut/amountIn after shifting each by its own token decimals, rounded to
// RatePrecision digits. A zero or nil amountIn yields zero.
func Rate(amountIn *big.Int, decimalsIn int32, amountOut *big.Int, decimalsOut int32) decimal.Decimal {
	if amountIn == nil || amountOut == nil || amountIn.Sign() == 0 {
		return decimal.Zero
	}
	return ToDecimal(amountOut, decimalsOut).DivRound(ToDecimal(amountIn, decimalsIn), RatePrecision)
}

// Slippage returns the relative shortfall of a whole-token rate against par,
// in percent. StableSwap pools price both assets near 1:1, so par is 1; the
// rate must come from Rate with each token's own decimals for that to hold.
func Slippage(rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(1).Sub(rate).Mul(decimal.NewFromInt(100))
}
