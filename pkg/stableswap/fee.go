package stableswap

import "math/big"

const (
	// DefaultFee is the trading fee in pips (0.04%).
	DefaultFee uint64 = 4
	// MaxFee is the highest accepted fee in pips (1%).
	MaxFee uint64 = 100
)

// pipsDivisor is 100% expressed in pips.
var pipsDivisor = big.NewInt(10000)

// ApplyFee deducts feePips/10000 of raw, rounding the deduction down:
// raw - feePips*raw/10000. The result is newly allocated.
func ApplyFee(raw *big.Int, feePips uint64) *big.Int {
	deduction := new(big.Int).SetUint64(feePips)
	deduction.Mul(deduction, raw)
	deduction.Quo(deduction, pipsDivisor)
	return deduction.Sub(raw, deduction)
}
