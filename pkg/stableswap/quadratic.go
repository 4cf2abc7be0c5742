package stableswap

import (
	"math"
	"math/big"

	"github.com/pkg/errors"
)

// SolveY returns the output-side reserve x that keeps invariant d once the
// input-side reserve has become reserveInAfter (reserve_in + amount_in).
//
// It solves x^2 + b*x = c with
//
//	b = float(s) + float(D / (2*A)) - float(D)
//	c = D*D / (2*s) * D / (4*A)
//
// stepping x = floor(float(x*x + c) / (2*float(x) + b)) from x = D. The step
// division is done in IEEE-754 binary64 on purpose: quotes must match the
// reference outputs bit for bit, and exact integer division does not.
//
// ErrInsufficientReserveOut is returned when the result is not below reserveOut.
func SolveY(d, amplifier, reserveInAfter, reserveOut *big.Int) (*big.Int, error) {
	if !positive(amplifier) {
		return nil, errors.Wrapf(ErrWrongAmplifier, "amplifier=%s", amplifier)
	}
	if !positive(d) || !positive(reserveInAfter) || !positive(reserveOut) {
		return nil, errors.Wrapf(ErrInsufficientLiquidity,
			"d=%s reserve_in_after=%s reserve_out=%s", d, reserveInAfter, reserveOut)
	}

	x, _, err := solveY(d, amplifier, reserveInAfter, reserveOut, MaxIterations)
	return x, err
}

func solveY(d, amplifier, s, reserveOut *big.Int, maxIterations int) (*big.Int, int, error) {
	t := getScratch()
	defer putScratch(t)

	// c = D*D / (2*s) * D / (4*A), kept in t.prod for the whole loop.
	t.num.Mul(d, d)
	t.den.Lsh(s, 1)
	t.num.Quo(t.num, t.den)
	t.num.Mul(t.num, d)
	t.den.Lsh(amplifier, 2)
	c := t.prod.Quo(t.num, t.den)

	// D / (2*A) is an integer division before widening.
	t.den.Lsh(amplifier, 1)
	t.num.Quo(d, t.den)
	b := toFloat(s) + toFloat(t.num) - toFloat(d)

	x := new(big.Int).Set(d)
	prev := new(big.Int)

	steps := 0
	for x.Cmp(prev) != 0 {
		if steps >= maxIterations {
			return nil, steps, errors.Wrapf(ErrNonConvergentSolve,
				"reserve: %d steps, d=%s reserve_in_after=%s amplifier=%s", steps, d, s, amplifier)
		}
		steps++

		prev.Set(x)

		t.num.Mul(x, x)
		t.num.Add(t.num, c)
		xf := toFloat(x)
		// The explicit conversion keeps 2*x + b from being fused.
		step := math.Floor(toFloat(t.num) / (float64(2*xf) + b))
		if math.IsNaN(step) || math.IsInf(step, 0) || step < 0 {
			return nil, steps, errors.Wrapf(ErrNonConvergentSolve, "reserve: step from x=%s gave %v", prev, step)
		}
		floorToInt(x, step)
	}

	if reserveOut.Cmp(x) <= 0 {
		return nil, steps, errors.Wrapf(ErrInsufficientReserveOut, "reserve_out=%s counter_reserve=%s", reserveOut, x)
	}

	return x, steps, nil
}

// toFloat rounds x to the nearest binary64 value, ties to even. Values beyond
// the float64 range become ±Inf.
func toFloat(x *big.Int) float64 {
	f, _ := new(big.Float).SetInt(x).Float64()
	return f
}

// floorToInt stores the integral, finite, non-negative f into z exactly.
func floorToInt(z *big.Int, f float64) *big.Int {
	z, _ = new(big.Float).SetFloat64(f).Int(z)
	return z
}
