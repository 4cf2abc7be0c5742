package stableswap

import (
	"math/big"

	"github.com/pkg/errors"
)

// MaxIterations bounds both iterative solvers. Realistic reserve ratios
// converge in well under ten steps.
const MaxIterations = 255

// SolveD computes the two-asset StableSwap invariant D for the given reserves
// and amplifier by iterating
//
//	prod = D*D / (2*reserveIn) * D / (2*reserveOut)
//	D    = 2*D*(A*sum + prod) / ((2*A - 1)*D + 3*prod)
//
// from D = reserveIn + reserveOut until two consecutive values are equal.
// All divisions truncate, and prod is divided twice in the order shown.
func SolveD(reserveIn, reserveOut, amplifier *big.Int) (*big.Int, error) {
	if !positive(amplifier) {
		return nil, errors.Wrapf(ErrWrongAmplifier, "amplifier=%s", amplifier)
	}
	if !positive(reserveIn) || !positive(reserveOut) {
		return nil, errors.Wrapf(ErrInsufficientLiquidity, "reserve_in=%s reserve_out=%s", reserveIn, reserveOut)
	}

	d, _, err := solveD(reserveIn, reserveOut, amplifier, MaxIterations)
	return d, err
}

// solveD expects validated, positive inputs and returns D together with the
// number of steps taken.
func solveD(reserveIn, reserveOut, amplifier *big.Int, maxIterations int) (*big.Int, int, error) {
	t := getScratch()
	defer putScratch(t)

	sum := new(big.Int).Add(reserveIn, reserveOut)

	// Loop constants.
	t.ampSum.Mul(amplifier, sum)
	t.ampCoef.Lsh(amplifier, 1)
	t.ampCoef.Sub(t.ampCoef, one)
	t.twoIn.Lsh(reserveIn, 1)
	t.twoOut.Lsh(reserveOut, 1)

	d := new(big.Int).Set(sum)
	prev := new(big.Int)

	steps := 0
	for d.Cmp(prev) != 0 {
		if steps >= maxIterations {
			return nil, steps, errors.Wrapf(ErrNonConvergentSolve,
				"invariant: %d steps, reserve_in=%s reserve_out=%s amplifier=%s", steps, reserveIn, reserveOut, amplifier)
		}
		steps++

		// prod = D*D / (2*reserveIn) * D / (2*reserveOut)
		t.prod.Mul(d, d)
		t.prod.Quo(t.prod, t.twoIn)
		t.prod.Mul(t.prod, d)
		t.prod.Quo(t.prod, t.twoOut)

		prev.Set(d)

		// num = 2*D*(A*sum + prod)
		t.num.Add(t.ampSum, t.prod)
		t.num.Mul(t.num, d)
		t.num.Lsh(t.num, 1)

		// den = (2*A - 1)*D + 3*prod
		t.den.Mul(t.ampCoef, d)
		t.prod.Mul(t.prod, three)
		t.den.Add(t.den, t.prod)

		if t.den.Sign() == 0 {
			return nil, steps, errors.Wrapf(ErrNonConvergentSolve, "invariant: zero denominator at D=%s", d)
		}
		d.Quo(t.num, t.den)
	}

	return d, steps, nil
}
