// Package stableswap quotes swaps against a two-asset StableSwap pool.
//
// Quotes are pure functions of their inputs: reserves, amplifier and fee are
// passed on every call and never retained, so any function here may be called
// concurrently. All amounts are unbounded non-negative integers in the
// smallest unit of their asset.
package stableswap

import (
	"math/big"

	"github.com/pkg/errors"
)

// Quote is the breakdown of a single swap quote.
type Quote struct {
	// AmountOut is the amount released to the trader after the fee.
	AmountOut *big.Int
	// AmountOutBeforeFee is reserve_out minus CounterReserve.
	AmountOutBeforeFee *big.Int
	// FeeAmount is AmountOutBeforeFee - AmountOut.
	FeeAmount *big.Int
	// Invariant is D for the reserves before the trade.
	Invariant *big.Int
	// CounterReserve is the solved output-side reserve after the trade.
	CounterReserve *big.Int

	InvariantIterations int
	ReserveIterations   int
}

// GetAmountOut returns the amount of the output asset released for amountIn of
// the input asset, after deducting fee pips from the output side.
//
// Preconditions are checked in order, each with its own error:
// ErrInsufficientInputAmount, ErrWrongAmplifier, ErrInsufficientLiquidity,
// ErrFeeTooHigh. Infeasible trades fail with ErrInsufficientReserveOut.
func GetAmountOut(amountIn, reserveIn, reserveOut, amplifier *big.Int, fee uint64) (*big.Int, error) {
	q, err := GetQuote(amountIn, reserveIn, reserveOut, amplifier, fee)
	if err != nil {
		return nil, err
	}
	return q.AmountOut, nil
}

// GetQuote is GetAmountOut with the intermediate values of the solve.
func GetQuote(amountIn, reserveIn, reserveOut, amplifier *big.Int, fee uint64) (*Quote, error) {
	if err := checkQuoteInputs(amountIn, reserveIn, reserveOut, amplifier, fee); err != nil {
		return nil, err
	}

	d, dSteps, err := solveD(reserveIn, reserveOut, amplifier, MaxIterations)
	if err != nil {
		return nil, err
	}

	reserveInAfter := new(big.Int).Add(reserveIn, amountIn)
	x, ySteps, err := solveY(d, amplifier, reserveInAfter, reserveOut, MaxIterations)
	if err != nil {
		return nil, err
	}

	raw := new(big.Int).Sub(reserveOut, x)
	out := ApplyFee(raw, fee)

	return &Quote{
		AmountOut:           out,
		AmountOutBeforeFee:  raw,
		FeeAmount:           new(big.Int).Sub(raw, out),
		Invariant:           d,
		CounterReserve:      x,
		InvariantIterations: dSteps,
		ReserveIterations:   ySteps,
	}, nil
}

func checkQuoteInputs(amountIn, reserveIn, reserveOut, amplifier *big.Int, fee uint64) error {
	if !positive(amountIn) {
		return errors.Wrapf(ErrInsufficientInputAmount, "amount_in=%s", amountIn)
	}
	if !positive(amplifier) {
		return errors.Wrapf(ErrWrongAmplifier, "amplifier=%s", amplifier)
	}
	if !positive(reserveIn) || !positive(reserveOut) {
		return errors.Wrapf(ErrInsufficientLiquidity, "reserve_in=%s reserve_out=%s", reserveIn, reserveOut)
	}
	if fee > MaxFee {
		return errors.Wrapf(ErrFeeTooHigh, "fee=%d max=%d", fee, MaxFee)
	}
	return nil
}
