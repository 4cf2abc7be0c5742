package stableswap

import "github.com/pkg/errors"

var (
	// ErrInsufficientInputAmount is returned when amount_in is nil, zero or negative.
	ErrInsufficientInputAmount = errors.New("insufficient input amount")

	// ErrWrongAmplifier is returned when the amplifier is nil, zero or negative.
	ErrWrongAmplifier = errors.New("wrong amplifier")

	// ErrInsufficientLiquidity is returned when either reserve is nil, zero or negative.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrFeeTooHigh is returned when the fee exceeds MaxFee pips.
	ErrFeeTooHigh = errors.New("fee too high")

	// ErrInsufficientReserveOut is returned when the solved counter reserve is not
	// below reserve_out, i.e. the trade would drain the output side of the pool.
	ErrInsufficientReserveOut = errors.New("insufficient reserve out")

	// ErrNonConvergentSolve is returned when an iterative solver exceeds
	// MaxIterations or reaches a state it cannot step from.
	ErrNonConvergentSolve = errors.New("non-convergent solve")
)
