package apperrors

import "github.com/pkg/errors"

var (
	// ErrInvalidArgument is returned when the request parameters are invalid.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInsufficientLiquidity is returned when the pool is empty or does not
	// hold enough of the output asset to satisfy the requested swap.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity")

	// ErrPoolRead is returned when fetching pool data (coins, balances or the
	// amplifier) fails, typically due to an RPC or ABI decoding error.
	ErrPoolRead = errors.New("pool read failed")

	// ErrComputation is returned when the quote solver fails to converge.
	ErrComputation = errors.New("quote computation failed")
)
