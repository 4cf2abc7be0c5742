package dto

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// EstimateRequest represents a request to quote a swap against an on-chain StableSwap pool.
type EstimateRequest struct {
	Pool      common.Address
	Src       common.Address
	Dst       common.Address
	SrcAmount *big.Int
}

// QuoteRequest represents a request to quote a swap against explicit pool parameters.
type QuoteRequest struct {
	AmountIn   *big.Int
	ReserveIn  *big.Int
	ReserveOut *big.Int
	Amplifier  *big.Int
	// Fee in pips; nil selects the service default.
	Fee *uint64
}
