package stableswap

import (
	"math/big"

	"github.com/pkg/errors"
)

// Pool is a snapshot of a two-asset pool. It is a plain value: methods never
// modify the receiver or the big.Ints it points to.
type Pool struct {
	Reserve0  *big.Int
	Reserve1  *big.Int
	Amplifier *big.Int
	// Fee is the trading fee in pips.
	Fee uint64
}

// NewPool returns a Pool holding copies of the given values.
func NewPool(reserve0, reserve1, amplifier *big.Int, fee uint64) Pool {
	return Pool{
		Reserve0:  copyInt(reserve0),
		Reserve1:  copyInt(reserve1),
		Amplifier: copyInt(amplifier),
		Fee:       fee,
	}
}

// Reserves returns (reserve_in, reserve_out) for a swap in the given direction.
// zeroForOne means asset 0 in, asset 1 out.
func (p Pool) Reserves(zeroForOne bool) (reserveIn, reserveOut *big.Int) {
	if zeroForOne {
		return p.Reserve0, p.Reserve1
	}
	return p.Reserve1, p.Reserve0
}

// Invariant computes D for the current reserves.
func (p Pool) Invariant() (*big.Int, error) {
	return SolveD(p.Reserve0, p.Reserve1, p.Amplifier)
}

// Quote quotes amountIn in the given direction.
func (p Pool) Quote(amountIn *big.Int, zeroForOne bool) (*Quote, error) {
	reserveIn, reserveOut := p.Reserves(zeroForOne)
	return GetQuote(amountIn, reserveIn, reserveOut, p.Amplifier, p.Fee)
}

// GetAmountOut quotes amountIn in the given direction.
func (p Pool) GetAmountOut(amountIn *big.Int, zeroForOne bool) (*big.Int, error) {
	reserveIn, reserveOut := p.Reserves(zeroForOne)
	return GetAmountOut(amountIn, reserveIn, reserveOut, p.Amplifier, p.Fee)
}

// SimulateSwap quotes amountIn and returns the pool as it would be after the
// swap settles: the input reserve grows by amountIn and the output reserve
// shrinks by the amount paid out. The fee stays in the pool.
func (p Pool) SimulateSwap(amountIn *big.Int, zeroForOne bool) (*big.Int, Pool, error) {
	amountOut, err := p.GetAmountOut(amountIn, zeroForOne)
	if err != nil {
		return nil, Pool{}, errors.Wrap(err, "p.GetAmountOut")
	}

	return amountOut, p.Settle(amountIn, amountOut, zeroForOne), nil
}

// Settle returns the pool after a swap of amountIn for amountOut in the given
// direction. The amounts are taken as given; pass a quote obtained from p.
func (p Pool) Settle(amountIn, amountOut *big.Int, zeroForOne bool) Pool {
	reserveIn, reserveOut := p.Reserves(zeroForOne)
	newIn := new(big.Int).Add(reserveIn, amountIn)
	newOut := new(big.Int).Sub(reserveOut, amountOut)

	next := Pool{Amplifier: copyInt(p.Amplifier), Fee: p.Fee}
	if zeroForOne {
		next.Reserve0, next.Reserve1 = newIn, newOut
	} else {
		next.Reserve0, next.Reserve1 = newOut, newIn
	}

	return next
}

func copyInt(x *big.Int) *big.Int {
	if x == nil {
		return nil
	}
	return new(big.Int).Set(x)
}
