package stableswap

import (
	"math/big"
	"sync"
)

var (
	one   = big.NewInt(1)
	three = big.NewInt(3)
)

// scratch holds reusable temporaries for one solve. It is not safe for
// concurrent use; every call borrows its own from scratchPool.
type scratch struct {
	ampSum  *big.Int
	ampCoef *big.Int
	twoIn   *big.Int
	twoOut  *big.Int
	prod    *big.Int
	num     *big.Int
	den     *big.Int
}

var scratchPool = sync.Pool{
	New: func() any {
		return &scratch{
			ampSum:  new(big.Int),
			ampCoef: new(big.Int),
			twoIn:   new(big.Int),
			twoOut:  new(big.Int),
			prod:    new(big.Int),
			num:     new(big.Int),
			den:     new(big.Int),
		}
	},
}

func getScratch() *scratch {
	return scratchPool.Get().(*scratch)
}

func putScratch(s *scratch) {
	scratchPool.Put(s)
}

// positive reports whether x is non-nil and strictly greater than zero.
func positive(x *big.Int) bool {
	return x != nil && x.Sign() > 0
}
