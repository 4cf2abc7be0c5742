package validate

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"

	"github.com/fleshka4/stableswap-estimator/internal/apperrors"
	"github.com/fleshka4/stableswap-estimator/internal/service/dto"
)

// EstimateRequestValidate rejects requests that cannot name a swap on a real
// pool: a zero pool or coin address, a swap of a coin into itself, or a
// non-positive amount. Whether src and dst belong to the pool is checked
// against the chain by the service.
func EstimateRequestValidate(req dto.EstimateRequest) error {
	for _, a := range [...]struct {
		name string
		addr common.Address
	}{
		{name: "pool", addr: req.Pool},
		{name: "src", addr: req.Src},
		{name: "dst", addr: req.Dst},
	} {
		if a.addr == (common.Address{}) {
			return errors.Wrapf(apperrors.ErrInvalidArgument, "%s is the zero address", a.name)
		}
	}

	if req.Src == req.Dst {
		return errors.Wrapf(apperrors.ErrInvalidArgument, "src and dst are the same coin %s", req.Src.Hex())
	}

	if req.SrcAmount == nil || req.SrcAmount.Sign() <= 0 {
		return errors.Wrap(apperrors.ErrInvalidArgument, "src_amount must be positive")
	}

	return nil
}

// QuoteRequestValidate checks that every pool parameter is present. Range
// checks are left to the quote engine, which classifies each one.
func QuoteRequestValidate(req dto.QuoteRequest) error {
	if req.AmountIn == nil || req.ReserveIn == nil || req.ReserveOut == nil || req.Amplifier == nil {
		return errors.Wrap(apperrors.ErrInvalidArgument, "amount_in, reserves and amplifier are required")
	}

	return nil
}
