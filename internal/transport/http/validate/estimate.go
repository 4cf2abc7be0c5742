package validate

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/fleshka4/stableswap-estimator/internal/transport/http/dto"
)

// EstimateRequestValidate parses GET /estimate?pool=&src=&dst=&src_amount=.
// Addresses are checked for syntax only; src_amount must be a positive
// base-10 integer of any size, since 18-decimal tokens overflow uint64.
func EstimateRequestValidate(r *http.Request) (*dto.EstimateRequest, int, error) {
	req, err := parseEstimate(r)
	if err != nil {
		return nil, statusFor(err), err
	}
	return req, 0, nil
}

func parseEstimate(r *http.Request) (*dto.EstimateRequest, error) {
	if err := requireGet(r); err != nil {
		return nil, err
	}

	q := r.URL.Query()
	req := &dto.EstimateRequest{}

	var err error
	if req.Pool, err = addressParam(q, "pool"); err != nil {
		return nil, err
	}
	if req.Src, err = addressParam(q, "src"); err != nil {
		return nil, err
	}
	if req.Dst, err = addressParam(q, "dst"); err != nil {
		return nil, err
	}
	if req.SrcAmount, err = integerParam(q, "src_amount"); err != nil {
		return nil, err
	}
	if req.SrcAmount.Sign() <= 0 {
		return nil, errors.Errorf("src_amount must be positive, got %s", req.SrcAmount)
	}

	return req, nil
}
