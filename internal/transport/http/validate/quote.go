package validate

import (
	"net/http"
	"strconv"

	"github.com/pkg/errors"

	"github.com/fleshka4/stableswap-estimator/internal/transport/http/dto"
)

// QuoteRequestValidate parses GET /quote. Only the syntax is checked here:
// amounts must be base-10 integers and fee, when present, an unsigned
// integer. Range checks belong to the quote engine.
func QuoteRequestValidate(r *http.Request) (*dto.QuoteRequest, int, error) {
	req, err := parseQuote(r)
	if err != nil {
		return nil, statusFor(err), err
	}
	return req, 0, nil
}

func parseQuote(r *http.Request) (*dto.QuoteRequest, error) {
	if err := requireGet(r); err != nil {
		return nil, err
	}

	q := r.URL.Query()
	req := &dto.QuoteRequest{}

	var err error
	if req.AmountIn, err = integerParam(q, "amount_in"); err != nil {
		return nil, err
	}
	if req.ReserveIn, err = integerParam(q, "reserve_in"); err != nil {
		return nil, err
	}
	if req.ReserveOut, err = integerParam(q, "reserve_out"); err != nil {
		return nil, err
	}
	if req.Amplifier, err = integerParam(q, "amplifier"); err != nil {
		return nil, err
	}

	if raw := q.Get("fee"); raw != "" {
		fee, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, errors.Wrap(err, "bad fee")
		}
		req.Fee = &fee
	}

	return req, nil
}
