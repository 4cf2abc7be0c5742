package http

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/fleshka4/stableswap-estimator/internal/apperrors"
	"github.com/fleshka4/stableswap-estimator/internal/service/dto"
	"github.com/fleshka4/stableswap-estimator/internal/transport/http/validate"
)

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.EstimateRequestValidate(r)
	if err != nil {
		if code == 0 {
			code = http.StatusBadRequest
		}
		http.Error(w, err.Error(), code)
		return
	}

	ctx := r.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	out, err := s.est.Estimate(ctx, dto.EstimateRequest{
		Pool:      req.Pool,
		Src:       req.Src,
		Dst:       req.Dst,
		SrcAmount: req.SrcAmount,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeAmount(w, out.String())
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	req, code, err := validate.QuoteRequestValidate(r)
	if err != nil {
		if code == 0 {
			code = http.StatusBadRequest
		}
		http.Error(w, err.Error(), code)
		return
	}

	out, err := s.est.Quote(dto.QuoteRequest{
		AmountIn:   req.AmountIn,
		ReserveIn:  req.ReserveIn,
		ReserveOut: req.ReserveOut,
		Amplifier:  req.Amplifier,
		Fee:        req.Fee,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeAmount(w, out.String())
}

// statusClientClosedRequest is the nginx convention for a request the client
// abandoned before a response was written.
const statusClientClosedRequest = 499

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrInsufficientLiquidity):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, apperrors.ErrPoolRead):
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.Is(err, context.Canceled):
		http.Error(w, "request canceled", statusClientClosedRequest)
	case errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "request timed out", http.StatusGatewayTimeout)
	case errors.Is(err, apperrors.ErrComputation):
		log.WithError(err).Error("quote computation failed")
		http.Error(w, apperrors.ErrComputation.Error(), http.StatusInternalServerError)
	default:
		log.WithError(err).Error("unexpected service error")
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeAmount(w http.ResponseWriter, amount string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if _, err := w.Write([]byte(amount)); err != nil {
		log.Printf("amount write error: %v", err)
	}
}
