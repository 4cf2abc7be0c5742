package service

import (
	"context"
	"math/big"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/fleshka4/stableswap-estimator/internal/apperrors"
	"github.com/fleshka4/stableswap-estimator/internal/metrics"
	"github.com/fleshka4/stableswap-estimator/internal/service/dto"
	"github.com/fleshka4/stableswap-estimator/internal/service/validate"
	"github.com/fleshka4/stableswap-estimator/pkg/stableswap"
)

// Estimate performs the complete business logic for off-chain StableSwap swap calculation.
//
// It validates the request parameters, reads the pool contract state (coins,
// balances and amplifier) through the infra client, orients the reserves by
// src/dst and solves the StableSwap invariant with the configured fee.
func (s *EstimatorService) Estimate(ctx context.Context, req dto.EstimateRequest) (*big.Int, error) {
	start := time.Now()

	out, err := s.estimate(ctx, req)
	s.observe(metrics.SourceEstimate, start, err)

	return out, err
}

func (s *EstimatorService) estimate(ctx context.Context, req dto.EstimateRequest) (*big.Int, error) {
	if err := validate.EstimateRequestValidate(req); err != nil {
		return nil, errors.Wrap(err, "validate.EstimateRequestValidate")
	}

	coin0, coin1, err := s.poolClient.GetPoolCoins(ctx, req.Pool)
	if err != nil {
		return nil, s.poolReadError(ctx, err, "s.poolClient.GetPoolCoins")
	}

	var zeroForOne bool
	switch {
	case req.Src == coin0 && req.Dst == coin1:
		zeroForOne = true
	case req.Src == coin1 && req.Dst == coin0:
		zeroForOne = false
	default:
		return nil, errors.Wrapf(apperrors.ErrInvalidArgument, "src %s and dst %s are not the coins of pool %s",
			req.Src.Hex(), req.Dst.Hex(), req.Pool.Hex())
	}

	balance0, balance1, err := s.poolClient.GetPoolBalances(ctx, req.Pool)
	if err != nil {
		return nil, s.poolReadError(ctx, err, "s.poolClient.GetPoolBalances")
	}

	amplifier, err := s.poolClient.GetAmplifier(ctx, req.Pool)
	if err != nil {
		return nil, s.poolReadError(ctx, err, "s.poolClient.GetAmplifier")
	}

	pool := stableswap.NewPool(balance0, balance1, amplifier, s.fee)
	q, err := pool.Quote(req.SrcAmount, zeroForOne)
	if err != nil {
		return nil, errors.Wrap(classify(err), "pool.Quote")
	}
	s.metrics.ObserveIterations(q.InvariantIterations, q.ReserveIterations)

	log.WithFields(log.Fields{
		"pool":       req.Pool.Hex(),
		"zeroForOne": zeroForOne,
		"amountIn":   req.SrcAmount.String(),
		"amountOut":  q.AmountOut.String(),
		"fee":        q.FeeAmount.String(),
		"invariant":  q.Invariant.String(),
	}).Debug("estimate computed")

	return q.AmountOut, nil
}

// Quote quotes a swap against the pool parameters carried by the request.
// No chain access is involved.
func (s *EstimatorService) Quote(req dto.QuoteRequest) (*big.Int, error) {
	start := time.Now()

	out, err := s.quote(req)
	s.observe(metrics.SourceQuote, start, err)

	return out, err
}

func (s *EstimatorService) quote(req dto.QuoteRequest) (*big.Int, error) {
	if err := validate.QuoteRequestValidate(req); err != nil {
		return nil, errors.Wrap(err, "validate.QuoteRequestValidate")
	}

	fee := s.fee
	if req.Fee != nil {
		fee = *req.Fee
	}

	q, err := stableswap.GetQuote(req.AmountIn, req.ReserveIn, req.ReserveOut, req.Amplifier, fee)
	if err != nil {
		return nil, errors.Wrap(classify(err), "stableswap.GetQuote")
	}
	s.metrics.ObserveIterations(q.InvariantIterations, q.ReserveIterations)

	return q.AmountOut, nil
}

// poolReadError tags a failed pool read with apperrors.ErrPoolRead, keeping
// the cause reachable. A read cut short by the caller's context is returned
// untagged so it is reported as a cancellation rather than a node failure.
func (s *EstimatorService) poolReadError(ctx context.Context, err error, callee string) error {
	if ctx.Err() != nil {
		return errors.Wrap(err, callee)
	}

	s.metrics.PoolReadErrorsTotal.Inc()
	log.WithError(err).Warn(callee + " failed")
	return multierr.Combine(apperrors.ErrPoolRead, errors.Wrap(err, callee))
}

func (s *EstimatorService) observe(source string, start time.Time, err error) {
	s.metrics.QuoteDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	s.metrics.QuotesTotal.WithLabelValues(source, status(err)).Inc()
}

// classify maps a quote engine failure onto the application error it is
// reported as, keeping the engine's message.
func classify(err error) error {
	var target error
	switch {
	case errors.Is(err, stableswap.ErrInsufficientInputAmount),
		errors.Is(err, stableswap.ErrWrongAmplifier),
		errors.Is(err, stableswap.ErrFeeTooHigh):
		target = apperrors.ErrInvalidArgument
	case errors.Is(err, stableswap.ErrInsufficientLiquidity),
		errors.Is(err, stableswap.ErrInsufficientReserveOut):
		target = apperrors.ErrInsufficientLiquidity
	default:
		target = apperrors.ErrComputation
	}
	return errors.Wrap(target, err.Error())
}

func status(err error) string {
	switch {
	case err == nil:
		return metrics.StatusOK
	case errors.Is(err, apperrors.ErrInvalidArgument):
		return metrics.StatusInvalidArgument
	case errors.Is(err, apperrors.ErrInsufficientLiquidity):
		return metrics.StatusInsufficientLiquidity
	case errors.Is(err, apperrors.ErrPoolRead):
		return metrics.StatusPoolRead
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return metrics.StatusCanceled
	default:
		return metrics.StatusComputation
	}
}
