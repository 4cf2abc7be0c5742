package service

import (
	"context"
	"math/big"

	"github.com/fleshka4/stableswap-estimator/internal/infra/curvepool"
	"github.com/fleshka4/stableswap-estimator/internal/metrics"
	"github.com/fleshka4/stableswap-estimator/internal/service/dto"
)

//go:generate mockgen -source=service.go -destination=mock/service_mock.go -package=mock

// Service represents interface for business logic.
type Service interface {
	// Estimate quotes a swap against a live pool read from chain.
	Estimate(ctx context.Context, req dto.EstimateRequest) (*big.Int, error)
	// Quote quotes a swap against caller-supplied pool parameters.
	Quote(req dto.QuoteRequest) (*big.Int, error)
}

// EstimatorService represents struct for business logic.
type EstimatorService struct {
	poolClient curvepool.Client
	fee        uint64
	metrics    *metrics.QuoteMetrics
}

// NewEstimatorService creates EstimatorService. fee is the trading fee in
// pips applied to quotes that do not carry their own.
func NewEstimatorService(cli curvepool.Client, fee uint64) *EstimatorService {
	return &EstimatorService{
		poolClient: cli,
		fee:        fee,
		metrics:    metrics.NewQuoteMetrics(),
	}
}
