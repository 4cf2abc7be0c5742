package http

import (
	"bytes"
	"context"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"syscall"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/multierr"

	"github.com/fleshka4/stableswap-estimator/internal/apperrors"
	"github.com/fleshka4/stableswap-estimator/internal/config"
	"github.com/fleshka4/stableswap-estimator/internal/service/dto"
	"github.com/fleshka4/stableswap-estimator/internal/service/mock"
	svcvalidate "github.com/fleshka4/stableswap-estimator/internal/service/validate"
)

const estimateURL = "/estimate?" +
	"pool=0x1234567890123456789012345678901234567890&" +
	"src=0x1234567890123456789012345678901234567891&" +
	"dst=0x1234567890123456789012345678901234567892&" +
	"src_amount=1000000000000000000"

const quoteURL = "/quote?amount_in=100000&reserve_in=3432247548&reserve_out=6169362700&amplifier=450"

func newTestServer(t *testing.T, est *mock.MockService) *Server {
	t.Helper()

	server, err := NewServer(est, &config.Config{RequestTimeout: time.Second})
	require.NoError(t, err)
	return server
}

func serve(t *testing.T, server *Server, method, target string) (int, string) {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()

	server.mux.ServeHTTP(w, req)

	resp := w.Result()
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Printf("Body.Close: %v", err)
		}
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestNewServer_NilConfig(t *testing.T) {
	t.Parallel()

	server, err := NewServer(nil, nil)
	require.Error(t, err)
	require.Nil(t, server)
}

func TestPingHandler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := newTestServer(t, mock.NewMockService(ctrl))

	status, body := serve(t, server, http.MethodGet, "/ping")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "pong", body)
}

func TestMetricsHandler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := newTestServer(t, mock.NewMockService(ctrl))

	status, body := serve(t, server, http.MethodGet, "/metrics")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "go_goroutines")
}

func TestEstimateHandler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock.NewMockService(ctrl)
	server := newTestServer(t, mockService)

	t.Run("success", func(t *testing.T) {
		expectedAmount := big.NewInt(999590103058)
		mockService.EXPECT().
			Estimate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req dto.EstimateRequest) (*big.Int, error) {
				require.Equal(t, "1000000000000000000", req.SrcAmount.String())
				return expectedAmount, nil
			})

		status, body := serve(t, server, http.MethodGet, estimateURL)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, expectedAmount.String(), body)
	})

	t.Run("validation error - missing params", func(t *testing.T) {
		status, _ := serve(t, server, http.MethodGet, "/estimate?pool=0x123&src=0x456")
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("validation error - bad address", func(t *testing.T) {
		status, _ := serve(t, server, http.MethodGet,
			"/estimate?"+
				"pool=invalid&"+
				"src=0x1234567890123456789012345678901234567891&"+
				"dst=0x1234567890123456789012345678901234567892&"+
				"src_amount=1000",
		)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("validation error - bad src_amount", func(t *testing.T) {
		status, _ := serve(t, server, http.MethodGet,
			"/estimate?"+
				"pool=0x1234567890123456789012345678901234567890&"+
				"src=0x1234567890123456789012345678901234567891&"+
				"dst=0x1234567890123456789012345678901234567892&"+
				"src_amount=-1000",
		)
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("zero pool address is rejected by the service", func(t *testing.T) {
		mockService.EXPECT().
			Estimate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req dto.EstimateRequest) (*big.Int, error) {
				require.Equal(t, common.Address{}, req.Pool)
				return nil, svcvalidate.EstimateRequestValidate(req)
			})

		status, body := serve(t, server, http.MethodGet,
			"/estimate?"+
				"pool=0x0000000000000000000000000000000000000000&"+
				"src=0x853d955aCEf822Db058eb8505911ED77F175b99e&"+
				"dst=0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48&"+
				"src_amount=2500000000000000000000000",
		)
		require.Equal(t, http.StatusBadRequest, status)
		require.Contains(t, body, "pool is the zero address")
	})

	testServiceError := func(t *testing.T, serviceError error, expectedStatusCode int) {
		mockService.EXPECT().
			Estimate(gomock.Any(), gomock.Any()).
			Return(nil, serviceError)

		status, _ := serve(t, server, http.MethodGet, estimateURL)
		require.Equal(t, expectedStatusCode, status)
	}

	t.Run("service error - invalid argument", func(t *testing.T) {
		testServiceError(t, errors.Wrap(apperrors.ErrInvalidArgument, "src not in pool"), http.StatusBadRequest)
	})

	t.Run("service error - insufficient liquidity", func(t *testing.T) {
		testServiceError(t, apperrors.ErrInsufficientLiquidity, http.StatusUnprocessableEntity)
	})

	t.Run("service error - pool read failed", func(t *testing.T) {
		testServiceError(t, apperrors.ErrPoolRead, http.StatusBadGateway)
	})

	t.Run("service error - computation failed", func(t *testing.T) {
		testServiceError(t, apperrors.ErrComputation, http.StatusInternalServerError)
	})

	t.Run("service error - pool read timed out", func(t *testing.T) {
		err := multierr.Combine(apperrors.ErrPoolRead, errors.Wrap(context.DeadlineExceeded, "s.poolClient.GetPoolBalances"))
		testServiceError(t, err, http.StatusBadGateway)
	})

	t.Run("service error - request deadline exceeded", func(t *testing.T) {
		testServiceError(t, errors.Wrap(context.DeadlineExceeded, "s.poolClient.GetAmplifier"), http.StatusGatewayTimeout)
	})

	t.Run("service error - request canceled", func(t *testing.T) {
		testServiceError(t, errors.Wrap(context.Canceled, "s.poolClient.GetPoolCoins"), statusClientClosedRequest)
	})

	t.Run("service error - unknown error", func(t *testing.T) {
		testServiceError(t, errors.New("unknown error"), http.StatusInternalServerError)
	})

	t.Run("wrong http method", func(t *testing.T) {
		status, _ := serve(t, server, http.MethodPost, "/estimate")
		require.Equal(t, http.StatusMethodNotAllowed, status)
	})
}

func TestQuoteHandler(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := mock.NewMockService(ctrl)
	server := newTestServer(t, mockService)

	t.Run("success", func(t *testing.T) {
		mockService.EXPECT().
			Quote(gomock.Any()).
			DoAndReturn(func(req dto.QuoteRequest) (*big.Int, error) {
				require.Equal(t, "100000", req.AmountIn.String())
				require.Equal(t, "3432247548", req.ReserveIn.String())
				require.Equal(t, "6169362700", req.ReserveOut.String())
				require.Equal(t, "450", req.Amplifier.String())
				require.Nil(t, req.Fee)
				return big.NewInt(100110), nil
			})

		status, body := serve(t, server, http.MethodGet, quoteURL)
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "100110", body)
	})

	t.Run("fee is forwarded", func(t *testing.T) {
		mockService.EXPECT().
			Quote(gomock.Any()).
			DoAndReturn(func(req dto.QuoteRequest) (*big.Int, error) {
				require.NotNil(t, req.Fee)
				require.Equal(t, uint64(0), *req.Fee)
				return big.NewInt(100150), nil
			})

		status, body := serve(t, server, http.MethodGet, quoteURL+"&fee=0")
		require.Equal(t, http.StatusOK, status)
		require.Equal(t, "100150", body)
	})

	t.Run("validation error - missing amplifier", func(t *testing.T) {
		status, _ := serve(t, server, http.MethodGet, "/quote?amount_in=1&reserve_in=1&reserve_out=1")
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("service error - fee too high", func(t *testing.T) {
		mockService.EXPECT().
			Quote(gomock.Any()).
			Return(nil, errors.Wrap(apperrors.ErrInvalidArgument, "fee too high"))

		status, body := serve(t, server, http.MethodGet, quoteURL+"&fee=101")
		require.Equal(t, http.StatusBadRequest, status)
		require.Contains(t, body, "fee too high")
	})

	t.Run("service error - insufficient liquidity", func(t *testing.T) {
		mockService.EXPECT().
			Quote(gomock.Any()).
			Return(nil, apperrors.ErrInsufficientLiquidity)

		status, _ := serve(t, server, http.MethodGet, quoteURL)
		require.Equal(t, http.StatusUnprocessableEntity, status)
	})

	t.Run("wrong http method", func(t *testing.T) {
		status, _ := serve(t, server, http.MethodPost, quoteURL)
		require.Equal(t, http.StatusMethodNotAllowed, status)
	})
}

func TestLogMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server := newTestServer(t, mock.NewMockService(ctrl))

	var logOutput bytes.Buffer

	originalOutput := log.StandardLogger().Out
	log.SetOutput(&logOutput)
	defer log.SetOutput(originalOutput)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()

	handler := server.logMiddleware(server.mux)
	handler.ServeHTTP(w, req)

	logContent := logOutput.String()
	require.Contains(t, logContent, "GET /ping")
	require.Contains(t, logContent, "status=200")
}

func TestServer_ListenAndServe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	server, err := NewServer(mock.NewMockService(ctrl), &config.Config{
		ReadHeaderTimeout: 5 * time.Second,
		GraceTimeout:      5 * time.Second,
	})
	require.NoError(t, err)

	const addr = "localhost:0"

	errCh := make(chan error, 1)

	go func() {
		errCh <- server.ListenAndServe(addr)
	}()

	time.Sleep(100 * time.Millisecond)

	err = syscall.Kill(syscall.Getpid(), syscall.SIGTERM)
	require.NoError(t, err)

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}
