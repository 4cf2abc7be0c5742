package curvepool

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/fleshka4/stableswap-estimator/internal/infra/curvepool/mock"
)

const testCallTimeout = time.Second

var poolAddr = common.HexToAddress("0xDC24316b9AE028F1497c275EB9192a3Ea0f67022")

func TestNewClient(t *testing.T) {
	t.Parallel()

	t.Run("dial error", func(t *testing.T) {
		client, err := NewClient("invalid://url", testCallTimeout)
		require.Error(t, err)
		require.Nil(t, client)
	})
}

func TestCallMethod(t *testing.T) {
	t.Parallel()

	// Subtests run in parallel; the controller is finished by t.Cleanup.
	ctrl := gomock.NewController(t)

	mockCaller := mock.NewMockEthCaller(ctrl)
	client := &ethClientImpl{caller: mockCaller, callTimeout: testCallTimeout}

	poolABI, err := abi.JSON(strings.NewReader(poolABIJSON))
	require.NoError(t, err)
	client.poolABI = poolABI

	t.Run("pack error", func(t *testing.T) {
		t.Parallel()

		_, err := client.call(context.Background(), poolAddr, "nonexistent")
		require.Error(t, err)
	})

	t.Run("pack error - missing argument", func(t *testing.T) {
		t.Parallel()

		_, err := client.call(context.Background(), poolAddr, coinsMethod)
		require.Error(t, err)
	})

	t.Run("call contract error", func(t *testing.T) {
		t.Parallel()

		mockCaller.EXPECT().
			CallContract(gomock.Any(), hasCallData(t, amplifierMethod), gomock.Nil()).
			Return(nil, errors.New("call error"))

		_, err := client.call(context.Background(), poolAddr, amplifierMethod)
		require.Error(t, err)
	})

	t.Run("unpack error", func(t *testing.T) {
		t.Parallel()

		mockCaller.EXPECT().
			CallContract(gomock.Any(), hasCallData(t, balancesMethod, big.NewInt(1)), gomock.Nil()).
			Return([]byte("invalid data"), nil)

		_, err := client.call(context.Background(), poolAddr, balancesMethod, big.NewInt(1))
		require.Error(t, err)
	})
}

func TestGetPoolCoins(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCaller := mock.NewMockEthCaller(ctrl)
	client, err := newClientWithCaller(mockCaller, testCallTimeout)
	require.NoError(t, err)

	coin0 := common.HexToAddress("0x0000000000000000000000000000000000000001")
	coin1 := common.HexToAddress("0x0000000000000000000000000000000000000002")

	t.Run("success", func(t *testing.T) {
		mockCaller.EXPECT().
			CallContract(gomock.Any(), hasCallData(t, coinsMethod, big.NewInt(0)), gomock.Nil()).
			Return(mustPackOutput(t, poolABIJSON, coinsMethod, coin0), nil)
		mockCaller.EXPECT().
			CallContract(gomock.Any(), hasCallData(t, coinsMethod, big.NewInt(1)), gomock.Nil()).
			Return(mustPackOutput(t, poolABIJSON, coinsMethod, coin1), nil)

		got0, got1, err := client.GetPoolCoins(context.Background(), poolAddr)
		require.NoError(t, err)
		require.Equal(t, coin0, got0)
		require.Equal(t, coin1, got1)
	})

	t.Run("coin1 call error", func(t *testing.T) {
		mockCaller.EXPECT().
			CallContract(gomock.Any(), hasCallData(t, coinsMethod, big.NewInt(0)), gomock.Nil()).
			Return(mustPackOutput(t, poolABIJSON, coinsMethod, coin0), nil)
		mockCaller.EXPECT().
			CallContract(gomock.Any(), hasCallData(t, coinsMethod, big.NewInt(1)), gomock.Nil()).
			Return(nil, errors.New("call error"))

		_, _, err := client.GetPoolCoins(context.Background(), poolAddr)
		require.Error(t, err)
		require.Contains(t, err.Error(), "coins(1)")
	})

	t.Run("both calls fail", func(t *testing.T) {
		mockCaller.EXPECT().
			CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
			Return(nil, errors.New("call error")).
			Times(2)

		_, _, err := client.GetPoolCoins(context.Background(), poolAddr)
		require.Error(t, err)
		require.Contains(t, err.Error(), "coins(0)")
		require.Contains(t, err.Error(), "coins(1)")
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, _, err := client.GetPoolCoins(ctx, poolAddr)
		require.Error(t, err)
		require.ErrorIs(t, err, context.Canceled)
	})

	t.Run("cast error", func(t *testing.T) {
		c := client.(*ethClientImpl)
		invalidABI, err := abi.JSON(strings.NewReader(`[
			{"inputs":[{"internalType":"uint256","name":"i","type":"uint256"}],"name":"coins","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
		]`))
		require.NoError(t, err)
		originalABI := c.poolABI
		c.poolABI = invalidABI
		defer func() { c.poolABI = originalABI }()

		mockCaller.EXPECT().
			CallContract(gomock.Any(), gomock.Any(), gomock.Nil()).
			Return(mustPackUint(t, coinsMethod, big.NewInt(123)), nil).
			Times(2)

		_, _, err = client.GetPoolCoins(context.Background(), poolAddr)
		require.Error(t, err)
	})
}

func TestGetPoolBalances(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCaller := mock.NewMockEthCaller(ctrl)
	client, err := newClientWithCaller(mockCaller, testCallTimeout)
	require.NoError(t, err)

	b0, ok := new(big.Int).SetString("3432247548", 10)
	require.True(t, ok)
	b1, ok := new(big.Int).SetString("6169362700", 10)
	require.True(t, ok)

	t.Run("success", func(t *testing.T) {
		mockCaller.EXPECT().
			CallContract(gomock.Any(), hasCallData(t, balancesMethod, big.NewInt(0)), gomock.Nil()).
			Return(mustPackOutput(t, poolABIJSON, balancesMethod, b0), nil)
		mockCaller.EXPECT().
			CallContract(gomock.Any(), hasCallData(t, balancesMethod, big.NewInt(1)), gomock.Nil()).
			Return(mustPackOutput(t, poolABIJSON, balancesMethod, b1), nil)

		got0, got1, err := client.GetPoolBalances(context.Background(), poolAddr)
		require.NoError(t, err)
		require.Equal(t, 0, b0.Cmp(got0))
		require.Equal(t, 0, b1.Cmp(got1))
	})

	t.Run("call error", func(t *testing.T) {
		mockCaller.EXPECT().
			CallContract(gomock.Any(), hasCallData(t, balancesMethod, big.NewInt(0)), gomock.Nil()).
			Return(nil, errors.New("call error"))
		mockCaller.EXPECT().
			CallContract(gomock.Any(), hasCallData(t, balancesMethod, big.NewInt(1)), gomock.Nil()).
			Return(mustPackOutput(t, poolABIJSON, balancesMethod, b1), nil)

		_, _, err := client.GetPoolBalances(context.Background(), poolAddr)
		require.Error(t, err)
	})
}

func TestGetAmplifier(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCaller := mock.NewMockEthCaller(ctrl)
	client, err := newClientWithCaller(mockCaller, testCallTimeout)
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		mockCaller.EXPECT().
			CallContract(gomock.Any(), hasCallData(t, amplifierMethod), gomock.Nil()).
			DoAndReturn(func(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
				require.NotNil(t, msg.To)
				require.Equal(t, poolAddr, *msg.To)
				return mustPackOutput(t, poolABIJSON, amplifierMethod, big.NewInt(450)), nil
			})

		got, err := client.GetAmplifier(context.Background(), poolAddr)
		require.NoError(t, err)
		require.Equal(t, int64(450), got.Int64())
	})

	t.Run("call error", func(t *testing.T) {
		mockCaller.EXPECT().
			CallContract(gomock.Any(), hasCallData(t, amplifierMethod), gomock.Nil()).
			Return(nil, errors.New("call error"))

		_, err := client.GetAmplifier(context.Background(), poolAddr)
		require.Error(t, err)
	})
}

type callDataMatcher struct {
	data []byte
}

func (m callDataMatcher) Matches(x any) bool {
	msg, ok := x.(ethereum.CallMsg)
	return ok && bytes.Equal(msg.Data, m.data)
}

func (m callDataMatcher) String() string {
	return fmt.Sprintf("call data %x", m.data)
}

// hasCallData matches a CallMsg carrying the ABI-encoded call of method(args...).
func hasCallData(t *testing.T, method string, args ...interface{}) gomock.Matcher {
	a, err := abi.JSON(strings.NewReader(poolABIJSON))
	require.NoError(t, err)

	data, err := a.Pack(method, args...)
	require.NoError(t, err)

	return callDataMatcher{data: data}
}

func mustPackUint(t *testing.T, method string, value *big.Int) []byte {
	a, err := abi.JSON(strings.NewReader(`[
		{"inputs":[],"name":"` + method + `","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
	]`))
	require.NoError(t, err)

	b, err := a.Methods[method].Outputs.Pack(value)
	require.NoError(t, err)

	return b
}

func mustPackOutput(t *testing.T, abiJSON, method string, values ...interface{}) []byte {
	a, err := abi.JSON(strings.NewReader(abiJSON))
	require.NoError(t, err)

	b, err := a.Methods[method].Outputs.Pack(values...)
	require.NoError(t, err)

	return b
}
