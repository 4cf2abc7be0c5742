package curvepool

import (
	"context"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

//go:generate mockgen -source=client.go -destination=mock/client_mock.go -package=mock

const poolABIJSON = `[
	{"inputs":[{"internalType":"uint256","name":"i","type":"uint256"}],"name":"coins","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"internalType":"uint256","name":"i","type":"uint256"}],"name":"balances","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"inputs":[],"name":"A","outputs":[{"internalType":"uint256","name":"","type":"uint256"}],"stateMutability":"view","type":"function"}
]`

const (
	coinsMethod     = "coins"
	balancesMethod  = "balances"
	amplifierMethod = "A"

	numCoins = 2
)

// Client defines an abstraction for reading two-coin StableSwap pool state from the Ethereum blockchain.
type Client interface {
	// GetPoolCoins returns the addresses of coin 0 and coin 1 for a given pool contract.
	GetPoolCoins(ctx context.Context, pool common.Address) (common.Address, common.Address, error)
	// GetPoolBalances returns the current balances of coin 0 and coin 1 for a given pool contract.
	GetPoolBalances(ctx context.Context, pool common.Address) (*big.Int, *big.Int, error)
	// GetAmplifier returns the pool's current amplification coefficient.
	GetAmplifier(ctx context.Context, pool common.Address) (*big.Int, error)
}

// EthCaller represents interface for calling contracts.
type EthCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

type ethClientImpl struct {
	caller  EthCaller
	poolABI abi.ABI

	callTimeout time.Duration
}

// NewClient creates a new pool Client backed by an Ethereum RPC connection.
func NewClient(rpcURL string, callTimeout time.Duration) (Client, error) {
	caller, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, errors.Wrap(err, "ethclient.Dial")
	}

	return newClientWithCaller(caller, callTimeout)
}

func newClientWithCaller(caller EthCaller, callTimeout time.Duration) (Client, error) {
	poolABI, err := abi.JSON(strings.NewReader(poolABIJSON))
	if err != nil {
		return nil, errors.Wrap(err, "abi.JSON")
	}

	return &ethClientImpl{
		caller:  caller,
		poolABI: poolABI,

		callTimeout: callTimeout,
	}, nil
}

func (c *ethClientImpl) call(ctx context.Context, to common.Address, method string, args ...interface{}) ([]interface{}, error) {
	data, err := c.poolABI.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrap(err, "c.poolABI.Pack")
	}

	res, err := c.caller.CallContract(
		ctx,
		ethereum.CallMsg{
			To:   &to,
			Data: data,
		},
		nil,
	)
	if err != nil {
		return nil, errors.Wrap(err, "c.caller.CallContract")
	}

	out, err := c.poolABI.Unpack(method, res)
	if err != nil {
		return nil, errors.Wrap(err, "c.poolABI.Unpack")
	}
	if len(out) == 0 {
		return nil, errors.Errorf("empty output from %s call", method)
	}

	return out, nil
}

// callPerCoin calls method(i) for every coin index concurrently and returns
// the first output value of each call, indexed by coin.
func (c *ethClientImpl) callPerCoin(ctx context.Context, pool common.Address, method string) ([numCoins]interface{}, error) {
	type coinResult struct {
		value interface{}
		err   error
		index int
	}

	var wg sync.WaitGroup
	ch := make(chan coinResult, numCoins)

	callCoin := func(i int) {
		defer wg.Done()

		ctxCall, cancel := context.WithTimeout(ctx, c.callTimeout)
		defer cancel()

		select {
		case <-ctxCall.Done():
			ch <- coinResult{err: errors.Wrap(ctxCall.Err(), "context cancelled before call"), index: i}
			return
		default:
		}

		out, err := c.call(ctxCall, pool, method, big.NewInt(int64(i)))
		if err != nil {
			ch <- coinResult{err: errors.Wrapf(err, "failed to call %s(%d)", method, i), index: i}
			return
		}

		ch <- coinResult{value: out[0], index: i}
	}

	wg.Add(numCoins)
	for i := 0; i < numCoins; i++ {
		go callCoin(i)
	}

	go func() {
		wg.Wait()
		close(ch)
	}()

	var (
		values      [numCoins]interface{}
		combinedErr error
	)

	for result := range ch {
		if result.err != nil {
			combinedErr = multierr.Append(combinedErr, result.err)
			continue
		}
		values[result.index] = result.value
	}

	return values, combinedErr
}

// GetPoolCoins returns the addresses of coin 0 and coin 1 for a given pool contract.
func (c *ethClientImpl) GetPoolCoins(ctx context.Context, pool common.Address) (common.Address, common.Address, error) {
	values, err := c.callPerCoin(ctx, pool, coinsMethod)
	if err != nil {
		return common.Address{}, common.Address{}, errors.Wrap(err, "failed to get pool coins")
	}

	var coins [numCoins]common.Address
	for i, v := range values {
		addr, ok := v.(common.Address)
		if !ok {
			return common.Address{}, common.Address{}, errors.Errorf("failed to cast coins(%d) result to address", i)
		}
		coins[i] = addr
	}

	return coins[0], coins[1], nil
}

// GetPoolBalances returns the current balances of coin 0 and coin 1 for a given pool contract.
func (c *ethClientImpl) GetPoolBalances(ctx context.Context, pool common.Address) (*big.Int, *big.Int, error) {
	values, err := c.callPerCoin(ctx, pool, balancesMethod)
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to get pool balances")
	}

	var balances [numCoins]*big.Int
	for i, v := range values {
		balance, ok := v.(*big.Int)
		if !ok {
			return nil, nil, errors.Errorf("failed to cast balances(%d) to *big.Int", i)
		}
		balances[i] = balance
	}

	return balances[0], balances[1], nil
}

// GetAmplifier returns the pool's current amplification coefficient.
func (c *ethClientImpl) GetAmplifier(ctx context.Context, pool common.Address) (*big.Int, error) {
	ctxCall, cancel := context.WithTimeout(ctx, c.callTimeout)
	defer cancel()

	out, err := c.call(ctxCall, pool, amplifierMethod)
	if err != nil {
		return nil, errors.Wrap(err, "c.call")
	}

	amplifier, ok := out[0].(*big.Int)
	if !ok {
		return nil, errors.New("failed to cast A to *big.Int")
	}

	return amplifier, nil
}
