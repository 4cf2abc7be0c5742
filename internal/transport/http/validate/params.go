package validate

import (
	"math/big"
	"net/http"
	"net/url"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
)

var errMethodNotAllowed = errors.New("method not allowed")

func requireGet(r *http.Request) error {
	if r.Method != http.MethodGet {
		return errMethodNotAllowed
	}
	return nil
}

// param returns the named query value or an error naming the missing key.
func param(q url.Values, name string) (string, error) {
	raw := q.Get(name)
	if raw == "" {
		return "", errors.Errorf("missing %s", name)
	}
	return raw, nil
}

// addressParam parses a 20-byte hex address, with or without the 0x prefix.
// The zero address is syntactically valid and is left to the service.
func addressParam(q url.Values, name string) (common.Address, error) {
	raw, err := param(q, name)
	if err != nil {
		return common.Address{}, err
	}
	if !common.IsHexAddress(raw) {
		return common.Address{}, errors.Errorf("bad %s address %q", name, raw)
	}
	return common.HexToAddress(raw), nil
}

// integerParam parses an arbitrary-precision base-10 integer.
func integerParam(q url.Values, name string) (*big.Int, error) {
	raw, err := param(q, name)
	if err != nil {
		return nil, err
	}
	v, ok := new(big.Int).SetString(raw, 10)
	if !ok {
		return nil, errors.Errorf("bad %s %q", name, raw)
	}
	return v, nil
}

// statusFor reports the HTTP status a validation error is answered with.
func statusFor(err error) int {
	if errors.Is(err, errMethodNotAllowed) {
		return http.StatusMethodNotAllowed
	}
	return http.StatusBadRequest
}
