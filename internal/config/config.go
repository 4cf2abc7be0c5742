package config

import (
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/fleshka4/stableswap-estimator/internal/logging"
	"github.com/fleshka4/stableswap-estimator/pkg/stableswap"
)

// RPCURLEnv overrides rpc_url from the config file when set.
const RPCURLEnv = "RPC_URL"

// Config holds application configuration loaded from file.
type Config struct {
	RPCURL            string        `yaml:"rpc_url"`
	ListenAddr        string        `yaml:"listen_addr"`
	GraceTimeout      time.Duration `yaml:"shutdown_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	CallTimeout       time.Duration `yaml:"call_timeout"`

	// Fee is the trading fee in pips applied to every quote that does not
	// carry its own.
	Fee *uint64 `yaml:"fee"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load reads the config from a YAML file path, applies environment overrides
// and fallbacks, and validates the result.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "os.Open")
	}
	defer func(f *os.File) {
		err := f.Close()
		if err != nil {
			log.Printf("failed to close config file: f.Close: %v", err)
		}
	}(f)

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "decoder.Decode")
	}

	if v := os.Getenv(RPCURLEnv); v != "" {
		cfg.RPCURL = v
	}

	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "cfg.Validate")
	}

	return &cfg, nil
}

func (c *Config) setDefaults() {
	const defaultTimeout = 5 * time.Second
	if c.ListenAddr == "" {
		c.ListenAddr = ":1337"
	}
	if c.GraceTimeout == 0 {
		c.GraceTimeout = defaultTimeout
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = defaultTimeout
	}
	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = defaultTimeout
	}
	if c.CallTimeout == 0 {
		c.CallTimeout = defaultTimeout
	}
	if c.Fee == nil {
		fee := stableswap.DefaultFee
		c.Fee = &fee
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if c.RPCURL == "" {
		return errors.New("rpc_url is required in config")
	}
	if c.Fee != nil && *c.Fee > stableswap.MaxFee {
		return errors.Errorf("fee must be at most %d pips, got %d", stableswap.MaxFee, *c.Fee)
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return errors.Errorf("log_format must be text or json, got %q", c.LogFormat)
	}
	return nil
}

// DefaultFee returns the configured fee, or stableswap.DefaultFee when unset.
func (c *Config) DefaultFee() uint64 {
	if c == nil || c.Fee == nil {
		return stableswap.DefaultFee
	}
	return *c.Fee
}
