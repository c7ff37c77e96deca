package config

import (
	"bytes"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"kriptomarket/internal/asset"
	"kriptomarket/internal/log"
	"kriptomarket/internal/metrics"
	"kriptomarket/internal/poller"
	"kriptomarket/internal/preference"
)

const envPrefix = "KRIPTOMARKET"

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config struct
type Config struct {
	Log         log.Config
	HTTP        HTTP
	Server      Server
	Fetch       Fetch
	Poll        poller.Config
	CoinGecko   CoinGecko
	DexScreener DexScreener
	CoinCap     CoinCap
	Preference  preference.Config
	Metrics     metrics.Config
}

// HTTP configures the shared upstream client.
type HTTP struct {
	Timeout    time.Duration `mapstructure:"Timeout"`
	MaxRetries int           `mapstructure:"MaxRetries"`
	UserAgent  string        `mapstructure:"UserAgent"`
}

type Server struct {
	Port           string        `mapstructure:"Port"`
	RequestTimeout time.Duration `mapstructure:"RequestTimeout"`
	// MaxBodyBytes bounds request bodies of write endpoints.
	MaxBodyBytes int64 `mapstructure:"MaxBodyBytes"`
}

// Fetch holds the default fetch cycle parameters.
type Fetch struct {
	// Sources in merge order.
	Sources []string `mapstructure:"Sources"`
	Limit   int      `mapstructure:"Limit"`
	Page    int      `mapstructure:"Page"`
	Degrade bool     `mapstructure:"Degrade"`
}

// Limits are the decorator settings shared by every provider section.
type Limits struct {
	// MaxRequestsPerMinute > 0 gates calls with a token bucket.
	MaxRequestsPerMinute int `mapstructure:"MaxRequestsPerMinute"`
	// MinRequestInterval > 0 spaces calls; takes precedence over the bucket.
	MinRequestInterval time.Duration `mapstructure:"MinRequestInterval"`
	Burst              int           `mapstructure:"Burst"`
	// CacheTTL > 0 caches answers per request.
	CacheTTL      time.Duration `mapstructure:"CacheTTL"`
	CacheMaxItems int           `mapstructure:"CacheMaxItems"`
}

type CoinGecko struct {
	Enabled           bool          `mapstructure:"Enabled"`
	URL               string        `mapstructure:"URL"`
	APIKey            string        `mapstructure:"APIKey"`
	PerPage           int           `mapstructure:"PerPage"`
	ExchangesCacheTTL time.Duration `mapstructure:"ExchangesCacheTTL"`
	Limits            `mapstructure:",squash"`
}

type DexScreener struct {
	Enabled bool   `mapstructure:"Enabled"`
	URL     string `mapstructure:"URL"`
	Query   string `mapstructure:"Query"`
	// Tokens switches the listing from search to these token addresses.
	Tokens   []string      `mapstructure:"Tokens"`
	Parallel int           `mapstructure:"Parallel"`
	Timeout  time.Duration `mapstructure:"Timeout"`
	Limits   `mapstructure:",squash"`
}

type CoinCap struct {
	Enabled      bool   `mapstructure:"Enabled"`
	URL          string `mapstructure:"URL"`
	APIKey       string `mapstructure:"APIKey"`
	Limit        int    `mapstructure:"Limit"`
	MarketsLimit int    `mapstructure:"MarketsLimit"`
	Limits       `mapstructure:",squash"`
}

// Default parses the default configuration values.
func Default() (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewBufferString(DefaultValues)); err != nil {
		return nil, err
	}
	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load reads the defaults, then the optional file at path, then
// KRIPTOMARKET_* environment variables, e.g. KRIPTOMARKET_COINGECKO_APIKEY.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(bytes.NewBufferString(DefaultValues)); err != nil {
		return nil, err
	}

	if path != "" {
		ext := strings.TrimPrefix(filepath.Ext(path), ".")
		if ext != "" {
			v.SetConfigType(ext)
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix(envPrefix)

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func decodeHook() viper.DecoderConfigOption {
	// arrays can be set from env vars separated by ",", example: KRIPTOMARKET_FETCH_SOURCES="coingecko,coincap"
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
		mapstructure.TextUnmarshallerHookFunc(),
	))
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if len(c.Fetch.Sources) == 0 {
		return errors.Wrap(ErrInvalid, "Fetch.Sources is empty")
	}
	for _, s := range c.Fetch.Sources {
		src, err := asset.ParseSource(s)
		if err != nil {
			return errors.Wrapf(ErrInvalid, "Fetch.Sources: %v", err)
		}
		if !c.Enabled(src) {
			return errors.Wrapf(ErrInvalid, "Fetch.Sources: %s is disabled", src)
		}
	}
	if c.Fetch.Limit < 0 || c.Fetch.Page < 0 {
		return errors.Wrap(ErrInvalid, "Fetch.Limit and Fetch.Page must not be negative")
	}
	if c.Poll.Interval < 0 || c.Poll.Timeout < 0 || c.Poll.MaxInterval < 0 {
		return errors.Wrap(ErrInvalid, "Poll durations must not be negative")
	}
	switch c.Preference.Backend {
	case preference.BackendSQLite, preference.BackendRedis, preference.BackendMemory:
	default:
		return errors.Wrapf(ErrInvalid, "Preference.Backend %q", c.Preference.Backend)
	}
	if c.Preference.Backend == preference.BackendRedis && c.Preference.Redis.Addr == "" {
		return errors.Wrap(ErrInvalid, "Preference.Redis.Addr is empty")
	}
	if c.Metrics.Enabled && c.Metrics.Endpoint != "" && !strings.HasPrefix(c.Metrics.Endpoint, "/") {
		return errors.Wrapf(ErrInvalid, "Metrics.Endpoint %q must start with /", c.Metrics.Endpoint)
	}
	return nil
}

// Sources returns Fetch.Sources parsed, dropping unknown names.
func (c *Config) Sources() []asset.Source {
	out := make([]asset.Source, 0, len(c.Fetch.Sources))
	for _, s := range c.Fetch.Sources {
		if src, err := asset.ParseSource(s); err == nil {
			out = append(out, src)
		}
	}
	return out
}

// Enabled reports whether the provider section for src is enabled.
func (c *Config) Enabled(src asset.Source) bool {
	switch src {
	case asset.SourceCoinGecko:
		return c.CoinGecko.Enabled
	case asset.SourceDexScreener:
		return c.DexScreener.Enabled
	case asset.SourceCoinCap:
		return c.CoinCap.Enabled
	}
	return false
}
