package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"statusfeeds/internal/binance"
	"statusfeeds/internal/clock"
	"statusfeeds/internal/helium"
)

// EnvPrefix prefixes every environment variable, e.g. STATUSFEED_LOG_LEVEL.
const EnvPrefix = "STATUSFEED"

// ErrHelp is returned when -h/--help was requested
var ErrHelp = pflag.ErrHelp

// DiskConfig holds configuration for the filesystem usage feed
type DiskConfig struct {
	Path     string        `mapstructure:"path"`
	Interval time.Duration `mapstructure:"-"`
	Prefix   string        `mapstructure:"prefix"`
	Postfix  string        `mapstructure:"postfix"`
	LogLevel string        `mapstructure:"log-level"`

	IntervalSeconds int `mapstructure:"interval"`
}

// BalanceConfig holds configuration for the account balance feed
type BalanceConfig struct {
	Account     string        `mapstructure:"account"`
	Interval    time.Duration `mapstructure:"-"`
	Symbol      string        `mapstructure:"symbol"`
	HeliumURL   string        `mapstructure:"helium-url"`
	BinanceURL  string        `mapstructure:"binance-url"`
	HTTPTimeout time.Duration `mapstructure:"http-timeout"`
	LogLevel    string        `mapstructure:"log-level"`

	IntervalSeconds int `mapstructure:"interval"`
}

// ClockConfig holds configuration for the clock feed
type ClockConfig struct {
	Format   string        `mapstructure:"format"`
	Interval time.Duration `mapstructure:"-"`
	LogLevel string        `mapstructure:"log-level"`

	IntervalSeconds float64 `mapstructure:"interval"`
}

// LoadDisk parses the disk feed arguments.
//
// Usage: feed-disk [flags] [path]
func LoadDisk(name string, args []string) (*DiskConfig, error) {
	fs := newFlagSet(name, "[path]")
	fs.IntP("interval", "i", 5, "seconds between samples")
	fs.String("prefix", "d ", "text printed before the percentage")
	fs.String("postfix", "%", "text printed after the percentage")

	v, err := load(name, fs, args)
	if err != nil {
		return nil, err
	}
	v.SetDefault("path", "/")
	if err := positional(v, fs, "path", false); err != nil {
		return nil, err
	}

	cfg := &DiskConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Interval, err = wholeSeconds(cfg.IntervalSeconds)
	if err != nil {
		return nil, err
	}
	if cfg.Path == "" {
		return nil, errors.New("path must not be empty")
	}

	return cfg, nil
}

// LoadBalance parses the balance feed arguments.
//
// Usage: feed-helium-balance [flags] <account>
func LoadBalance(name string, args []string) (*BalanceConfig, error) {
	fs := newFlagSet(name, "<account>")
	fs.IntP("interval", "i", 60, "seconds between samples")
	fs.String("symbol", binance.DefaultSymbol, "trading pair whose average price is shown")
	fs.String("helium-url", helium.DefaultBaseURL, "Helium API base URL")
	fs.String("binance-url", binance.DefaultBaseURL, "Binance API base URL")
	fs.Duration("http-timeout", 0, "timeout of each HTTP request, 0 for none")

	v, err := load(name, fs, args)
	if err != nil {
		return nil, err
	}
	if err := positional(v, fs, "account", true); err != nil {
		return nil, err
	}

	cfg := &BalanceConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Interval, err = wholeSeconds(cfg.IntervalSeconds)
	if err != nil {
		return nil, err
	}

	var missing []string
	if cfg.Account == "" {
		missing = append(missing, "account")
	}
	if cfg.Symbol == "" {
		missing = append(missing, "symbol")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if cfg.HTTPTimeout < 0 {
		return nil, fmt.Errorf("http-timeout must not be negative, got %s", cfg.HTTPTimeout)
	}

	return cfg, nil
}

// LoadClock parses the clock feed arguments.
//
// Usage: feed-clock [flags]
func LoadClock(name string, args []string) (*ClockConfig, error) {
	fs := newFlagSet(name, "")
	fs.StringP("format", "f", clock.DefaultFormat, "strftime pattern of the printed time")
	fs.Float64P("interval", "i", 1.0, "seconds between samples, fractions allowed")

	v, err := load(name, fs, args)
	if err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	cfg := &ClockConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	s := cfg.IntervalSeconds
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return nil, fmt.Errorf("interval must be a positive number of seconds, got %v", s)
	}
	cfg.Interval = time.Duration(s * float64(time.Second))
	if cfg.Interval <= 0 {
		return nil, fmt.Errorf("interval %v is too small", s)
	}

	return cfg, nil
}

func newFlagSet(name, positionalUsage string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.StringP("log-level", "l", "info", "log level: debug, info, warn or error")
	fs.SortFlags = false
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] %s\n\n", name, positionalUsage)
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), "\nEvery flag can also be set with %s_<FLAG> or in %s.yaml.\n", EnvPrefix, name)
	}
	return fs
}

// load parses args into fs and layers environment variables and the
// optional config file <name>.yaml beneath the flags.
//
// Precedence: explicit flag, environment, config file, flag default.
func load(name string, fs *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(name)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/statusfeeds")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	return v, nil
}

// positional stores the single optional positional argument under key.
func positional(v *viper.Viper, fs *pflag.FlagSet, key string, required bool) error {
	switch fs.NArg() {
	case 0:
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("failed to bind %s to the environment: %w", key, err)
		}
		if required && v.GetString(key) == "" {
			return fmt.Errorf("missing required argument: %s", key)
		}
	case 1:
		v.Set(key, fs.Arg(0))
	default:
		return fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args()[1:], " "))
	}
	return nil
}

func wholeSeconds(n int) (time.Duration, error) {
	if n <= 0 {
		return 0, fmt.Errorf("interval must be a positive number of seconds, got %d", n)
	}
	return time.Duration(n) * time.Second, nil
}
