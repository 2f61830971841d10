package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// quiet discards usage output of failing parses.
func quiet(t *testing.T) {
	t.Helper()
	stderr := os.Stderr
	devnull, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = devnull
	t.Cleanup(func() {
		os.Stderr = stderr
		devnull.Close()
	})
}

func TestLoadDisk_Defaults(t *testing.T) {
	cfg, err := LoadDisk("feed-disk", nil)
	if err != nil {
		t.Fatalf("LoadDisk() returned unexpected error: %v", err)
	}

	if cfg.Path != "/" {
		t.Errorf("Path = %q, want %q", cfg.Path, "/")
	}
	if cfg.Interval != 5*time.Second {
		t.Errorf("Interval = %v, want 5s", cfg.Interval)
	}
	if cfg.Prefix != "d " {
		t.Errorf("Prefix = %q, want %q", cfg.Prefix, "d ")
	}
	if cfg.Postfix != "%" {
		t.Errorf("Postfix = %q, want %q", cfg.Postfix, "%")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestLoadDisk_Flags(t *testing.T) {
	cfg, err := LoadDisk("feed-disk", []string{"-i", "10", "--prefix", "/home ", "--postfix", "", "/home"})
	if err != nil {
		t.Fatalf("LoadDisk() returned unexpected error: %v", err)
	}

	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"Path", cfg.Path, "/home"},
		{"Interval", cfg.Interval.String(), "10s"},
		{"Prefix", cfg.Prefix, "/home "},
		{"Postfix", cfg.Postfix, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.expected)
			}
		})
	}
}

func TestLoadDisk_EnvAndFlagPrecedence(t *testing.T) {
	t.Setenv("STATUSFEED_INTERVAL", "30")
	t.Setenv("STATUSFEED_PREFIX", "disk ")
	t.Setenv("STATUSFEED_LOG_LEVEL", "debug")

	cfg, err := LoadDisk("feed-disk", []string{"--prefix", "D "})
	if err != nil {
		t.Fatalf("LoadDisk() returned unexpected error: %v", err)
	}

	if cfg.Interval != 30*time.Second {
		t.Errorf("Interval = %v, want 30s from the environment", cfg.Interval)
	}
	if cfg.Prefix != "D " {
		t.Errorf("Prefix = %q, want the flag value %q", cfg.Prefix, "D ")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
}

func TestLoadDisk_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "prefix: \"fs \"\ninterval: 7\n"
	if err := os.WriteFile(filepath.Join(dir, "feed-disk.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := LoadDisk("feed-disk", nil)
	if err != nil {
		t.Fatalf("LoadDisk() returned unexpected error: %v", err)
	}
	if cfg.Prefix != "fs " {
		t.Errorf("Prefix = %q, want %q", cfg.Prefix, "fs ")
	}
	if cfg.Interval != 7*time.Second {
		t.Errorf("Interval = %v, want 7s", cfg.Interval)
	}
}

func TestLoadDisk_Invalid(t *testing.T) {
	quiet(t)

	tests := []struct {
		name string
		args []string
	}{
		{"zero interval", []string{"-i", "0"}},
		{"negative interval", []string{"--interval", "-3"}},
		{"fractional interval", []string{"-i", "1.5"}},
		{"two paths", []string{"/", "/home"}},
		{"unknown flag", []string{"--frobnicate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadDisk("feed-disk", tt.args); err == nil {
				t.Errorf("LoadDisk(%q) expected error, got nil", tt.args)
			}
		})
	}
}

func TestLoad_Help(t *testing.T) {
	quiet(t)

	_, err := LoadClock("feed-clock", []string{"--help"})
	if !errors.Is(err, ErrHelp) {
		t.Errorf("LoadClock(--help) error = %v, want ErrHelp", err)
	}
}

func TestLoadBalance(t *testing.T) {
	cfg, err := LoadBalance("feed-helium-balance", []string{"--http-timeout", "15s", "acct"})
	if err != nil {
		t.Fatalf("LoadBalance() returned unexpected error: %v", err)
	}

	if cfg.Account != "acct" {
		t.Errorf("Account = %q, want %q", cfg.Account, "acct")
	}
	if cfg.Interval != time.Minute {
		t.Errorf("Interval = %v, want 1m", cfg.Interval)
	}
	if cfg.Symbol != "HNTUSDT" {
		t.Errorf("Symbol = %q, want HNTUSDT", cfg.Symbol)
	}
	if cfg.HeliumURL != "https://api.helium.io" {
		t.Errorf("HeliumURL = %q", cfg.HeliumURL)
	}
	if cfg.BinanceURL != "https://api.binance.com" {
		t.Errorf("BinanceURL = %q", cfg.BinanceURL)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v, want 15s", cfg.HTTPTimeout)
	}
}

func TestLoadBalance_AccountFromEnvironment(t *testing.T) {
	t.Setenv("STATUSFEED_ACCOUNT", "env-acct")
	t.Setenv("STATUSFEED_HELIUM_URL", "http://127.0.0.1:9")

	cfg, err := LoadBalance("feed-helium-balance", nil)
	if err != nil {
		t.Fatalf("LoadBalance() returned unexpected error: %v", err)
	}
	if cfg.Account != "env-acct" {
		t.Errorf("Account = %q, want %q", cfg.Account, "env-acct")
	}
	if cfg.HeliumURL != "http://127.0.0.1:9" {
		t.Errorf("HeliumURL = %q, want the environment value", cfg.HeliumURL)
	}
}

func TestLoadBalance_MissingAccount(t *testing.T) {
	_, err := LoadBalance("feed-helium-balance", nil)
	if err == nil {
		t.Fatal("LoadBalance() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "account") {
		t.Errorf("LoadBalance() error = %q, want it to name the account", err)
	}
}

func TestLoadClock(t *testing.T) {
	cfg, err := LoadClock("feed-clock", []string{"-i", "0.25", "-f", "%H:%M", "-l", "warn"})
	if err != nil {
		t.Fatalf("LoadClock() returned unexpected error: %v", err)
	}

	if cfg.Interval != 250*time.Millisecond {
		t.Errorf("Interval = %v, want 250ms", cfg.Interval)
	}
	if cfg.Format != "%H:%M" {
		t.Errorf("Format = %q, want %q", cfg.Format, "%H:%M")
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
	}
}

func TestLoadClock_Defaults(t *testing.T) {
	cfg, err := LoadClock("feed-clock", nil)
	if err != nil {
		t.Fatalf("LoadClock() returned unexpected error: %v", err)
	}
	if cfg.Interval != time.Second {
		t.Errorf("Interval = %v, want 1s", cfg.Interval)
	}
	if cfg.Format != "%a %b %d %H:%M:%S" {
		t.Errorf("Format = %q", cfg.Format)
	}
}

func TestLoadClock_Invalid(t *testing.T) {
	quiet(t)

	for _, args := range [][]string{
		{"-i", "0"},
		{"-i", "-1"},
		{"-i", "NaN"},
		{"-i", "1e-12"},
		{"extra"},
	} {
		if _, err := LoadClock("feed-clock", args); err == nil {
			t.Errorf("LoadClock(%q) expected error, got nil", args)
		}
	}
}
