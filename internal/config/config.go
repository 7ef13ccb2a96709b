package config

import (
	"fmt"
	"net"
	"os"
	"time"

	toml "github.com/pelletier/go-toml"
)

// Defaults match the deployment the probe was written against: a proxy on
// the conventional loopback SOCKS5 port, asked to CONNECT to 127.0.0.1:80.
const (
	DefaultProxyAddr  = "127.0.0.1:1080"
	DefaultTargetAddr = "127.0.0.1:80"

	DefaultTimeoutSeconds = 10
)

// Config is the probe run configuration, loadable from a TOML file.
// Timeouts are whole seconds in the file.
type Config struct {
	Proxy     string `toml:"proxy"`
	Target    string `toml:"target"`
	HTTPProxy string `toml:"http_proxy"`

	DialTimeoutSeconds        int `toml:"dial_timeout"`
	NegotiationTimeoutSeconds int `toml:"negotiation_timeout"`

	Verbose bool `toml:"verbose"`
}

// Default returns a Config with every field at its default.
func Default() Config {
	return Config{
		Proxy:                     DefaultProxyAddr,
		Target:                    DefaultTargetAddr,
		DialTimeoutSeconds:        DefaultTimeoutSeconds,
		NegotiationTimeoutSeconds: DefaultTimeoutSeconds,
	}
}

// Load reads a TOML config file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that addresses parse as host:port and timeouts are
// positive.
func (c Config) Validate() error {
	if err := validateHostPort("proxy", c.Proxy); err != nil {
		return err
	}
	if err := validateHostPort("target", c.Target); err != nil {
		return err
	}
	if c.HTTPProxy != "" {
		if err := validateHostPort("http_proxy", c.HTTPProxy); err != nil {
			return err
		}
	}
	if c.DialTimeoutSeconds <= 0 {
		return fmt.Errorf("dial_timeout must be > 0, got %d", c.DialTimeoutSeconds)
	}
	if c.NegotiationTimeoutSeconds <= 0 {
		return fmt.Errorf("negotiation_timeout must be > 0, got %d", c.NegotiationTimeoutSeconds)
	}
	return nil
}

// DialTimeout returns dial_timeout as a duration.
func (c Config) DialTimeout() time.Duration {
	return time.Duration(c.DialTimeoutSeconds) * time.Second
}

// NegotiationTimeout returns negotiation_timeout as a duration.
func (c Config) NegotiationTimeout() time.Duration {
	return time.Duration(c.NegotiationTimeoutSeconds) * time.Second
}

func validateHostPort(name, addr string) error {
	if addr == "" {
		return fmt.Errorf("%s address cannot be empty", name)
	}
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid %s address %q: %w", name, addr, err)
	}
	return nil
}
