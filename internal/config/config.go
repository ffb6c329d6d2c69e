package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/network"
)

type Config struct {
	StellarNetwork    string   `env:"STELLAR_NETWORK,default=testnet"`
	NetworkPassphrase string   `env:"NETWORK_PASSPHRASE"`
	SigningSecretKey  string   `env:"SIGNING_SECRET_KEY"`
	HorizonURL        string   `env:"HORIZON_URL"`
	SorobanRPCURL     string   `env:"SOROBAN_RPC_URL"`
	Port              int      `env:"PORT,default=8080"`
	LogLevel          string   `env:"LOG_LEVEL,default=info"`
	CORSOrigins       []string `env:"CORS_ORIGINS"`

	// HTTP server timeouts
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT,default=15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT,default=30s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT,default=60s"`

	// Bearer token for POST /transactions/sign; signing is open when empty
	APIToken        string        `env:"API_TOKEN"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX,default=120"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW,default=1m"`

	// SEP-10 web auth, enabled with a signing key and a home domain
	HomeDomain       string        `env:"HOME_DOMAIN"`
	WebAuthDomain    string        `env:"WEB_AUTH_DOMAIN"`
	ChallengeTimeout time.Duration `env:"CHALLENGE_TIMEOUT,default=15m"`

	// .x definition fetching
	XDRFetchTimeout time.Duration `env:"XDR_FETCH_TIMEOUT,default=30s"`
	GitHubToken     string        `env:"GITHUB_TOKEN"`
}

func Load() (*Config, error) {
	return LoadFrom(context.Background(), envconfig.OsLookuper())
}

// LoadFrom reads the configuration from l.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StellarNetwork {
	case "testnet", "mainnet", "futurenet":
	case "custom":
		if c.NetworkPassphrase == "" {
			return fmt.Errorf("NETWORK_PASSPHRASE is required when STELLAR_NETWORK is 'custom'")
		}
	default:
		return fmt.Errorf("STELLAR_NETWORK must be 'testnet', 'mainnet', 'futurenet' or 'custom', got %q", c.StellarNetwork)
	}

	if c.SigningSecretKey != "" {
		if !strings.HasPrefix(c.SigningSecretKey, "S") {
			return fmt.Errorf("SIGNING_SECRET_KEY must be a valid Stellar secret key (starts with 'S')")
		}
		if _, err := keypair.ParseFull(c.SigningSecretKey); err != nil {
			return fmt.Errorf("SIGNING_SECRET_KEY is not a valid Stellar secret key: %w", err)
		}
	}

	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	if c.RateLimitMax < 0 {
		return fmt.Errorf("RATE_LIMIT_MAX must not be negative, got %d", c.RateLimitMax)
	}
	if c.RateLimitMax > 0 && c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow)
	}
	if c.HomeDomain != "" && c.SigningSecretKey == "" {
		return fmt.Errorf("HOME_DOMAIN requires SIGNING_SECRET_KEY to sign challenges")
	}
	if strings.Contains(c.HomeDomain, "/") || strings.Contains(c.WebAuthDomain, "/") {
		return fmt.Errorf("HOME_DOMAIN and WEB_AUTH_DOMAIN must be bare host names")
	}
	if c.ChallengeTimeout <= 0 {
		return fmt.Errorf("CHALLENGE_TIMEOUT must be positive, got %s", c.ChallengeTimeout)
	}
	if c.XDRFetchTimeout <= 0 {
		return fmt.Errorf("XDR_FETCH_TIMEOUT must be positive, got %s", c.XDRFetchTimeout)
	}
	return nil
}

// Network returns the network transactions are hashed and signed for.
func (c *Config) Network() network.Network {
	switch c.StellarNetwork {
	case "mainnet":
		return network.Public
	case "futurenet":
		return network.Futurenet
	case "custom":
		n, err := network.New(c.NetworkPassphrase)
		if err == nil {
			return n
		}
	}
	return network.Testnet
}

// Signer returns the configured signing key, or nil when none is set.
func (c *Config) Signer() *keypair.Full {
	if c.SigningSecretKey == "" {
		return nil
	}
	kp, err := keypair.ParseFull(c.SigningSecretKey)
	if err != nil {
		return nil
	}
	return kp
}

// WebAuthEnabled reports whether the server can issue SEP-10 challenges.
func (c *Config) WebAuthEnabled() bool {
	return c.HomeDomain != "" && c.SigningSecretKey != ""
}

func (c *Config) DefaultHorizonURL() string {
	if c.HorizonURL != "" {
		return c.HorizonURL
	}
	switch c.StellarNetwork {
	case "mainnet":
		return "https://horizon.stellar.org"
	case "futurenet":
		return "https://horizon-futurenet.stellar.org"
	}
	return "https://horizon-testnet.stellar.org"
}

func (c *Config) DefaultSorobanRPCURL() string {
	if c.SorobanRPCURL != "" {
		return c.SorobanRPCURL
	}
	switch c.StellarNetwork {
	case "mainnet":
		return ""
	case "futurenet":
		return "https://rpc-futurenet.stellar.org"
	}
	return "https://soroban-testnet.stellar.org"
}

// ParseLogLevel returns the zerolog level for LOG_LEVEL, defaulting to info.
func (c *Config) ParseLogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
