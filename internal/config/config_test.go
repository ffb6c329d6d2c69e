package config

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stellar-txkit/internal/keypair"
	"github.com/stellar-txkit/internal/network"
)

func load(t *testing.T, env map[string]string) (*Config, error) {
	t.Helper()
	return LoadFrom(context.Background(), envconfig.MapLookuper(env))
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(t, map[string]string{})
	require.NoError(t, err)
	assert.Equal(t, "testnet", cfg.StellarNetwork)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.XDRFetchTimeout)
	assert.Equal(t, network.Testnet.Passphrase(), cfg.Network().Passphrase())
	assert.Nil(t, cfg.Signer())
	assert.Equal(t, "https://horizon-testnet.stellar.org", cfg.DefaultHorizonURL())
	assert.Equal(t, zerolog.InfoLevel, cfg.ParseLogLevel())
}

func TestLoadNetworks(t *testing.T) {
	tests := []struct {
		env  map[string]string
		want string
	}{
		{map[string]string{"STELLAR_NETWORK": "mainnet"}, network.PublicNetworkPassphrase},
		{map[string]string{"STELLAR_NETWORK": "futurenet"}, network.FutureNetworkPassphrase},
		{map[string]string{"STELLAR_NETWORK": "custom", "NETWORK_PASSPHRASE": "Standalone Network ; February 2017"}, "Standalone Network ; February 2017"},
	}
	for _, tt := range tests {
		t.Run(tt.env["STELLAR_NETWORK"], func(t *testing.T) {
			cfg, err := load(t, tt.env)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Network().Passphrase())
		})
	}
}

func TestLoadSigner(t *testing.T) {
	kp := keypair.MustRandom()
	cfg, err := load(t, map[string]string{"SIGNING_SECRET_KEY": kp.Seed(), "LOG_LEVEL": "debug"})
	require.NoError(t, err)
	require.NotNil(t, cfg.Signer())
	assert.Equal(t, kp.Address(), cfg.Signer().Address())
	assert.Equal(t, zerolog.DebugLevel, cfg.ParseLogLevel())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"network":         {"STELLAR_NETWORK": "devnet"},
		"custom":          {"STELLAR_NETWORK": "custom"},
		"secret prefix":   {"SIGNING_SECRET_KEY": keypair.MustRandom().Address()},
		"secret checksum": {"SIGNING_SECRET_KEY": "SAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"},
		"port":            {"PORT": "70000"},
		"log level":       {"LOG_LEVEL": "loud"},
		"fetch timeout":   {"XDR_FETCH_TIMEOUT": "0s"},
		"rate limit":      {"RATE_LIMIT_MAX": "-1"},
		"rate window":     {"RATE_LIMIT_WINDOW": "0s"},
		"home no key":     {"HOME_DOMAIN": "example.com"},
		"home with path":  {"HOME_DOMAIN": "example.com/auth", "SIGNING_SECRET_KEY": keypair.MustRandom().Seed()},
		"challenge":       {"CHALLENGE_TIMEOUT": "0s"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := load(t, env)
			assert.Error(t, err)
		})
	}
}

func TestLoadWebAuth(t *testing.T) {
	cfg, err := load(t, map[string]string{})
	require.NoError(t, err)
	assert.False(t, cfg.WebAuthEnabled())
	assert.Equal(t, 120, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)

	cfg, err = load(t, map[string]string{
		"SIGNING_SECRET_KEY": keypair.MustRandom().Seed(),
		"HOME_DOMAIN":        "example.com",
		"CHALLENGE_TIMEOUT":  "5m",
	})
	require.NoError(t, err)
	assert.True(t, cfg.WebAuthEnabled())
	assert.Equal(t, 5*time.Minute, cfg.ChallengeTimeout)
}
