package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("WALLET_DB", "sqlite://wallet.db")
	t.Setenv("WALLET_PUBLIC_KEY", "public key")
	t.Setenv("WALLET_SIGNING_ALGORITHM", "ES256")
}

func TestFromEnv_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, "Wallet API", cfg.Title)
	assert.Equal(t, "127.0.0.1", cfg.BindHost)
	assert.Equal(t, 8080, cfg.BindPort)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.Equal(t, "sqlite://wallet.db", cfg.DB)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, "public key", cfg.PublicKey)
	assert.Empty(t, cfg.PrivateKey)
	assert.Equal(t, "ES256", cfg.SigningAlgorithm)
	assert.Equal(t, "wallet-api", cfg.Audience)
	assert.Equal(t, "https://api.nbp.pl/api", cfg.NBPURL)
	assert.Equal(t, 5, cfg.NBPTimeout)
	assert.Equal(t, 20, cfg.NBPConnectionLimit)
	assert.Equal(t, 100, cfg.RateLimitRPS)
	assert.False(t, cfg.ShouldMigrate())
}

func TestFromEnv_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("WALLET_DEBUG", "Yes")
	t.Setenv("WALLET_TITLE", "An API")
	t.Setenv("WALLET_BIND_HOST", "localhost")
	t.Setenv("WALLET_BIND_PORT", "8000")
	t.Setenv("WALLET_PRIVATE_KEY", "private key")
	t.Setenv("WALLET_SIGNING_ALGORITHM", "RS256")
	t.Setenv("WALLET_AUDIENCE", "wallet")
	t.Setenv("WALLET_NBP_URL", "http://rates.local/api")
	t.Setenv("WALLET_NBP_TIMEOUT", "100")
	t.Setenv("WALLET_NBP_CONNECTION_LIMIT", "5")
	t.Setenv("WALLET_RATE_LIMIT_RPS", "0")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.True(t, cfg.ShouldMigrate())
	assert.Equal(t, "An API", cfg.Title)
	assert.Equal(t, "localhost:8000", cfg.Addr())
	assert.Equal(t, "private key", cfg.PrivateKey)
	assert.Equal(t, "RS256", cfg.SigningAlgorithm)
	assert.Equal(t, "wallet", cfg.Audience)
	assert.Equal(t, "http://rates.local/api", cfg.NBPURL)
	assert.Equal(t, 100, cfg.NBPTimeout)
	assert.Equal(t, 5, cfg.NBPConnectionLimit)
	assert.Equal(t, 0, cfg.RateLimitRPS)
}

func TestFromEnv_MissingRequired(t *testing.T) {
	t.Setenv("WALLET_DB", "")
	t.Setenv("WALLET_PUBLIC_KEY", "")
	t.Setenv("WALLET_SIGNING_ALGORITHM", "ES256")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WALLET_DB is required")
	assert.Contains(t, err.Error(), "WALLET_PUBLIC_KEY is required")
}

func TestFromEnv_UnknownAlgorithm(t *testing.T) {
	setRequired(t)
	t.Setenv("WALLET_SIGNING_ALGORITHM", "none")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WALLET_SIGNING_ALGORITHM must be one of")
}

func TestParseBool(t *testing.T) {
	for in, want := range map[string]bool{
		"true": true, "Yes": true, "1": true, "TRUE": true,
		"false": false, "no": false, "0": false, "": false, "maybe": false,
	} {
		assert.Equal(t, want, ParseBool(in), in)
	}
}
