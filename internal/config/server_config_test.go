package config_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/chapool/go-docseal/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintServiceEnv(t *testing.T) {
	config := config.DefaultServiceConfigFromEnv()
	_, err := json.MarshalIndent(config, "", "  ")

	if err != nil {
		t.Fatal(err)
	}
}

func TestDefaultServiceConfigUsesNetworkProfile(t *testing.T) {
	t.Setenv("SOROBAN_NETWORK", "testnet")
	t.Setenv("SOROBAN_RPC_URLS", "")
	t.Setenv("WALLET_SECRET_SEED", "SSECRET")

	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, "testnet", cfg.Soroban.Network)
	assert.Equal(t, "Test SDF Network ; September 2015", cfg.Soroban.NetworkPassphrase)
	assert.Equal(t, "CACQ43FUQT5RKIM5ALUEJ2RD63G6P7VAMN67JZZAXUWXHLAUMPAGHV5T", cfg.Soroban.ContractID)
	assert.Equal(t, []string{"https://soroban-testnet.stellar.org"}, cfg.Soroban.RPCURLs)
	assert.Equal(t, "GAFFDFIPDOJMYC4AHXUHMHXYPKB3T6GJ2I4JCFGQHQX3DFJVT4TGNNBB", cfg.Soroban.ServiceFee.Destination)
	assert.Equal(t, "1", cfg.Soroban.ServiceFee.Amount)
	assert.False(t, cfg.Soroban.ServiceFee.Enabled)
	assert.Equal(t, 180*time.Second, cfg.Soroban.TxTimeout)
	assert.Equal(t, 1500*time.Millisecond, cfg.Soroban.PollInterval)
	assert.Equal(t, 20, cfg.Soroban.PollMaxAttempts)
	assert.Equal(t, "TESTNET", cfg.Wallet.ExpectedNetwork)

	raw, err := json.Marshal(cfg)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "SSECRET")
}

func TestDefaultServiceConfigOverrides(t *testing.T) {
	t.Setenv("SOROBAN_NETWORK", "LOCAL")
	t.Setenv("SOROBAN_RPC_URLS", "http://a:8000, ,http://b:8000")
	t.Setenv("SOROBAN_CONTRACT_ID", "CCONTRACT")
	t.Setenv("SOROBAN_POLL_INTERVAL", "250ms")
	t.Setenv("SOROBAN_ENABLE_SERVICE_FEE", "true")
	t.Setenv("WALLET_PROVIDER", "Remote")

	cfg := config.DefaultServiceConfigFromEnv()

	assert.Equal(t, "local", cfg.Soroban.Network)
	assert.Equal(t, "Standalone Network ; February 2017", cfg.Soroban.NetworkPassphrase)
	assert.Equal(t, []string{"http://a:8000", "http://b:8000"}, cfg.Soroban.RPCURLs)
	assert.Equal(t, "CCONTRACT", cfg.Soroban.ContractID)
	assert.Equal(t, 250*time.Millisecond, cfg.Soroban.PollInterval)
	assert.True(t, cfg.Soroban.ServiceFee.Enabled)
	assert.Equal(t, config.WalletProviderRemote, cfg.Wallet.Provider)

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WALLET_REMOTE_ENDPOINT")
}

func TestValidate(t *testing.T) {
	t.Setenv("SOROBAN_NETWORK", "testnet")
	t.Setenv("WALLET_PROVIDER", "none")

	cfg := config.DefaultServiceConfigFromEnv()
	require.NoError(t, cfg.Validate())

	cfg.Wallet.Provider = "ledger"
	require.Error(t, cfg.Validate())

	cfg.Wallet.Provider = config.WalletProviderKeypair
	cfg.Wallet.SecretSeed = ""
	require.Error(t, cfg.Validate())
}

func TestNetworkProfiles(t *testing.T) {
	profiles, err := config.NetworkProfiles()
	require.NoError(t, err)
	assert.Len(t, profiles, 4)

	for name, p := range profiles {
		assert.Equal(t, name, p.Name)
		assert.NotEmpty(t, p.Passphrase, name)
		assert.NotEmpty(t, p.WalletNetwork, name)
	}

	_, err = config.LookupNetwork("moonnet")
	require.ErrorIs(t, err, config.ErrUnknownNetwork)
}
