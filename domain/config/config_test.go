package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withValues(t *testing.T, values map[string]interface{}) {
	t.Helper()
	for k, v := range values {
		viper.Set(k, v)
	}
	t.Cleanup(func() {
		for k := range values {
			viper.Set(k, nil)
		}
	})
}

func TestInitializeVariables_Defaults(t *testing.T) {
	withValues(t, map[string]interface{}{"service_db_uri": "postgres://localhost/wefund//"})

	require.NoError(t, initializeVariables())
	assert.Equal(t, "postgres://localhost/wefund", GetDbUri())
	assert.Equal(t, MainNetwork, GetNetwork())
	assert.False(t, IsTestNet())
	assert.Equal(t, 30*time.Second, GetRelayInterval())
	assert.Equal(t, 5, GetMaxRetry())
	assert.Equal(t, uint64(50000000), GetJettonTransferFee())
	assert.Equal(t, ":9100", GetMetricsAddr())
}

func TestInitializeVariables_Invalid(t *testing.T) {
	cases := []struct {
		key   string
		value interface{}
		err   error
	}{
		{"network", "devnet", ErrorInvalidNetwork},
		{"relay_interval", "soon", ErrorInvalidRelayInterval},
		{"relay_interval", "-1s", ErrorInvalidRelayInterval},
		{"max_retry", 0, ErrorInvalidMaxRetry},
		{"jetton_transfer_fee", -1, ErrorInvalidTransferFee},
	}
	for _, c := range cases {
		t.Run(c.key, func(t *testing.T) {
			withValues(t, map[string]interface{}{c.key: c.value})
			assert.ErrorIs(t, initializeVariables(), c.err)
		})
	}
}

func TestLoadDriverWallet_Mnemonic(t *testing.T) {
	withValues(t, map[string]interface{}{"mnemonic": "", "mnemonic_url": ""})
	require.NoError(t, initializeVariables())
	assert.ErrorIs(t, LoadDriverWallet(), ErrorNoMnemonic)

	withValues(t, map[string]interface{}{"mnemonic": "a b c", "mnemonic_url": "/tmp/seed"})
	require.NoError(t, initializeVariables())
	assert.ErrorIs(t, LoadDriverWallet(), ErrorMnemonicConflict)

	withValues(t, map[string]interface{}{"mnemonic": "", "mnemonic_url": "/nonexistent/seed"})
	require.NoError(t, initializeVariables())
	assert.ErrorIs(t, LoadDriverWallet(), ErrorReadingMnemonicFile)
}
