package models

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allConfigKeys = []string{
	"WIFI_CREDS_FILE",
	"WIFI_CREDS_ENV_PREFIX",
	"WIFI_CREDS_PORT",
	"WIFI_CREDS_LOG_LEVEL",
	"WIFI_CREDS_INTERFACE",
}

// isolateConfigEnv unsets the config variables for the duration of a test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := NewConfig("serve", nil)

	require.NoError(t, err)
	assert.Equal(t, "wifi_creds.yaml", cfg.CredentialsFile)
	assert.Equal(t, "WIFI_CRED", cfg.EnvPrefix)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "-", cfg.HeaderOutput)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.ServeSecrets)
	assert.True(t, cfg.Scan)
}

func TestNewConfig_EnvThenFlags(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("WIFI_CREDS_FILE", "/etc/wifi.yaml")
	t.Setenv("WIFI_CREDS_PORT", "9000")

	cfg, err := NewConfig("serve", []string{"-listening-port", "9100", "-serve-secrets", "-scan=false"})

	require.NoError(t, err)
	assert.Equal(t, "/etc/wifi.yaml", cfg.CredentialsFile)
	assert.Equal(t, "9100", cfg.Port)
	assert.True(t, cfg.ServeSecrets)
	assert.False(t, cfg.Scan)
	assert.Equal(t, *cfg, cfg.Fetch())
}

func TestNewConfig_Errors(t *testing.T) {
	isolateConfigEnv(t)

	_, err := NewConfig("list", []string{"-no-such-flag"})
	assert.Error(t, err)

	_, err = NewConfig("list", []string{"extra"})
	assert.Error(t, err)

	_, err = NewConfig("bogus", nil)
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestNewConfig_FlagsPerCommand(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := NewConfig("header", []string{"-o", "out/wifi_creds.h"})
	require.NoError(t, err)
	assert.Equal(t, "out/wifi_creds.h", cfg.HeaderOutput)

	cfg, err = NewConfig("provision", []string{"-interface", "wlan1"})
	require.NoError(t, err)
	assert.Equal(t, "wlan1", cfg.Interface)

	rejected := map[string][]string{
		"list":      {"-serve-secrets"},
		"header":    {"-listening-port", "9000"},
		"provision": {"-o", "x.h"},
		"serve":     {"-o", "x.h"},
	}
	for name, args := range rejected {
		_, err := NewConfig(name, args)
		assert.Error(t, err, "%s %v", name, args)
	}

	// flags shared by every command
	for _, name := range []string{"list", "header", "provision", "serve"} {
		cfg, err := NewConfig(name, []string{"-credentials", "", "-env-prefix", "NET", "-log-level", "debug"})
		require.NoError(t, err, name)
		assert.Equal(t, "", cfg.CredentialsFile)
		assert.Equal(t, "NET", cfg.EnvPrefix)
		assert.Equal(t, "debug", cfg.LogLevel)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("WIFI_CREDS_TEST_VALUE", "")
	assert.Equal(t, "", GetEnv("WIFI_CREDS_TEST_VALUE", "fallback"))
	assert.Equal(t, "fallback", GetEnv("WIFI_CREDS_TEST_UNSET_VALUE", "fallback"))
}
