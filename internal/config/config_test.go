package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatForLoggingMasksSecrets(t *testing.T) {
	cfg := Config{
		Env:                 "test",
		HTTPPort:            4207,
		DBURL:               "postgres://127.0.0.1:5432/accounthub",
		DBUser:              "app",
		DBPassword:          "hunter2",
		CookieEncryptionKey: "2e381a32a1a14715972bd321ee85c0a4",
		CookieSigningKey:    "deadbeef",
	}

	out := cfg.FormatForLogging()

	require.NotContains(t, out, "hunter2")
	require.NotContains(t, out, "2e381a32a1a14715972bd321ee85c0a4")
	require.Contains(t, out, "DBPassword = hu*****")
	require.Contains(t, out, "CookieEncryptionKey = 2e*****")
	require.Contains(t, out, "CookieSigningKey = de*****")

	// non-secret fields stay readable
	require.Contains(t, out, "Env = test")
	require.Contains(t, out, "HTTPPort = 4207")
	require.Contains(t, out, "DBURL = postgres://127.0.0.1:5432/accounthub")
}

func TestFormatForLoggingSortsFields(t *testing.T) {
	out := Config{Env: "test"}.FormatForLogging()
	lines := strings.Split(out, "\n")

	require.Greater(t, len(lines), 5)

	for i := 1; i < len(lines); i++ {
		require.Less(t, lines[i-1], lines[i], "fields must be sorted by name")
	}
}

func TestFormatForLoggingShortSecret(t *testing.T) {
	out := Config{DBPassword: "x"}.FormatForLogging()
	require.Contains(t, out, "DBPassword = x*****")
}
