package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("KODESK_API_URL", "https://kodesk.example.com/graphql")
	t.Setenv("KODESK_USER_BEARER_TOKEN", "bearer-token")
	t.Setenv("KODESK_USER_REFRESH_TOKEN", "refresh-token")
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://kodesk.example.com/graphql", cfg.KodeskAPIURL)
	assert.Equal(t, 30, cfg.KodeskFetchTimeout)
	assert.Equal(t, "./webhooks.json", cfg.WebhooksConfigPath)
	assert.Equal(t, "./db.json", cfg.SnapshotFilePath)
	assert.Equal(t, "Asia/Jakarta", cfg.NotifyTimezone)
	assert.Equal(t, "Bernard (PM)", cfg.DiscordBotUsername)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Environment)
	assert.Empty(t, cfg.CronSpec)
}

func TestLoadMissingRequiredKeys(t *testing.T) {
	tests := []string{"KODESK_API_URL", "KODESK_USER_BEARER_TOKEN", "KODESK_USER_REFRESH_TOKEN"}
	for _, missing := range tests {
		t.Run(missing, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(missing, "")
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), missing)
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("KODESK_FETCH_TIMEOUT_SECONDS", "5")
	t.Setenv("NOTIFY_TIMEZONE", "Europe/Berlin")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("CRON_SPEC", "*/10 * * * *")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.KodeskFetchTimeout)
	assert.Equal(t, "Europe/Berlin", cfg.NotifyTimezone)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "*/10 * * * *", cfg.CronSpec)
}

func TestLoadInvalidTimeout(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("KODESK_FETCH_TIMEOUT_SECONDS", "not-a-number")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("KODESK_FETCH_TIMEOUT_SECONDS", "-1")
	_, err = Load()
	assert.Error(t, err)
}
