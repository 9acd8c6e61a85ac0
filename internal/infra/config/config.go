package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all environment-driven configuration for the bot.
type AppConfig struct {
	KodeskAPIURL        string
	KodeskBearerToken   string
	KodeskRefreshToken  string
	KodeskProjectID     string
	KodeskFetchTimeout  int // seconds
	HeartbeatURL        string
	WebhooksConfigPath  string
	SnapshotFilePath    string
	SnapshotDatabaseURL string
	TelegramToken       string
	NotifyTimezone      string
	DiscordBotUsername  string
	DiscordBotAvatarURL string
	CronSpec            string
	LogLevel            string
	Environment         string
}

const (
	defaultFetchTimeoutSeconds = 30
	defaultDiscordUsername     = "Bernard (PM)"
	defaultDiscordAvatarURL    = "https://cdn.discordapp.com/app-icons/1047114663546077236/f955f79add76f138757a0f9f695fc5f1.png?size=256"
)

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.KodeskAPIURL = os.Getenv("KODESK_API_URL")
	if cfg.KodeskAPIURL == "" {
		return nil, fmt.Errorf("KODESK_API_URL is not set")
	}

	cfg.KodeskBearerToken = os.Getenv("KODESK_USER_BEARER_TOKEN")
	if cfg.KodeskBearerToken == "" {
		return nil, fmt.Errorf("KODESK_USER_BEARER_TOKEN is not set")
	}

	cfg.KodeskRefreshToken = os.Getenv("KODESK_USER_REFRESH_TOKEN")
	if cfg.KodeskRefreshToken == "" {
		return nil, fmt.Errorf("KODESK_USER_REFRESH_TOKEN is not set")
	}

	cfg.KodeskProjectID = os.Getenv("KODESK_PROJECT_ID")

	cfg.KodeskFetchTimeout = defaultFetchTimeoutSeconds
	if timeoutStr := os.Getenv("KODESK_FETCH_TIMEOUT_SECONDS"); timeoutStr != "" {
		timeout, err := strconv.Atoi(timeoutStr)
		if err != nil || timeout <= 0 {
			return nil, fmt.Errorf("invalid KODESK_FETCH_TIMEOUT_SECONDS: %q", timeoutStr)
		}
		cfg.KodeskFetchTimeout = timeout
	}

	// Heartbeat is optional; without it the bot runs with no liveness signal.
	cfg.HeartbeatURL = os.Getenv("UPTIME_KUMA_HEARTBEAT_URL")

	cfg.WebhooksConfigPath = os.Getenv("WEBHOOKS_CONFIG_PATH")
	if cfg.WebhooksConfigPath == "" {
		cfg.WebhooksConfigPath = "./webhooks.json"
	}

	cfg.SnapshotFilePath = os.Getenv("SNAPSHOT_FILE_PATH")
	if cfg.SnapshotFilePath == "" {
		cfg.SnapshotFilePath = "./db.json"
	}

	// When set, the snapshot lives in Postgres instead of the JSON file.
	cfg.SnapshotDatabaseURL = os.Getenv("SNAPSHOT_DATABASE_URL")

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")

	cfg.NotifyTimezone = os.Getenv("NOTIFY_TIMEZONE")
	if cfg.NotifyTimezone == "" {
		cfg.NotifyTimezone = "Asia/Jakarta"
	}

	cfg.DiscordBotUsername = os.Getenv("DISCORD_BOT_USERNAME")
	if cfg.DiscordBotUsername == "" {
		cfg.DiscordBotUsername = defaultDiscordUsername
	}

	cfg.DiscordBotAvatarURL = os.Getenv("DISCORD_BOT_AVATAR_URL")
	if cfg.DiscordBotAvatarURL == "" {
		cfg.DiscordBotAvatarURL = defaultDiscordAvatarURL
	}

	// Empty means a single run; a cron spec turns the binary into a loop.
	cfg.CronSpec = os.Getenv("CRON_SPEC")

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}
