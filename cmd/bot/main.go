package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"availability_notification_bot/internal/app"
	"availability_notification_bot/internal/domain/dispatch"
	domainHeartbeat "availability_notification_bot/internal/domain/heartbeat"
	"availability_notification_bot/internal/domain/snapshot"
	"availability_notification_bot/internal/infra/config"
	idb "availability_notification_bot/internal/infra/database"
	"availability_notification_bot/internal/infra/discord"
	"availability_notification_bot/internal/infra/heartbeat"
	"availability_notification_bot/internal/infra/kodesk"
	"availability_notification_bot/internal/infra/logger"
	"availability_notification_bot/internal/infra/scheduler"
	"availability_notification_bot/internal/infra/telegram"

	"gopkg.in/telebot.v3"
)

const singleRunTimeout = 5 * time.Minute

func main() {
	dryRun := flag.Bool("dry-run", false, "log messages instead of sending them and skip snapshot persistence")
	debug := flag.Bool("debug", false, "print configuration and snapshot diagnostics, then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel, cfg.Environment)
	log := logger.Log
	log.Infof("Configuration loaded. LogLevel: %s, Environment: %s, DryRun: %t", cfg.LogLevel, cfg.Environment, *dryRun)

	channels, err := config.LoadChannels(cfg.WebhooksConfigPath)
	if err != nil {
		log.Fatalf("FATAL: Could not load webhooks configuration: %v", err)
	}
	log.Infof("Loaded %d notification channel(s) from %s", len(channels), cfg.WebhooksConfigPath)

	location, err := time.LoadLocation(cfg.NotifyTimezone)
	if err != nil {
		log.Fatalf("FATAL: Invalid NOTIFY_TIMEZONE %q: %v", cfg.NotifyTimezone, err)
	}

	// Snapshot store: Postgres when a DSN is configured, JSON file otherwise.
	var snapshots snapshot.Repository
	if cfg.SnapshotDatabaseURL != "" {
		db, err := idb.NewPostgresConnection(cfg.SnapshotDatabaseURL)
		if err != nil {
			log.Fatalf("FATAL: Could not connect to snapshot database: %v", err)
		}
		defer db.Close()
		snapshots = idb.NewPostgresSnapshotRepository(db)
		log.Info("Snapshot repository initialized (postgres).")
	} else {
		snapshots = idb.NewJSONSnapshotRepository(cfg.SnapshotFilePath, log)
		log.Infof("Snapshot repository initialized (file: %s).", cfg.SnapshotFilePath)
	}

	if *debug {
		runDebug(cfg, snapshots)
		return
	}

	fetcher := kodesk.NewClient(
		cfg.KodeskAPIURL,
		cfg.KodeskBearerToken,
		cfg.KodeskRefreshToken,
		cfg.KodeskProjectID,
		time.Duration(cfg.KodeskFetchTimeout)*time.Second,
		log,
	)

	senders := map[dispatch.ChannelKind]dispatch.Sender{
		dispatch.ChannelDiscord: discord.NewWebhookSender(cfg.DiscordBotUsername, cfg.DiscordBotAvatarURL),
	}
	if config.HasChannelOfKind(channels, dispatch.ChannelTelegram) {
		if cfg.TelegramToken == "" {
			log.Fatal("FATAL: Telegram channels are configured but TELEGRAM_TOKEN is not set")
		}
		bot, err := telebot.NewBot(telebot.Settings{Token: cfg.TelegramToken})
		if err != nil {
			log.Fatalf("FATAL: Could not create Telegram bot: %v", err)
		}
		senders[dispatch.ChannelTelegram] = telegram.NewTelebotSender(bot)
		log.Info("Telegram sender initialized.")
	}

	var notifier domainHeartbeat.Notifier
	if cfg.HeartbeatURL != "" {
		notifier = heartbeat.NewUptimeKumaNotifier(cfg.HeartbeatURL)
	} else {
		log.Warn("UPTIME_KUMA_HEARTBEAT_URL is not set, running without a liveness signal.")
	}

	dispatcher := app.NewDispatcher(senders, log)
	runService := app.NewRunService(fetcher, snapshots, dispatcher, notifier, channels, location, *dryRun, log)

	if cfg.CronSpec == "" {
		ctx, cancel := context.WithTimeout(context.Background(), singleRunTimeout)
		defer cancel()

		report, err := runService.Run(ctx)
		if err != nil {
			log.Errorf("Run failed unexpectedly: %v", err)
			os.Exit(1)
		}
		log.Infof("Run finished: terminal=%s outcome=%s newEvents=%d persisted=%t",
			report.Terminal, report.Outcome, report.NewEvents, report.Persisted)
		log.Info("Done")
		return
	}

	runScheduler := scheduler.NewRunScheduler(runService, log, cfg.CronSpec, location)
	if err := runScheduler.Start(); err != nil {
		log.Fatalf("FATAL: Could not start run scheduler: %v", err)
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received

	log.Info("Shutting down application...")
	runScheduler.Stop()
	log.Info("Application shut down gracefully.")
}

// runDebug prints the diagnostics the -debug flag asks for.
func runDebug(cfg *config.AppConfig, snapshots snapshot.Repository) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cwd, _ := os.Getwd()
	s, err := snapshots.Load(ctx)

	fmt.Println("Debug output:")
	fmt.Printf("Cwd: %s\n", cwd)
	fmt.Printf("Env config: %s\n", cfg.KodeskAPIURL)
	if err != nil {
		fmt.Printf("Snapshot: failed to load: %v\n", err)
	} else {
		fmt.Printf("Snapshot: %d users, %d unavailability events\n", len(s.Users), len(s.Events))
	}
	fmt.Println("Debug end...")
}
