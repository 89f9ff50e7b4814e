package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CryptoRelay/internal/collector"
	"CryptoRelay/internal/config"
	"CryptoRelay/internal/logger"
	"CryptoRelay/internal/notifier"
	"CryptoRelay/internal/publisher"
	"CryptoRelay/internal/scheduler"

	"go.uber.org/zap"
	"google.golang.org/api/option"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}

	lg, err := logger.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("[FATAL] init logger: %v", err)
	}
	defer lg.Sync()

	if err := cfg.Validate(); err != nil {
		lg.Fatal("config validation", zap.Error(err))
	}
	lg.Info("CryptoRelay starting", zap.String("config", cfgPath))

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Authenticate both targets once; either failing aborts startup.
	creds := option.WithCredentialsFile(cfg.Google.CredentialsFile)
	authCtx, cancelAuth := context.WithTimeout(ctx, time.Minute)
	sheet, err := publisher.NewGoogleSheet(authCtx, cfg.Google.SpreadsheetName, cfg.Google.SpreadsheetID, creds)
	cancelAuth()
	if err != nil {
		lg.Fatal("google sheets authentication", zap.Error(err))
	}
	lg.Info("spreadsheet opened", zap.String("spreadsheet_id", sheet.SpreadsheetID), zap.String("worksheet", sheet.SheetTitle))

	gdocs, err := publisher.NewGoogleDocs(ctx, creds)
	if err != nil {
		lg.Fatal("google docs authentication", zap.Error(err))
	}

	// Init fetcher
	fetcher := collector.NewCoinGeckoFetcher(cfg.MarketData.BaseURL, cfg.MarketData.VsCurrency, cfg.MarketData.PerPage, cfg.Proxy)
	lg.Info("data source", zap.String("name", fetcher.Name()), zap.String("base_url", fetcher.BaseURL))

	jobs := &scheduler.Jobs{
		Collector:  collector.NewCollector(fetcher),
		Sheet:      publisher.NewSheetPublisher(sheet),
		Report:     publisher.NewReportPublisher(gdocs, lg),
		DocumentID: cfg.Google.DocumentID,
		Now:        time.Now,
	}

	// Init scheduler
	sched := scheduler.NewScheduler(cfg.Schedule.Tick, lg)
	if err := sched.RegisterAll(jobs, cfg.Schedule.SheetRefresh, cfg.Schedule.ReportRefresh); err != nil {
		lg.Fatal("register tasks", zap.Error(err))
	}

	// Optional Telegram alerts and commands
	if cfg.TelegramEnabled() {
		tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy, lg)
		sched.Alerter = tn
		go tn.StartPolling(ctx, sched.HandleCommand)
		lg.Info("telegram alerts and polling enabled")
	}

	if cfg.Schedule.RunOnStart {
		lg.Info("run on start enabled, executing all tasks now")
		sched.RunAllNow(ctx)
	}

	lg.Info("CryptoRelay is running. Press Ctrl+C to stop.")
	sched.Run(ctx)
	lg.Info("CryptoRelay stopped")
}
