// Package main запускает прием тиражей Lotto Max.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"lottomax/internal/app"
	"lottomax/internal/config"
	"lottomax/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	var opts app.Options
	flag.StringVar(&opts.Mode, "mode", app.ModeDaily, "run mode: daily, catchup, all or cron")
	flag.IntVar(&opts.From, "from", 0, "first archive year for catchup (default from config)")
	flag.IntVar(&opts.To, "to", 0, "last archive year for catchup (default: previous year)")
	flag.StringVar(&opts.Date, "date", "", "ingest a single draw date YYYY-MM-DD")
	flag.Parse()

	// Загрузка конфигурации
	cfg, err := config.Load()

	// Инициализация логгера
	log := logger.New()
	if cfg != nil {
		log = logger.NewWithLevel(cfg.LogLevel)
	}
	defer func() { _ = log.Sync() }()

	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if err := opts.Validate(); err != nil {
		log.Fatal("Invalid command line", zap.Error(err))
	}

	// Отмена по сигналу: текущая цель дописывается, следующие не начинаются
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}

	log.Info("Starting scraper", zap.String("mode", opts.Mode), zap.String("date", opts.Date))

	runErr := application.Run(ctx, opts)
	if err := application.Close(); err != nil {
		log.Warn("Failed to close database", zap.Error(err))
	}

	if runErr != nil {
		log.Error("Scraper stopped with error", zap.Error(runErr))
		_ = log.Sync()
		os.Exit(1)
	}

	log.Info("Scraper finished successfully")
}
