// Package app содержит фабрику компонентов приложения.
package app

import (
	"context"
	"fmt"

	"lottomax/internal/config"
	"lottomax/internal/external/scraper"
	"lottomax/internal/infrastructure/health"
	"lottomax/internal/infrastructure/metrics"
	"lottomax/internal/parser"
	"lottomax/internal/service"
	"lottomax/internal/storage"

	"go.uber.org/zap"
)

// ComponentFactory создает компоненты приложения
type ComponentFactory struct {
	config *config.Config
	logger *zap.Logger
}

// NewComponentFactory создает новую фабрику компонентов
func NewComponentFactory(config *config.Config, logger *zap.Logger) *ComponentFactory {
	if logger == nil {
		panic("Logger cannot be nil")
	}
	if config == nil {
		logger.Fatal("Config cannot be nil")
	}

	return &ComponentFactory{
		config: config,
		logger: logger,
	}
}

// CreateDatabase подключается к базе и создает схему
func (f *ComponentFactory) CreateDatabase(ctx context.Context) (*storage.Postgres, error) {
	if f.config.DatabaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := storage.NewPostgres(ctx, f.config.DatabaseURL, storage.DefaultConnectOptions, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	f.logger.Info("Database connection created successfully")
	return db, nil
}

// ScraperConfig собирает настройки скрейпера из конфигурации
func (f *ComponentFactory) ScraperConfig() scraper.Config {
	return scraper.Config{
		URLs: scraper.SourceURLs{
			ArchiveBase: f.config.Source.ArchiveURL,
			DayBase:     f.config.Source.DayURL,
		},
		UserAgent:    f.config.Source.UserAgent,
		RequestDelay: f.config.Source.RequestDelay,
		Wait: scraper.WaitConfig{
			Attempts:        f.config.Browser.WaitAttempts,
			SelectorTimeout: f.config.Browser.SelectorTimeout,
			RetryPause:      f.config.Browser.RetryPause,
		},
		Browser: scraper.BrowserConfig{
			ExecPath:   f.config.Browser.ExecPath,
			Headless:   f.config.Browser.Headless,
			NavTimeout: f.config.Browser.NavTimeout,
		},
	}
}

// CreateOpener возвращает функцию открытия сессии в выбранном режиме получения страниц
func (f *ComponentFactory) CreateOpener() scraper.Opener {
	scraperConfig := f.ScraperConfig()

	if f.config.Source.FetchMode == config.FetchModeStatic {
		f.logger.Info("Using static fetcher")
		return func(context.Context) (scraper.Session, error) {
			return scraper.NewStaticFetcher(scraperConfig, f.logger), nil
		}
	}

	f.logger.Info("Using browser fetcher", zap.Bool("headless", scraperConfig.Browser.Headless))
	return func(ctx context.Context) (scraper.Session, error) {
		return scraper.NewBrowserFetcher(ctx, scraperConfig, f.logger)
	}
}

// CreateDriver создает драйвер запусков
func (f *ComponentFactory) CreateDriver(db *storage.Postgres, open scraper.Opener, metrics metrics.Interface) *service.Driver {
	return service.NewDriver(
		open,
		parser.NewDefaultExtractor(f.logger),
		db.GetDrawRepository(),
		metrics,
		service.DriverConfig{
			DrawWeekdays: f.config.Schedule.DrawWeekdays,
			Location:     f.config.Location(),
		},
		f.logger,
	)
}

// CreateScheduler создает планировщик ежедневного запуска
func (f *ComponentFactory) CreateScheduler(driver service.DailyRunner, metrics metrics.Interface) *service.Scheduler {
	return service.NewScheduler(driver, service.SchedulerConfig{
		Spec:       f.config.Schedule.DailyCron,
		Location:   f.config.Location(),
		RunTimeout: f.config.Schedule.RunTimeout,
	}, metrics, f.logger)
}

// CreateHealthServer создает health check сервер или nil, если он выключен
func (f *ComponentFactory) CreateHealthServer(db *storage.Postgres, metrics metrics.Interface) *health.Server {
	if !f.config.HealthCheckEnabled {
		return nil
	}
	return health.NewHealthServer(f.config.HealthPort, f.logger, db, metrics, db.GetDrawRepository())
}
