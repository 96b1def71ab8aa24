package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"lottomax/internal/config"
	"lottomax/internal/infrastructure/metrics"
	"lottomax/internal/model"
	"lottomax/internal/service"
	"lottomax/internal/storage"

	"go.uber.org/zap"
)

// Режимы командной строки
const (
	ModeDaily   = "daily"
	ModeCatchUp = "catchup"
	ModeAll     = "all"
	ModeCron    = "cron"
)

// Options: параметры запуска из командной строки
type Options struct {
	Mode string
	// From и To переопределяют диапазон лет догрузки, 0 означает значение из конфигурации
	From int
	To   int
	// Date: загрузить один тираж вместо режима
	Date string
}

// Validate проверяет параметры запуска
func (o Options) Validate() error {
	switch o.Mode {
	case ModeDaily, ModeCatchUp, ModeAll, ModeCron:
	default:
		return fmt.Errorf("unknown mode %q", o.Mode)
	}
	if o.Date != "" {
		if err := model.ValidateISODate("date", o.Date); err != nil {
			return err
		}
	}
	return nil
}

// App связывает хранилище, драйвер и планировщик
type App struct {
	config  *config.Config
	logger  *zap.Logger
	factory *ComponentFactory
	db      *storage.Postgres
	metrics *metrics.Metrics
	driver  *service.Driver
}

// New подключается к базе и собирает компоненты.
// Ошибка означает, что хранилище недоступно.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	factory := NewComponentFactory(cfg, logger)

	db, err := factory.CreateDatabase(ctx)
	if err != nil {
		return nil, err
	}

	m := metrics.NewMetrics(logger)

	return &App{
		config:  cfg,
		logger:  logger,
		factory: factory,
		db:      db,
		metrics: m,
		driver:  factory.CreateDriver(db, factory.CreateOpener(), m),
	}, nil
}

// Run выполняет запуск в выбранном режиме.
// Ошибка возвращается только при сбое запуска браузера или хранилища.
func (a *App) Run(ctx context.Context, opts Options) error {
	if opts.Date != "" {
		_, err := a.driver.IngestDate(ctx, opts.Date)
		return err
	}

	switch opts.Mode {
	case ModeDaily:
		_, err := a.driver.Daily(ctx, time.Now())
		return err
	case ModeCatchUp:
		return a.catchUp(ctx, opts)
	case ModeAll:
		if err := a.catchUp(ctx, opts); err != nil {
			return err
		}
		_, err := a.driver.Daily(ctx, time.Now())
		return err
	case ModeCron:
		return a.runCron(ctx)
	default:
		return fmt.Errorf("unknown mode %q", opts.Mode)
	}
}

func (a *App) catchUp(ctx context.Context, opts Options) error {
	from, to := a.config.CatchUpRange(time.Now())
	if opts.From != 0 {
		from = opts.From
	}
	if opts.To != 0 {
		to = opts.To
	}

	_, err := a.driver.CatchUp(ctx, from, to)
	return err
}

// runCron работает до отмены ctx, затем ждет текущий запуск
func (a *App) runCron(ctx context.Context) error {
	scheduler := a.factory.CreateScheduler(a.driver, a.metrics)
	if err := scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	healthServer := a.factory.CreateHealthServer(a.db, a.metrics)
	if healthServer != nil {
		go func() {
			if err := healthServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.logger.Error("Health check server failed", zap.Error(err))
			}
		}()
	}

	<-ctx.Done()
	a.logger.Info("Shutting down")

	scheduler.Stop()

	if healthServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthServer.Stop(shutdownCtx); err != nil {
			a.logger.Warn("Failed to stop health check server", zap.Error(err))
		}
	}

	return nil
}

// Close освобождает подключение к базе
func (a *App) Close() error {
	return a.db.Close()
}
