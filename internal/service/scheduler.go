package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lottomax/internal/infrastructure/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// DailyRunner выполняет ежедневный запуск
type DailyRunner interface {
	Daily(ctx context.Context, now time.Time) (*RunReport, error)
}

// SchedulerConfig задает расписание ежедневного запуска
type SchedulerConfig struct {
	Spec       string
	Location   *time.Location
	RunTimeout time.Duration
}

// Scheduler запускает ежедневную проверку по cron. Запуски не перекрываются.
type Scheduler struct {
	runner  DailyRunner
	config  SchedulerConfig
	cron    *cron.Cron
	metrics metrics.Interface
	logger  *zap.Logger
	mu      sync.Mutex
	running bool
	entryID cron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
}

var _ SchedulerInterface = (*Scheduler)(nil)

// NewScheduler создает новый планировщик
func NewScheduler(runner DailyRunner, config SchedulerConfig, metrics metrics.Interface, logger *zap.Logger) *Scheduler {
	if config.Location == nil {
		config.Location = time.UTC
	}

	cronLogger := cronLogger{logger: logger.Sugar()}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		runner: runner,
		config: config,
		cron: cron.New(
			cron.WithLocation(config.Location),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		metrics: metrics,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start регистрирует задачу и запускает планировщик
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	id, err := s.cron.AddFunc(s.config.Spec, s.runDaily)
	if err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", s.config.Spec, err)
	}
	s.entryID = id

	s.cron.Start()
	s.running = true

	next := s.cron.Entry(id).Next
	s.metrics.SetNextRun(next)
	s.logger.Info("Scheduler started",
		zap.String("spec", s.config.Spec),
		zap.String("location", s.config.Location.String()),
		zap.Time("next_run", next))

	return nil
}

// Stop останавливает планировщик и ждет завершения текущего запуска
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.logger.Info("Stopping scheduler")

	s.cancel()
	<-s.cron.Stop().Done()
	s.running = false

	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) runDaily() {
	ctx := s.ctx
	if s.config.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.RunTimeout)
		defer cancel()
	}

	if _, err := s.runner.Daily(ctx, time.Now()); err != nil {
		s.logger.Error("Scheduled daily run failed", zap.Error(err))
	}

	if next := s.cron.Entry(s.entryID).Next; !next.IsZero() {
		s.metrics.SetNextRun(next)
	}
}

// cronLogger передает журнал cron в zap
type cronLogger struct {
	logger *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
