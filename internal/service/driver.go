package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"lottomax/internal/external/scraper"
	"lottomax/internal/infrastructure/metrics"
	"lottomax/internal/model"
	"lottomax/internal/parser"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DriverConfig задает календарь тиражей
type DriverConfig struct {
	DrawWeekdays []time.Weekday
	Location     *time.Location
}

// Driver выполняет запуски приема: догрузку архива и ежедневную проверку.
// Запуск последовательный, браузер один на запуск.
type Driver struct {
	open      scraper.Opener
	extractor Extractor
	store     DrawStore
	metrics   metrics.Interface
	config    DriverConfig
	logger    *zap.Logger
}

// NewDriver создает драйвер запусков
func NewDriver(open scraper.Opener, extractor Extractor, store DrawStore, metrics metrics.Interface, config DriverConfig, logger *zap.Logger) *Driver {
	if config.Location == nil {
		config.Location = time.UTC
	}

	return &Driver{
		open:      open,
		extractor: extractor,
		store:     store,
		metrics:   metrics,
		config:    config,
		logger:    logger,
	}
}

// CatchUp загружает архив за годы from..to по возрастанию.
// Сбой одного года записывается в отчет и не останавливает остальные.
func (d *Driver) CatchUp(ctx context.Context, from, to int) (*RunReport, error) {
	if from > to {
		return nil, fmt.Errorf("invalid year range %d..%d", from, to)
	}

	report, logger := d.begin(ModeCatchUp)
	defer d.finish(report, logger)

	logger.Info("Starting catch-up", zap.Int("from", from), zap.Int("to", to))

	session, err := d.open(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to open fetch session: %w", err)
	}
	defer d.closeSession(session, logger)

	for year := from; year <= to; year++ {
		if ctx.Err() != nil {
			report.Cancelled = true
			logger.Warn("Catch-up cancelled", zap.Int("next_year", year))
			break
		}
		report.Targets++
		d.ingestYear(ctx, session, year, report, logger)
	}

	return report, nil
}

// Daily проверяет даты тиражей текущего года до now и загружает недостающие
func (d *Driver) Daily(ctx context.Context, now time.Time) (*RunReport, error) {
	report, logger := d.begin(ModeDaily)
	defer d.finish(report, logger)

	today := now.In(d.config.Location)
	year := today.Year()
	wanted := DrawDates(year, d.config.DrawWeekdays, today)
	if len(wanted) == 0 {
		logger.Info("No draw dates yet this year", zap.Int("year", year))
		return report, nil
	}

	stored, err := d.store.ListDatesBetween(ctx, wanted[0], wanted[len(wanted)-1])
	if err != nil {
		return report, fmt.Errorf("failed to list stored dates: %w", err)
	}

	missing := missingDates(wanted, stored)
	logger.Info("Daily check",
		zap.Int("year", year),
		zap.Int("draw_dates", len(wanted)),
		zap.Int("missing", len(missing)))

	if len(missing) == 0 {
		return report, nil
	}

	return report, d.ingestDates(ctx, missing, report, logger)
}

// IngestDate загружает один тираж по дате YYYY-MM-DD
func (d *Driver) IngestDate(ctx context.Context, date string) (*RunReport, error) {
	if err := model.ValidateISODate("date", date); err != nil {
		return nil, err
	}

	report, logger := d.begin(ModeDate)
	defer d.finish(report, logger)

	return report, d.ingestDates(ctx, []string{date}, report, logger)
}

func (d *Driver) ingestDates(ctx context.Context, dates []string, report *RunReport, logger *zap.Logger) error {
	session, err := d.open(ctx)
	if err != nil {
		return fmt.Errorf("failed to open fetch session: %w", err)
	}
	defer d.closeSession(session, logger)

	for _, date := range dates {
		if ctx.Err() != nil {
			report.Cancelled = true
			logger.Warn("Run cancelled", zap.String("next_date", date))
			break
		}
		report.Targets++
		d.ingestDay(ctx, session, date, report, logger)
	}
	return nil
}

func (d *Driver) ingestYear(ctx context.Context, fetcher scraper.Fetcher, year int, report *RunReport, logger *zap.Logger) {
	logger = logger.With(zap.Int("year", year))
	target := strconv.Itoa(year)

	doc, err := fetcher.FetchArchive(ctx, year)
	if err != nil {
		d.fetchFailed(target, err, report, logger)
		return
	}

	result := d.extractor.ExtractArchive(doc)
	report.Rejected += len(result.Rejected)
	for _, date := range result.Rejected {
		logger.Warn("Row rejected by all layouts", zap.String("date", date))
		d.metrics.RecordDiscarded()
	}

	logger.Info("Archive extracted",
		zap.Int("records", len(result.Records)),
		zap.Int("header_rows", result.HeaderRows),
		zap.Int("rejected", len(result.Rejected)))

	gate := NewGate(d.store, d.metrics, logger)
	for _, record := range result.Records {
		d.persist(ctx, gate, record, report, logger)
	}
}

func (d *Driver) ingestDay(ctx context.Context, fetcher scraper.Fetcher, date string, report *RunReport, logger *zap.Logger) {
	dayLogger := logger.With(zap.String("date", date))

	doc, err := fetcher.FetchDay(ctx, date)
	if err != nil {
		d.fetchFailed(date, err, report, dayLogger)
		return
	}

	record, ok := d.extractor.ExtractDay(doc, date)
	if !ok {
		dayLogger.Warn("Day page rejected by all layouts")
		report.Rejected++
		d.metrics.RecordDiscarded()
		return
	}

	d.persist(ctx, NewGate(d.store, d.metrics, logger), record, report, logger)
}

// persist записывает одну запись; ошибка хранилища падает только на эту запись
func (d *Driver) persist(ctx context.Context, gate Persister, record parser.Record, report *RunReport, logger *zap.Logger) {
	outcome, err := gate.Persist(ctx, record)
	if err != nil {
		logger.Error("Failed to persist draw", zap.String("date", record.Date), zap.Error(err))
		report.fail(record.Date, err)
		return
	}
	report.count(outcome)
}

func (d *Driver) fetchFailed(target string, err error, report *RunReport, logger *zap.Logger) {
	if errors.Is(err, scraper.ErrNoResults) {
		logger.Info("No results on page, skipping")
		report.NoResults++
		d.metrics.RecordNoResults()
		return
	}

	logger.Error("Failed to fetch page", zap.Error(err))
	report.fail(target, err)
	d.metrics.RecordFetchFailure()
}

func (d *Driver) begin(mode string) (*RunReport, *zap.Logger) {
	report := newRunReport(uuid.NewString(), mode)
	d.metrics.RunStarted(mode)
	return report, d.logger.With(zap.String("run_id", report.RunID), zap.String("mode", mode))
}

func (d *Driver) finish(report *RunReport, logger *zap.Logger) {
	report.Finished = time.Now()
	d.metrics.RunFinished(report.Mode, report.Duration())
	logger.Info("Run finished", reportField(report))
}

func (d *Driver) closeSession(session scraper.Session, logger *zap.Logger) {
	if err := session.Close(); err != nil {
		logger.Warn("Failed to close fetch session", zap.Error(err))
	}
}
