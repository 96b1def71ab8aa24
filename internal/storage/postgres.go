// Package storage содержит работу с базой данных.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"lottomax/internal/model"
	"lottomax/internal/storage/repository"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
	"go.uber.org/zap"
)

// ConnectOptions задает параметры подключения
type ConnectOptions struct {
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultConnectOptions: значения по умолчанию для фонового запуска
var DefaultConnectOptions = ConnectOptions{
	MaxRetries: 10,
	RetryDelay: 5 * time.Second,
}

// Postgres представляет подключение к PostgreSQL
type Postgres struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewPostgres создает новое подключение к PostgreSQL с retry логикой
func NewPostgres(ctx context.Context, databaseURL string, opts ConnectOptions, logger *zap.Logger) (*Postgres, error) {
	var lastErr error

	for attempt := 1; attempt <= opts.MaxRetries; attempt++ {
		logger.Info("Attempting to connect to database",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", opts.MaxRetries))

		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(databaseURL)))

		// Запуск последовательный, большой пул не нужен
		sqldb.SetMaxOpenConns(5)
		sqldb.SetMaxIdleConns(2)
		sqldb.SetConnMaxLifetime(5 * time.Minute)
		sqldb.SetConnMaxIdleTime(1 * time.Minute)

		db := bun.NewDB(sqldb, pgdialect.New())

		if logger.Core().Enabled(zap.DebugLevel) {
			db.AddQueryHook(bundebug.NewQueryHook(
				bundebug.WithVerbose(true),
				bundebug.FromEnv("BUNDEBUG"),
			))
		}

		pingCtx, pingCancel := context.WithTimeout(ctx, 10*time.Second)
		lastErr = db.PingContext(pingCtx)
		pingCancel()

		if lastErr == nil {
			logger.Info("Connected to PostgreSQL database with Bun ORM",
				zap.Int("attempt", attempt))
			return &Postgres{db: db, logger: logger}, nil
		}

		logger.Warn("Failed to connect to database",
			zap.Int("attempt", attempt),
			zap.Error(lastErr))

		if err := db.Close(); err != nil {
			logger.Warn("Failed to close database connection", zap.Error(err))
		}

		if attempt == opts.MaxRetries {
			break
		}

		logger.Info("Retrying connection", zap.Duration("delay", opts.RetryDelay))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(opts.RetryDelay):
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", opts.MaxRetries, lastErr)
}

// Migrate создает таблицы тиражей, если их еще нет
func (p *Postgres) Migrate(ctx context.Context) error {
	if _, err := p.db.NewCreateTable().
		Model((*model.Draw)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create draws table: %w", err)
	}

	if _, err := p.db.NewCreateTable().
		Model((*model.BonusGameSet)(nil)).
		IfNotExists().
		ForeignKey(`("draw_id") REFERENCES "draws" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create bonus_game_sets table: %w", err)
	}

	if _, err := p.db.NewCreateIndex().
		Model((*model.BonusGameSet)(nil)).
		Index("bonus_game_sets_draw_id_idx").
		Column("draw_id").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create bonus_game_sets index: %w", err)
	}

	p.logger.Info("Database schema is up to date")
	return nil
}

// Ping проверяет доступность базы
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close закрывает соединение с базой данных
func (p *Postgres) Close() error {
	return p.db.Close()
}

// GetDrawRepository возвращает репозиторий тиражей
func (p *Postgres) GetDrawRepository() model.DrawRepository {
	return repository.NewDrawRepository(p.db, p.logger)
}
