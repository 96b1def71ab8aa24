package service

import (
	"context"
	"errors"
	"fmt"

	"lottomax/internal/infrastructure/metrics"
	"lottomax/internal/model"
	"lottomax/internal/parser"
	"lottomax/internal/storage/repository"

	"go.uber.org/zap"
)

// Outcome: итог приема одной записи
type Outcome int

const (
	// OutcomeInserted: тираж записан
	OutcomeInserted Outcome = iota
	// OutcomeDuplicate: тираж на эту дату уже есть
	OutcomeDuplicate
	// OutcomeDiscarded: запись не прошла проверку
	OutcomeDiscarded
)

// String возвращает строковое представление итога
func (o Outcome) String() string {
	switch o {
	case OutcomeInserted:
		return "inserted"
	case OutcomeDuplicate:
		return "duplicate"
	case OutcomeDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Gate записывает тиражи не более одного раза на дату
type Gate struct {
	store   DrawStore
	metrics metrics.Interface
	logger  *zap.Logger
}

var _ Persister = (*Gate)(nil)

// NewGate создает шлюз записи тиражей
func NewGate(store DrawStore, metrics metrics.Interface, logger *zap.Logger) *Gate {
	return &Gate{
		store:   store,
		metrics: metrics,
		logger:  logger,
	}
}

// Persist записывает тираж и его бонусные комбинации.
// Ошибка возвращается только при недоступности хранилища.
func (g *Gate) Persist(ctx context.Context, record parser.Record) (Outcome, error) {
	logger := g.logger.With(zap.String("date", record.Date), zap.String("layout", record.Layout))

	draw := model.NewDraw(record.Date, record.Numbers, record.Bonus)
	if err := draw.Validate(); err != nil {
		logger.Warn("Discarding invalid draw", zap.Error(err))
		g.metrics.RecordDiscarded()
		return OutcomeDiscarded, nil
	}

	exists, err := g.store.ExistsByDate(ctx, record.Date)
	if err != nil {
		return 0, fmt.Errorf("failed to check draw %s: %w", record.Date, err)
	}
	if exists {
		logger.Debug("Draw already present, skipping")
		g.metrics.RecordDuplicate()
		return OutcomeDuplicate, nil
	}

	if err := g.store.Create(ctx, draw); err != nil {
		if errors.Is(err, repository.ErrDuplicateDraw) {
			logger.Info("Draw inserted concurrently, skipping")
			g.metrics.RecordDuplicate()
			return OutcomeDuplicate, nil
		}
		return 0, fmt.Errorf("failed to insert draw %s: %w", record.Date, err)
	}

	inserted := g.persistBonusSets(ctx, logger, draw.ID, record.BonusGameSets)

	logger.Info("Draw inserted",
		zap.Int64("id", draw.ID),
		zap.Ints("numbers", draw.Numbers()),
		zap.Int("bonus_sets", inserted))
	g.metrics.RecordInserted(inserted)

	return OutcomeInserted, nil
}

// persistBonusSets записывает комбинации; сбой одной не отменяет тираж
func (g *Gate) persistBonusSets(ctx context.Context, logger *zap.Logger, drawID int64, sets [][]int) int {
	inserted := 0
	for i, numbers := range sets {
		set, err := model.NewBonusGameSet(drawID, numbers)
		if err != nil {
			logger.Warn("Dropping malformed bonus game set", zap.Int("set", i), zap.Error(err))
			g.metrics.RecordBonusSetFailed()
			continue
		}

		if err := g.store.CreateBonusGameSet(ctx, set); err != nil {
			logger.Error("Failed to insert bonus game set", zap.Int("set", i), zap.Error(err))
			g.metrics.RecordBonusSetFailed()
			continue
		}
		inserted++
	}
	return inserted
}
