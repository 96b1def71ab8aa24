// Package repository содержит репозитории для работы с базой данных.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"lottomax/internal/model"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"
)

// ErrDuplicateDraw возвращается, когда тираж с такой датой уже существует
var ErrDuplicateDraw = errors.New("draw for this date already exists")

// uniqueViolation: SQLSTATE нарушения уникальности
const uniqueViolation = "23505"

// DrawRepository реализует model.DrawRepository
type DrawRepository struct {
	db     bun.IDB
	logger *zap.Logger
}

var _ model.DrawRepository = (*DrawRepository)(nil)

// NewDrawRepository создает новый репозиторий тиражей
func NewDrawRepository(db bun.IDB, logger *zap.Logger) *DrawRepository {
	return &DrawRepository{
		db:     db,
		logger: logger,
	}
}

// ExistsByDate проверяет наличие тиража на дату
func (r *DrawRepository) ExistsByDate(ctx context.Context, date string) (bool, error) {
	exists, err := r.db.NewSelect().
		Model((*model.Draw)(nil)).
		Where("date = ?", date).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check draw existence: %w", err)
	}
	return exists, nil
}

// GetByDate возвращает тираж с бонусными комбинациями или nil, если его нет
func (r *DrawRepository) GetByDate(ctx context.Context, date string) (*model.Draw, error) {
	draw := new(model.Draw)

	err := r.db.NewSelect().
		Model(draw).
		Relation("BonusGameSets", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Order("bgs.id ASC")
		}).
		Where("d.date = ?", date).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query draw by date: %w", err)
	}

	return draw, nil
}

// Create вставляет тираж и заполняет его ID.
// Конфликт по дате возвращает ErrDuplicateDraw, строка при этом не меняется.
func (r *DrawRepository) Create(ctx context.Context, draw *model.Draw) error {
	res, err := r.db.NewInsert().
		Model(draw).
		On("CONFLICT (date) DO NOTHING").
		Returning("id").
		Exec(ctx)
	if err := insertResult(res, err); err != nil {
		return err
	}

	r.logger.Debug("Inserted draw",
		zap.String("date", draw.Date),
		zap.Int64("id", draw.ID))

	return nil
}

// insertResult переводит итог INSERT ... ON CONFLICT DO NOTHING в ошибку.
// Пропущенная вставка и нарушение уникальности дают ErrDuplicateDraw.
func insertResult(res sql.Result, err error) error {
	if err != nil {
		if isUniqueViolation(err) || errors.Is(err, sql.ErrNoRows) {
			return ErrDuplicateDraw
		}
		return fmt.Errorf("failed to insert draw: %w", err)
	}

	if res != nil {
		if affected, err := res.RowsAffected(); err == nil && affected == 0 {
			return ErrDuplicateDraw
		}
	}

	return nil
}

// CreateBonusGameSet вставляет комбинацию бонусной игры
func (r *DrawRepository) CreateBonusGameSet(ctx context.Context, set *model.BonusGameSet) error {
	if _, err := r.db.NewInsert().Model(set).Returning("id").Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert bonus game set for draw %d: %w", set.DrawID, err)
	}
	return nil
}

// ListDatesBetween возвращает даты сохраненных тиражей в диапазоне [from, to]
func (r *DrawRepository) ListDatesBetween(ctx context.Context, from, to string) ([]string, error) {
	var dates []string

	err := r.db.NewSelect().
		Model((*model.Draw)(nil)).
		Column("date").
		Where("date >= ?", from).
		Where("date <= ?", to).
		Order("date ASC").
		Scan(ctx, &dates)
	if err != nil {
		return nil, fmt.Errorf("failed to list draw dates: %w", err)
	}

	return dates, nil
}

// Count возвращает количество сохраненных тиражей
func (r *DrawRepository) Count(ctx context.Context) (int, error) {
	count, err := r.db.NewSelect().Model((*model.Draw)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count draws: %w", err)
	}
	return count, nil
}

// Occurrences считает частоту каждого основного номера по всем тиражам
func (r *DrawRepository) Occurrences(ctx context.Context, includePremium bool) ([]model.NumberOccurrence, error) {
	var result []model.NumberOccurrence
	if err := r.db.NewRaw(occurrencesQuery(includePremium)).Scan(ctx, &result); err != nil {
		return nil, fmt.Errorf("failed to count number occurrences: %w", err)
	}

	return result, nil
}

// occurrencesQuery разворачивает num1..num7 в один столбец и группирует по номеру
func occurrencesQuery(includePremium bool) string {
	filter := ""
	if !includePremium {
		filter = " WHERE premium = false"
	}

	parts := make([]string, 0, model.MainNumbersCount)
	for i := 1; i <= model.MainNumbersCount; i++ {
		parts = append(parts, fmt.Sprintf("SELECT num%d AS n FROM draws%s", i, filter))
	}

	return "SELECT n AS number, COUNT(*) AS count FROM (" +
		strings.Join(parts, " UNION ALL ") +
		") AS numbers WHERE n IS NOT NULL GROUP BY n ORDER BY n"
}

// sqlStateError описывает ошибку сервера с полями протокола, как у pgdriver.Error
type sqlStateError interface {
	error
	Field(k byte) string
}

var _ sqlStateError = pgdriver.Error{}

// isUniqueViolation проверяет, что ошибка является нарушением уникального ограничения
func isUniqueViolation(err error) bool {
	var pgErr sqlStateError
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == uniqueViolation
	}
	return false
}
