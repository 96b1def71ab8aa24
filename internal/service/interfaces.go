package service

import (
	"context"

	"lottomax/internal/model"
	"lottomax/internal/parser"

	"github.com/PuerkitoBio/goquery"
)

// DrawStore: часть хранилища тиражей, нужная для приема
type DrawStore interface {
	ExistsByDate(ctx context.Context, date string) (bool, error)
	Create(ctx context.Context, draw *model.Draw) error
	CreateBonusGameSet(ctx context.Context, set *model.BonusGameSet) error
	ListDatesBetween(ctx context.Context, from, to string) ([]string, error)
}

// Extractor извлекает записи тиражей из страниц
type Extractor interface {
	ExtractArchive(doc *goquery.Document) parser.ArchiveResult
	ExtractDay(doc *goquery.Document, date string) (parser.Record, bool)
}

// Persister принимает одну извлеченную запись
type Persister interface {
	Persist(ctx context.Context, record parser.Record) (Outcome, error)
}

// SchedulerInterface определяет интерфейс для планировщика запусков
type SchedulerInterface interface {
	Start() error
	Stop()
}
