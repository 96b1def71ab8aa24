// Package scraper содержит получение страниц результатов из внешнего источника.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoResults: страница загрузилась, но результатов на ней нет (например, не день тиража).
// Это мягкая ошибка: цель пропускается без сбоя запуска.
var ErrNoResults = errors.New("no results content on page")

// Fetcher получает отрисованную страницу результатов
type Fetcher interface {
	FetchArchive(ctx context.Context, year int) (*goquery.Document, error)
	FetchDay(ctx context.Context, date string) (*goquery.Document, error)
}

// Session: Fetcher с ресурсами на время одного запуска (браузер)
type Session interface {
	Fetcher
	Close() error
}

// Opener открывает новую сессию получения страниц
type Opener func(ctx context.Context) (Session, error)

// Config представляет конфигурацию скрейпера
type Config struct {
	URLs         SourceURLs
	UserAgent    string
	RequestDelay time.Duration
	Wait         WaitConfig
	Browser      BrowserConfig
}

// BrowserConfig представляет настройки запуска браузера
type BrowserConfig struct {
	ExecPath   string
	Headless   bool
	NavTimeout time.Duration
}

// WaitConfig задает ожидание признаков готовности страницы
type WaitConfig struct {
	Attempts        int
	SelectorTimeout time.Duration
	RetryPause      time.Duration
}

var (
	// ArchiveReadySelectors: признаки того, что таблица архива отрисована
	ArchiveReadySelectors = []string{"table tbody tr"}

	// DayReadySelectors: признаки результатов на странице дня, в порядке приоритета
	DayReadySelectors = []string{
		".lqZoneResultatsProduit .numeros",
		".numeros",
		".lqZoneStructuresDeLots .numeros",
		"table.tbl-resultats tbody tr",
		"table tbody tr",
	}
)

// SourceURLs строит адреса страниц источника.
// Формат запросов источника нестабилен, поэтому он задается только здесь.
type SourceURLs struct {
	// ArchiveBase: адрес архива, к которому дописывается год
	ArchiveBase string
	// DayBase: адрес страницы дня, дата передается параметром date
	DayBase string
}

// Archive возвращает адрес архива за год
func (u SourceURLs) Archive(year int) string {
	return u.ArchiveBase + strconv.Itoa(year)
}

// Day возвращает адрес результатов на дату YYYY-MM-DD
func (u SourceURLs) Day(date string) (string, error) {
	if _, err := time.Parse(time.DateOnly, date); err != nil {
		return "", fmt.Errorf("invalid draw date %q: %w", date, err)
	}

	parsed, err := url.Parse(u.DayBase)
	if err != nil {
		return "", fmt.Errorf("invalid day base URL: %w", err)
	}

	query := parsed.Query()
	query.Set("date", date)
	parsed.RawQuery = query.Encode()

	return parsed.String(), nil
}
