package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

// StaticFetcher получает страницы обычным HTTP-запросом через colly.
// Подходит для страниц, которые отдаются уже отрисованными.
type StaticFetcher struct {
	config    Config
	logger    *zap.Logger
	collector *colly.Collector
}

var _ Session = (*StaticFetcher)(nil)

// NewStaticFetcher создает новый HTTP-скрейпер
func NewStaticFetcher(config Config, logger *zap.Logger) *StaticFetcher {
	collector := colly.NewCollector(
		colly.UserAgent(config.UserAgent),
		colly.MaxDepth(1),
		colly.AllowURLRevisit(),
	)

	collector.WithTransport(&http.Transport{
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
	})

	if config.Browser.NavTimeout > 0 {
		collector.SetRequestTimeout(config.Browser.NavTimeout)
	}

	// Не нагружаем источник: один запрос за раз с паузой
	applyLimit(collector, &colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       config.RequestDelay,
	}, logger)

	return &StaticFetcher{
		config:    config,
		logger:    logger,
		collector: collector,
	}
}

// applyLimit ставит ограничение запросов; без него fetcher продолжает работать
func applyLimit(collector *colly.Collector, rule *colly.LimitRule, logger *zap.Logger) {
	if err := collector.Limit(rule); err != nil {
		logger.Error("Failed to set collector limit", zap.Error(err))
	}
}

// FetchArchive получает страницу архива за год
func (f *StaticFetcher) FetchArchive(ctx context.Context, year int) (*goquery.Document, error) {
	return f.fetch(ctx, f.config.URLs.Archive(year), ArchiveReadySelectors)
}

// FetchDay получает страницу результатов за дату
func (f *StaticFetcher) FetchDay(ctx context.Context, date string) (*goquery.Document, error) {
	pageURL, err := f.config.URLs.Day(date)
	if err != nil {
		return nil, err
	}
	return f.fetch(ctx, pageURL, DayReadySelectors)
}

func (f *StaticFetcher) fetch(ctx context.Context, pageURL string, selectors []string) (*goquery.Document, error) {
	// Clone разделяет HTTP backend и лимиты, но не колбэки
	collector := f.collector.Clone()

	var body []byte

	collector.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		f.logger.Debug("Making request", zap.String("url", r.URL.String()))
	})

	collector.OnResponse(func(r *colly.Response) {
		f.logger.Debug("Received response",
			zap.String("url", r.Request.URL.String()),
			zap.Int("status", r.StatusCode),
			zap.Int("size", len(r.Body)))
		body = r.Body
	})

	if err := collector.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if body == nil {
		return nil, fmt.Errorf("empty response from %s", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	for _, selector := range selectors {
		if doc.Find(selector).Length() > 0 {
			return doc, nil
		}
	}

	f.logger.Debug("No ready selector in static page", zap.String("url", pageURL))
	return nil, ErrNoResults
}

// Close ничего не освобождает, HTTP-соединения переиспользуются
func (f *StaticFetcher) Close() error {
	return nil
}
