package scraper

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// snapshotLimit: сколько байт HTML логировать при отсутствии результатов
const snapshotLimit = 4000

// BrowserFetcher получает страницы через headless Chrome.
// Источник заполняет таблицу результатов скриптом, поэтому обычного GET недостаточно.
// Один процесс браузера на запуск, по одной вкладке на страницу.
type BrowserFetcher struct {
	config Config
	logger *zap.Logger

	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
	closeOnce     sync.Once
}

var _ Session = (*BrowserFetcher)(nil)

// NewBrowserFetcher запускает браузер. Закрывать через Close ровно один раз.
func NewBrowserFetcher(ctx context.Context, config Config, logger *zap.Logger) (*BrowserFetcher, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Browser.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(config.UserAgent),
	)
	if config.Browser.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(config.Browser.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.WithoutCancel(ctx), opts...)

	sugar := logger.Sugar()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Warnf),
	)

	// Пустой Run запускает процесс браузера
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	logger.Info("Browser started", zap.Bool("headless", config.Browser.Headless))

	return &BrowserFetcher{
		config:        config,
		logger:        logger,
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// FetchArchive получает страницу архива за год
func (f *BrowserFetcher) FetchArchive(ctx context.Context, year int) (*goquery.Document, error) {
	return f.fetch(ctx, f.config.URLs.Archive(year), ArchiveReadySelectors)
}

// FetchDay получает страницу результатов за дату
func (f *BrowserFetcher) FetchDay(ctx context.Context, date string) (*goquery.Document, error) {
	pageURL, err := f.config.URLs.Day(date)
	if err != nil {
		return nil, err
	}
	return f.fetch(ctx, pageURL, DayReadySelectors)
}

// fetch открывает вкладку, ждет признак результатов и возвращает HTML.
// Вкладка закрывается на любом пути выхода.
func (f *BrowserFetcher) fetch(ctx context.Context, pageURL string, selectors []string) (*goquery.Document, error) {
	tabCtx, closeTab := chromedp.NewContext(f.browserCtx)
	defer closeTab()

	stop := context.AfterFunc(ctx, closeTab)
	defer stop()

	// Первый Run создает вкладку; таймауты только на последующих
	if err := chromedp.Run(tabCtx); err != nil {
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}

	f.logger.Debug("Navigating", zap.String("url", pageURL))

	navCtx, cancelNav := context.WithTimeout(tabCtx, f.config.Browser.NavTimeout)
	err := chromedp.Run(navCtx, chromedp.Navigate(pageURL))
	cancelNav()
	if err != nil {
		return nil, fmt.Errorf("failed to navigate to %s: %w", pageURL, err)
	}

	selector, err := waitForAny(tabCtx, f.logger, f.config.Wait, selectors, func(waitCtx context.Context, sel string) error {
		return chromedp.Run(waitCtx, chromedp.WaitReady(sel, chromedp.ByQuery))
	})
	if err != nil {
		if errors.Is(err, ErrNoResults) {
			f.logSnapshot(tabCtx, pageURL)
		}
		return nil, err
	}

	f.logger.Debug("Page ready", zap.String("url", pageURL), zap.String("selector", selector))

	html, err := f.outerHTML(tabCtx)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}

func (f *BrowserFetcher) outerHTML(tabCtx context.Context) (string, error) {
	readCtx, cancel := context.WithTimeout(tabCtx, f.config.Browser.NavTimeout)
	defer cancel()

	var html string
	if err := chromedp.Run(readCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	return html, nil
}

// logSnapshot пишет начало HTML в debug-лог, чтобы увидеть новую разметку
func (f *BrowserFetcher) logSnapshot(tabCtx context.Context, pageURL string) {
	if !f.logger.Core().Enabled(zap.DebugLevel) {
		return
	}

	html, err := f.outerHTML(tabCtx)
	if err != nil {
		return
	}
	if len(html) > snapshotLimit {
		html = html[:snapshotLimit]
	}

	f.logger.Debug("HTML snapshot of page without results",
		zap.String("url", pageURL),
		zap.String("html", html))
}

// Close останавливает браузер
func (f *BrowserFetcher) Close() error {
	f.closeOnce.Do(func() {
		if err := chromedp.Cancel(f.browserCtx); err != nil {
			f.logger.Warn("Failed to close browser gracefully", zap.Error(err))
		}
		f.browserCancel()
		f.allocCancel()
		f.logger.Info("Browser stopped")
	})
	return nil
}
