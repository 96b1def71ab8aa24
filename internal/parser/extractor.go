package parser

import (
	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ArchiveResult: итог разбора годовой страницы архива
type ArchiveResult struct {
	Records []Record
	// HeaderRows: строки-заголовки и строки без даты
	HeaderRows int
	// Rejected: строки с датой, которые не подошли ни под одну разметку
	Rejected []string
}

// Extractor перебирает стратегии разметки в порядке приоритета
type Extractor struct {
	rowLayouts  []Layout
	pageLayouts []Layout
	rowSelector string
	logger      *zap.Logger
}

// NewExtractor создает диспетчер с явным списком стратегий.
// rowLayouts применяются к строкам таблицы, pageLayouts применяются к странице дня целиком.
func NewExtractor(rowLayouts, pageLayouts []Layout, logger *zap.Logger) *Extractor {
	return &Extractor{
		rowLayouts:  rowLayouts,
		pageLayouts: pageLayouts,
		rowSelector: "table tbody tr",
		logger:      logger,
	}
}

// NewDefaultExtractor создает диспетчер со всеми известными версиями разметки
func NewDefaultExtractor(logger *zap.Logger) *Extractor {
	return NewExtractor(
		[]Layout{NewNestedLabelLayout(), NewLegacySpanLayout()},
		[]Layout{NewDayViewLayout()},
		logger,
	)
}

// ExtractArchive разбирает все строки годовой страницы архива.
// Дата берется из ячейки .date как есть.
func (e *Extractor) ExtractArchive(doc *goquery.Document) ArchiveResult {
	var result ArchiveResult

	doc.Find(e.rowSelector).Each(func(i int, row *goquery.Selection) {
		if isHeaderRow(row) {
			result.HeaderRows++
			return
		}

		date := collapseSpace(row.Find(".date").First().Text())
		if date == "" {
			result.HeaderRows++
			return
		}

		record, ok := e.firstMatch(row, e.rowLayouts)
		if !ok {
			e.logger.Debug("Row does not match any known layout",
				zap.Int("row", i),
				zap.String("date", date))
			result.Rejected = append(result.Rejected, date)
			return
		}

		record.Date = date
		result.Records = append(result.Records, record)
	})

	return result
}

// ExtractDay разбирает страницу одного тиража. Дата: локатор запроса.
// Сначала пробуются табличные разметки на первой строке с данными,
// затем разметки страницы дня.
func (e *Extractor) ExtractDay(doc *goquery.Document, date string) (Record, bool) {
	var firstRow *goquery.Selection
	doc.Find(e.rowSelector).EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if isHeaderRow(row) {
			return true
		}
		firstRow = row
		return false
	})

	if firstRow != nil {
		if record, ok := e.firstMatch(firstRow, e.rowLayouts); ok {
			record.Date = date
			return record, true
		}
	}

	if record, ok := e.firstMatch(doc.Selection, e.pageLayouts); ok {
		record.Date = date
		return record, true
	}

	e.logger.Debug("Day page does not match any known layout", zap.String("date", date))
	return Record{}, false
}

// firstMatch возвращает результат первой подошедшей стратегии
func (e *Extractor) firstMatch(sel *goquery.Selection, layouts []Layout) (Record, bool) {
	for _, layout := range layouts {
		if record, ok := layout.Extract(sel); ok {
			return record, true
		}
	}
	return Record{}, false
}

// isHeaderRow распознает строку-заголовок таблицы
func isHeaderRow(row *goquery.Selection) bool {
	return row.HasClass("titre") || row.Find("th").Length() > 0
}
