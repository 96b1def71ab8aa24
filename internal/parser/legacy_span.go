package parser

import (
	"github.com/PuerkitoBio/goquery"
)

// LegacySpanLayout распознает разметку 2009-2023 годов: номера в span внутри классов numerosGangnants
type LegacySpanLayout struct {
	MainSelector  string
	BonusSelector string
}

// NewLegacySpanLayout создает стратегию с классами источника по умолчанию
func NewLegacySpanLayout() *LegacySpanLayout {
	return &LegacySpanLayout{
		MainSelector:  ".numerosGangnants.principal",
		BonusSelector: ".numerosGangnants.maximillions",
	}
}

// Name возвращает имя стратегии
func (l *LegacySpanLayout) Name() string { return "legacy-span" }

// Extract читает первые семь span как основные номера, восьмой как бонус
func (l *LegacySpanLayout) Extract(sel *goquery.Selection) (Record, bool) {
	principal := sel.Find(l.MainSelector).First()
	if principal.Length() == 0 {
		return Record{}, false
	}

	numbers, bonus, ok := splitMain(numbersIn(principal, "span"))
	if !ok {
		return Record{}, false
	}

	record := Record{
		Numbers: numbers,
		Bonus:   bonus,
		Layout:  l.Name(),
	}

	sel.Find(l.BonusSelector).Each(func(_ int, block *goquery.Selection) {
		if set, ok := exactSet(numbersIn(block, "span")); ok {
			record.BonusGameSets = append(record.BonusGameSets, set)
		}
	})

	return record, true
}
