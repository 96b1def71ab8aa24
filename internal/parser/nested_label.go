package parser

import (
	"github.com/PuerkitoBio/goquery"
)

// NestedLabelLayout распознает разметку с 2024 года: подписи и номера во вложенных div.
//
//	<div>Tirage principal</div>
//	<div><span>3</span>...<span>45</span><span>(7)</span></div>
//	<div>Maxmillions</div>
//	<div><span>1</span>...<span>7</span></div>
type NestedLabelLayout struct {
	MainMarker  string
	BonusMarker string
}

// NewNestedLabelLayout создает стратегию с метками источника по умолчанию
func NewNestedLabelLayout() *NestedLabelLayout {
	return &NestedLabelLayout{
		MainMarker:  "tirage principal",
		BonusMarker: "maxmillions",
	}
}

// Name возвращает имя стратегии
func (l *NestedLabelLayout) Name() string { return "nested-label" }

// Extract ищет метку основного тиража и читает номера из следующего div
func (l *NestedLabelLayout) Extract(sel *goquery.Selection) (Record, bool) {
	divs := sel.Find("div")

	mainIdx := labelIndex(divs, l.MainMarker)
	if mainIdx < 0 || mainIdx+1 >= divs.Length() {
		return Record{}, false
	}

	numbers, bonus, ok := splitMain(numbersIn(divs.Eq(mainIdx+1), "span"))
	if !ok {
		return Record{}, false
	}

	record := Record{
		Numbers: numbers,
		Bonus:   bonus,
		Layout:  l.Name(),
	}

	bonusIdx := labelIndex(divs, l.BonusMarker)
	if bonusIdx >= 0 {
		divs.Slice(bonusIdx+1, divs.Length()).Each(func(_ int, d *goquery.Selection) {
			// обертка и вложенный div содержат одни и те же номера
			if d.Find("div").Length() > 0 {
				return
			}
			if set, ok := exactSet(numbersIn(d, "span")); ok {
				record.BonusGameSets = append(record.BonusGameSets, set)
			}
		})
	}

	return record, true
}
