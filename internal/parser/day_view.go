package parser

import (
	"github.com/PuerkitoBio/goquery"
)

// DefaultLookahead: сколько div после метки бонусной игры просматривается в запасном режиме
const DefaultLookahead = 30

// DayViewLayout: отдельная страница одного тиража (актуальный год).
// Основные номера и дополнительный номер лежат в одном контейнере,
// комбинации бонусной игры лежат в своих контейнерах или в div после метки.
type DayViewLayout struct {
	Containers      []string
	NumberSelector  string
	BonusSelectors  []string
	ComplementClass string
	SetContainers   string
	BonusMarker     string
	Lookahead       int
}

// NewDayViewLayout создает стратегию с селекторами источника по умолчанию
func NewDayViewLayout() *DayViewLayout {
	return &DayViewLayout{
		Containers: []string{
			".lqZoneResultatsProduit .numeros",
			".numeros",
			".lqZoneStructuresDeLots .numeros",
		},
		NumberSelector:  ".num, span",
		BonusSelectors:  []string{".num.complementaire", ".complementaire", ".num-sep + .num"},
		ComplementClass: "complementaire",
		SetContainers:   ".lqZoneStructureDeLots .structure2, .ensembleMaxNumeros .numeros, .lqMaxmillions .numeros, .lqZoneStructureDeLots .numeros",
		BonusMarker:     "maxmillions",
		Lookahead:       DefaultLookahead,
	}
}

// Name возвращает имя стратегии
func (l *DayViewLayout) Name() string { return "day-view" }

// Extract разбирает страницу дня целиком
func (l *DayViewLayout) Extract(sel *goquery.Selection) (Record, bool) {
	main := l.findContainer(sel)
	if main == nil {
		return Record{}, false
	}

	var parsed []int
	leaves(main.Find(l.NumberSelector), l.NumberSelector).Each(func(_ int, s *goquery.Selection) {
		if s.HasClass(l.ComplementClass) || s.ParentsFiltered("."+l.ComplementClass).Length() > 0 {
			return
		}
		if n, ok := ParseNumber(s.Text()); ok {
			parsed = append(parsed, n)
		}
	})

	if len(parsed) < mainCount {
		return Record{}, false
	}

	numbers := make([]int, mainCount)
	copy(numbers, parsed[:mainCount])

	return Record{
		Numbers:       numbers,
		Bonus:         l.findBonus(main),
		BonusGameSets: l.findBonusSets(sel, main),
		Layout:        l.Name(),
	}, true
}

// findContainer возвращает первый подходящий контейнер номеров
func (l *DayViewLayout) findContainer(sel *goquery.Selection) *goquery.Selection {
	for _, selector := range l.Containers {
		if c := sel.Find(selector).First(); c.Length() > 0 {
			return c
		}
	}
	return nil
}

func (l *DayViewLayout) findBonus(main *goquery.Selection) *int {
	for _, selector := range l.BonusSelectors {
		node := main.Find(selector).First()
		if node.Length() == 0 {
			continue
		}
		if n, ok := ParseNumber(node.Text()); ok {
			return &n
		}
	}
	return nil
}

// findBonusSets ищет комбинации в известных контейнерах, иначе сканирует div после метки
func (l *DayViewLayout) findBonusSets(sel, main *goquery.Selection) [][]int {
	mainNode := main.Get(0)

	containers := sel.Find(l.SetContainers).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Get(0) != mainNode
	})
	// контейнеры могут быть вложены друг в друга, берем только самые внутренние
	containers = leaves(containers, l.SetContainers)

	var sets [][]int
	if containers.Length() > 0 {
		containers.Each(func(_ int, c *goquery.Selection) {
			if set, ok := exactSet(numbersIn(c, l.NumberSelector)); ok {
				sets = append(sets, set)
			}
		})
		return sets
	}

	divs := sel.Find("div")
	labelIdx := labelIndex(divs, l.BonusMarker)
	if labelIdx < 0 {
		return nil
	}

	end := labelIdx + 1 + l.Lookahead
	if end > divs.Length() {
		end = divs.Length()
	}

	divs.Slice(labelIdx+1, end).Each(func(_ int, d *goquery.Selection) {
		// обертки пропускаем, иначе одна комбинация попадет дважды
		if d.Find("div").Length() > 0 {
			return
		}
		if set, ok := exactSet(numbersIn(d, l.NumberSelector)); ok {
			sets = append(sets, set)
		}
	})

	return sets
}
