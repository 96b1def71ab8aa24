package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ParseNumber извлекает целое число из токена, отбрасывая все нецифровые символы.
// "(07)" -> 7, " 12 " -> 12, "-" -> false.
func ParseNumber(token string) (int, bool) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, token)

	if digits == "" {
		return 0, false
	}

	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// numbersIn возвращает разобранные числа из листовых элементов selector внутри sel.
// Нечисловые токены пропускаются до любых подсчетов.
func numbersIn(sel *goquery.Selection, selector string) []int {
	var numbers []int
	leaves(sel.Find(selector), selector).Each(func(_ int, s *goquery.Selection) {
		if n, ok := ParseNumber(s.Text()); ok {
			numbers = append(numbers, n)
		}
	})
	return numbers
}

// leaves оставляет только элементы, не содержащие других элементов selector
func leaves(sel *goquery.Selection, selector string) *goquery.Selection {
	return sel.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Find(selector).Length() == 0
	})
}

// foldText приводит текст к виду для сравнения меток: без регистра и диакритики
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return folded
}

// containsMarker проверяет вхождение метки в текст без учета регистра и акцентов
func containsMarker(text, marker string) bool {
	return strings.Contains(foldText(text), foldText(marker))
}

// labelIndex ищет в divs самый вложенный div, текст которого содержит метку.
// Возвращает -1, если метки нет.
func labelIndex(divs *goquery.Selection, marker string) int {
	index := -1
	divs.EachWithBreak(func(i int, d *goquery.Selection) bool {
		if !containsMarker(d.Text(), marker) {
			return true
		}
		nested := d.Find("div").FilterFunction(func(_ int, inner *goquery.Selection) bool {
			return containsMarker(inner.Text(), marker)
		})
		if nested.Length() > 0 {
			return true
		}
		index = i
		return false
	})
	return index
}

// collapseSpace сворачивает пробельные последовательности, как это делает innerText
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
