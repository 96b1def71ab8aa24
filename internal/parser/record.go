// Package parser извлекает тиражи из страниц результатов.
//
// Источник несколько раз менял разметку, поэтому извлечение построено как
// упорядоченный список стратегий (Layout). Диспетчер Extractor пробует их по
// очереди и берет первую, вернувшую полный набор основных номеров.
package parser

import (
	"github.com/PuerkitoBio/goquery"
)

// Record: извлеченный тираж до записи в хранилище
type Record struct {
	Date          string
	Numbers       []int
	Bonus         *int
	BonusGameSets [][]int
	// Layout: имя стратегии, которая распознала разметку
	Layout string
}

// Layout: стратегия распознавания одной версии разметки.
// Extract не имеет побочных эффектов и возвращает false, если разметка не подходит
// или основных номеров меньше семи.
type Layout interface {
	Name() string
	Extract(sel *goquery.Selection) (Record, bool)
}

const (
	// mainCount: сколько основных номеров нужно для валидной записи
	mainCount = 7
	// bonusSetSize: точный размер комбинации бонусной игры
	bonusSetSize = 7
)

// splitMain делит разобранные числа на основные номера и бонус (восьмое число).
// false, если основных номеров меньше семи.
func splitMain(parsed []int) ([]int, *int, bool) {
	if len(parsed) < mainCount {
		return nil, nil, false
	}

	numbers := make([]int, mainCount)
	copy(numbers, parsed[:mainCount])

	var bonus *int
	if len(parsed) > mainCount {
		b := parsed[mainCount]
		bonus = &b
	}

	return numbers, bonus, true
}

// exactSet возвращает комбинацию, только если чисел ровно семь
func exactSet(parsed []int) ([]int, bool) {
	if len(parsed) != bonusSetSize {
		return nil, false
	}
	return parsed, true
}
