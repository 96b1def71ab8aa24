// Package model содержит модели данных.
//
// Группа: ENTITIES - Основные сущности
// Содержит: Draw, BonusGameSet, DrawRepository
package model

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

const (
	// MainNumbersCount: количество основных номеров тиража
	MainNumbersCount = 7
	// BonusGameNumbersCount: количество номеров в одной комбинации бонусной игры
	BonusGameNumbersCount = 7
	// MinBallNumber и MaxBallNumber: наблюдаемый диапазон номеров
	MinBallNumber = 1
	MaxBallNumber = 50
)

// Draw представляет один тираж (одна строка на календарную дату)
type Draw struct {
	bun.BaseModel `bun:"table:draws,alias:d"`

	ID      int64  `bun:"id,pk,autoincrement" json:"id"`
	Date    string `bun:"date,notnull,unique" json:"date"`
	Num1    *int   `bun:"num1" json:"num1"`
	Num2    *int   `bun:"num2" json:"num2"`
	Num3    *int   `bun:"num3" json:"num3"`
	Num4    *int   `bun:"num4" json:"num4"`
	Num5    *int   `bun:"num5" json:"num5"`
	Num6    *int   `bun:"num6" json:"num6"`
	Num7    *int   `bun:"num7" json:"num7"`
	Bonus   *int   `bun:"bonus" json:"bonus"`
	Premium bool   `bun:"premium,notnull,default:false" json:"premium"`

	// Связи
	BonusGameSets []*BonusGameSet `bun:"rel:has-many,join:id=draw_id" json:"bonus_game_sets,omitempty"`
}

// BonusGameSet представляет одну комбинацию дополнительного розыгрыша
type BonusGameSet struct {
	bun.BaseModel `bun:"table:bonus_game_sets,alias:bgs"`

	ID     int64 `bun:"id,pk,autoincrement" json:"id"`
	DrawID int64 `bun:"draw_id,notnull" json:"draw_id"`
	Num1   int   `bun:"num1,notnull" json:"num1"`
	Num2   int   `bun:"num2,notnull" json:"num2"`
	Num3   int   `bun:"num3,notnull" json:"num3"`
	Num4   int   `bun:"num4,notnull" json:"num4"`
	Num5   int   `bun:"num5,notnull" json:"num5"`
	Num6   int   `bun:"num6,notnull" json:"num6"`
	Num7   int   `bun:"num7,notnull" json:"num7"`
}

// NewDraw собирает тираж из извлеченных номеров; номера сверх семи игнорируются
func NewDraw(date string, numbers []int, bonus *int) *Draw {
	d := &Draw{Date: date, Bonus: bonus}
	slots := d.numberSlots()
	for i := 0; i < len(numbers) && i < len(slots); i++ {
		n := numbers[i]
		*slots[i] = &n
	}
	return d
}

func (d *Draw) numberSlots() []**int {
	return []**int{&d.Num1, &d.Num2, &d.Num3, &d.Num4, &d.Num5, &d.Num6, &d.Num7}
}

// Numbers возвращает заполненные основные номера в порядке извлечения
func (d *Draw) Numbers() []int {
	var numbers []int
	for _, slot := range d.numberSlots() {
		if *slot != nil {
			numbers = append(numbers, **slot)
		}
	}
	return numbers
}

// Validate проверяет валидность тиража
func (d *Draw) Validate() error {
	var errors ValidationErrors

	if err := ValidateRequired("date", d.Date); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	numbers := d.Numbers()
	if err := ValidateCount("numbers", len(numbers), MainNumbersCount); err != nil {
		errors = append(errors, err.(ValidationError))
	}

	for i, n := range numbers {
		if err := ValidateRange(fmt.Sprintf("num%d", i+1), n, MinBallNumber, MaxBallNumber); err != nil {
			errors = append(errors, err.(ValidationError))
		}
	}

	if d.Bonus != nil {
		if err := ValidateRange("bonus", *d.Bonus, MinBallNumber, MaxBallNumber); err != nil {
			errors = append(errors, err.(ValidationError))
		}
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// NewBonusGameSet создает комбинацию бонусной игры; требует ровно 7 номеров
func NewBonusGameSet(drawID int64, numbers []int) (*BonusGameSet, error) {
	if err := ValidateCount("bonus_game_set", len(numbers), BonusGameNumbersCount); err != nil {
		return nil, err
	}

	return &BonusGameSet{
		DrawID: drawID,
		Num1:   numbers[0],
		Num2:   numbers[1],
		Num3:   numbers[2],
		Num4:   numbers[3],
		Num5:   numbers[4],
		Num6:   numbers[5],
		Num7:   numbers[6],
	}, nil
}

// Numbers возвращает номера комбинации
func (s *BonusGameSet) Numbers() []int {
	return []int{s.Num1, s.Num2, s.Num3, s.Num4, s.Num5, s.Num6, s.Num7}
}

// NumberOccurrence: частота выпадения номера среди основных номеров
type NumberOccurrence struct {
	Number int `bun:"number" json:"number"`
	Count  int `bun:"count" json:"count"`
}

// DrawRepository определяет интерфейс для работы с тиражами
type DrawRepository interface {
	ExistsByDate(ctx context.Context, date string) (bool, error)
	GetByDate(ctx context.Context, date string) (*Draw, error)
	Create(ctx context.Context, draw *Draw) error
	CreateBonusGameSet(ctx context.Context, set *BonusGameSet) error
	ListDatesBetween(ctx context.Context, from, to string) ([]string, error)
	Count(ctx context.Context) (int, error)
	Occurrences(ctx context.Context, includePremium bool) ([]NumberOccurrence, error)
}
