package metrics

import "time"

// Interface определяет интерфейс для метрик приема тиражей
type Interface interface {
	// RunStarted отмечает начало запуска в указанном режиме
	RunStarted(mode string)

	// RunFinished отмечает завершение запуска
	RunFinished(mode string, duration time.Duration)

	// RecordInserted записывает новый тираж
	RecordInserted(bonusSets int)

	// RecordDuplicate записывает тираж, который уже был в базе
	RecordDuplicate()

	// RecordDiscarded записывает отброшенную запись
	RecordDiscarded()

	// RecordBonusSetFailed записывает неудачную вставку бонусной комбинации
	RecordBonusSetFailed()

	// RecordFetchFailure записывает сбой получения страницы
	RecordFetchFailure()

	// RecordNoResults записывает страницу без результатов
	RecordNoResults()

	// SetNextRun устанавливает время следующего запуска по расписанию
	SetNextRun(next time.Time)

	// GetStats возвращает все метрики в виде map
	GetStats() map[string]interface{}
}
