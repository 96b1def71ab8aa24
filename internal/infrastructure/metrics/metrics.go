// Package metrics содержит счетчики приема тиражей.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const notSet = "not set"

// Metrics хранит счетчики в памяти процесса
type Metrics struct {
	mu     sync.RWMutex
	logger *zap.Logger

	runs           int
	running        bool
	lastMode       string
	lastRunStarted time.Time
	lastRunTook    time.Duration
	nextRun        time.Time

	inserted        int
	duplicates      int
	discarded       int
	bonusSets       int
	bonusSetsFailed int
	fetchFailures   int
	noResults       int
}

var _ Interface = (*Metrics)(nil)

// NewMetrics создает новый набор метрик
func NewMetrics(logger *zap.Logger) *Metrics {
	return &Metrics{logger: logger}
}

// RunStarted отмечает начало запуска
func (m *Metrics) RunStarted(mode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs++
	m.running = true
	m.lastMode = mode
	m.lastRunStarted = time.Now()
}

// RunFinished отмечает завершение запуска
func (m *Metrics) RunFinished(mode string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.running = false
	m.lastRunTook = duration
	m.logger.Debug("Run metrics updated",
		zap.String("mode", mode),
		zap.Duration("duration", duration))
}

// RecordInserted записывает новый тираж
func (m *Metrics) RecordInserted(bonusSets int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inserted++
	m.bonusSets += bonusSets
}

// RecordDuplicate записывает уже сохраненный тираж
func (m *Metrics) RecordDuplicate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duplicates++
}

// RecordDiscarded записывает отброшенную запись
func (m *Metrics) RecordDiscarded() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.discarded++
}

// RecordBonusSetFailed записывает неудачную вставку бонусной комбинации
func (m *Metrics) RecordBonusSetFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bonusSetsFailed++
}

// RecordFetchFailure записывает сбой получения страницы
func (m *Metrics) RecordFetchFailure() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchFailures++
}

// RecordNoResults записывает страницу без результатов
func (m *Metrics) RecordNoResults() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.noResults++
}

// SetNextRun устанавливает время следующего запуска
func (m *Metrics) SetNextRun(next time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRun = next
}

// GetStats возвращает снимок метрик
func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"draws": map[string]interface{}{
			"inserted":          m.inserted,
			"duplicates":        m.duplicates,
			"discarded":         m.discarded,
			"bonus_sets":        m.bonusSets,
			"bonus_sets_failed": m.bonusSetsFailed,
		},
		"fetch": map[string]interface{}{
			"failures":   m.fetchFailures,
			"no_results": m.noResults,
		},
		"system": map[string]interface{}{
			"runs":             m.runs,
			"running":          m.running,
			"last_mode":        m.lastMode,
			"last_run_started": m.formatTime(m.lastRunStarted),
			"last_run_took":    m.formatDuration(m.lastRunTook),
			"next_run":         m.formatTime(m.nextRun),
		},
	}
}

// formatTime форматирует время для отображения
func (m *Metrics) formatTime(t time.Time) string {
	if t.IsZero() {
		return notSet
	}
	return t.Format("2006-01-02 15:04")
}

// formatDuration форматирует длительность: секунды до минуты, дальше минуты и секунды
func (m *Metrics) formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
