package health

import "context"

// ServerInterface определяет интерфейс для health check сервера
type ServerInterface interface {
	// Start запускает health check сервер
	Start() error

	// Stop останавливает health check сервер
	Stop(ctx context.Context) error
}

// Pinger проверяет доступность хранилища
type Pinger interface {
	Ping(ctx context.Context) error
}

// DrawCounter считает сохраненные тиражи
type DrawCounter interface {
	Count(ctx context.Context) (int, error)
}

// StatsProvider отдает снимок метрик
type StatsProvider interface {
	GetStats() map[string]interface{}
}
