// Package logger содержит настройку логгера.
package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New создает новый логгер с выводом в stdout и в ротируемый файл
func New() *zap.Logger {
	return NewWithLevel(os.Getenv("LOG_LEVEL"))
}

// NewWithLevel создает логгер с явно заданным уровнем
func NewWithLevel(levelName string) *zap.Logger {
	level := parseLevel(levelName)

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	consoleCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		level,
	)

	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(&lumberjack.Logger{
			Filename:   logPath(),
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     60, // days
			Compress:   true,
		}),
		level,
	)

	core := zapcore.NewTee(consoleCore, fileCore)

	return zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// parseLevel переводит имя уровня в zapcore.Level, по умолчанию info
func parseLevel(name string) zapcore.Level {
	switch name {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	case "fatal":
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// logPath получает путь к файлу логов из окружения или использует значение по умолчанию
func logPath() string {
	if path := os.Getenv("LOG_PATH"); path != "" {
		return path
	}

	if dataDir := os.Getenv("APP_DATA_DIR"); dataDir != "" {
		if err := os.MkdirAll(dataDir, 0755); err == nil {
			return filepath.Join(dataDir, "scraper.log")
		}
	}

	if err := os.MkdirAll("logs", 0755); err == nil {
		return "logs/scraper.log"
	}

	return "scraper.log"
}
