// Package config содержит загрузку и валидацию конфигурации.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	// Встроенная база часовых поясов для контейнеров без tzdata
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config представляет конфигурацию приложения
type Config struct {
	// Database
	DatabaseURL string

	// Logging
	LogLevel string

	// Health
	HealthPort         int
	HealthCheckEnabled bool

	// Timezone используется для вычисления "сегодня" и расписания cron
	Timezone string

	Source   SourceConfig
	Browser  BrowserConfig
	Schedule ScheduleConfig
}

// SourceConfig описывает внешний источник результатов
type SourceConfig struct {
	// ArchiveURL: страница архива, год добавляется в конец
	ArchiveURL string
	// DayURL: страница одного тиража, дата передается параметром date
	DayURL string
	// FetchMode: browser (chromedp) или static (colly)
	FetchMode    string
	UserAgent    string
	RequestDelay time.Duration
}

// BrowserConfig представляет настройки headless-браузера
type BrowserConfig struct {
	ExecPath        string
	Headless        bool
	NavTimeout      time.Duration
	SelectorTimeout time.Duration
	WaitAttempts    int
	RetryPause      time.Duration
}

// ScheduleConfig описывает расписание тиражей и запусков
type ScheduleConfig struct {
	// FirstYear: первый год с архивными данными у источника
	FirstYear int
	// LastYear: последний год для догоняющего режима, 0 означает прошлый год
	LastYear     int
	DrawWeekdays []time.Weekday
	DailyCron    string
	RunTimeout   time.Duration
}

const (
	FetchModeBrowser = "browser"
	FetchModeStatic  = "static"
)

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	// .env необязателен, переменные могут прийти из окружения
	_ = godotenv.Load()

	weekdays, err := ParseWeekdays(getEnv("DRAW_WEEKDAYS", "tuesday,friday"))
	if err != nil {
		return nil, fmt.Errorf("invalid DRAW_WEEKDAYS: %w", err)
	}

	config := &Config{
		DatabaseURL:        getEnv("DB_DSN", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		HealthPort:         getEnvInt("HEALTH_PORT", 8080),
		HealthCheckEnabled: getEnvBool("HEALTH_CHECK_ENABLED", true),
		Timezone:           getEnv("TIMEZONE", "America/Toronto"),
		Source: SourceConfig{
			ArchiveURL:   getEnv("SOURCE_ARCHIVE_URL", "https://loteries.lotoquebec.com/fr/loteries/lotto-max-resultats?widget=resultats-anterieurs&noProduit=223&annee="),
			DayURL:       getEnv("SOURCE_DAY_URL", "https://loteries.lotoquebec.com/fr/loteries/lotto-max-resultats"),
			FetchMode:    getEnv("FETCH_MODE", FetchModeBrowser),
			UserAgent:    getEnv("SCRAPER_USER_AGENT", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/133.0.0.0 Safari/537.36"),
			RequestDelay: getEnvDuration("SCRAPER_REQUEST_DELAY", 1*time.Second),
		},
		Browser: BrowserConfig{
			ExecPath:        getEnv("BROWSER_EXEC_PATH", ""),
			Headless:        getEnvBool("BROWSER_HEADLESS", true),
			NavTimeout:      getEnvDuration("BROWSER_NAV_TIMEOUT", 60*time.Second),
			SelectorTimeout: getEnvDuration("BROWSER_SELECTOR_TIMEOUT", 4*time.Second),
			WaitAttempts:    getEnvInt("BROWSER_WAIT_ATTEMPTS", 4),
			RetryPause:      getEnvDuration("BROWSER_RETRY_PAUSE", 800*time.Millisecond),
		},
		Schedule: ScheduleConfig{
			FirstYear:    getEnvInt("CATCHUP_FROM_YEAR", 2009),
			LastYear:     getEnvInt("CATCHUP_TO_YEAR", 0),
			DrawWeekdays: weekdays,
			DailyCron:    getEnv("DAILY_CRON", "0 7 * * *"),
			RunTimeout:   getEnvDuration("RUN_TIMEOUT", 2*time.Hour),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// Validate проверяет конфигурацию
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DB_DSN is required")
	}

	if c.HealthCheckEnabled && (c.HealthPort <= 0 || c.HealthPort > 65535) {
		return fmt.Errorf("HEALTH_PORT must be between 1 and 65535")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}

	switch c.Source.FetchMode {
	case FetchModeBrowser, FetchModeStatic:
	default:
		return fmt.Errorf("FETCH_MODE must be %q or %q", FetchModeBrowser, FetchModeStatic)
	}

	if c.Source.ArchiveURL == "" || c.Source.DayURL == "" {
		return fmt.Errorf("SOURCE_ARCHIVE_URL and SOURCE_DAY_URL are required")
	}

	if c.Browser.WaitAttempts < 1 {
		return fmt.Errorf("BROWSER_WAIT_ATTEMPTS must be at least 1")
	}

	if c.Browser.NavTimeout <= 0 || c.Browser.SelectorTimeout <= 0 {
		return fmt.Errorf("BROWSER_NAV_TIMEOUT and BROWSER_SELECTOR_TIMEOUT must be positive")
	}

	if c.Schedule.FirstYear < 1900 {
		return fmt.Errorf("CATCHUP_FROM_YEAR is out of range: %d", c.Schedule.FirstYear)
	}

	if c.Schedule.LastYear != 0 && c.Schedule.LastYear < c.Schedule.FirstYear {
		return fmt.Errorf("CATCHUP_TO_YEAR (%d) is before CATCHUP_FROM_YEAR (%d)", c.Schedule.LastYear, c.Schedule.FirstYear)
	}

	if len(c.Schedule.DrawWeekdays) == 0 {
		return fmt.Errorf("DRAW_WEEKDAYS must list at least one day")
	}

	if _, err := cron.ParseStandard(c.Schedule.DailyCron); err != nil {
		return fmt.Errorf("invalid DAILY_CRON %q: %w", c.Schedule.DailyCron, err)
	}

	return nil
}

// Location возвращает временную зону конфигурации, UTC при ошибке
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// CatchUpRange возвращает диапазон лет догоняющего режима относительно now
func (c *Config) CatchUpRange(now time.Time) (int, int) {
	last := c.Schedule.LastYear
	if last == 0 {
		last = now.In(c.Location()).Year() - 1
	}
	return c.Schedule.FirstYear, last
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekdays разбирает список дней недели через запятую (английские названия или 0-6)
func ParseWeekdays(value string) ([]time.Weekday, error) {
	var days []time.Weekday
	seen := make(map[time.Weekday]bool)

	for _, part := range strings.Split(value, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}

		day, ok := weekdayNames[name]
		if !ok {
			n, err := strconv.Atoi(name)
			if err != nil || n < 0 || n > 6 {
				return nil, fmt.Errorf("unknown weekday %q", part)
			}
			day = time.Weekday(n)
		}

		if !seen[day] {
			seen[day] = true
			days = append(days, day)
		}
	}

	if len(days) == 0 {
		return nil, fmt.Errorf("no weekdays given")
	}

	return days, nil
}

// getEnv получает переменную окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt получает переменную окружения как int
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration получает переменную окружения как time.Duration
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getEnvBool получает переменную окружения как bool
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
