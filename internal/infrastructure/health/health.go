// Package health реализует HTTP healthcheck сервер для мониторинга скрейпера.
package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// pingTimeout ограничивает проверку базы в /ready
const pingTimeout = 3 * time.Second

// Server представляет HTTP сервер для health check
type Server struct {
	server    *http.Server
	logger    *zap.Logger
	port      int
	startTime time.Time
	db        Pinger
	stats     StatsProvider
	draws     DrawCounter
}

var _ ServerInterface = (*Server)(nil)

// Status представляет статус здоровья системы
type Status struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Uptime     string            `json:"uptime"`
	Components map[string]string `json:"components,omitempty"`
}

// NewHealthServer создает новый health check сервер
func NewHealthServer(port int, logger *zap.Logger, db Pinger, stats StatsProvider, draws DrawCounter) *Server {
	hs := &Server{
		logger:    logger,
		port:      port,
		startTime: time.Now(),
		db:        db,
		stats:     stats,
		draws:     draws,
	}

	hs.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           hs.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return hs
}

func (hs *Server) router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", hs.healthHandler)
	router.GET("/ready", hs.readyHandler)
	router.GET("/stats", hs.statsHandler)

	return router
}

// Start запускает health check сервер
func (hs *Server) Start() error {
	hs.logger.Info("Starting health check server", zap.Int("port", hs.port))
	if err := hs.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Stop останавливает health check сервер
func (hs *Server) Stop(ctx context.Context) error {
	hs.logger.Info("Stopping health check server")
	return hs.server.Shutdown(ctx)
}

// formatDuration форматирует время в читаемый формат (например: 8s)
func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%ds", int(d.Seconds()))
}

func (hs *Server) status(value string, components map[string]string) Status {
	return Status{
		Status:     value,
		Timestamp:  time.Now(),
		Uptime:     formatDuration(time.Since(hs.startTime)),
		Components: components,
	}
}

// healthHandler обрабатывает запросы /health
func (hs *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, hs.status("healthy", nil))
}

// readyHandler обрабатывает запросы /ready
func (hs *Server) readyHandler(c *gin.Context) {
	components := map[string]string{"database": "healthy"}

	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	if hs.db == nil {
		components["database"] = "not configured"
	} else if err := hs.db.Ping(ctx); err != nil {
		components["database"] = "unhealthy"
		hs.logger.Warn("Health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, hs.status("unhealthy", components))
		return
	}

	c.JSON(http.StatusOK, hs.status("ready", components))
}

// statsHandler обрабатывает запросы /stats
func (hs *Server) statsHandler(c *gin.Context) {
	stats := map[string]interface{}{}
	if hs.stats != nil {
		stats = hs.stats.GetStats()
	}

	if hs.draws != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		if count, err := hs.draws.Count(ctx); err != nil {
			hs.logger.Warn("Failed to count stored draws", zap.Error(err))
			stats["stored_draws"] = nil
		} else {
			stats["stored_draws"] = count
		}
	}

	c.JSON(http.StatusOK, stats)
}
