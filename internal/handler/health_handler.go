package handler

import (
	"context"
	"net/http"
	"time"

	"jobpilot-service/internal/dto"
	"jobpilot-service/pkg/logger"
	"jobpilot-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db          Pinger
	serviceName string
}

func NewHealthHandler(db Pinger, serviceName string) *HealthHandler {
	return &HealthHandler{db: db, serviceName: serviceName}
}

// Root is the liveness banner
func (h *HealthHandler) Root(c echo.Context) error {
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "JobPilot API is running"})
}

// HealthCheck reports healthy only when the database answers
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			logger.FromEcho(c).Error("Health check failed", zap.Error(err))
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"service": h.serviceName,
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": h.serviceName,
	})
}

// Metrics exposes the Prometheus registry
func (h *HealthHandler) Metrics(c echo.Context) error {
	prometheus.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}
