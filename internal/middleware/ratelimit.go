package middleware

import (
	"net/http"
	"time"

	"jobpilot-service/internal/dto"
	"jobpilot-service/pkg/config"
	"jobpilot-service/pkg/logger"
	"jobpilot-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// AuthRateLimit limits register and login attempts per client IP. A
// non-positive rate disables it.
func AuthRateLimit(cfg config.RateLimitConfig) echo.MiddlewareFunc {
	if cfg.AuthRPS <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.AuthRPS),
		Burst:     cfg.AuthBurst,
		ExpiresIn: 3 * time.Minute,
	})

	return echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusForbidden, dto.MessageResponse{Message: "Unable to identify client."})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			logger.FromEcho(c).Warn("Auth rate limit exceeded", zap.String("ip", identifier))
			prometheus.RecordAuthError("rate_limited")
			return c.JSON(http.StatusTooManyRequests, dto.MessageResponse{Message: "Too many requests. Please try again later."})
		},
	})
}
