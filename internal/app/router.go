package app

import (
	"fmt"
	"net/http"

	"jobpilot-service/internal/handler"
	"jobpilot-service/internal/middleware"
	"jobpilot-service/pkg/logger"
	"jobpilot-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// multipart overhead allowed on top of the logo itself
const formFieldAllowance = 1 << 20

// Router builds the HTTP server with all routes mounted
func (a *App) Router() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	// Apply global middleware - order matters
	e.Use(middleware.RequestID())
	e.Use(logger.Middleware())
	e.Use(prometheus.Middleware(a.Config.Metrics.ServiceName))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{a.Config.CORS.ClientURL},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	health := handler.NewHealthHandler(a.db, a.Config.Metrics.ServiceName)
	authHandler := handler.NewAuthHandler(a.Auth)
	companyHandler := handler.NewCompanyHandler(a.Companies)
	jobHandler := handler.NewJobHandler(a.Jobs)

	protect := middleware.Protect(a.JWT, a.Stores.Users)

	// Public routes
	e.GET("/", health.Root)
	e.GET("/health", health.HealthCheck)
	e.GET("/metrics", health.Metrics)

	api := e.Group("/api")

	auth := api.Group("/auth", middleware.AuthRateLimit(a.Config.RateLimit))
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	company := api.Group("/company")
	company.POST("/setup", companyHandler.Setup, protect,
		echomiddleware.BodyLimit(fmt.Sprintf("%dB", a.Config.Storage.MaxLogoBytes+formFieldAllowance)))
	company.GET("/my-company", companyHandler.GetMine, protect)

	jobs := api.Group("/jobs")
	jobs.POST("", jobHandler.Create, protect)
	jobs.GET("/my-jobs", jobHandler.ListMine, protect)
	jobs.GET("/:id", jobHandler.Get)
	jobs.PUT("/:id", jobHandler.Update, protect)
	jobs.DELETE("/:id", jobHandler.Delete, protect)

	return e
}
