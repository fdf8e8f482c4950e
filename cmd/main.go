package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobpilot-service/internal/app"
	"jobpilot-service/pkg/config"
	"jobpilot-service/pkg/database"
	"jobpilot-service/pkg/logger"
	"jobpilot-service/pkg/storage"
	"jobpilot-service/prometheus"

	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	if err := logger.InitLogger(cfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()
	log.Info("Starting JobPilot service...", zap.String("environment", cfg.Server.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(ctx, &cfg.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database connection established")

	if cfg.JWT.SigningKey == "" {
		log.Warn("JWT_SECRET is not set; register, login and protected routes will fail")
	}

	var uploader storage.Uploader
	if cfg.Storage.Bucket == "" {
		log.Warn("AWS_S3_BUCKET_NAME is not set; company logo uploads will fail")
	} else {
		s3Uploader, err := storage.NewS3Uploader(ctx, &cfg.Storage)
		if err != nil {
			log.Fatal("Failed to initialize S3 uploader", zap.Error(err))
		}
		uploader = s3Uploader
	}

	prometheus.Register()

	application := app.New(cfg, app.GormStores(db), uploader, app.DBPinger(db))
	e := application.Router()

	go func() {
		log.Info("Starting server", zap.String("port", cfg.Server.Port))
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
}
