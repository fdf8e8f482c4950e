package app

import (
	"context"

	"jobpilot-service/internal/handler"
	"jobpilot-service/internal/repository"
	"jobpilot-service/internal/service"
	"jobpilot-service/internal/validation"
	"jobpilot-service/pkg/config"
	"jobpilot-service/pkg/database"
	"jobpilot-service/pkg/jwtutil"
	"jobpilot-service/pkg/storage"

	"gorm.io/gorm"
)

// Stores groups the persistence the services run on
type Stores struct {
	Users     service.UserStore
	Companies service.CompanyStore
	Jobs      service.JobStore
}

// GormStores returns the Postgres-backed stores
func GormStores(db *gorm.DB) Stores {
	return Stores{
		Users:     repository.NewUserRepository(db),
		Companies: repository.NewCompanyRepository(db),
		Jobs:      repository.NewJobRepository(db),
	}
}

type gormPinger struct {
	db *gorm.DB
}

func (p gormPinger) Ping(ctx context.Context) error {
	return database.Ping(ctx, p.db)
}

// DBPinger adapts a gorm connection for the health check
func DBPinger(db *gorm.DB) handler.Pinger {
	return gormPinger{db: db}
}

// App holds the process-wide collaborators, built once at startup
type App struct {
	Config *config.Config
	Stores Stores
	JWT    *jwtutil.JWTUtil

	Auth      *service.AuthService
	Companies *service.CompanyService
	Jobs      *service.JobService

	db handler.Pinger
}

// New wires services over stores. uploader may be nil, in which case logo
// uploads fail with a server error; db may be nil to skip the health ping.
func New(cfg *config.Config, stores Stores, uploader storage.Uploader, db handler.Pinger) *App {
	v := validation.New()
	tokens := jwtutil.NewJWTUtil(&cfg.JWT)

	return &App{
		Config:    cfg,
		Stores:    stores,
		JWT:       tokens,
		Auth:      service.NewAuthService(stores.Users, tokens, v),
		Companies: service.NewCompanyService(stores.Companies, uploader, v, cfg.Storage.MaxLogoBytes),
		Jobs:      service.NewJobService(stores.Jobs, stores.Companies, v),
		db:        db,
	}
}
