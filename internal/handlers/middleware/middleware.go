package middleware

import (
	"spotless/config"
	"spotless/internal/database"
	"spotless/internal/events"
	"spotless/internal/repositories"
	"spotless/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type Middleware struct {
	DB           database.DB
	profileRepo  repositories.ProfileRepository
	companyRepo  repositories.CompanyRepository
	tokenService *services.TokenService
	Config       config.Config
	log          logger.Logger
	eventBus     *events.EventBus
}

func New(
	db database.DB,
	eventBus *events.EventBus,
	config config.Config,
	repos repositories.Repository,
	tokenService *services.TokenService,
) Middleware {
	log := logger.New("middleware")

	return Middleware{
		DB:           db,
		profileRepo:  repos.Profile,
		companyRepo:  repos.Company,
		tokenService: tokenService,
		Config:       config,
		log:          log,
		eventBus:     eventBus,
	}
}
