package app

import (
	"context"

	"spotless/config"
	"spotless/internal/controllers"
	"spotless/internal/database"
	"spotless/internal/events"
	"spotless/internal/handlers/middleware"
	"spotless/internal/jobs"
	"spotless/internal/repositories"
	"spotless/internal/services"
	"spotless/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)

	repos := repositories.New(db)

	svcs, err := services.New(db, config, repos)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	websocket, err := websockets.New(eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, eventBus, config, repos, svcs.Token)
	ctrls := controllers.New(svcs, repos, eventBus, config)

	// Register jobs with scheduler if enabled
	if config.SchedulerEnabled {
		trialExpiryJob := jobs.NewTrialExpiryJob(repos.Company, eventBus)
		if err := svcs.Scheduler.AddJob(trialExpiryJob); err != nil {
			return &App{}, log.Err("failed to register trial expiry job", err)
		}

		reportRepairJob := jobs.NewReportRepairJob(repos.Schedule, eventBus)
		if err := svcs.Scheduler.AddJob(reportRepairJob); err != nil {
			return &App{}, log.Err("failed to register report repair job", err)
		}

		if err := svcs.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Services:    svcs,
		Repos:       repos,
		Controllers: ctrls,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.Transaction,
		a.Services.Conflict,
		a.Services.Token,
		a.Services.Scheduler,
		a.Repos.Company,
		a.Repos.Profile,
		a.Repos.Cleaner,
		a.Repos.Client,
		a.Repos.Schedule,
		a.Repos.Report,
		a.Controllers.Company,
		a.Controllers.Directory,
		a.Controllers.Schedule,
		a.Controllers.Report,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
