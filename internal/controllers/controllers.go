package controllers

import (
	"spotless/config"
	"spotless/internal/events"
	"spotless/internal/repositories"
	"spotless/internal/services"

	companyController "spotless/internal/controllers/company"
	directoryController "spotless/internal/controllers/directory"
	reportController "spotless/internal/controllers/report"
	scheduleController "spotless/internal/controllers/schedule"
)

type Controllers struct {
	Company   companyController.CompanyControllerInterface
	Directory directoryController.DirectoryControllerInterface
	Schedule  scheduleController.ScheduleControllerInterface
	Report    reportController.ReportControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
) Controllers {
	return Controllers{
		Company:   companyController.New(repos, services.Transaction, eventBus, config),
		Directory: directoryController.New(repos),
		Schedule:  scheduleController.New(repos, services.Conflict, services.Transaction, eventBus),
		Report:    reportController.New(repos, services.Transaction, eventBus),
	}
}
